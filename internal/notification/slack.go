package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/30Piraten/notify-booth-update/internal/logging"
)

// Poster sends a message to a chat channel through a webhook.
type Poster interface {
	Post(ctx context.Context, webhookURL, channel, text string) error
}

// SlackClient posts to Slack-compatible incoming webhooks.
type SlackClient struct {
	httpClient *retryablehttp.Client
	logger     logrus.FieldLogger
}

// SlackClientConfig holds configuration for the Slack client.
type SlackClientConfig struct {
	Timeout time.Duration
	// MaxRetries is the total number of attempts.
	MaxRetries int
	// Backoff is the delay before the first retry; it doubles each attempt.
	Backoff time.Duration
	// Transport replaces the pooled default transport, e.g. with a traced one.
	Transport http.RoundTripper
	Logger    logrus.FieldLogger
}

type slackRequest struct {
	Text        string `json:"text"`
	ChannelName string `json:"channelName"`
}

func NewSlackClient(config SlackClientConfig) *SlackClient {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.Backoff == 0 {
		config.Backoff = time.Second
	}
	logger := logging.OrStandard(config.Logger)
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = config.Timeout
	if config.Transport != nil {
		retryClient.HTTPClient.Transport = config.Transport
	}
	retryClient.RetryMax = config.MaxRetries - 1
	retryClient.RetryWaitMin = config.Backoff
	retryClient.RetryWaitMax = config.Backoff << (config.MaxRetries - 1)
	// the library logs request URLs and the webhook URL carries the credential
	retryClient.Logger = nil
	retryClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			logger.WithFields(logrus.Fields{
				"attempt":     attempt + 1,
				"max_retries": config.MaxRetries,
			}).Debug("retrying slack post")
		}
	}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &SlackClient{
		httpClient: retryClient,
		logger:     logger,
	}
}

// Post sends text to channel. Connection errors and 5xx/429 responses are
// retried with exponential backoff; other non-2xx responses fail at once.
func (c *SlackClient) Post(ctx context.Context, webhookURL, channel, text string) error {
	body, err := json.Marshal(slackRequest{Text: text, ChannelName: channel})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, webhookURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return fmt.Errorf("post slack message: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithField("status", resp.StatusCode).Warn("slack webhook rejected message")
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}

// FormatMessage renders the announcement for newly listed items.
func FormatMessage(shopURL string, newURLs []string) string {
	var sb strings.Builder
	fmt.Fprintln(&sb, "# Booth updated!!!")
	fmt.Fprintln(&sb, "## Store URL")
	fmt.Fprintln(&sb, shopURL)
	fmt.Fprintln(&sb, "## New item URLs")
	for _, u := range newURLs {
		fmt.Fprintf(&sb, "- %s\n", u)
	}
	return sb.String()
}
