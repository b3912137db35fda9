package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/sirupsen/logrus"

	"github.com/30Piraten/notify-booth-update/internal/logging"
)

// Slack holds the plaintext webhook settings that get encrypted into the
// function environment.
type Slack struct {
	URL     string
	Channel string
}

// FromEnv reads SLACK_URL and SLACK_CHANNEL. Unset values are empty.
func FromEnv() Slack {
	return Slack{
		URL:     os.Getenv("SLACK_URL"),
		Channel: os.Getenv("SLACK_CHANNEL"),
	}
}

// SecretsManagerAPI is the part of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type slackSecret struct {
	URL     string `json:"slack_url"`
	Channel string `json:"slack_channel"`
}

// Source resolves Slack settings from a Secrets Manager secret, falling
// back to the environment for fields the secret leaves empty.
type Source struct {
	client SecretsManagerAPI
	logger logrus.FieldLogger
}

func NewSource(client SecretsManagerAPI, logger logrus.FieldLogger) *Source {
	return &Source{client: client, logger: logging.OrStandard(logger)}
}

// Resolve returns fallback unchanged when secretID is empty.
func (s *Source) Resolve(ctx context.Context, secretID string, fallback Slack) (Slack, error) {
	if secretID == "" {
		return fallback, nil
	}

	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return Slack{}, fmt.Errorf("get secret value: %w", err)
	}
	if result.SecretString == nil {
		return Slack{}, fmt.Errorf("secret has no string value")
	}

	var parsed slackSecret
	if err := json.Unmarshal([]byte(*result.SecretString), &parsed); err != nil {
		return Slack{}, fmt.Errorf("parse secret JSON: %w", err)
	}

	// never log the secret id or values
	s.logger.WithFields(logrus.Fields{
		"url_from_secret":     parsed.URL != "",
		"channel_from_secret": parsed.Channel != "",
	}).Debug("slack settings loaded from secrets manager")

	out := fallback
	if parsed.URL != "" {
		out.URL = parsed.URL
	}
	if parsed.Channel != "" {
		out.Channel = parsed.Channel
	}
	return out, nil
}
