package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlackClientDefaults(t *testing.T) {
	client := NewSlackClient(SlackClientConfig{})

	assert.Equal(t, 10*time.Second, client.httpClient.HTTPClient.Timeout)
	assert.Equal(t, 2, client.httpClient.RetryMax)
	assert.Equal(t, time.Second, client.httpClient.RetryWaitMin)
	assert.Equal(t, 4*time.Second, client.httpClient.RetryWaitMax)
	assert.NotNil(t, client.logger)
}

func TestPostSendsJSON(t *testing.T) {
	var got slackRequest
	var contentType, method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewSlackClient(SlackClientConfig{MaxRetries: 1})
	require.NoError(t, client.Post(context.Background(), server.URL, "#booth", "hello"))

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, slackRequest{Text: "hello", ChannelName: "#booth"}, got)
}

type countingTransport struct {
	calls int32
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	atomic.AddInt32(&c.calls, 1)
	return http.DefaultTransport.RoundTrip(r)
}

func TestPostUsesConfiguredTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	transport := &countingTransport{}
	client := NewSlackClient(SlackClientConfig{MaxRetries: 1, Transport: transport})
	require.NoError(t, client.Post(context.Background(), server.URL, "c", "t"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&transport.calls))
}

func TestPostRetriesThenSucceeds(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewSlackClient(SlackClientConfig{MaxRetries: 3, Backoff: time.Millisecond})
	require.NoError(t, client.Post(context.Background(), server.URL, "c", "t"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestPostFailsAfterRetries(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewSlackClient(SlackClientConfig{MaxRetries: 2, Backoff: time.Millisecond})
	err := client.Post(context.Background(), server.URL, "c", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "upstream down")
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestPostDoesNotRetryClientErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewSlackClient(SlackClientConfig{MaxRetries: 3, Backoff: time.Millisecond})
	err := client.Post(context.Background(), server.URL, "c", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "invalid_token")
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestPostStopsOnCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewSlackClient(SlackClientConfig{MaxRetries: 3, Backoff: time.Hour})
	err := client.Post(ctx, server.URL, "c", "t")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatMessage(t *testing.T) {
	got := FormatMessage("https://shop.booth.pm", []string{
		"https://shop.booth.pm/items/1",
		"https://shop.booth.pm/items/2",
	})

	want := "# Booth updated!!!\n" +
		"## Store URL\n" +
		"https://shop.booth.pm\n" +
		"## New item URLs\n" +
		"- https://shop.booth.pm/items/1\n" +
		"- https://shop.booth.pm/items/2\n"
	assert.Equal(t, want, got)
}
