package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/30Piraten/notify-booth-update/internal/secrets"
)

type fakeResolver struct {
	secretID string
	err      error
}

func (f *fakeResolver) Resolve(_ context.Context, secretID string, fallback secrets.Slack) (secrets.Slack, error) {
	f.secretID = secretID
	return fallback, f.err
}

type fakeInjector struct {
	slack secrets.Slack
	calls int
	err   error
}

func (f *fakeInjector) Run(_ context.Context, slack secrets.Slack) error {
	f.calls++
	f.slack = slack
	return f.err
}

type harness struct {
	region   string
	cli      CLI
	resolver *fakeResolver
	injector *fakeInjector
}

func stubServices(t *testing.T, configErr error) *harness {
	t.Helper()
	origLoad := loadAWSConfig
	origServices := newServices
	t.Cleanup(func() {
		loadAWSConfig = origLoad
		newServices = origServices
	})

	h := &harness{resolver: &fakeResolver{}, injector: &fakeInjector{}}
	loadAWSConfig = func(_ context.Context, region string) (aws.Config, error) {
		h.region = region
		return aws.Config{Region: region}, configErr
	}
	newServices = func(_ aws.Config, cli CLI, _ logrus.FieldLogger) (slackResolver, secretInjector) {
		h.cli = cli
		return h.resolver, h.injector
	}
	return h
}

func clearEnv(t *testing.T) {
	for _, key := range []string{"STACK_NAME", "STACK_REGION", "AWS_REGION", "SLACK_SECRET_ID", "WAIT_FOR_UPDATE", "SLACK_URL", "SLACK_CHANNEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestRunWithoutArguments(t *testing.T) {
	clearEnv(t)
	t.Setenv("SLACK_URL", "https://hooks.example.com/x")
	t.Setenv("SLACK_CHANNEL", "#booth")
	h := stubServices(t, nil)

	code := run(context.Background(), nil, &bytes.Buffer{})

	assert.Equal(t, 0, code)
	assert.Equal(t, "ap-northeast-1", h.region)
	assert.Equal(t, "NotifyBoothUpdateInfraStack", h.cli.StackName)
	assert.Zero(t, h.cli.Wait)
	assert.Equal(t, 1, h.injector.calls)
	assert.Equal(t, secrets.Slack{URL: "https://hooks.example.com/x", Channel: "#booth"}, h.injector.slack)
}

func TestRunFlags(t *testing.T) {
	clearEnv(t)
	h := stubServices(t, nil)

	code := run(context.Background(), []string{
		"--stack-name", "Other", "--region", "us-east-1", "--slack-secret-id", "booth/slack", "--wait", "30s",
	}, &bytes.Buffer{})

	assert.Equal(t, 0, code)
	assert.Equal(t, "us-east-1", h.region)
	assert.Equal(t, "Other", h.cli.StackName)
	assert.Equal(t, 30*time.Second, h.cli.Wait)
	assert.Equal(t, "booth/slack", h.resolver.secretID)
}

func TestRunRegion(t *testing.T) {
	tests := []struct {
		name        string
		awsRegion   string
		stackRegion string
		want        string
	}{
		{name: "shell region ignored", awsRegion: "us-west-2", want: "ap-northeast-1"},
		{name: "stack region override", awsRegion: "us-west-2", stackRegion: "eu-west-1", want: "eu-west-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("AWS_REGION", tt.awsRegion)
			if tt.stackRegion != "" {
				t.Setenv("STACK_REGION", tt.stackRegion)
			}
			h := stubServices(t, nil)

			code := run(context.Background(), nil, &bytes.Buffer{})

			assert.Equal(t, 0, code)
			assert.Equal(t, tt.want, h.region)
		})
	}
}

func TestRunEnvFile(t *testing.T) {
	clearEnv(t)
	h := stubServices(t, nil)
	path := filepath.Join(t.TempDir(), "deploy.env")
	require.NoError(t, os.WriteFile(path, []byte("STACK_NAME=FromFile\nSLACK_CHANNEL=#file\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("STACK_NAME")
		os.Unsetenv("SLACK_CHANNEL")
	})

	code := run(context.Background(), []string{"--env-file", path}, &bytes.Buffer{})

	assert.Equal(t, 0, code)
	assert.Equal(t, "FromFile", h.cli.StackName)
	assert.Equal(t, "#file", h.injector.slack.Channel)
}

func TestRunFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		args      []string
		configErr error
		setup     func(*harness)
		wantRuns  int
	}{
		{name: "unknown flag", args: []string{"--nope"}},
		{name: "missing env file", args: []string{"--env-file", "/does/not/exist.env"}},
		{name: "credentials", configErr: boom},
		{name: "secret lookup", setup: func(h *harness) { h.resolver.err = boom }},
		{name: "injection", setup: func(h *harness) { h.injector.err = boom }, wantRuns: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			h := stubServices(t, tt.configErr)
			if tt.setup != nil {
				tt.setup(h)
			}
			var stderr bytes.Buffer

			code := run(context.Background(), tt.args, &stderr)

			assert.Equal(t, 1, code)
			assert.Equal(t, tt.wantRuns, h.injector.calls)
			assert.Contains(t, stderr.String(), `"level":"error"`)
		})
	}
}
