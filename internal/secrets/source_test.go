package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsManager struct {
	value *string
	err   error
	calls int
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value}, nil
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SLACK_URL", "https://hooks.example.com/x")
	t.Setenv("SLACK_CHANNEL", "")

	s := FromEnv()
	assert.Equal(t, "https://hooks.example.com/x", s.URL)
	assert.Equal(t, "", s.Channel)
}

func TestSourceResolveWithoutSecretID(t *testing.T) {
	client := &fakeSecretsManager{}
	fallback := Slack{URL: "u", Channel: "c"}

	got, err := NewSource(client, nil).Resolve(context.Background(), "", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)
	assert.Zero(t, client.calls)
}

func TestSourceResolveOverridesFallback(t *testing.T) {
	client := &fakeSecretsManager{value: aws.String(`{"slack_url":"https://hooks.example.com/secret"}`)}

	got, err := NewSource(client, nil).Resolve(context.Background(), "booth/slack", Slack{URL: "env-url", Channel: "env-channel"})
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/secret", got.URL)
	assert.Equal(t, "env-channel", got.Channel)
}

func TestSourceResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeSecretsManager
	}{
		{name: "service error", client: &fakeSecretsManager{err: errors.New("ResourceNotFoundException")}},
		{name: "binary secret", client: &fakeSecretsManager{}},
		{name: "invalid json", client: &fakeSecretsManager{value: aws.String("not json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSource(tt.client, nil).Resolve(context.Background(), "booth/slack", Slack{})
			assert.Error(t, err)
		})
	}
}
