package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

const maxAttempts = 3

// Load resolves the default credential chain for region. Credential errors
// surface here rather than on the first API call.
func Load(ctx context.Context, region string) (aws.Config, error) {
	setRetryMode := func(options *config.LoadOptions) error {
		options.RetryMaxAttempts = maxAttempts
		options.RetryMode = aws.RetryModeStandard
		return nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region), setRetryMode)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load AWS config: %w", err)
	}

	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return aws.Config{}, fmt.Errorf("resolve AWS credentials: %w", err)
	}

	return cfg, nil
}
