package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	DefaultRegion    = "ap-northeast-1"
	DefaultStackName = "NotifyBoothUpdateInfraStack"
	DefaultAssetDir  = "build/notifier"
)

// Environment variable names shared by the stack and the function.
const (
	EnvS3Bucket              = "S3_BUCKET"
	EnvS3Key                 = "S3_KEY"
	EnvBoothURL              = "BOOTH_URL"
	EnvEncryptedSlackURL     = "ENCRYPTED_SLACK_URL"
	EnvEncryptedSlackChannel = "ENCRYPTED_SLACK_CHANNEL"
	EnvLogLevel              = "LOG_LEVEL"
)

// RequireEnv returns the value of key or an error naming the missing variable.
func RequireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s environment variable is required", key)
	}
	return value, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// LoadDotEnv loads variables from path. An empty path means ".env" in the
// working directory, which is optional.
func LoadDotEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load()
}

// Region returns AWS_REGION or the default region the stack is deployed to.
func Region() string {
	return getEnv("AWS_REGION", DefaultRegion)
}
