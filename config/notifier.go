package config

import (
	"fmt"
	"os"
)

// Notifier is the runtime configuration of the scheduled function.
type Notifier struct {
	Region                string
	Bucket                string
	Key                   string
	BoothURL              string
	EncryptedSlackURL     string
	EncryptedSlackChannel string
}

// LoadNotifier reads the function environment.
func LoadNotifier() *Notifier {
	return &Notifier{
		Region:                Region(),
		Bucket:                os.Getenv(EnvS3Bucket),
		Key:                   os.Getenv(EnvS3Key),
		BoothURL:              os.Getenv(EnvBoothURL),
		EncryptedSlackURL:     os.Getenv(EnvEncryptedSlackURL),
		EncryptedSlackChannel: os.Getenv(EnvEncryptedSlackChannel),
	}
}

// Validate checks the values the function cannot run without. The encrypted
// Slack values are only needed when there is something to post.
func (n *Notifier) Validate() error {
	if n.Bucket == "" {
		return fmt.Errorf("%s is required", EnvS3Bucket)
	}
	if n.Key == "" {
		return fmt.Errorf("%s is required", EnvS3Key)
	}
	if n.BoothURL == "" {
		return fmt.Errorf("%s is required", EnvBoothURL)
	}
	return nil
}
