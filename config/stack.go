package config

import "os"

// Stack holds the values the CDK app reads at synth time.
type Stack struct {
	Account    string
	Region     string
	StackName  string
	S3Key      string
	BoothURL   string
	AlertEmail string
	AssetDir   string
	LogLevel   string
}

// LoadStack reads the stack configuration. Unset values stay empty, the
// same as the deployed function would see them.
func LoadStack() Stack {
	return Stack{
		Account:    getEnv("ACCOUNT_ID", os.Getenv("CDK_DEFAULT_ACCOUNT")),
		Region:     getEnv("AWS_REGION", getEnv("CDK_DEFAULT_REGION", DefaultRegion)),
		StackName:  getEnv("STACK_NAME", DefaultStackName),
		S3Key:      os.Getenv(EnvS3Key),
		BoothURL:   os.Getenv(EnvBoothURL),
		AlertEmail: os.Getenv("ALERT_EMAIL"),
		AssetDir:   getEnv("LAMBDA_ASSET_DIR", DefaultAssetDir),
		LogLevel:   getEnv(EnvLogLevel, "INFO"),
	}
}

// AlertingEnabled reports whether the error-log alarm pipeline is created.
func (s Stack) AlertingEnabled() bool {
	return s.AlertEmail != ""
}
