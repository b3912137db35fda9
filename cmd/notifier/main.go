// Command notifier is the scheduled Lambda function that announces new
// BOOTH items.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"

	"github.com/30Piraten/notify-booth-update/config"
	"github.com/30Piraten/notify-booth-update/internal/awsclient"
	"github.com/30Piraten/notify-booth-update/internal/booth"
	"github.com/30Piraten/notify-booth-update/internal/logging"
	"github.com/30Piraten/notify-booth-update/internal/notification"
	"github.com/30Piraten/notify-booth-update/internal/notifier"
	"github.com/30Piraten/notify-booth-update/internal/secrets"
	"github.com/30Piraten/notify-booth-update/internal/store"
)

func main() {
	logger := logging.New(os.Stdout)

	cfg := config.LoadNotifier()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Error("invalid configuration")
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	xray.SetLogger(xraylog.NewDefaultLogger(os.Stderr, xraylog.LogLevelWarn))
	if err := xray.Configure(xray.Config{}); err != nil {
		logger.WithError(err).Error("failed to configure tracing")
		panic(fmt.Sprintf("failed to configure tracing: %v", err))
	}

	// clients are built once per container
	awsCfg, err := awsclient.Load(context.Background(), cfg.Region)
	if err != nil {
		logger.WithError(err).Error("failed to load AWS config")
		panic(fmt.Sprintf("failed to load AWS config: %v", err))
	}
	awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)

	handler := notifier.NewHandler(
		cfg,
		store.New(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Key),
		booth.NewScraper(logger),
		secrets.NewCipher(kms.NewFromConfig(awsCfg)),
		notification.NewSlackClient(notification.SlackClientConfig{
			Transport: xray.RoundTripper(http.DefaultTransport),
			Logger:    logger,
		}),
		logger,
	)

	lambda.Start(handler.Handle)
}
