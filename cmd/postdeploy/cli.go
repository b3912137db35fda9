package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kong"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/sirupsen/logrus"

	"github.com/30Piraten/notify-booth-update/config"
	"github.com/30Piraten/notify-booth-update/internal/awsclient"
	"github.com/30Piraten/notify-booth-update/internal/functionenv"
	"github.com/30Piraten/notify-booth-update/internal/injector"
	"github.com/30Piraten/notify-booth-update/internal/logging"
	"github.com/30Piraten/notify-booth-update/internal/secrets"
)

// CLI is parsed by kong. Every flag has an environment fallback so the
// command runs with no arguments. The region comes from STACK_REGION, not
// AWS_REGION, so the operator's shell region never redirects the lookup.
type CLI struct {
	StackName     string        `name:"stack-name" env:"STACK_NAME" default:"NotifyBoothUpdateInfraStack" help:"Stack that exports KeyId and FunctionName"`
	Region        string        `env:"STACK_REGION" default:"ap-northeast-1" help:"AWS region of the stack"`
	EnvFile       string        `name:"env-file" type:"path" help:"Path to .env file"`
	SlackSecretID string        `name:"slack-secret-id" env:"SLACK_SECRET_ID" help:"Secrets Manager secret with slack_url and slack_channel"`
	Wait          time.Duration `env:"WAIT_FOR_UPDATE" default:"0s" help:"Wait up to this long for the function update to finish"`
}

type slackResolver interface {
	Resolve(ctx context.Context, secretID string, fallback secrets.Slack) (secrets.Slack, error)
}

type secretInjector interface {
	Run(ctx context.Context, slack secrets.Slack) error
}

var (
	loadAWSConfig = awsclient.Load
	newServices   = buildServices
)

func buildServices(cfg aws.Config, cli CLI, logger logrus.FieldLogger) (slackResolver, secretInjector) {
	outputs := injector.CloudFormationOutputs{API: cloudformation.NewFromConfig(cfg)}
	cipher := secrets.NewCipher(kms.NewFromConfig(cfg))
	env := functionenv.NewRepository(lambda.NewFromConfig(cfg), cli.Wait, logger)

	return secrets.NewSource(secretsmanager.NewFromConfig(cfg), logger),
		injector.New(cli.StackName, outputs, cipher, env, logger)
}

func parse(args []string) (CLI, error) {
	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("postdeploy"),
		kong.Description("Inject KMS-encrypted Slack settings into the deployed function."),
	)
	if err != nil {
		return CLI{}, err
	}
	if _, err := parser.Parse(args); err != nil {
		return CLI{}, err
	}
	return cli, nil
}

// run returns the process exit code. Every failure is fatal.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	logger := logging.New(stderr)

	cli, err := parse(args)
	if err != nil {
		logger.WithError(err).Error("invalid arguments")
		return 1
	}

	// env-backed flag defaults must see the file's values, so parse again
	if err := config.LoadDotEnv(cli.EnvFile); err != nil {
		logger.WithError(err).Error("load env file")
		return 1
	}
	if cli, err = parse(args); err != nil {
		logger.WithError(err).Error("invalid arguments")
		return 1
	}
	logger = logging.New(stderr)

	if err := inject(ctx, cli, logger); err != nil {
		logger.WithError(err).Error("post deploy failed")
		return 1
	}
	return 0
}

func inject(ctx context.Context, cli CLI, logger logrus.FieldLogger) error {
	awsCfg, err := loadAWSConfig(ctx, cli.Region)
	if err != nil {
		return err
	}

	resolver, inj := newServices(awsCfg, cli, logger)

	slack, err := resolver.Resolve(ctx, cli.SlackSecretID, secrets.FromEnv())
	if err != nil {
		return fmt.Errorf("resolve slack settings: %w", err)
	}
	return inj.Run(ctx, slack)
}
