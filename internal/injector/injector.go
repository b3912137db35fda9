// Package injector encrypts the Slack settings under the stack's key and
// writes them into the deployed function's environment.
package injector

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/30Piraten/notify-booth-update/config"
	"github.com/30Piraten/notify-booth-update/internal/logging"
	"github.com/30Piraten/notify-booth-update/internal/secrets"
	"github.com/30Piraten/notify-booth-update/internal/stackoutput"
)

// Output keys exported by the stack.
const (
	OutputKeyID        = "KeyId"
	OutputFunctionName = "FunctionName"
)

// OutputFetcher returns the outputs of a stack.
type OutputFetcher interface {
	Fetch(ctx context.Context, stackName string) (stackoutput.Outputs, error)
}

// Encrypter encrypts plaintext under a KMS key.
type Encrypter interface {
	Encrypt(ctx context.Context, keyID, plaintext string) (string, error)
}

// Environment reads and replaces a function's environment.
type Environment interface {
	Variables(ctx context.Context, functionName string) (map[string]string, error)
	Update(ctx context.Context, functionName string, vars map[string]string) error
}

// Injector runs the post-deploy steps in order. Nothing runs concurrently
// and the first error stops the run.
type Injector struct {
	stackName string
	outputs   OutputFetcher
	encrypter Encrypter
	env       Environment
	logger    logrus.FieldLogger
}

func New(stackName string, outputs OutputFetcher, encrypter Encrypter, env Environment, logger logrus.FieldLogger) *Injector {
	return &Injector{
		stackName: stackName,
		outputs:   outputs,
		encrypter: encrypter,
		env:       env,
		logger:    logging.OrStandard(logger),
	}
}

// Run injects the encrypted settings. A failed update leaves the function's
// previous environment in place; there is no rollback or retry.
func (i *Injector) Run(ctx context.Context, slack secrets.Slack) error {
	outputs, err := i.outputs.Fetch(ctx, i.stackName)
	if err != nil {
		return fmt.Errorf("fetch stack outputs: %w", err)
	}
	keyID, err := outputs.Require(OutputKeyID)
	if err != nil {
		return err
	}
	functionName, err := outputs.Require(OutputFunctionName)
	if err != nil {
		return err
	}

	i.logger.WithFields(logrus.Fields{
		"stack":    i.stackName,
		"key_id":   keyID,
		"function": functionName,
	}).Info("stack outputs resolved")

	urlCiphertext, err := i.encrypter.Encrypt(ctx, keyID, slack.URL)
	if err != nil {
		return fmt.Errorf("encrypt slack url: %w", err)
	}
	channelCiphertext, err := i.encrypter.Encrypt(ctx, keyID, slack.Channel)
	if err != nil {
		return fmt.Errorf("encrypt slack channel: %w", err)
	}

	vars, err := i.env.Variables(ctx, functionName)
	if err != nil {
		return fmt.Errorf("read function environment: %w", err)
	}

	vars[config.EnvEncryptedSlackURL] = urlCiphertext
	vars[config.EnvEncryptedSlackChannel] = channelCiphertext

	if err := i.env.Update(ctx, functionName, vars); err != nil {
		return fmt.Errorf("update function environment: %w", err)
	}
	return nil
}

// CloudFormationOutputs adapts stackoutput.Fetch to OutputFetcher.
type CloudFormationOutputs struct {
	API stackoutput.DescribeStacksAPI
}

func (c CloudFormationOutputs) Fetch(ctx context.Context, stackName string) (stackoutput.Outputs, error) {
	return stackoutput.Fetch(ctx, c.API, stackName)
}
