// Package functionenv reads and replaces the environment of a deployed
// Lambda function.
package functionenv

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/sirupsen/logrus"

	"github.com/30Piraten/notify-booth-update/internal/logging"
)

// LambdaAPI is the part of the Lambda client used here.
type LambdaAPI interface {
	GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
	GetFunctionConfiguration(ctx context.Context, params *lambda.GetFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionConfigurationOutput, error)
	UpdateFunctionConfiguration(ctx context.Context, params *lambda.UpdateFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionConfigurationOutput, error)
}

// Repository wraps environment reads and writes for functions.
type Repository struct {
	client  LambdaAPI
	logger  logrus.FieldLogger
	maxWait time.Duration
}

// NewRepository returns a Repository. A positive maxWait makes Update block
// until the function reports a successful update.
func NewRepository(client LambdaAPI, maxWait time.Duration, logger logrus.FieldLogger) *Repository {
	return &Repository{client: client, logger: logging.OrStandard(logger), maxWait: maxWait}
}

// Variables returns a copy of the function's environment. A function with
// no environment yields an empty map.
func (r *Repository) Variables(ctx context.Context, functionName string) (map[string]string, error) {
	out, err := r.client.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(functionName),
	})
	if err != nil {
		return nil, fmt.Errorf("get function %s: %w", functionName, err)
	}

	vars := map[string]string{}
	if out.Configuration != nil && out.Configuration.Environment != nil {
		for k, v := range out.Configuration.Environment.Variables {
			vars[k] = v
		}
	}
	return vars, nil
}

// Update replaces the function's environment with vars in one call.
func (r *Repository) Update(ctx context.Context, functionName string, vars map[string]string) error {
	_, err := r.client.UpdateFunctionConfiguration(ctx, &lambda.UpdateFunctionConfigurationInput{
		FunctionName: aws.String(functionName),
		Environment: &types.Environment{
			Variables: vars,
		},
	})
	if err != nil {
		return fmt.Errorf("update function configuration %s: %w", functionName, err)
	}

	r.logger.WithFields(logrus.Fields{
		"function":  functionName,
		"variables": len(vars),
	}).Info("function environment updated")

	if r.maxWait <= 0 {
		return nil
	}

	waiter := lambda.NewFunctionUpdatedWaiter(r.client)
	if err := waiter.Wait(ctx, &lambda.GetFunctionConfigurationInput{
		FunctionName: aws.String(functionName),
	}, r.maxWait); err != nil {
		return fmt.Errorf("wait for function %s update: %w", functionName, err)
	}
	return nil
}
