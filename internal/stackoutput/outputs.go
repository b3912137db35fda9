// Package stackoutput reads the exported values of a deployed stack.
package stackoutput

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
)

var (
	ErrStackNotFound  = errors.New("stack not found")
	ErrOutputNotFound = errors.New("stack output not found")
)

// DescribeStacksAPI is the part of the CloudFormation client used here.
type DescribeStacksAPI interface {
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
}

// Outputs maps output keys to values for one stack.
type Outputs struct {
	stackName string
	values    map[string]string
}

// Fetch returns the outputs of stackName.
func Fetch(ctx context.Context, api DescribeStacksAPI, stackName string) (Outputs, error) {
	resp, err := api.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return Outputs{}, fmt.Errorf("describe stack %s: %w", stackName, err)
	}
	if len(resp.Stacks) == 0 {
		return Outputs{}, fmt.Errorf("%w: %s", ErrStackNotFound, stackName)
	}

	values := make(map[string]string, len(resp.Stacks[0].Outputs))
	for _, o := range resp.Stacks[0].Outputs {
		if o.OutputKey == nil {
			continue
		}
		values[*o.OutputKey] = aws.ToString(o.OutputValue)
	}

	return Outputs{stackName: stackName, values: values}, nil
}

// New builds Outputs from a plain map.
func New(stackName string, values map[string]string) Outputs {
	return Outputs{stackName: stackName, values: values}
}

// Value returns the output named key, or "" when the stack has no such output.
func (o Outputs) Value(key string) string {
	return o.values[key]
}

// Require is Value that fails on a missing or empty output.
func (o Outputs) Require(key string) (string, error) {
	value := o.values[key]
	if value == "" {
		return "", fmt.Errorf("%w: %s in stack %s", ErrOutputNotFound, key, o.stackName)
	}
	return value, nil
}
