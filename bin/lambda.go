package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3assets"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssqs"
	"github.com/aws/jsii-runtime-go"

	"github.com/30Piraten/notify-booth-update/config"
)

// Lambda related resources
func createLambdaResources(resources *StackResources) awslambda.Function {
	deadLetterQueue := createDeadLetterQueue(resources.stack)

	resources.logGroup = createLogGroup(resources.stack)

	lambdaFunction := createLambdaFunction(resources, deadLetterQueue)

	// The function decrypts the Slack settings and owns the seen-URL object
	resources.keyAlias.GrantEncryptDecrypt(lambdaFunction)
	resources.bucket.GrantReadWrite(lambdaFunction, nil)

	return lambdaFunction
}

// Failed scheduled invocations land here instead of being retried, a retry
// could post the same announcement twice.
func createDeadLetterQueue(stack awscdk.Stack) awssqs.IQueue {
	return awssqs.NewQueue(stack, jsii.String("LambdaDLQ"), &awssqs.QueueProps{
		RetentionPeriod: awscdk.Duration_Days(jsii.Number(7)),
		Encryption:      awssqs.QueueEncryption_SQS_MANAGED,
	})
}

func createLogGroup(stack awscdk.Stack) awslogs.ILogGroup {
	return awslogs.NewLogGroup(stack, jsii.String("LogGroup"), &awslogs.LogGroupProps{
		Retention:     awslogs.RetentionDays_ONE_WEEK,
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})
}

func createLambdaFunction(resources *StackResources, dlq awssqs.IQueue) awslambda.Function {
	cfg := resources.cfg

	return awslambda.NewFunction(resources.stack, jsii.String("Function"), &awslambda.FunctionProps{
		Runtime:         awslambda.Runtime_PROVIDED_AL2023(),
		Handler:         jsii.String("bootstrap"),
		Architecture:    awslambda.Architecture_ARM_64(),
		MemorySize:      jsii.Number(256),
		Timeout:         awscdk.Duration_Minutes(jsii.Number(1)),
		RetryAttempts:   jsii.Number(0),
		DeadLetterQueue: dlq,
		LogGroup:        resources.logGroup,
		Code:            awslambda.Code_FromAsset(jsii.String(cfg.AssetDir), &awss3assets.AssetOptions{}),
		Environment: &map[string]*string{
			config.EnvS3Bucket: resources.bucket.BucketName(),
			config.EnvS3Key:    jsii.String(cfg.S3Key),
			config.EnvBoothURL: jsii.String(cfg.BoothURL),
			// filled in by cmd/postdeploy
			config.EnvEncryptedSlackURL:     jsii.String(""),
			config.EnvEncryptedSlackChannel: jsii.String(""),
			config.EnvLogLevel:              jsii.String(cfg.LogLevel),
		},
		Tracing: awslambda.Tracing_ACTIVE,
	})
}

func createLambdaErrorAlarm(stack awscdk.Stack, lambdaFunction awslambda.Function) awscloudwatch.Alarm {
	return awscloudwatch.NewAlarm(stack, jsii.String("LambdaErrorsAlarm"), &awscloudwatch.AlarmProps{
		AlarmDescription: jsii.String("Alarm for notify-booth-update Lambda errors"),
		Metric: awscloudwatch.NewMetric(&awscloudwatch.MetricProps{
			Namespace:  jsii.String("AWS/Lambda"),
			MetricName: jsii.String("Errors"),
			Statistic:  jsii.String("Sum"),
			Period:     awscdk.Duration_Minutes(jsii.Number(5)),
			DimensionsMap: &map[string]*string{
				"FunctionName": lambdaFunction.FunctionName(),
			},
		}),
		EvaluationPeriods:  jsii.Number(1),
		Threshold:          jsii.Number(1),
		ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_OR_EQUAL_TO_THRESHOLD,
		TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
	})
}
