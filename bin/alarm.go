package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatchactions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssns"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const (
	errorLogNamespace = "notify-booth-update"
	errorLogMetric    = "error-log"
	// logrus' JSON formatter writes the level in lower case
	errorLogPattern = `{ $.level = "error" }`
)

// createAlertingResources counts error log lines and mails the topic's
// subscribers when any appear.
func createAlertingResources(resources *StackResources, topic awssns.ITopic) {
	resources.logGroup.AddMetricFilter(jsii.String("MetricFilter"), &awslogs.MetricFilterOptions{
		MetricNamespace: jsii.String(errorLogNamespace),
		MetricName:      jsii.String(errorLogMetric),
		FilterPattern:   awslogs.FilterPattern_Literal(jsii.String(errorLogPattern)),
	})

	errorLogAlarm := alarm(resources.stack, "Alarm", awscloudwatch.NewMetric(&awscloudwatch.MetricProps{
		Namespace:  jsii.String(errorLogNamespace),
		MetricName: jsii.String(errorLogMetric),
		Statistic:  jsii.String("Sum"),
		Period:     awscdk.Duration_Minutes(jsii.Number(5)),
	}))
	errorLogAlarm.AddAlarmAction(awscloudwatchactions.NewSnsAction(topic))

	lambdaErrorsAlarm := createLambdaErrorAlarm(resources.stack, resources.function)
	lambdaErrorsAlarm.AddAlarmAction(awscloudwatchactions.NewSnsAction(topic))
}

func alarm(stack constructs.Construct, name string, metric awscloudwatch.IMetric) awscloudwatch.Alarm {
	return awscloudwatch.NewAlarm(stack, &name, &awscloudwatch.AlarmProps{
		Metric:             metric,
		Threshold:          jsii.Number(1),
		EvaluationPeriods:  jsii.Number(1),
		ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_OR_EQUAL_TO_THRESHOLD,
		TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
	})
}
