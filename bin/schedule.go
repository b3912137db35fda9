package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsevents"
	"github.com/aws/aws-cdk-go/awscdk/v2/awseventstargets"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/jsii-runtime-go"
)

const scheduleMinutes = 3

func createScheduleRule(stack awscdk.Stack, lambdaFunction awslambda.IFunction) awsevents.Rule {
	rule := awsevents.NewRule(stack, jsii.String("Rule"), &awsevents.RuleProps{
		Schedule: awsevents.Schedule_Rate(awscdk.Duration_Minutes(jsii.Number(scheduleMinutes))),
	})
	rule.AddTarget(awseventstargets.NewLambdaFunction(lambdaFunction, nil))

	return rule
}
