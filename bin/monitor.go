package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssns"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssnssubscriptions"
	"github.com/aws/jsii-runtime-go"
)

// Monitoring resources
func createMonitoringResources(stack awscdk.Stack, alertEmail string) awssns.ITopic {
	topic := awssns.NewTopic(stack, jsii.String("Topic"), &awssns.TopicProps{
		DisplayName: jsii.String("notify-booth-update alarms"),
	})

	topic.AddSubscription(awssnssubscriptions.NewEmailSubscription(jsii.String(alertEmail), nil))

	return topic
}
