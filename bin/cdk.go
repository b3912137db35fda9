package main

import (
	"log"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/30Piraten/notify-booth-update/config"
)

func NewNotifyBoothUpdateStack(scope constructs.Construct, id string, props *NotifyBoothUpdateStackProps) awscdk.Stack {
	var cfg config.Stack
	if props != nil {
		cfg = props.Config
	}

	stack := initializeStack(scope, id, props)

	resources := &StackResources{
		stack: stack,
		cfg:   cfg,
	}
	resources.key, resources.keyAlias = createKey(stack)
	resources.bucket = createBucket(stack)
	resources.function = createLambdaResources(resources)

	createScheduleRule(stack, resources.function)

	if cfg.AlertingEnabled() {
		topic := createMonitoringResources(stack, cfg.AlertEmail)
		createAlertingResources(resources, topic)
	}

	createStackOutputs(resources)

	return stack
}

func main() {
	defer jsii.Close()

	if err := config.LoadDotEnv(""); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg := config.LoadStack()
	if !cfg.AlertingEnabled() {
		log.Printf("ALERT_EMAIL not set, error alarms are not created")
	}

	app := awscdk.NewApp(nil)
	NewNotifyBoothUpdateStack(app, cfg.StackName, &NotifyBoothUpdateStackProps{
		StackProps: awscdk.StackProps{
			Env: env(cfg),
		},
		Config: cfg,
	})

	app.Synth(nil)
}

func env(cfg config.Stack) *awscdk.Environment {
	if cfg.Account == "" {
		return &awscdk.Environment{Region: jsii.String(cfg.Region)}
	}
	return &awscdk.Environment{
		Account: jsii.String(cfg.Account),
		Region:  jsii.String(cfg.Region),
	}
}
