package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awskms"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"

	"github.com/30Piraten/notify-booth-update/config"
)

type StackResources struct {
	stack    awscdk.Stack
	cfg      config.Stack
	key      awskms.IKey
	keyAlias awskms.IAlias
	bucket   awss3.IBucket
	logGroup awslogs.ILogGroup
	function awslambda.Function
}
