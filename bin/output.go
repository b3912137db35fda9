package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
)

// The output ids are read back by cmd/postdeploy.
func createStackOutputs(resources *StackResources) {
	awscdk.NewCfnOutput(resources.stack, jsii.String("FunctionName"), &awscdk.CfnOutputProps{
		Value: resources.function.FunctionName(),
	})

	awscdk.NewCfnOutput(resources.stack, jsii.String("KeyId"), &awscdk.CfnOutputProps{
		Value: resources.keyAlias.KeyId(),
	})
}
