package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awskms"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/30Piraten/notify-booth-update/config"
)

const keyAliasName = "alias/notify-booth-update"

type NotifyBoothUpdateStackProps struct {
	awscdk.StackProps
	Config config.Stack
}

// common.go
func initializeStack(scope constructs.Construct, id string, props *NotifyBoothUpdateStackProps) awscdk.Stack {
	var sprops awscdk.StackProps
	if props != nil {
		sprops = props.StackProps
	}

	return awscdk.NewStack(scope, &id, &sprops)
}

// createKey creates the rotating key the Slack settings are encrypted under.
// The operator's account may use it so the post-deploy step can encrypt.
func createKey(stack awscdk.Stack) (awskms.IKey, awskms.IAlias) {
	key := awskms.NewKey(stack, jsii.String("Key"), &awskms.KeyProps{
		EnableKeyRotation: jsii.Bool(true),
		Description:       jsii.String("Encrypts the notify-booth-update Slack settings"),
	})
	keyAlias := key.AddAlias(jsii.String(keyAliasName))

	keyAlias.GrantEncryptDecrypt(awsiam.NewAccountPrincipal(stack.Account()))

	return key, keyAlias
}

func createBucket(stack awscdk.Stack) awss3.IBucket {
	return awss3.NewBucket(stack, jsii.String("Bucket"), &awss3.BucketProps{
		AutoDeleteObjects: jsii.Bool(true),
		RemovalPolicy:     awscdk.RemovalPolicy_DESTROY,
		Encryption:        awss3.BucketEncryption_S3_MANAGED,
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		EnforceSSL:        jsii.Bool(true),
	})
}
