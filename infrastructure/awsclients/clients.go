// Package awsclients builds the AWS SDK clients used by the library.
// Construction is centralized here so the region, the optional local
// endpoint override and X-Ray instrumentation are applied consistently.
package awsclients

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"ieutils/infrastructure/config"
	"ieutils/pkg/observability"
)

// Load creates the base AWS configuration
func Load(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}

	if cfg.EnableTracing {
		observability.InstrumentAWS(&awsCfg)
	}

	return awsCfg, nil
}

// NewDynamoDB creates a DynamoDB client, honoring the local endpoint
// override when one is configured
func NewDynamoDB(awsCfg aws.Config, cfg *config.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// NewS3 creates an S3 client
func NewS3(awsCfg aws.Config) *s3.Client {
	return s3.NewFromConfig(awsCfg)
}

// NewEventBridge creates an EventBridge client
func NewEventBridge(awsCfg aws.Config) *eventbridge.Client {
	return eventbridge.NewFromConfig(awsCfg)
}

// NewCloudWatch creates a CloudWatch client
func NewCloudWatch(awsCfg aws.Config) *cloudwatch.Client {
	return cloudwatch.NewFromConfig(awsCfg)
}
