// internal/common/aws/aws.go

// Package aws wraps the AWS SDK v2 clients used for outbound fit report
// delivery (SES for email, SNS for SMS).
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// loadConfig resolves credentials from the default chain. An empty
// region falls back to AWS_REGION / the shared config file.
func loadConfig(ctx context.Context, region string) (awssdk.Config, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}
