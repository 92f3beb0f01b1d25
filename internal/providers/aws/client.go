package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

type clientOptions struct {
	profile string
	region  string
}

// ClientOption customises how the AWS configuration is loaded.
type ClientOption func(*clientOptions)

// WithProfile selects a named profile from the shared config files.
func WithProfile(profile string) ClientOption {
	return func(o *clientOptions) {
		o.profile = profile
	}
}

// WithRegion overrides the region from the environment or profile.
func WithRegion(region string) ClientOption {
	return func(o *clientOptions) {
		o.region = region
	}
}

// LoadConfig loads the default AWS SDK configuration with the given options.
func LoadConfig(ctx context.Context, opts ...ClientOption) (aws.Config, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, ClassifyAWSError(fmt.Errorf("unable to load AWS SDK config: %w", err), "", "")
	}
	if cfg.Region == "" {
		return aws.Config{}, NewAWSError(ErrConfigurationError, "", "",
			"no AWS region configured, set --region or AWS_REGION", nil)
	}
	return cfg, nil
}

// NewEC2Client creates an EC2 client from cfg.
func NewEC2Client(cfg aws.Config) EC2ClientAPI {
	return ec2.NewFromConfig(cfg)
}

// NewCloudFormationClient creates a CloudFormation client from cfg.
func NewCloudFormationClient(cfg aws.Config) CloudFormationAPI {
	return cloudformation.NewFromConfig(cfg)
}
