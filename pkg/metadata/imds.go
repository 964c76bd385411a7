package metadata

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
)

// Options configures the IMDS-backed client.
type Options struct {
	// Endpoint overrides the metadata endpoint, e.g. for a local mock.
	// Empty uses the SDK default (http://169.254.169.254).
	Endpoint string
	// Timeout bounds each Fetch, token request included.
	Timeout time.Duration
}

// NewIMDSClient returns a Client that talks IMDSv2 directly. Retries are
// disabled so an unreachable endpoint fails within Timeout.
func NewIMDSClient(opts Options) *Client {
	api := imds.New(imds.Options{
		Endpoint: opts.Endpoint,
		Retryer:  aws.NopRetryer{},
	})
	return NewClient(api, opts.Timeout)
}

// NewIMDSClientFromConfig is like NewIMDSClient but honours the shared AWS
// configuration (AWS_EC2_METADATA_SERVICE_ENDPOINT, AWS_EC2_METADATA_DISABLED,
// profile settings).
func NewIMDSClientFromConfig(ctx context.Context, opts Options) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	api := imds.NewFromConfig(cfg, func(o *imds.Options) {
		if opts.Endpoint != "" {
			o.Endpoint = opts.Endpoint
		}
		o.Retryer = aws.NopRetryer{}
	})
	return NewClient(api, opts.Timeout), nil
}
