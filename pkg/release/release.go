// Package release ships a built artifact: it uploads the archive to S3 and
// bakes an AMI from an instance the artifact was deployed to.
package release

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

//go:generate go tool mockgen -destination=mocks/mock_release.go -package=mocks github.com/jaspreet-dot-casa/ec2info/pkg/release S3PutObjectAPI,EC2ImageAPI

// S3PutObjectAPI is the subset of the S3 client used by Publisher.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// EC2ImageAPI is the subset of the EC2 client used by Baker.
type EC2ImageAPI interface {
	CreateImage(ctx context.Context, params *ec2.CreateImageInput, optFns ...func(*ec2.Options)) (*ec2.CreateImageOutput, error)
	DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
}

const (
	CodeAuthFailure          = "AuthFailure"
	CodeUnauthorized         = "UnauthorizedOperation"
	CodeAccessDenied         = "AccessDenied"
	CodeInvalidAccessKey     = "InvalidAccessKeyId"
	CodeExpiredToken         = "ExpiredToken"
	CodeRequestExpired       = "RequestExpired"
	CodeNoSuchBucket         = "NoSuchBucket"
	CodeInstanceNotFound     = "InvalidInstanceID.NotFound"
	CodeInstanceMalformed    = "InvalidInstanceID.Malformed"
	CodeDuplicateImageName   = "InvalidAMIName.Duplicate"
	CodeThrottling           = "Throttling"
	CodeRequestLimitExceeded = "RequestLimitExceeded"
	CodeSlowDown             = "SlowDown"
)

var (
	// ErrAuth means the caller's credentials were rejected or lack permission.
	ErrAuth = errors.New("aws authentication failed, verify credentials and IAM permissions")
	// ErrNotFound means the target bucket or instance does not exist.
	ErrNotFound = errors.New("aws resource not found")
	// ErrConflict means the request collides with an existing resource.
	ErrConflict = errors.New("aws resource already exists")
	// ErrThrottled means AWS rate limited the request.
	ErrThrottled = errors.New("aws request throttled")
)

// classifyError maps AWS API error codes onto the package sentinels so
// callers can branch with errors.Is while the original error stays wrapped.
func classifyError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case CodeAuthFailure, CodeUnauthorized, CodeAccessDenied,
			CodeInvalidAccessKey, CodeExpiredToken, CodeRequestExpired:
			return fmt.Errorf("%s: %w: %w", op, ErrAuth, err)
		case CodeNoSuchBucket, CodeInstanceNotFound, CodeInstanceMalformed:
			return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
		case CodeDuplicateImageName:
			return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
		case CodeThrottling, CodeRequestLimitExceeded, CodeSlowDown:
			return fmt.Errorf("%s: %w: %w", op, ErrThrottled, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Clients bundles the AWS clients built from the shared configuration.
type Clients struct {
	S3  *s3.Client
	EC2 *ec2.Client
}

// NewClients loads the default AWS configuration (environment, shared
// config files, instance role) and builds the S3 and EC2 clients. An empty
// region keeps whatever the configuration chain resolves.
func NewClients(ctx context.Context, region string) (*Clients, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Clients{
		S3:  s3.NewFromConfig(cfg),
		EC2: ec2.NewFromConfig(cfg),
	}, nil
}
