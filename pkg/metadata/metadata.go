// Package metadata fetches the EC2 instance identity record from the local
// instance metadata service.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
)

// Unknown is reported for identity fields missing from the document.
const Unknown = "unknown"

// ErrUnavailable is returned when the metadata service cannot be reached or
// returns an unusable response.
var ErrUnavailable = errors.New("instance metadata unavailable")

// Record is the identity of the instance the process runs on.
type Record struct {
	Region           string `json:"region"`
	AvailabilityZone string `json:"availability_zone"`
	InstanceID       string `json:"instance_id"`
	InstanceType     string `json:"instance_type"`
}

// Fetcher returns a fresh Record on every call.
type Fetcher interface {
	Fetch(ctx context.Context) (*Record, error)
}

//go:generate go tool mockgen -destination=mocks/mock_metadata.go -package=mocks github.com/jaspreet-dot-casa/ec2info/pkg/metadata IdentityAPI,Fetcher

// IdentityAPI is the subset of the IMDS client used here.
type IdentityAPI interface {
	GetInstanceIdentityDocument(ctx context.Context, params *imds.GetInstanceIdentityDocumentInput, optFns ...func(*imds.Options)) (*imds.GetInstanceIdentityDocumentOutput, error)
}

// Client implements Fetcher on top of IdentityAPI.
type Client struct {
	api     IdentityAPI
	timeout time.Duration
}

var _ Fetcher = &Client{}

// NewClient creates a Client. A zero timeout leaves the deadline to the caller's context.
func NewClient(api IdentityAPI, timeout time.Duration) *Client {
	return &Client{api: api, timeout: timeout}
}

// Fetch retrieves the identity document once. There is no retry and no cache.
func (c *Client) Fetch(ctx context.Context) (*Record, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	doc, err := c.api.GetInstanceIdentityDocument(ctx, &imds.GetInstanceIdentityDocumentInput{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: empty identity document", ErrUnavailable)
	}

	return recordFromDocument(doc.InstanceIdentityDocument), nil
}

func recordFromDocument(doc imds.InstanceIdentityDocument) *Record {
	return &Record{
		Region:           orUnknown(doc.Region),
		AvailabilityZone: orUnknown(doc.AvailabilityZone),
		InstanceID:       orUnknown(doc.InstanceID),
		InstanceType:     orUnknown(doc.InstanceType),
	}
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
