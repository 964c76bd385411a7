package release

import (
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains string
	}{
		{
			name:     "auth failure",
			err:      &smithy.GenericAPIError{Code: CodeAuthFailure, Message: "unauthorized"},
			sentinel: ErrAuth,
		},
		{
			name:     "access denied",
			err:      &smithy.GenericAPIError{Code: CodeAccessDenied, Message: "denied"},
			sentinel: ErrAuth,
		},
		{
			name:     "expired token",
			err:      &smithy.GenericAPIError{Code: CodeExpiredToken, Message: "expired"},
			sentinel: ErrAuth,
		},
		{
			name:     "no such bucket",
			err:      &smithy.GenericAPIError{Code: CodeNoSuchBucket, Message: "missing"},
			sentinel: ErrNotFound,
		},
		{
			name:     "instance not found",
			err:      &smithy.GenericAPIError{Code: CodeInstanceNotFound, Message: "missing"},
			sentinel: ErrNotFound,
		},
		{
			name:     "duplicate image name",
			err:      &smithy.GenericAPIError{Code: CodeDuplicateImageName, Message: "exists"},
			sentinel: ErrConflict,
		},
		{
			name:     "throttled",
			err:      &smithy.GenericAPIError{Code: CodeRequestLimitExceeded, Message: "slow down"},
			sentinel: ErrThrottled,
		},
		{
			name: "api error wrapped in operation error",
			err: &smithy.OperationError{
				ServiceID:     "EC2",
				OperationName: "CreateImage",
				Err:           &smithy.GenericAPIError{Code: CodeUnauthorized, Message: "nope"},
			},
			sentinel: ErrAuth,
		},
		{
			name:     "unknown code keeps original",
			err:      &smithy.GenericAPIError{Code: "InternalError", Message: "oops"},
			contains: "InternalError",
		},
		{
			name:     "plain error",
			err:      errors.New("dial tcp: timeout"),
			contains: "dial tcp: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError("op", tt.err)

			assert.ErrorIs(t, got, tt.err)
			assert.Contains(t, got.Error(), "op: ")
			if tt.sentinel != nil {
				assert.ErrorIs(t, got, tt.sentinel)
			} else {
				for _, s := range []error{ErrAuth, ErrNotFound, ErrConflict, ErrThrottled} {
					assert.NotErrorIs(t, got, s)
				}
			}
			if tt.contains != "" {
				assert.Contains(t, got.Error(), tt.contains)
			}
		})
	}
}
