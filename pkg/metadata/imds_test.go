package metadata_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/ec2info/pkg/metadata"
	"github.com/jaspreet-dot-casa/ec2info/pkg/metadata/imdstest"
)

func TestIMDSClient_Fetch(t *testing.T) {
	srv := imdstest.NewServer(imdstest.DefaultDocument())
	defer srv.Close()

	client := metadata.NewIMDSClient(metadata.Options{Endpoint: srv.URL, Timeout: 2 * time.Second})

	rec, err := client.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &metadata.Record{
		Region:           "us-east-1",
		AvailabilityZone: "us-east-1a",
		InstanceID:       "i-0123456789abcdef0",
		InstanceType:     "t3.micro",
	}, rec)
	assert.Equal(t, 1, srv.IdentityRequests())
}

func TestIMDSClient_FetchIsNotCached(t *testing.T) {
	srv := imdstest.NewServer(imdstest.DefaultDocument())
	defer srv.Close()

	client := metadata.NewIMDSClient(metadata.Options{Endpoint: srv.URL, Timeout: 2 * time.Second})

	for i := 0; i < 3; i++ {
		_, err := client.Fetch(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, srv.IdentityRequests())
}

func TestIMDSClient_UpstreamError(t *testing.T) {
	srv := imdstest.NewServer(imdstest.DefaultDocument())
	defer srv.Close()
	srv.SetStatus(http.StatusInternalServerError)

	client := metadata.NewIMDSClient(metadata.Options{Endpoint: srv.URL, Timeout: 2 * time.Second})

	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, metadata.ErrUnavailable)
	assert.Equal(t, 1, srv.IdentityRequests(), "no retries")
}

func TestIMDSClient_Timeout(t *testing.T) {
	srv := imdstest.NewServer(imdstest.DefaultDocument())
	defer srv.Close()
	srv.SetHang(true)

	client := metadata.NewIMDSClient(metadata.Options{Endpoint: srv.URL, Timeout: 200 * time.Millisecond})

	start := time.Now()
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, metadata.ErrUnavailable)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestIMDSClient_Unreachable(t *testing.T) {
	srv := imdstest.NewServer(imdstest.DefaultDocument())
	endpoint := srv.URL
	srv.Close()

	client := metadata.NewIMDSClient(metadata.Options{Endpoint: endpoint, Timeout: time.Second})

	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, metadata.ErrUnavailable)
}
