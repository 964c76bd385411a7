package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jaspreet-dot-casa/ec2info/pkg/metadata"
	"github.com/jaspreet-dot-casa/ec2info/pkg/metadata/imdstest"
	"github.com/jaspreet-dot-casa/ec2info/pkg/metadata/mocks"
)

var testRecord = &metadata.Record{
	Region:           "us-east-1",
	AvailabilityZone: "us-east-1a",
	InstanceID:       "i-0123456789abcdef0",
	InstanceType:     "t3.micro",
}

func newTestServer(t *testing.T, fetcher metadata.Fetcher) http.Handler {
	t.Helper()
	return New(fetcher, zap.NewNop(), nil).Handler()
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any()).Times(0)

	rec := do(t, newTestServer(t, fetcher), http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestMetadataJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any()).Return(testRecord, nil).Times(1)

	rec := do(t, newTestServer(t, fetcher), http.MethodGet, "/api/metadata")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{
		"region":            "us-east-1",
		"availability_zone": "us-east-1a",
		"instance_id":       "i-0123456789abcdef0",
		"instance_type":     "t3.micro",
	}, body)
}

func TestIndexHTML(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any()).Return(testRecord, nil).Times(1)

	rec := do(t, newTestServer(t, fetcher), http.MethodGet, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<h1>AWS EC2 Instance Information</h1>")
	for _, want := range []string{"Region", "Availability Zone", "Instance ID", "Instance Type",
		"us-east-1", "us-east-1a", "i-0123456789abcdef0", "t3.micro"} {
		assert.Contains(t, body, want)
	}
}

func TestIndexHTML_EscapesValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any()).Return(&metadata.Record{
		Region:           "<script>alert(1)</script>",
		AvailabilityZone: metadata.Unknown,
		InstanceID:       metadata.Unknown,
		InstanceType:     metadata.Unknown,
	}, nil)

	rec := do(t, newTestServer(t, fetcher), http.MethodGet, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestUpstreamUnavailable(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		contentType string
		check       func(t *testing.T, body string)
	}{
		{
			name:        "json route",
			path:        "/api/metadata",
			contentType: "application/json",
			check: func(t *testing.T, body string) {
				assert.JSONEq(t, `{"error":"instance metadata unavailable"}`, body)
			},
		},
		{
			name:        "html route",
			path:        "/",
			contentType: "text/html; charset=utf-8",
			check: func(t *testing.T, body string) {
				assert.Contains(t, body, "instance metadata unavailable")
				assert.NotContains(t, body, "connection refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fetcher := mocks.NewMockFetcher(ctrl)
			fetcher.EXPECT().Fetch(gomock.Any()).
				Return(nil, fmt.Errorf("%w: dial tcp: connection refused", metadata.ErrUnavailable))

			rec := do(t, newTestServer(t, fetcher), http.MethodGet, tt.path)

			assert.Equal(t, http.StatusBadGateway, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			tt.check(t, rec.Body.String())
		})
	}
}

func TestRouting(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{name: "post health", method: http.MethodPost, path: "/health", want: http.StatusMethodNotAllowed},
		{name: "delete metadata", method: http.MethodDelete, path: "/api/metadata", want: http.StatusMethodNotAllowed},
		{name: "put index", method: http.MethodPut, path: "/", want: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/latest/meta-data", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fetcher := mocks.NewMockFetcher(ctrl)
			fetcher.EXPECT().Fetch(gomock.Any()).Times(0)

			rec := do(t, newTestServer(t, fetcher), tt.method, tt.path)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	h := newTestServer(t, fetcher)

	rec := do(t, h, http.MethodGet, "/health")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "caller-supplied", rec.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	gomock.InOrder(
		fetcher.EXPECT().Fetch(gomock.Any()).Return(testRecord, nil),
		fetcher.EXPECT().Fetch(gomock.Any()).Return(nil, errors.New("boom")),
	)
	h := newTestServer(t, fetcher)

	do(t, h, http.MethodGet, "/api/metadata")
	do(t, h, http.MethodGet, "/api/metadata")
	do(t, h, http.MethodGet, "/health")

	rec := do(t, h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `ec2info_metadata_fetches_total{result="success"} 1`)
	assert.Contains(t, body, `ec2info_metadata_fetches_total{result="error"} 1`)
	assert.Contains(t, body, `ec2info_http_requests_total{code="502",route="GET /api/metadata"} 1`)
	assert.Contains(t, body, `ec2info_http_requests_total{code="200",route="GET /health"} 1`)
}

func TestEndToEnd_IMDS(t *testing.T) {
	imdsSrv := imdstest.NewServer(imdstest.DefaultDocument())
	defer imdsSrv.Close()

	client := metadata.NewIMDSClient(metadata.Options{Endpoint: imdsSrv.URL, Timeout: 2 * time.Second})
	h := newTestServer(t, client)

	rec := do(t, h, http.MethodGet, "/api/metadata")
	require.Equal(t, http.StatusOK, rec.Code)

	var got metadata.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *testRecord, got)

	do(t, h, http.MethodGet, "/")
	assert.Equal(t, 2, imdsSrv.IdentityRequests(), "one upstream call per request")
}

func TestEndToEnd_IMDSHangIsBounded(t *testing.T) {
	imdsSrv := imdstest.NewServer(imdstest.DefaultDocument())
	defer imdsSrv.Close()
	imdsSrv.SetHang(true)

	client := metadata.NewIMDSClient(metadata.Options{Endpoint: imdsSrv.URL, Timeout: 200 * time.Millisecond})
	h := newTestServer(t, client)

	for _, path := range []string{"/", "/api/metadata"} {
		start := time.Now()
		rec := do(t, h, http.MethodGet, path)
		assert.Equal(t, http.StatusBadGateway, rec.Code, path)
		assert.Less(t, time.Since(start), 3*time.Second, path)
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(fetcher, zap.NewNop(), nil).Serve(ctx, ln)
	}()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && strings.Contains(string(b), "healthy")
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_InvalidAddress(t *testing.T) {
	err := New(nil, nil, nil).Run(context.Background(), "not-an-address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
