package release

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/golang/mock/gomock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/ec2info/pkg/release/mocks"
)

const testArchive = "build/ec2-metadata-app-20240102_030405.zip"

func newTestPublisher(t *testing.T, client S3PutObjectAPI, prefix string) (*Publisher, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testArchive, []byte("PK\x03\x04archive"), 0644))

	p := NewPublisher(client, "artifacts", prefix)
	p.SetFs(fs)
	return p, fs
}

func TestPublisher_Key(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "", want: "ec2-metadata-app-20240102_030405.zip"},
		{prefix: "releases", want: "releases/ec2-metadata-app-20240102_030405.zip"},
		{prefix: "/releases/ec2info/", want: "releases/ec2info/ec2-metadata-app-20240102_030405.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			p := NewPublisher(nil, "artifacts", tt.prefix)
			assert.Equal(t, tt.want, p.Key(testArchive))
		})
	}
}

func TestPublisher_Publish(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockS3PutObjectAPI(ctrl)

	client.EXPECT().PutObject(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			assert.Equal(t, "artifacts", aws.ToString(in.Bucket))
			assert.Equal(t, "releases/ec2-metadata-app-20240102_030405.zip", aws.ToString(in.Key))
			assert.Equal(t, "application/zip", aws.ToString(in.ContentType))
			assert.Equal(t, int64(13), aws.ToInt64(in.ContentLength))

			body, err := io.ReadAll(in.Body)
			require.NoError(t, err)
			assert.Equal(t, "PK\x03\x04archive", string(body))

			return &s3.PutObjectOutput{ETag: aws.String(`"d41d8cd98f00b204e9800998ecf8427e"`)}, nil
		})

	p, _ := newTestPublisher(t, client, "releases")
	up, err := p.Publish(context.Background(), testArchive)
	require.NoError(t, err)

	assert.Equal(t, "s3://artifacts/releases/ec2-metadata-app-20240102_030405.zip", up.URI())
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", up.ETag)
	assert.Equal(t, int64(13), up.Size)
}

func TestPublisher_PublishErrors(t *testing.T) {
	tests := []struct {
		name     string
		bucket   string
		path     string
		putErr   error
		sentinel error
		contains string
	}{
		{
			name:     "missing bucket",
			path:     testArchive,
			contains: "bucket is required",
		},
		{
			name:     "missing archive",
			bucket:   "artifacts",
			path:     "build/nope.zip",
			contains: "failed to open archive",
		},
		{
			name:     "directory instead of archive",
			bucket:   "artifacts",
			path:     "build",
			contains: "is a directory",
		},
		{
			name:     "bucket does not exist",
			bucket:   "artifacts",
			path:     testArchive,
			putErr:   &smithy.GenericAPIError{Code: CodeNoSuchBucket, Message: "The specified bucket does not exist"},
			sentinel: ErrNotFound,
			contains: "put object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockS3PutObjectAPI(ctrl)
			if tt.putErr != nil {
				client.EXPECT().PutObject(gomock.Any(), gomock.Any()).Return(nil, tt.putErr)
			}

			p, _ := newTestPublisher(t, client, "")
			p.bucket = tt.bucket

			_, err := p.Publish(context.Background(), tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}
