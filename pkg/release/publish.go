package release

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"
)

// Upload describes an archive stored in S3.
type Upload struct {
	Bucket string
	Key    string
	ETag   string
	Size   int64
}

// URI returns the s3:// location of the upload.
func (u *Upload) URI() string {
	return fmt.Sprintf("s3://%s/%s", u.Bucket, u.Key)
}

// Publisher uploads build archives to a bucket.
type Publisher struct {
	client S3PutObjectAPI
	fs     afero.Fs
	bucket string
	prefix string
}

// NewPublisher creates a Publisher. Keys are "<prefix>/<archive base name>".
func NewPublisher(client S3PutObjectAPI, bucket, prefix string) *Publisher {
	return &Publisher{
		client: client,
		fs:     afero.NewOsFs(),
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// SetFs replaces the filesystem the archive is read from.
func (p *Publisher) SetFs(fs afero.Fs) {
	p.fs = fs
}

// Key returns the object key used for archivePath.
func (p *Publisher) Key(archivePath string) string {
	return path.Join(p.prefix, filepath.Base(archivePath))
}

// Publish uploads the archive at archivePath in a single PutObject call.
func (p *Publisher) Publish(ctx context.Context, archivePath string) (*Upload, error) {
	if p.bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	f, err := p.fs.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not an archive", archivePath)
	}

	key := p.Key(archivePath)
	out, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("application/zip"),
	})
	if err != nil {
		return nil, classifyError("put object", err)
	}

	return &Upload{
		Bucket: p.bucket,
		Key:    key,
		ETag:   strings.Trim(aws.ToString(out.ETag), `"`),
		Size:   info.Size(),
	}, nil
}
