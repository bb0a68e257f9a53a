package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// BlobStore is the file storage contract the media service depends on.
// Upload streams a file into the bucket under a fresh owner-scoped object
// name and returns that name plus the object's public URL.
type BlobStore interface {
	Upload(ctx context.Context, r io.Reader, ownerID, filename, contentType string) (storedName, url string, err error)
	Delete(ctx context.Context, storedName string) error
}

type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	region   string
	endpoint string
}

var _ BlobStore = (*S3Store)(nil)

// NewS3Store builds the S3 client from the default credential chain. A
// non-empty endpoint switches to path-style addressing for MinIO and other
// S3-compatible backends.
func NewS3Store(ctx context.Context, region, bucket, endpoint string) (*S3Store, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		region:   region,
		endpoint: endpoint,
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, r io.Reader, ownerID, filename, contentType string) (string, string, error) {
	storedName := buildStoredName(ownerID, filename)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storedName),
		Body:   r,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.uploader.Upload(ctx, in); err != nil {
		return "", "", err
	}
	return storedName, s.objectURL(storedName), nil
}

func (s *S3Store) Delete(ctx context.Context, storedName string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storedName),
	})
	return err
}

// buildStoredName namespaces objects per owner and prefixes a UUID so
// repeated uploads of the same filename never collide.
func buildStoredName(ownerID, filename string) string {
	return ownerID + "/" + uuid.NewString() + "_" + path.Base(filename)
}

func (s *S3Store) objectURL(storedName string) string {
	escaped := escapeKey(storedName)
	if s.endpoint != "" {
		return strings.TrimRight(s.endpoint, "/") + "/" + s.bucket + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
