package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"happy-jasmine/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Bucket stores objects in an S3 compatible bucket
type S3Bucket struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewS3Bucket creates the client. No request is made until the first call.
func NewS3Bucket(cfg config.StorageConfig) (*S3Bucket, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}

	return &S3Bucket{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket when it does not exist
func (b *S3Bucket) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", b.bucket, err)
	}
	if exists {
		return nil
	}
	if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", b.bucket, err)
	}
	return nil
}

// Put uploads the object, overwriting any existing one
func (b *S3Bucket) Put(ctx context.Context, p string, r io.Reader, size int64, contentType string) error {
	if !validPath(p) {
		return ErrInvalidPath
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := b.client.PutObject(ctx, b.bucket, p, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", p, err)
	}
	return nil
}

// PublicURL returns <public base>/<bucket>/<path>
func (b *S3Bucket) PublicURL(p string) string {
	return b.publicURL + "/" + b.bucket + "/" + strings.TrimLeft(p, "/")
}
