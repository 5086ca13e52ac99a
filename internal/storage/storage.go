package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"happy-jasmine/internal/config"

	"go.uber.org/zap"
)

// ErrInvalidPath is returned for object paths that are empty or escape the bucket
var ErrInvalidPath = errors.New("invalid object path")

// Bucket is a public asset store. Put overwrites an existing object at path.
type Bucket interface {
	Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) error
	PublicURL(path string) string
}

// validPath reports whether p is a non-empty relative object path without ".." segments
func validPath(p string) bool {
	if strings.Trim(p, "/") == "" {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}

// New builds the bucket selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig, publicBaseURL string, logger *zap.Logger) (Bucket, error) {
	switch cfg.Driver {
	case "", "local":
		logger.Info("Using local asset storage", zap.String("dir", cfg.LocalDir))
		return NewLocalBucket(cfg.LocalDir, publicBaseURL+LocalPrefix)
	case "s3":
		bucket, err := NewS3Bucket(cfg)
		if err != nil {
			return nil, err
		}
		if err := bucket.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Using S3 asset storage",
			zap.String("endpoint", cfg.Endpoint),
			zap.String("bucket", cfg.Bucket),
		)
		return bucket, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
