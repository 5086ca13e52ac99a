package access

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"happy-jasmine/internal/result"
	"happy-jasmine/internal/storage"

	"go.uber.org/zap"
)

// Upload folders offered by the admin panel
const (
	FolderProducts   = "products"
	FolderCategories = "categories"
	FolderCampaigns  = "campaigns"
	FolderLogos      = "logos"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// File is an upload handed over by the admin panel
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores admin uploads in the public asset bucket
type Uploader struct {
	bucket storage.Bucket
	logger *zap.Logger
	now    func() time.Time
}

// NewUploader creates an Uploader
func NewUploader(bucket storage.Bucket, logger *zap.Logger) *Uploader {
	return &Uploader{bucket: bucket, logger: logger, now: time.Now}
}

// SanitizeFilename drops every character outside [A-Za-z0-9_.-]
func SanitizeFilename(name string) string {
	clean := unsafeFilenameChars.ReplaceAllString(name, "")
	if strings.Trim(clean, ".") == "" {
		return "file"
	}
	return clean
}

// ObjectPath builds <folder>/<unix-millis>-<sanitized name>
func ObjectPath(folder, name string, at time.Time) string {
	return fmt.Sprintf("%s/%d-%s", strings.Trim(folder, "/"), at.UnixMilli(), SanitizeFilename(name))
}

// Upload stores f under folder and returns its public URL. An object already
// at the generated path is overwritten.
func (u *Uploader) Upload(ctx context.Context, f File, folder string) result.Result[string] {
	if f.Body == nil {
		return invalid[string]("file is required")
	}
	if strings.Trim(folder, "/") == "" {
		return invalid[string]("folder is required")
	}

	path := ObjectPath(folder, f.Name, u.now())
	if err := u.bucket.Put(ctx, path, f.Body, f.Size, f.ContentType); err != nil {
		return failure[string](u.logger, "upload asset", err, zap.String("path", path))
	}

	u.logger.Info("Asset uploaded", zap.String("path", path), zap.Int64("size", f.Size))
	return result.Ok(u.bucket.PublicURL(path))
}
