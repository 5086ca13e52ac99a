package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalPrefix is the URL prefix local assets are served under
const LocalPrefix = "/assets/"

// LocalBucket stores objects as files below a root directory
type LocalBucket struct {
	root    string
	baseURL string
}

// NewLocalBucket creates root if needed. baseURL is prepended to object paths in PublicURL.
func NewLocalBucket(root, baseURL string) (*LocalBucket, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalBucket{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (b *LocalBucket) resolve(p string) (string, error) {
	if !validPath(p) {
		return "", ErrInvalidPath
	}
	return filepath.Join(b.root, filepath.FromSlash(path.Clean("/"+p))), nil
}

// Put writes the object, replacing any file already at p. A failed write
// leaves the previous file, if any, in place.
func (b *LocalBucket) Put(ctx context.Context, p string, r io.Reader, size int64, contentType string) error {
	target, err := b.resolve(p)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	f, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create object: %w", err)
	}
	tmp := f.Name()

	src := r
	if size >= 0 {
		src = io.LimitReader(r, size)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close object: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to store object: %w", err)
	}
	return nil
}

// PublicURL returns where the object is served by Handler
func (b *LocalBucket) PublicURL(p string) string {
	return b.baseURL + "/" + strings.TrimLeft(p, "/")
}

// Handler serves stored objects. Mount it under LocalPrefix.
func (b *LocalBucket) Handler() http.Handler {
	return http.StripPrefix(strings.TrimRight(LocalPrefix, "/"), http.FileServer(http.Dir(b.root)))
}
