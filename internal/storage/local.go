package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local keeps blobs as files under dir/bucket
type Local struct {
	root          string
	publicBaseURL string
}

func NewLocal(dir, bucket, publicBaseURL string) (*Local, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage_dir is required for the local backend")
	}
	root := filepath.Join(dir, bucket)
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Local{root: root, publicBaseURL: publicBaseURL}, nil
}

func (l *Local) path(key string) (string, error) {
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("invalid object key %q", key)
		}
	}
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(l.root, clean), nil
}

func (l *Local) Upload(ctx context.Context, key string, body io.Reader, size int64, opts UploadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !opts.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(p, flags, 0644)
	if errors.Is(err, fs.ErrExist) {
		return ErrObjectExists
	}
	if err != nil {
		return err
	}

	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && size >= 0 && n != size {
		err = fmt.Errorf("short write: wrote %d of %d bytes", n, size)
	}
	if err != nil {
		os.Remove(p)
		return err
	}
	return nil
}

// Remove deletes keys; missing keys are ignored
func (l *Local) Remove(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := l.path(key)
		if err != nil {
			return err
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (l *Local) Download(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	return data, err
}

// PublicURL falls back to a file:// URL when no public base is configured
func (l *Local) PublicURL(key string) string {
	if l.publicBaseURL != "" {
		return joinURL(l.publicBaseURL, key)
	}
	p, err := l.path(key)
	if err != nil {
		return ""
	}
	return "file://" + filepath.ToSlash(p)
}
