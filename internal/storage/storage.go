package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// ErrObjectExists is returned when Overwrite is false and the key is taken
var ErrObjectExists = errors.New("object already exists")

// ErrObjectNotFound is returned by Download for a missing key
var ErrObjectNotFound = errors.New("object not found")

// UploadOptions controls a single upload
type UploadOptions struct {
	ContentType  string
	CacheControl string
	Overwrite    bool
}

// Store is the blob store holding uploaded resume files
type Store interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, opts UploadOptions) error
	Remove(ctx context.Context, keys ...string) error
	Download(ctx context.Context, key string) ([]byte, error)
	PublicURL(key string) string
}

// Options selects and configures a Store implementation
type Options struct {
	Backend       string // local, s3
	Dir           string
	Bucket        string
	PublicBaseURL string

	Endpoint    string
	Region      string
	R2AccountID string
	AccessKey   string
	SecretKey   string
}

// New builds the Store named by opts.Backend
func New(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "local":
		return NewLocal(opts.Dir, opts.Bucket, opts.PublicBaseURL)
	case "s3":
		return NewS3(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", opts.Backend)
	}
}

// joinURL appends an escaped object key to base
func joinURL(base, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}
