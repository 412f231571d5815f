package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage abstracts the blob store that keeps post photographs. The rest of
// the code addresses blobs by relative ref ("missing/m0000001/origin.png")
// and never sees the backend.
type Storage interface {
	// Save stores a blob at the given ref, overwriting any previous content.
	Save(ctx context.Context, ref string, reader io.Reader, contentType string) error

	// Get opens the blob for reading. The caller closes it.
	Get(ctx context.Context, ref string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, ref string) error

	// Exists reports whether a blob is present at the ref.
	Exists(ctx context.Context, ref string) (bool, error)

	// GetURL returns the public URL the blob is served from.
	GetURL(ctx context.Context, ref string) (string, error)
}

// Config holds storage configuration
type Config struct {
	Type      string // local, cloudflare_r2
	BasePath  string // for local storage
	BaseURL   string // public URL base
	Bucket    string // for R2
	AccessKey string // for R2
	SecretKey string // for R2
	Endpoint  string // for R2
}

// NewStorage creates a storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
