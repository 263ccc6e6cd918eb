// Package blob abstracts the archive destination. Archives are whole-object
// text blobs: the writer reads any existing object, merges in memory and
// overwrites, so the store only needs read-if-exists and full-write.
package blob

import (
	"context"
	"fmt"

	"logvault/pkg/config"
)

// Store is the archive destination.
type Store interface {
	// ReadIfExists returns the object's text and true when the key exists,
	// or ("", false, nil) when it does not.
	ReadIfExists(ctx context.Context, key string) (string, bool, error)
	// WriteFull replaces the object at key with text.
	WriteFull(ctx context.Context, key, text, contentType string) error
}

// New builds a Store from config. Backend "fs" keeps archives on local
// disk, anything else goes through the S3 API (including S3-compatible
// endpoints such as MinIO or Supabase storage).
func New(cfg config.BlobConfig) (Store, error) {
	switch cfg.Backend {
	case "", "s3":
		return newS3Store(cfg)
	case "fs":
		return newFSStore(cfg.FSRoot)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}
