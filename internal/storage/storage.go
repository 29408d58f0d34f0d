package storage

import (
	"context"
	"io"
	"time"
)

// Default expiry duration for presigned URLs (S3 driver only).
const DefaultPresignedURLExpiry = 15 * time.Minute

// StoredFile is the result of persisting an uploaded binary.
type StoredFile struct {
	// Key is the driver-internal reference used for later Delete calls.
	Key string
	// URL is the retrievable location handed to clients.
	URL string
	// Size is the number of bytes written.
	Size int64
}

// FileStorage defines the interface for storing uploaded case documents.
// Size and MIME constraints are enforced by the caller, not the store.
type FileStorage interface {
	// Save persists the stream under a freshly generated key derived from
	// originalName and returns the stored reference.
	Save(ctx context.Context, r io.Reader, originalName, contentType string) (*StoredFile, error)

	// Delete removes a stored object. Callers treat failures as
	// best-effort: log and continue.
	Delete(ctx context.Context, key string) error

	// ResolveURL returns a retrievable location for a stored object.
	ResolveURL(ctx context.Context, key string) (string, error)
}
