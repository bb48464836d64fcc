// Package blobstore provides the byte-sink abstraction YAVS streams are
// saved to and loaded from.
//
// The codec itself is sink-agnostic; a BlobStore only has to hand out
// readable blobs and accept atomic writes. Implementations must not expose
// partially written objects under their final name.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, mainly for tests and embedding hosts
//   - LocalStore: local filesystem with temp-and-rename writes
//   - s3.Store: Amazon S3 with range reads and streaming uploads
//   - minio.Store: MinIO and other S3-compatible systems
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for accessing data blobs.
type BlobStore interface {
	// Open opens an existing blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// Create creates a new blob for streaming writes. The blob must not
	// be visible under name until Close succeeds.
	Create(ctx context.Context, name string) (WritableBlob, error)

	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns all blob names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// WritableBlob is a write handle returned by Create.
type WritableBlob interface {
	io.WriteCloser
	// Sync flushes buffered data to stable storage where the backend
	// supports it; otherwise a no-op.
	Sync() error
}
