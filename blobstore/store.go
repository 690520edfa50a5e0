// Package blobstore abstracts access to neuron files stored as named blobs.
//
// A Store is a flat namespace of whole-file blobs (typically SWC files,
// possibly compressed). Implementations exist for the local filesystem,
// memory (tests), HTTP (read-only), S3 and MinIO.
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error satisfying errors.Is(err, ErrNotFound).
// The default maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// Reader is the read side of a blob store.
type Reader interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// List returns the names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Store is a blob store that also supports writes.
type Store interface {
	Reader
	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
}
