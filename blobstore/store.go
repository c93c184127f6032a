package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for reading and writing whole data blobs:
// delimited data files and factor definition files.
//
// Survgo performs only whole-file I/O (open, read/write fully, close), so
// the interface is deliberately small. Writes must be atomic: a reader never
// observes a partially written blob.
type Store interface {
	// Open opens a blob for reading. The caller must close the returned
	// reader on all exit paths.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Put writes a blob atomically, replacing any existing blob.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns blob names matching the prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// ReadAll reads a whole blob.
func ReadAll(ctx context.Context, s Store, name string) ([]byte, error) {
	r, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return io.ReadAll(r)
}

// Exists reports whether a blob exists.
func Exists(ctx context.Context, s Store, name string) (bool, error) {
	r, err := s.Open(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	_ = r.Close()
	return true, nil
}
