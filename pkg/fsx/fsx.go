// Package fsx abstracts file storage behind small interfaces so services
// stay independent of the backing store.
package fsx

import (
	"context"
	"io"
)

// FileReader reads whole files by storage path.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// FileSystem is the full read/write surface used by upload handlers.
type FileSystem interface {
	FileReader

	// Join builds a storage path from segments using the backend's
	// separator conventions.
	Join(parts ...string) string

	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, path string) error
}
