// Package storage is the object storage boundary used for avatar images.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by Get and Stat when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Object is a stored blob opened for reading. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectStorage stores opaque blobs under string keys.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}
