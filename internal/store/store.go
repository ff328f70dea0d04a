// Package store provides the blob store the pipeline writes generated
// images to and the image relay reads them back from.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no object exists under the key.
// Callers must be able to distinguish "never existed / expired" from a
// transient storage failure.
var ErrNotFound = errors.New("object not found")

// Store is a key/value byte store. Keys are opaque strings chosen by
// the writer.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}
