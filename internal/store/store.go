// Package store defines the data-access contracts the services depend on.
// Backends live in the sub-packages and are selected at startup.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no document or blob exists under a key.
	ErrNotFound = errors.New("not found")
	// ErrInvalidKey is returned by backends that cannot address a key.
	ErrInvalidKey = errors.New("invalid key")
)

// Collection is a keyed set of documents of one type.
//
// Get, Update and Delete report ErrNotFound for a missing id; every other
// error is a backend failure.
type Collection[T any] interface {
	// List returns every document in backend iteration order.
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	// Put writes doc under id, creating or replacing it.
	Put(ctx context.Context, id string, doc T) error
	// Update replaces an existing document. It never creates one.
	Update(ctx context.Context, id string, doc T) error
	Delete(ctx context.Context, id string) error
}

// Blobs stores opaque byte content by key.
type Blobs interface {
	// Put writes data under key, overwriting prior content.
	Put(ctx context.Context, key string, data []byte) error
	// Get returns the content under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
}
