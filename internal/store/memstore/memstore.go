// Package memstore keeps documents and blobs in process memory. It backs the
// "memory" drivers and the handler tests.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/SergeyParamoshkin/blog/internal/store"
)

type entry[T any] struct {
	id  string
	doc T
}

// Collection is an insertion-ordered store.Collection.
type Collection[T any] struct {
	mu      sync.RWMutex
	entries []entry[T]
}

var _ store.Collection[struct{}] = (*Collection[struct{}])(nil)

func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{}
}

func (c *Collection[T]) List(_ context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := make([]T, 0, len(c.entries))
	for _, e := range c.entries {
		docs = append(docs, e.doc)
	}

	return docs, nil
}

func (c *Collection[T]) Get(_ context.Context, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.index(id); i >= 0 {
		return c.entries[i].doc, nil
	}

	var zero T

	return zero, fmt.Errorf("document %q: %w", id, store.ErrNotFound)
}

func (c *Collection[T]) Put(_ context.Context, id string, doc T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 {
		c.entries[i].doc = doc

		return nil
	}
	c.entries = append(c.entries, entry[T]{id: id, doc: doc})

	return nil
}

func (c *Collection[T]) Update(_ context.Context, id string, doc T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("document %q: %w", id, store.ErrNotFound)
	}
	c.entries[i].doc = doc

	return nil
}

func (c *Collection[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("document %q: %w", id, store.ErrNotFound)
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)

	return nil
}

func (c *Collection[T]) index(id string) int {
	for i, e := range c.entries {
		if e.id == id {
			return i
		}
	}

	return -1
}

// Blobs is a map-backed store.Blobs.
type Blobs struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ store.Blobs = (*Blobs)(nil)

func NewBlobs() *Blobs {
	return &Blobs{blobs: make(map[string][]byte)}
}

func (b *Blobs) Put(_ context.Context, key string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	b.mu.Lock()
	b.blobs[key] = cp
	b.mu.Unlock()

	return nil
}

func (b *Blobs) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	data, ok := b.blobs[key]
	b.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("blob %q: %w", key, store.ErrNotFound)
	}
	cp := make([]byte, len(data))
	copy(cp, data)

	return cp, nil
}
