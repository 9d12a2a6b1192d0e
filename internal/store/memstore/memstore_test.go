package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/blog/internal/store"
)

type doc struct {
	Title string
}

func TestCollection(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[doc]()

	_, err := c.Get(ctx, "1")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, c.Update(ctx, "1", doc{}), store.ErrNotFound)
	require.ErrorIs(t, c.Delete(ctx, "1"), store.ErrNotFound)

	require.NoError(t, c.Put(ctx, "1", doc{Title: "Hi"}))
	require.NoError(t, c.Put(ctx, "2", doc{Title: "sup"}))
	require.NoError(t, c.Put(ctx, "3", doc{Title: "alo"}))

	got, err := c.Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "sup", got.Title)

	require.NoError(t, c.Update(ctx, "2", doc{Title: "bonjour"}))
	require.NoError(t, c.Delete(ctx, "1"))

	docs, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []doc{{Title: "bonjour"}, {Title: "alo"}}, docs)

	// Put on an existing id replaces in place.
	require.NoError(t, c.Put(ctx, "3", doc{Title: "whats up"}))
	docs, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []doc{{Title: "bonjour"}, {Title: "whats up"}}, docs)
}

func TestBlobs(t *testing.T) {
	ctx := context.Background()
	b := NewBlobs()

	_, err := b.Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	data := []byte{0x89, 'P', 'N', 'G'}
	require.NoError(t, b.Put(ctx, "k", data))
	data[0] = 0

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, got)

	require.NoError(t, b.Put(ctx, "k", []byte("second")))
	got, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}
