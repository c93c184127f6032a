package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("PutAndOpen", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Put(ctx, "f", []byte("payload")))

		data, err := ReadAll(ctx, store, "f")
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("OpenMissing", func(t *testing.T) {
		store := NewMemoryStore()

		_, err := store.Open(ctx, "nope")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("PutCopiesData", func(t *testing.T) {
		store := NewMemoryStore()

		data := []byte("original")
		require.NoError(t, store.Put(ctx, "f", data))
		data[0] = 'X'

		got, err := ReadAll(ctx, store, "f")
		require.NoError(t, err)
		assert.Equal(t, "original", string(got))
	})

	t.Run("DeleteAndList", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Put(ctx, "a/one", []byte("1")))
		require.NoError(t, store.Put(ctx, "a/two", []byte("2")))
		require.NoError(t, store.Put(ctx, "b/three", []byte("3")))
		require.NoError(t, store.Delete(ctx, "a/two"))

		names, err := store.List(ctx, "a/")
		require.NoError(t, err)
		assert.Equal(t, []string{"a/one"}, names)
	})
}
