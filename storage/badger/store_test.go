package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposive/rfpbase/storage"
)

func newTestStore(t *testing.T) storage.BlobStore {
	t.Helper()
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_PutGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "doc-1_rfp.pdf", []byte("payload")))

	data, err := store.Get(ctx, "doc-1_rfp.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, store.Delete(ctx, "doc-1_rfp.pdf"))
	_, err = store.Get(ctx, "doc-1_rfp.pdf")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	t.Run("delete tolerates absent key", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-existed"))
	})
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a_one.txt", []byte("1")))
	require.NoError(t, store.Put(ctx, "a_two.txt", []byte("2")))
	require.NoError(t, store.Put(ctx, "b_three.txt", []byte("3")))

	keys, err := store.List(ctx, "a_")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a_one.txt", "a_two.txt"}, keys)
}

func TestStore_Info(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payload := []byte("payload bytes")
	require.NoError(t, store.Put(ctx, "doc-1_rfp.pdf", payload))

	badgerStore, ok := store.(*Store)
	require.True(t, ok)

	info, err := badgerStore.Info(ctx, "doc-1_rfp.pdf")
	require.NoError(t, err)
	assert.Equal(t, "doc-1_rfp.pdf", info.Name)
	assert.Equal(t, int64(len(payload)), info.Size)
	assert.False(t, info.StoredAt.IsZero())

	t.Run("missing key", func(t *testing.T) {
		_, err := badgerStore.Info(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
