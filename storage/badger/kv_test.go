package badger

import (
	"context"
	"testing"

	"github.com/poiesic/gurukul/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestKV_PutGet(t *testing.T) {
	kv, err := OpenMemory()
	require.NoError(t, err)
	defer kv.Close()

	ctx := context.Background()

	err = kv.Put(ctx, storage.AreaKnowledgeStore, "science_motion", []byte(`{"title":"Motion"}`))
	require.NoError(t, err)

	value, err := kv.Get(ctx, storage.AreaKnowledgeStore, "science_motion")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Motion"}`, string(value))
}

func TestKV_GetMissing(t *testing.T) {
	kv, err := OpenMemory()
	require.NoError(t, err)
	defer kv.Close()

	_, err = kv.Get(context.Background(), storage.AreaKnowledgeStore, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestKV_Overwrite(t *testing.T) {
	kv, err := OpenMemory()
	require.NoError(t, err)
	defer kv.Close()

	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, storage.AreaKnowledgeStore, "k", []byte("v1")))
	require.NoError(t, kv.Put(ctx, storage.AreaKnowledgeStore, "k", []byte("v2")))

	value, err := kv.Get(ctx, storage.AreaKnowledgeStore, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(value))
}

func TestKV_Delete(t *testing.T) {
	kv, err := OpenMemory()
	require.NoError(t, err)
	defer kv.Close()

	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, storage.AreaWikipediaCache, "k", []byte("v")))
	require.NoError(t, kv.Delete(ctx, storage.AreaWikipediaCache, "k"))

	_, err = kv.Get(ctx, storage.AreaWikipediaCache, "k")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = kv.Delete(ctx, storage.AreaWikipediaCache, "k")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestKV_ListIsScopedToArea(t *testing.T) {
	kv, err := OpenMemory()
	require.NoError(t, err)
	defer kv.Close()

	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, storage.AreaKnowledgeStore, "b_key", []byte("1")))
	require.NoError(t, kv.Put(ctx, storage.AreaKnowledgeStore, "a_key", []byte("2")))
	require.NoError(t, kv.Put(ctx, storage.AreaWikipediaCache, "c_key", []byte("3")))

	keys, err := kv.List(ctx, storage.AreaKnowledgeStore)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_key", "b_key"}, keys)

	keys, err = kv.List(ctx, storage.AreaWikipediaCache)
	require.NoError(t, err)
	assert.Equal(t, []string{"c_key"}, keys)
}

func TestKV_InvalidKey(t *testing.T) {
	kv, err := OpenMemory()
	require.NoError(t, err)
	defer kv.Close()

	err = kv.Put(context.Background(), storage.AreaKnowledgeStore, "", []byte("v"))
	assert.ErrorIs(t, err, storage.ErrInvalidKey)

	err = kv.Put(context.Background(), "", "k", []byte("v"))
	assert.ErrorIs(t, err, storage.ErrInvalidKey)
}

func TestKV_ClosedBackend(t *testing.T) {
	kv, err := OpenMemory()
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	_, err = kv.Get(context.Background(), storage.AreaKnowledgeStore, "k")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
