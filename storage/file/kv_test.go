package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/gurukul/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	kv, err := Open(dir)
	require.NoError(t, err)
	defer kv.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpen_RejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestKV_PutGet(t *testing.T) {
	kv, err := Open(t.TempDir())
	require.NoError(t, err)
	defer kv.Close()

	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, storage.AreaKnowledgeStore, "science_motion", []byte(`{"title":"Motion"}`)))

	value, err := kv.Get(ctx, storage.AreaKnowledgeStore, "science_motion")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Motion"}`, string(value))
}

func TestKV_LayoutOnDisk(t *testing.T) {
	root := t.TempDir()
	kv, err := Open(root)
	require.NoError(t, err)
	defer kv.Close()

	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, storage.AreaWikipediaCache, "science_motion", []byte("{}")))

	// One JSON file per normalized key per area; the layout is a contract.
	_, err = os.Stat(filepath.Join(root, storage.AreaWikipediaCache, "science_motion.json"))
	assert.NoError(t, err)
}

func TestKV_GetMissing(t *testing.T) {
	kv, err := Open(t.TempDir())
	require.NoError(t, err)
	defer kv.Close()

	_, err = kv.Get(context.Background(), storage.AreaKnowledgeStore, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestKV_Overwrite(t *testing.T) {
	kv, err := Open(t.TempDir())
	require.NoError(t, err)
	defer kv.Close()

	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, storage.AreaKnowledgeStore, "k", []byte("v1")))
	require.NoError(t, kv.Put(ctx, storage.AreaKnowledgeStore, "k", []byte("v2")))

	value, err := kv.Get(ctx, storage.AreaKnowledgeStore, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(value))
}

func TestKV_List(t *testing.T) {
	kv, err := Open(t.TempDir())
	require.NoError(t, err)
	defer kv.Close()

	ctx := context.Background()

	keys, err := kv.List(ctx, storage.AreaKnowledgeStore)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, kv.Put(ctx, storage.AreaKnowledgeStore, "b_key", []byte("1")))
	require.NoError(t, kv.Put(ctx, storage.AreaKnowledgeStore, "a_key", []byte("2")))
	require.NoError(t, kv.Put(ctx, storage.AreaWikipediaCache, "c_key", []byte("3")))

	keys, err = kv.List(ctx, storage.AreaKnowledgeStore)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_key", "b_key"}, keys)
}

func TestKV_Delete(t *testing.T) {
	kv, err := Open(t.TempDir())
	require.NoError(t, err)
	defer kv.Close()

	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, storage.AreaKnowledgeStore, "k", []byte("v")))
	require.NoError(t, kv.Delete(ctx, storage.AreaKnowledgeStore, "k"))

	err = kv.Delete(ctx, storage.AreaKnowledgeStore, "k")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestKV_RejectsPathEscapes(t *testing.T) {
	kv, err := Open(t.TempDir())
	require.NoError(t, err)
	defer kv.Close()

	err = kv.Put(context.Background(), storage.AreaKnowledgeStore, "../escape", []byte("v"))
	assert.ErrorIs(t, err, storage.ErrInvalidKey)
}

func TestKV_Closed(t *testing.T) {
	kv, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	_, err = kv.Get(context.Background(), storage.AreaKnowledgeStore, "k")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
