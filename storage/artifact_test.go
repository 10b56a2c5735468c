package storage_test

import (
	"context"
	"testing"

	"github.com/poiesic/gurukul/core"
	"github.com/poiesic/gurukul/storage"
	"github.com/poiesic/gurukul/storage/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *storage.ArtifactStore {
	t.Helper()
	kv, err := file.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	store, err := storage.NewArtifactStore(kv)
	require.NoError(t, err)
	return store
}

func testArtifact(subject, topic string) *core.LessonArtifact {
	return &core.LessonArtifact{
		Subject:    subject,
		Topic:      topic,
		Title:      topic + " in " + subject,
		Content:    core.LessonContent{Explanation: "An explanation of " + topic},
		Structured: true,
	}
}

func TestArtifactStore_SaveNewKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, testArtifact("science", "motion"))
	require.NoError(t, err)

	assert.Equal(t, core.InitialVersion, saved.Metadata.Version)
	assert.False(t, saved.Metadata.CreatedAt.IsZero())
	assert.Equal(t, saved.Metadata.CreatedAt, saved.Metadata.LastUpdated)
}

func TestArtifactStore_OverwriteBumpsMinorVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, testArtifact("science", "motion"))
	require.NoError(t, err)

	second, err := store.Save(ctx, testArtifact("science", "motion"))
	require.NoError(t, err)
	assert.Equal(t, "1.1", second.Metadata.Version)
	assert.Equal(t, first.Metadata.CreatedAt, second.Metadata.CreatedAt, "created-at survives overwrites")

	third, err := store.Save(ctx, testArtifact("Science", "Motion"))
	require.NoError(t, err)
	assert.Equal(t, "1.2", third.Metadata.Version, "normalized keys collide regardless of casing")

	// Only the latest version survives.
	current, err := store.Get(ctx, "science", "motion")
	require.NoError(t, err)
	assert.Equal(t, "1.2", current.Metadata.Version)
}

func TestArtifactStore_SaveRejectsInvalid(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(context.Background(), &core.LessonArtifact{Subject: "science"})
	assert.ErrorIs(t, err, core.ErrInvalidArtifact)
}

func TestArtifactStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "science", "motion")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestArtifactStore_Exists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "science", "motion")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Save(ctx, testArtifact("science", "motion"))
	require.NoError(t, err)

	exists, err = store.Exists(ctx, "science", "motion")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestArtifactStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, testArtifact("science", "motion"))
	require.NoError(t, err)
	_, err = store.Save(ctx, testArtifact("history", "trade routes"))
	require.NoError(t, err)

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"science_motion", "history_trade_routes"}, keys)
}

func TestArtifactStore_Search(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	motion := testArtifact("science", "motion")
	motion.Content.Explanation = "Kanada described atoms and momentum"
	_, err := store.Save(ctx, motion)
	require.NoError(t, err)

	_, err = store.Save(ctx, testArtifact("history", "trade routes"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "matches topic", query: "motion", want: 1},
		{name: "matches explanation text", query: "momentum", want: 1},
		{name: "case-insensitive", query: "TRADE", want: 1},
		{name: "matches subject across artifacts", query: "s", want: 2},
		{name: "no match", query: "astronomy", want: 0},
		{name: "blank query matches nothing", query: "   ", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Search(ctx, tt.query)
			require.NoError(t, err)
			assert.Len(t, results, tt.want)
		})
	}
}
