// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package gurukul

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aimock "github.com/poiesic/gurukul/ai/mock"
	"github.com/poiesic/gurukul/core"
	"github.com/poiesic/gurukul/retrieval"
	retmock "github.com/poiesic/gurukul/retrieval/mock"
	"github.com/poiesic/gurukul/storage"
	"github.com/poiesic/gurukul/tasks"
	"github.com/poiesic/gurukul/wiki"
	wikimock "github.com/poiesic/gurukul/wiki/mock"
)

func newTestLibrary(t *testing.T, opts ...LibraryOption) *Library {
	t.Helper()

	fetcher := wikimock.NewMockFetcher()
	fetcher.Titles = []string{"Indian mathematics"}
	fetcher.Pages["Indian mathematics"] = &wiki.Page{
		Title:   "Indian mathematics",
		Summary: "Mathematics in the Indian subcontinent.",
		Content: "Mathematics in the Indian subcontinent has a long history.",
		URL:     "https://en.wikipedia.org/wiki/Indian_mathematics",
	}

	base := []LibraryOption{
		WithInMemoryStorage(),
		WithGenerator(aimock.NewMockGenerator()),
		WithFetcher(fetcher),
	}
	lib, err := NewLibrary("", append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

func awaitTask(t *testing.T, lib *Library, taskID string) *core.Task {
	t.Helper()

	var task *core.Task
	require.Eventually(t, func() bool {
		var err error
		task, err = lib.Status(taskID)
		require.NoError(t, err)
		return task.Status.Terminal()
	}, 5*time.Second, 5*time.Millisecond)
	return task
}

func TestLibraryEndToEnd(t *testing.T) {
	ret := retmock.NewMockRetriever()
	ret.Chunks = []retrieval.Chunk{
		retmock.BookChunk("Brahmagupta defined rules for zero.", "Brahmasphutasiddhanta", 7, 0.95),
	}
	lib := newTestLibrary(t, WithRetriever(ret))

	task, err := lib.Generate(context.Background(), tasks.Request{
		Subject:          "maths",
		Topic:            "zero",
		Requester:        "teacher-1",
		UseKnowledgeBase: true,
		IncludeWikipedia: true,
	})
	require.NoError(t, err)

	done := awaitTask(t, lib, task.ID)
	require.Equal(t, core.TaskCompleted, done.Status)
	require.NotNil(t, done.Result)
	assert.True(t, done.Result.KnowledgeBaseUsed)
	assert.True(t, done.Result.WikipediaUsed)

	artifact, err := lib.Artifact(context.Background(), "maths", "zero")
	require.NoError(t, err)
	assert.Equal(t, core.InitialVersion, artifact.Metadata.Version)
	require.NoError(t, core.ValidateArtifact(artifact))

	keys, err := lib.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"maths_zero"}, keys)
}

func TestLibraryConflictAndRegeneration(t *testing.T) {
	lib := newTestLibrary(t)

	first, err := lib.Generate(context.Background(), tasks.Request{Subject: "maths", Topic: "zero"})
	require.NoError(t, err)
	awaitTask(t, lib, first.ID)

	_, err = lib.Generate(context.Background(), tasks.Request{Subject: "maths", Topic: "zero"})
	assert.ErrorIs(t, err, tasks.ErrConflict)

	second, err := lib.Generate(context.Background(), tasks.Request{
		Subject: "maths", Topic: "zero", ForceRegenerate: true,
	})
	require.NoError(t, err)

	done := awaitTask(t, lib, second.ID)
	require.Equal(t, core.TaskCompleted, done.Status)
	assert.Equal(t, "1.1", done.Result.Metadata.Version)
}

func TestLibraryArtifactNotFound(t *testing.T) {
	lib := newTestLibrary(t)

	_, err := lib.Artifact(context.Background(), "maths", "unseen")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLibrarySearch(t *testing.T) {
	lib := newTestLibrary(t)

	task, err := lib.Generate(context.Background(), tasks.Request{Subject: "maths", Topic: "zero"})
	require.NoError(t, err)
	awaitTask(t, lib, task.ID)

	matches, err := lib.Search(context.Background(), "zero")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "zero", matches[0].Topic)

	none, err := lib.Search(context.Background(), "trigonometry")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLibraryFileStorageLayout(t *testing.T) {
	fetcher := wikimock.NewMockFetcher()
	lib, err := NewLibrary(t.TempDir(),
		WithFileStorage(),
		WithGenerator(aimock.NewMockGenerator()),
		WithFetcher(fetcher))
	require.NoError(t, err)
	defer lib.Close()

	task, err := lib.Generate(context.Background(), tasks.Request{Subject: "Science", Topic: "Sound Waves"})
	require.NoError(t, err)

	done := awaitTask(t, lib, task.ID)
	require.Equal(t, core.TaskCompleted, done.Status)

	keys, err := lib.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"science_sound_waves"}, keys)
}
