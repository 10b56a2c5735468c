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


// Package mock provides test doubles for the retrieval package.
package mock

import (
	"context"
	"sync"

	"github.com/poiesic/gurukul/core"
	"github.com/poiesic/gurukul/retrieval"
)

// MockRetriever is a test double for retrieval.Retriever.
// It allows custom behavior injection via function fields.
type MockRetriever struct {
	// RetrieveFunc is called by Retrieve if set.
	// If nil, Chunks is returned (trimmed to limit).
	RetrieveFunc func(ctx context.Context, query string, limit int) ([]retrieval.Chunk, error)

	// Chunks is the default result set.
	Chunks []retrieval.Chunk

	mu        sync.Mutex
	callCount int
}

var _ retrieval.Retriever = (*MockRetriever)(nil)

// NewMockRetriever creates a mock retriever with no default chunks.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockRetriever() *MockRetriever {
	return &MockRetriever{}
}

// Retrieve returns the configured chunks or delegates to RetrieveFunc.
func (m *MockRetriever) Retrieve(ctx context.Context, query string, limit int) ([]retrieval.Chunk, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, query, limit)
	}

	chunks := m.Chunks
	if limit > 0 && len(chunks) > limit {
		chunks = chunks[:limit]
	}
	return chunks, nil
}

// CallCount returns the number of times Retrieve was called.
func (m *MockRetriever) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// BookChunk builds a book-tagged chunk for tests.
func BookChunk(text, sourceName string, page int, relevance float32) retrieval.Chunk {
	return retrieval.Chunk{
		Kind:      core.SourceKindBook,
		Text:      text,
		Relevance: relevance,
		Book: &core.BookSource{
			SourceName: sourceName,
			BookType:   "textbook",
			PageNumber: page,
			Language:   "english",
			FilePath:   "books/" + sourceName + ".pdf",
		},
	}
}

// DatabaseChunk builds a database-tagged chunk for tests.
func DatabaseChunk(text, sourceName string, record int, relevance float32) retrieval.Chunk {
	return retrieval.Chunk{
		Kind:      core.SourceKindDatabase,
		Text:      text,
		Relevance: relevance,
		Database: &core.DatabaseSource{
			SourceName:     sourceName,
			DatabaseType:   "reference",
			RecordNumber:   record,
			FieldsIncluded: []string{"title", "body"},
		},
	}
}
