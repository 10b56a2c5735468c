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


// Package mock provides test doubles for the wiki package.
package mock

import (
	"context"
	"sync"

	"github.com/poiesic/gurukul/wiki"
)

// MockFetcher is a test double for wiki.Fetcher.
// It allows custom behavior injection via function fields and counts calls so
// tests can assert that cache hits make no network access.
type MockFetcher struct {
	// SearchFunc is called by Search if set.
	// If nil, Titles is returned for every query.
	SearchFunc func(ctx context.Context, query string, limit int) ([]string, error)

	// FetchFunc is called by Fetch if set.
	// If nil, Pages[title] is returned, or wiki.ErrPageNotFound.
	FetchFunc func(ctx context.Context, title string) (*wiki.Page, error)

	// Titles is the default search result.
	Titles []string

	// Pages is the default fetch result set, keyed by title.
	Pages map[string]*wiki.Page

	mu          sync.Mutex
	searchCalls int
	fetchCalls  int
}

var _ wiki.Fetcher = (*MockFetcher)(nil)

// NewMockFetcher creates a mock fetcher with no pages.
// Note: Returns concrete type to allow test assertions via call counters.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{Pages: make(map[string]*wiki.Page)}
}

// Search returns the configured titles or delegates to SearchFunc.
func (m *MockFetcher) Search(ctx context.Context, query string, limit int) ([]string, error) {
	m.mu.Lock()
	m.searchCalls++
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, limit)
	}

	titles := m.Titles
	if limit > 0 && len(titles) > limit {
		titles = titles[:limit]
	}
	return titles, nil
}

// Fetch returns the configured page or delegates to FetchFunc.
func (m *MockFetcher) Fetch(ctx context.Context, title string) (*wiki.Page, error) {
	m.mu.Lock()
	m.fetchCalls++
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, title)
	}

	page, ok := m.Pages[title]
	if !ok {
		return nil, wiki.ErrPageNotFound
	}
	return page, nil
}

// SearchCalls returns the number of times Search was called.
func (m *MockFetcher) SearchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchCalls
}

// FetchCalls returns the number of times Fetch was called.
func (m *MockFetcher) FetchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

// Calls returns the total number of external calls (search + fetch).
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchCalls + m.fetchCalls
}

// Reset clears counters and custom functions.
func (m *MockFetcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls = 0
	m.fetchCalls = 0
	m.SearchFunc = nil
	m.FetchFunc = nil
}
