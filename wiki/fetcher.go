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


// Package wiki provides the TTL-expiring Wikipedia lookup cache.
//
// The cache serves non-expired entries without any network access. On a miss
// or an expired entry it walks a ladder of query-string variants through an
// external Fetcher, resolves one level of disambiguation, and persists
// whatever it found — including nothing: unresolvable topics are stored as
// negative entries with empty content so the external source is not queried
// again before the TTL elapses.
package wiki

import "context"

// Page is the raw result of fetching one Wikipedia page.
type Page struct {
	Title   string
	Summary string
	Content string
	URL     string
	Related []string

	// Disambiguation is true when the title resolved to a disambiguation
	// page; Options then lists the page titles it offers, in page order.
	Disambiguation bool
	Options        []string
}

// Fetcher is the external Wikipedia collaborator.
// Implementations must be thread-safe and enforce per-call timeouts so a hung
// upstream cannot block a generation worker indefinitely.
type Fetcher interface {
	// Search returns candidate page titles for a free-text query, best first.
	Search(ctx context.Context, query string, limit int) ([]string, error)

	// Fetch retrieves one page by exact title.
	// Returns ErrPageNotFound if the title does not resolve.
	Fetch(ctx context.Context, title string) (*Page, error)
}
