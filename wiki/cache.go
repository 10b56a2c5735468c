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


package wiki

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/gurukul/core"
	"github.com/poiesic/gurukul/storage"
)

// DefaultTTL is the expiry window for cached entries: 7 days.
const DefaultTTL = 7 * 24 * time.Hour

const defaultSearchLimit = 5

// Cache is the disk-backed, TTL-expiring Wikipedia lookup cache, keyed by the
// normalized (subject, topic) fingerprint.
type Cache struct {
	kv          storage.KV
	fetcher     Fetcher
	ttl         time.Duration
	searchLimit int
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the entry expiry window. Default is DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithSearchLimit sets how many candidate titles each search query may yield.
func WithSearchLimit(limit int) Option {
	return func(c *Cache) {
		if limit > 0 {
			c.searchLimit = limit
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache creates a Wikipedia cache over the given KV backend and fetcher.
func NewCache(kv storage.KV, fetcher Fetcher, opts ...Option) (*Cache, error) {
	if kv == nil {
		return nil, ErrKVRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}

	c := &Cache{
		kv:          kv,
		fetcher:     fetcher,
		ttl:         DefaultTTL,
		searchLimit: defaultSearchLimit,
		now:         time.Now,
		logger:      slog.Default().With("component", "wiki-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetOrFetch returns the cache entry for (subject, topic), fetching from the
// external source only when the stored entry is missing or expired. The
// returned entry may be negative (Empty() true) when the topic could not be
// resolved; callers treat that as "no Wikipedia content".
func (c *Cache) GetOrFetch(ctx context.Context, subject, topic string) (*core.WikiEntry, error) {
	key := core.Fingerprint(subject, topic)
	now := c.now().UTC()

	if data, err := c.kv.Get(ctx, storage.AreaWikipediaCache, key); err == nil {
		entry, err := storage.UnmarshalWikiEntry(data)
		if err == nil && !entry.Expired(c.ttl, now) {
			c.logger.Debug("cache hit", "key", key, "age", now.Sub(entry.FetchedAt))
			return entry, nil
		}
		if err != nil {
			c.logger.Warn("discarding unreadable cache entry", "key", key, "err", err)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	entry := c.fetch(ctx, subject, topic)
	entry.FetchedAt = now

	data, err := storage.MarshalWikiEntry(entry)
	if err != nil {
		return nil, err
	}
	if err := c.kv.Put(ctx, storage.AreaWikipediaCache, key, data); err != nil {
		return nil, err
	}

	c.logger.Info("cache entry refreshed", "key", key, "resolved", !entry.Empty())
	return entry, nil
}

// fetch walks the query-variant ladder and returns the first resolvable page
// as an entry. A fully unresolvable topic yields a negative entry with empty
// content fields; the caller stamps and stores it so the external source is
// retried only after the TTL.
func (c *Cache) fetch(ctx context.Context, subject, topic string) *core.WikiEntry {
	entry := &core.WikiEntry{Subject: subject, Topic: topic}

	for _, candidate := range c.candidates(ctx, subject, topic) {
		page := c.fetchResolved(ctx, candidate)
		if page == nil {
			continue
		}
		entry.Title = page.Title
		entry.Summary = page.Summary
		entry.Content = page.Content
		entry.URL = page.URL
		entry.Related = page.Related
		return entry
	}

	c.logger.Debug("no resolvable page", "subject", subject, "topic", topic)
	return entry
}

// candidates collects page titles across all query variants, deduplicated
// preserving first-seen order. A failed search query is skipped, not fatal.
func (c *Cache) candidates(ctx context.Context, subject, topic string) []string {
	seen := make(map[string]bool)
	var titles []string

	for _, query := range QueryVariants(subject, topic) {
		results, err := c.fetcher.Search(ctx, query, c.searchLimit)
		if err != nil {
			c.logger.Warn("search query failed", "query", query, "err", err)
			continue
		}
		for _, title := range results {
			if title == "" || seen[title] {
				continue
			}
			seen[title] = true
			titles = append(titles, title)
		}
	}
	return titles
}

// fetchResolved fetches one candidate, following a single level of
// disambiguation. Returns nil if the candidate could not be resolved.
func (c *Cache) fetchResolved(ctx context.Context, title string) *Page {
	page, err := c.fetcher.Fetch(ctx, title)
	if err != nil {
		if !errors.Is(err, ErrPageNotFound) {
			c.logger.Warn("fetch failed", "title", title, "err", err)
		}
		return nil
	}

	if page.Disambiguation {
		if len(page.Options) == 0 {
			return nil
		}
		resolved, err := c.fetcher.Fetch(ctx, page.Options[0])
		if err != nil || resolved.Disambiguation {
			return nil
		}
		return resolved
	}

	return page
}
