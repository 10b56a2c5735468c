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


// Package attribution normalizes the heterogeneous provenance of lesson
// content (retrieved chunks, Wikipedia entries, model generation) into the
// uniform core.SourceRecord schema.
package attribution

import (
	"strings"
	"time"

	"github.com/poiesic/gurukul/core"
	"github.com/poiesic/gurukul/retrieval"
)

// PreviewLength is the maximum rune length of a content preview.
const PreviewLength = 200

const (
	// ReliabilityHigh is assigned to encyclopedia-backed records.
	ReliabilityHigh = "high"
	// ReliabilityVariable is assigned to model-generated records.
	ReliabilityVariable = "variable"
)

// Attributor builds SourceRecord lists.
// A record is emitted only when a non-empty preview can be extracted from the
// underlying content; anything else is dropped rather than cited empty.
type Attributor struct {
	now func() time.Time
}

// Option configures an Attributor.
type Option func(*Attributor)

// WithClock overrides the time source used for access and generation dates.
func WithClock(now func() time.Time) Option {
	return func(a *Attributor) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAttributor creates an Attributor.
func NewAttributor(opts ...Option) *Attributor {
	a := &Attributor{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FromChunks converts retrieved chunks into source records. Chunks with no
// extractable text are dropped, and chunks with identical text are collapsed
// into a single record.
func (a *Attributor) FromChunks(chunks []retrieval.Chunk) []core.SourceRecord {
	seen := make(map[core.ID]bool, len(chunks))
	records := make([]core.SourceRecord, 0, len(chunks))

	for _, chunk := range chunks {
		preview := Preview(chunk.Text)
		if preview == "" {
			continue
		}

		id := core.IDFromContent(chunk.Text)
		if seen[id] {
			continue
		}
		seen[id] = true

		record := core.SourceRecord{
			Kind:           chunk.Kind,
			VectorStore:    chunk.VectorStore,
			ContentPreview: preview,
		}
		relevance := chunk.Relevance
		record.RelevanceScore = &relevance

		switch chunk.Kind {
		case core.SourceKindBook:
			if chunk.Book == nil {
				continue
			}
			book := *chunk.Book
			record.Book = &book
		case core.SourceKindDatabase:
			if chunk.Database == nil {
				continue
			}
			db := *chunk.Database
			record.Database = &db
		default:
			continue
		}

		records = append(records, record)
	}
	return records
}

// FromWiki converts a cached Wikipedia entry into a single source record.
// Returns nil for negative entries or entries with no extractable preview.
func (a *Attributor) FromWiki(entry *core.WikiEntry) *core.SourceRecord {
	if entry == nil || entry.Empty() {
		return nil
	}

	preview := Preview(entry.Summary)
	if preview == "" {
		preview = Preview(entry.Content)
	}
	if preview == "" {
		return nil
	}

	return &core.SourceRecord{
		Kind:           core.SourceKindWikipedia,
		ContentPreview: preview,
		Wikipedia: &core.WikipediaSource{
			SourceName:  entry.Title,
			URL:         entry.URL,
			AccessDate:  a.now().UTC(),
			Reliability: ReliabilityHigh,
		},
	}
}

// FromGeneration attributes model-synthesized prose. Returns nil when the
// generated text yields no preview.
func (a *Attributor) FromGeneration(model, text string) *core.SourceRecord {
	preview := Preview(text)
	if preview == "" {
		return nil
	}

	return &core.SourceRecord{
		Kind:           core.SourceKindGeneration,
		ContentPreview: preview,
		Generation: &core.GenerationSource{
			SourceName:     "language model",
			Model:          model,
			GenerationDate: a.now().UTC(),
			Reliability:    ReliabilityVariable,
		},
	}
}

// Preview returns the bounded preview snippet for a piece of text, or the
// empty string when no printable content exists.
func Preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength])
}
