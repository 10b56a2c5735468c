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


// Package generation orchestrates the lesson pipeline: consult the knowledge
// retriever and the Wikipedia cache per request toggles, merge the grounding
// material into one prompt, invoke the generator with structural validation
// and retry, and assemble the attributed lesson artifact.
package generation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/gurukul/ai"
	"github.com/poiesic/gurukul/attribution"
	"github.com/poiesic/gurukul/core"
	"github.com/poiesic/gurukul/retrieval"
)

const (
	// defaultMaxAttempts is the generator retry budget for malformed output.
	defaultMaxAttempts = 3

	// defaultRetrieveLimit caps how many chunks are requested per lesson.
	defaultRetrieveLimit = 5
)

// WikiSource is the slice of the Wikipedia cache the orchestrator consumes.
type WikiSource interface {
	GetOrFetch(ctx context.Context, subject, topic string) (*core.WikiEntry, error)
}

// Request describes one lesson to produce.
type Request struct {
	Subject          string
	Topic            string
	UseKnowledgeBase bool
	IncludeWikipedia bool

	// Progress, if set, receives human-readable stage messages.
	Progress func(message string)
}

func (r *Request) report(message string) {
	if r.Progress != nil {
		r.Progress(message)
	}
}

// Orchestrator runs the retrieval and generation pipeline for one request at
// a time; it holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	generator     ai.Generator
	retriever     retrieval.Retriever
	wiki          WikiSource
	attributor    *attribution.Attributor
	maxAttempts   int
	retrieveLimit int
	logger        *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRetriever attaches the external knowledge retriever. Without one, the
// knowledge-base toggle is a no-op.
func WithRetriever(r retrieval.Retriever) Option {
	return func(o *Orchestrator) {
		o.retriever = r
	}
}

// WithWikiSource attaches the Wikipedia cache. Without one, the Wikipedia
// toggle is a no-op.
func WithWikiSource(w WikiSource) Option {
	return func(o *Orchestrator) {
		o.wiki = w
	}
}

// WithMaxAttempts sets the generator retry budget.
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithRetrieveLimit sets how many chunks to request from the retriever.
func WithRetrieveLimit(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.retrieveLimit = n
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAttributor overrides the source attributor, mainly to pin its clock in
// tests.
func WithAttributor(a *attribution.Attributor) Option {
	return func(o *Orchestrator) {
		if a != nil {
			o.attributor = a
		}
	}
}

// NewOrchestrator creates an orchestrator around the given generator.
func NewOrchestrator(generator ai.Generator, opts ...Option) (*Orchestrator, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	o := &Orchestrator{
		generator:     generator,
		attributor:    attribution.NewAttributor(),
		maxAttempts:   defaultMaxAttempts,
		retrieveLimit: defaultRetrieveLimit,
		logger:        slog.Default().With("component", "orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Generate produces the lesson artifact for a request. A failing retriever or
// Wikipedia source degrades silently to the remaining sources; malformed
// generator output after the retry budget degrades to a non-structured,
// best-effort artifact. Only a generator that yields nothing at all makes
// Generate fail, with ErrNoContent.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*core.LessonArtifact, error) {
	chunks := o.retrieve(ctx, req)
	entry := o.consultWiki(ctx, req)

	req.report("generating lesson content")
	prompt := buildPrompt(req.Subject, req.Topic, chunks, entry)
	payload, raw := o.generate(ctx, prompt)

	chunkRecords := o.attributor.FromChunks(chunks)
	artifact := &core.LessonArtifact{
		Subject:           req.Subject,
		Topic:             req.Topic,
		Sources:           chunkRecords,
		KnowledgeBaseUsed: len(chunkRecords) > 0,
	}
	if record := o.attributor.FromWiki(entry); record != nil {
		artifact.WikipediaUsed = true
		artifact.Sources = append(artifact.Sources, *record)
	}

	switch {
	case payload != nil:
		artifact.Structured = true
		artifact.Title = payload.Title
		artifact.Content = core.LessonContent{
			Explanation: payload.Explanation,
			Activity:    payload.Activity,
			Question:    payload.Question,
		}
	case strings.TrimSpace(raw) != "":
		// Best effort: the raw text is preserved under the title field and
		// the artifact is flagged non-structured.
		o.logger.Warn("generator output never validated, keeping raw text",
			"subject", req.Subject, "topic", req.Topic)
		artifact.Structured = false
		artifact.Title = strings.TrimSpace(raw)
	default:
		return nil, ErrNoContent
	}

	if len(artifact.Sources) == 0 {
		text := artifact.Content.Explanation
		if text == "" {
			text = artifact.Title
		}
		if record := o.attributor.FromGeneration(o.generator.Model(), text); record != nil {
			artifact.Sources = append(artifact.Sources, *record)
		}
	}

	return artifact, nil
}

// retrieve queries the knowledge retriever when the toggle is on. Any failure
// is logged and swallowed; the pipeline degrades to the remaining sources.
func (o *Orchestrator) retrieve(ctx context.Context, req Request) []retrieval.Chunk {
	if !req.UseKnowledgeBase || o.retriever == nil {
		return nil
	}

	req.report("consulting knowledge base")
	query := req.Subject + " " + req.Topic
	chunks, err := o.retriever.Retrieve(ctx, query, o.retrieveLimit)
	if err != nil {
		o.logger.Warn("knowledge retriever unavailable", "query", query, "err", err)
		return nil
	}
	return chunks
}

func (o *Orchestrator) consultWiki(ctx context.Context, req Request) *core.WikiEntry {
	if !req.IncludeWikipedia || o.wiki == nil {
		return nil
	}

	req.report("consulting Wikipedia")
	entry, err := o.wiki.GetOrFetch(ctx, req.Subject, req.Topic)
	if err != nil {
		o.logger.Warn("wikipedia source unavailable",
			"subject", req.Subject, "topic", req.Topic, "err", err)
		return nil
	}
	return entry
}

// generate invokes the generator up to maxAttempts times, returning the first
// payload that passes structural validation, plus the last raw output for the
// best-effort fallback. Both results nil/empty means the generator produced
// nothing usable at all.
func (o *Orchestrator) generate(ctx context.Context, prompt string) (*ai.LessonPayload, string) {
	var lastRaw string

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		raw, err := o.generator.GenerateLesson(ctx, prompt)
		if err != nil {
			o.logger.Warn("generator call failed", "attempt", attempt, "err", err)
			continue
		}
		if strings.TrimSpace(raw) != "" {
			lastRaw = raw
		}

		payload, err := ai.ParseLessonPayload(raw)
		if err == nil {
			return payload, raw
		}
		if errors.Is(err, ai.ErrMalformedPayload) {
			o.logger.Warn("generator output failed validation",
				"attempt", attempt, "remaining", o.maxAttempts-attempt)
			continue
		}
		o.logger.Warn("generator output unreadable", "attempt", attempt, "err", err)
	}

	return nil, lastRaw
}
