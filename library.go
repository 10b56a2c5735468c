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


// Package gurukul assembles the lesson-generation pipeline: a knowledge
// store and Wikipedia cache over one key-value backend, an orchestrator that
// merges retrieved grounding with model generation, and a task manager that
// runs the whole thing asynchronously.
package gurukul

import (
	"context"
	"log/slog"

	"github.com/poiesic/gurukul/ai"
	"github.com/poiesic/gurukul/ai/openai"
	"github.com/poiesic/gurukul/core"
	"github.com/poiesic/gurukul/generation"
	"github.com/poiesic/gurukul/retrieval"
	"github.com/poiesic/gurukul/storage"
	"github.com/poiesic/gurukul/storage/badger"
	"github.com/poiesic/gurukul/storage/file"
	"github.com/poiesic/gurukul/tasks"
	"github.com/poiesic/gurukul/wiki"
	"github.com/poiesic/gurukul/wiki/mediawiki"
)

// Library is the top-level handle over the whole subsystem.
type Library struct {
	kv      storage.KV
	store   *storage.ArtifactStore
	cache   *wiki.Cache
	manager *tasks.Manager
	logger  *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig    *ai.Config
	generator   ai.Generator
	retriever   retrieval.Retriever
	fetcher     wiki.Fetcher
	fileBacked  bool
	inMemory    bool
	taskOptions []tasks.Option
	wikiOptions []wiki.Option
}

// WithAIConfig sets the generator endpoint configuration. Ignored when a
// generator is injected directly.
func WithAIConfig(config *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithGenerator injects a generator, bypassing the OpenAI-compatible client.
func WithGenerator(generator ai.Generator) LibraryOption {
	return func(o *libraryOptions) {
		o.generator = generator
	}
}

// WithRetriever attaches an external knowledge retriever. Without one,
// requests that ask for the knowledge base degrade to the other sources.
func WithRetriever(retriever retrieval.Retriever) LibraryOption {
	return func(o *libraryOptions) {
		o.retriever = retriever
	}
}

// WithFetcher overrides the Wikipedia fetcher. Default is the live
// MediaWiki client.
func WithFetcher(fetcher wiki.Fetcher) LibraryOption {
	return func(o *libraryOptions) {
		o.fetcher = fetcher
	}
}

// WithFileStorage stores artifacts and cache entries as plain JSON files
// under the data path instead of a Badger database.
func WithFileStorage() LibraryOption {
	return func(o *libraryOptions) {
		o.fileBacked = true
	}
}

// WithInMemoryStorage keeps all state in memory. For tests and scratch use.
func WithInMemoryStorage() LibraryOption {
	return func(o *libraryOptions) {
		o.inMemory = true
	}
}

// WithTaskOptions forwards options to the task manager.
func WithTaskOptions(opts ...tasks.Option) LibraryOption {
	return func(o *libraryOptions) {
		o.taskOptions = append(o.taskOptions, opts...)
	}
}

// WithWikiOptions forwards options to the Wikipedia cache.
func WithWikiOptions(opts ...wiki.Option) LibraryOption {
	return func(o *libraryOptions) {
		o.wikiOptions = append(o.wikiOptions, opts...)
	}
}

// NewLibrary opens the storage backend at dataPath and wires the pipeline.
func NewLibrary(dataPath string, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	kv, err := openKV(dataPath, options)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewArtifactStore(kv)
	if err != nil {
		kv.Close()
		return nil, err
	}

	fetcher := options.fetcher
	if fetcher == nil {
		fetcher = mediawiki.NewClient()
	}
	cache, err := wiki.NewCache(kv, fetcher, options.wikiOptions...)
	if err != nil {
		kv.Close()
		return nil, err
	}

	generator := options.generator
	if generator == nil {
		generator, err = openai.NewGenerator(options.aiConfig)
		if err != nil {
			kv.Close()
			return nil, err
		}
	}

	orchestratorOpts := []generation.Option{generation.WithWikiSource(cache)}
	if options.retriever != nil {
		orchestratorOpts = append(orchestratorOpts, generation.WithRetriever(options.retriever))
	}
	orchestrator, err := generation.NewOrchestrator(generator, orchestratorOpts...)
	if err != nil {
		kv.Close()
		return nil, err
	}

	manager, err := tasks.NewManager(store, orchestrator, options.taskOptions...)
	if err != nil {
		kv.Close()
		return nil, err
	}

	return &Library{
		kv:      kv,
		store:   store,
		cache:   cache,
		manager: manager,
		logger:  slog.Default(),
	}, nil
}

func openKV(dataPath string, options *libraryOptions) (storage.KV, error) {
	switch {
	case options.inMemory:
		return badger.OpenMemory()
	case options.fileBacked:
		return file.Open(dataPath)
	default:
		return badger.Open(dataPath)
	}
}

// Generate accepts an asynchronous generation request.
func (l *Library) Generate(ctx context.Context, req tasks.Request) (*core.Task, error) {
	return l.manager.Create(ctx, req)
}

// Status returns a snapshot of a task.
func (l *Library) Status(taskID string) (*core.Task, error) {
	return l.manager.Get(taskID)
}

// Tasks returns snapshots of all tracked tasks, newest first.
func (l *Library) Tasks() []*core.Task {
	return l.manager.List()
}

// Artifact returns the current lesson for a (subject, topic) key.
func (l *Library) Artifact(ctx context.Context, subject, topic string) (*core.LessonArtifact, error) {
	return l.store.Get(ctx, subject, topic)
}

// Keys lists all stored (subject, topic) keys.
func (l *Library) Keys(ctx context.Context) ([]string, error) {
	return l.store.List(ctx)
}

// Search matches artifacts by substring over subject, topic, title, and
// content fields.
func (l *Library) Search(ctx context.Context, query string) ([]*core.LessonArtifact, error) {
	return l.store.Search(ctx, query)
}

// Store exposes the artifact store for direct use.
func (l *Library) Store() *storage.ArtifactStore {
	return l.store
}

// Cache exposes the Wikipedia cache for direct use.
func (l *Library) Cache() *wiki.Cache {
	return l.cache
}

// Close stops the task manager and closes the storage backend. In-flight
// tasks run to completion before the pool drains.
func (l *Library) Close() error {
	if err := l.manager.Close(); err != nil {
		l.logger.Error("error closing task manager", "err", err)
	}

	if err := l.kv.Close(); err != nil {
		l.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}
