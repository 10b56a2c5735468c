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


package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/gurukul/core"
)

// ArtifactStore is the versioned knowledge store for lesson artifacts.
// Each normalized (subject, topic) key maps to at most one current artifact;
// saving over an existing key overwrites it and bumps the minor version.
// There is no retained history beyond the version counter.
type ArtifactStore struct {
	kv     KV
	locks  KeyedMutex
	logger *slog.Logger
}

// ArtifactStoreOption configures an ArtifactStore.
type ArtifactStoreOption func(*ArtifactStore)

// WithArtifactLogger sets a custom logger.
// Default is slog.Default().
func WithArtifactLogger(logger *slog.Logger) ArtifactStoreOption {
	return func(s *ArtifactStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewArtifactStore creates an artifact store over the given KV backend.
func NewArtifactStore(kv KV, opts ...ArtifactStoreOption) (*ArtifactStore, error) {
	if kv == nil {
		return nil, ErrKVRequired
	}

	s := &ArtifactStore{
		kv:     kv,
		logger: slog.Default().With("component", "artifact-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save persists the artifact at its normalized key, stamping metadata.
// A new key starts at version 1.0; an existing key gets major.(minor+1) and
// keeps its original created-at. The version read and the overwrite are
// serialized per key so concurrent saves cannot produce duplicate versions.
// Returns the artifact with metadata populated.
func (s *ArtifactStore) Save(ctx context.Context, artifact *core.LessonArtifact) (*core.LessonArtifact, error) {
	if err := core.ValidateArtifact(artifact); err != nil {
		return nil, err
	}

	key := artifact.Key()
	unlock := s.locks.Lock(key)
	defer unlock()

	now := time.Now().UTC()
	prior, err := s.getByKey(ctx, key)
	switch {
	case err == nil:
		artifact.Metadata = core.Metadata{
			Version:     core.BumpVersion(prior.Metadata.Version),
			CreatedAt:   prior.Metadata.CreatedAt,
			LastUpdated: now,
		}
	case errors.Is(err, ErrNotFound):
		artifact.Metadata = core.Metadata{
			Version:     core.InitialVersion,
			CreatedAt:   now,
			LastUpdated: now,
		}
	default:
		return nil, fmt.Errorf("reading prior artifact: %w", err)
	}

	data, err := MarshalArtifact(artifact)
	if err != nil {
		return nil, err
	}

	if err := s.kv.Put(ctx, AreaKnowledgeStore, key, data); err != nil {
		return nil, fmt.Errorf("persisting artifact %q: %w", key, err)
	}

	s.logger.Info("artifact saved",
		"key", key,
		"version", artifact.Metadata.Version,
		"sources", len(artifact.Sources))
	return artifact, nil
}

// Get returns the current artifact for (subject, topic).
// Returns ErrNotFound if the key has no artifact.
func (s *ArtifactStore) Get(ctx context.Context, subject, topic string) (*core.LessonArtifact, error) {
	return s.getByKey(ctx, core.Fingerprint(subject, topic))
}

// Exists reports whether an artifact is stored for (subject, topic).
func (s *ArtifactStore) Exists(ctx context.Context, subject, topic string) (bool, error) {
	_, err := s.Get(ctx, subject, topic)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// List returns all stored artifact keys.
func (s *ArtifactStore) List(ctx context.Context) ([]string, error) {
	return s.kv.List(ctx, AreaKnowledgeStore)
}

// Search scans all stored artifacts for a case-insensitive substring match
// over subject, topic, title, and content fields. Linear scan; the store is
// small and search is not a hot path.
func (s *ArtifactStore) Search(ctx context.Context, query string) ([]*core.LessonArtifact, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []*core.LessonArtifact{}, nil
	}

	keys, err := s.kv.List(ctx, AreaKnowledgeStore)
	if err != nil {
		return nil, err
	}

	var matches []*core.LessonArtifact
	for _, key := range keys {
		artifact, err := s.getByKey(ctx, key)
		if err != nil {
			// A key listed but unreadable is corrupt; skip it rather than
			// failing the whole search.
			s.logger.Warn("skipping unreadable artifact", "key", key, "err", err)
			continue
		}
		if artifactMatches(artifact, query) {
			matches = append(matches, artifact)
		}
	}
	return matches, nil
}

func (s *ArtifactStore) getByKey(ctx context.Context, key string) (*core.LessonArtifact, error) {
	if key == "" || key == "_" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	data, err := s.kv.Get(ctx, AreaKnowledgeStore, key)
	if err != nil {
		return nil, err
	}
	return UnmarshalArtifact(data)
}

func artifactMatches(artifact *core.LessonArtifact, query string) bool {
	for _, field := range []string{
		artifact.Subject,
		artifact.Topic,
		artifact.Title,
		artifact.Content.Explanation,
		artifact.Content.Activity,
		artifact.Content.Question,
	} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
