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


package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Fingerprint normalizes a (subject, topic) pair into the addressing key shared
// by the knowledge store and the Wikipedia cache: lower-cased, with whitespace
// runs collapsed to single underscores. The normalization is a persistence
// contract; previously stored documents are addressed by it.
func Fingerprint(subject, topic string) string {
	return NormalizeKeyPart(subject) + "_" + NormalizeKeyPart(topic)
}

// NormalizeKeyPart normalizes a single key component (subject or topic).
func NormalizeKeyPart(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(fields, "_")
}

// SourceKind identifies the provenance of a piece of lesson content.
type SourceKind string

const (
	// SourceKindBook marks content retrieved from an ingested book.
	SourceKindBook SourceKind = "book"
	// SourceKindDatabase marks content retrieved from a structured database.
	SourceKindDatabase SourceKind = "database"
	// SourceKindWikipedia marks content fetched from Wikipedia.
	SourceKindWikipedia SourceKind = "wikipedia"
	// SourceKindGeneration marks content synthesized by the language model.
	SourceKindGeneration SourceKind = "llm_generation"
)

// BookSource holds metadata specific to book-derived content.
type BookSource struct {
	SourceName string `json:"source_name"`
	BookType   string `json:"book_type"`
	PageNumber int    `json:"page_number"`
	Language   string `json:"language"`
	FilePath   string `json:"file_path"`
}

// DatabaseSource holds metadata specific to database-derived content.
type DatabaseSource struct {
	SourceName     string   `json:"source_name"`
	DatabaseType   string   `json:"database_type"`
	RecordNumber   int      `json:"record_number"`
	FieldsIncluded []string `json:"fields_included"`
}

// WikipediaSource holds metadata specific to Wikipedia-derived content.
type WikipediaSource struct {
	SourceName  string    `json:"source_name"`
	URL         string    `json:"url"`
	AccessDate  time.Time `json:"access_date"`
	Reliability string    `json:"reliability"`
}

// GenerationSource holds metadata for model-generated content.
type GenerationSource struct {
	SourceName     string    `json:"source_name"`
	Model          string    `json:"model"`
	GenerationDate time.Time `json:"generation_date"`
	Reliability    string    `json:"reliability"`
}

// SourceRecord attributes one fragment of lesson content to its origin.
// It is a tagged union: Kind selects which detail struct is populated, and
// exactly one of Book/Database/Wikipedia/Generation must be non-nil.
// ContentPreview must never be empty in a record cited by an artifact.
type SourceRecord struct {
	Kind           SourceKind        `json:"kind"`
	VectorStore    string            `json:"vector_store,omitempty"`
	RelevanceScore *float32          `json:"relevance_score,omitempty"`
	ContentPreview string            `json:"content_preview"`
	Book           *BookSource       `json:"book,omitempty"`
	Database       *DatabaseSource   `json:"database,omitempty"`
	Wikipedia      *WikipediaSource  `json:"wikipedia,omitempty"`
	Generation     *GenerationSource `json:"generation,omitempty"`
}

// SourceName returns the human-readable name of whichever detail struct is set.
func (r *SourceRecord) SourceName() string {
	switch {
	case r.Book != nil:
		return r.Book.SourceName
	case r.Database != nil:
		return r.Database.SourceName
	case r.Wikipedia != nil:
		return r.Wikipedia.SourceName
	case r.Generation != nil:
		return r.Generation.SourceName
	}
	return ""
}

// LessonContent holds the structured fields of a generated lesson.
type LessonContent struct {
	Explanation string `json:"explanation"`
	Activity    string `json:"activity"`
	Question    string `json:"question"`
}

// Metadata tracks versioning and timestamps for a stored artifact.
// Version is a "major.minor" string; the minor component increments on
// every overwrite of the same key.
type Metadata struct {
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated_at"`
}

// LessonArtifact is the finished content object for one (subject, topic) key.
// At most one current artifact exists per key; saving again overwrites it and
// bumps the minor version.
type LessonArtifact struct {
	Subject           string         `json:"subject"`
	Topic             string         `json:"topic"`
	Title             string         `json:"title"`
	Content           LessonContent  `json:"content"`
	Sources           []SourceRecord `json:"sources"`
	KnowledgeBaseUsed bool           `json:"knowledge_base_used"`
	WikipediaUsed     bool           `json:"wikipedia_used"`
	// Structured is false when the generator never produced parseable output
	// and the artifact carries best-effort raw text instead.
	Structured bool     `json:"structured"`
	Metadata   Metadata `json:"metadata"`
}

// Key returns the artifact's normalized addressing key.
func (a *LessonArtifact) Key() string {
	return Fingerprint(a.Subject, a.Topic)
}

// WikiEntry is one cached Wikipedia lookup for a (subject, topic) key.
// An entry whose FetchedAt is older than the cache TTL is expired and must be
// refetched rather than served. Entries for unresolvable topics are stored
// with empty content fields so the external source is not queried again
// before the TTL elapses.
type WikiEntry struct {
	Subject   string    `json:"subject"`
	Topic     string    `json:"topic"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	URL       string    `json:"url"`
	Related   []string  `json:"related"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Empty reports whether the entry carries no usable content (negative cache).
func (e *WikiEntry) Empty() bool {
	return e.Summary == "" && e.Content == ""
}

// Expired reports whether the entry is older than ttl at the given instant.
func (e *WikiEntry) Expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.FetchedAt) > ttl
}

// TaskStatus is the lifecycle state of a generation task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// Terminal reports whether the status is completed or failed.
// Terminal states never transition again.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// Task tracks one asynchronous generation request.
// Tasks are owned by the task manager: created on acceptance, mutated by
// exactly one worker, and read by polling clients.
type Task struct {
	ID        string          `json:"id"`
	Subject   string          `json:"subject"`
	Topic     string          `json:"topic"`
	Requester string          `json:"requester_id"`
	Status    TaskStatus      `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Progress  string          `json:"progress_message"`
	Error     string          `json:"error_message,omitempty"`
	Result    *LessonArtifact `json:"artifact,omitempty"`
}

// Clone returns a shallow copy of the task suitable for returning to pollers
// without exposing the manager's mutable instance.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}
