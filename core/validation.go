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

import "fmt"

// ValidateArtifact validates a LessonArtifact according to domain rules.
//
// Validation rules:
//   - Subject and Topic must not be empty
//   - Title must not be empty
//   - Every source record must pass ValidateSourceRecord
//
// NOT validated:
//   - Content fields (a non-structured artifact legitimately has none)
//   - Metadata (stamped by the knowledge store on save)
func ValidateArtifact(artifact *LessonArtifact) error {
	if artifact == nil {
		return fmt.Errorf("%w: artifact is nil", ErrInvalidArtifact)
	}

	if artifact.Subject == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArtifact, ErrEmptySubject)
	}

	if artifact.Topic == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArtifact, ErrEmptyTopic)
	}

	if artifact.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArtifact, ErrEmptyTitle)
	}

	for i := range artifact.Sources {
		if err := ValidateSourceRecord(&artifact.Sources[i]); err != nil {
			return fmt.Errorf("%w: source %d: %w", ErrInvalidArtifact, i, err)
		}
	}

	return nil
}

// ValidateSourceRecord validates a SourceRecord according to domain rules.
//
// Validation rules:
//   - ContentPreview must not be empty
//   - Exactly one kind-specific detail struct must be populated
//   - The Kind tag must match the populated detail
func ValidateSourceRecord(record *SourceRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidSourceRecord)
	}

	if record.ContentPreview == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSourceRecord, ErrEmptyPreview)
	}

	var populated int
	var kind SourceKind
	if record.Book != nil {
		populated++
		kind = SourceKindBook
	}
	if record.Database != nil {
		populated++
		kind = SourceKindDatabase
	}
	if record.Wikipedia != nil {
		populated++
		kind = SourceKindWikipedia
	}
	if record.Generation != nil {
		populated++
		kind = SourceKindGeneration
	}

	if populated != 1 {
		return fmt.Errorf("%w: %w (%d populated)", ErrInvalidSourceRecord, ErrAmbiguousSourceKind, populated)
	}

	if record.Kind != kind {
		return fmt.Errorf("%w: %w (kind %q, detail %q)", ErrInvalidSourceRecord, ErrKindMismatch, record.Kind, kind)
	}

	return nil
}
