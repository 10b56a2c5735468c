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

import "errors"

// Domain validation errors
var (
	// ErrInvalidArtifact indicates a LessonArtifact failed validation.
	ErrInvalidArtifact = errors.New("invalid lesson artifact")

	// ErrInvalidSourceRecord indicates a SourceRecord failed validation.
	ErrInvalidSourceRecord = errors.New("invalid source record")

	// ErrEmptySubject indicates the subject field is empty.
	ErrEmptySubject = errors.New("subject cannot be empty")

	// ErrEmptyTopic indicates the topic field is empty.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrEmptyTitle indicates the title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyPreview indicates a source record has no content preview.
	ErrEmptyPreview = errors.New("content preview cannot be empty")

	// ErrAmbiguousSourceKind indicates a source record does not carry exactly
	// one kind-specific detail struct.
	ErrAmbiguousSourceKind = errors.New("source record must carry exactly one kind detail")

	// ErrKindMismatch indicates the Kind tag does not match the populated detail.
	ErrKindMismatch = errors.New("source kind does not match populated detail")

	// ErrInvalidVersion indicates a metadata version is not "major.minor".
	ErrInvalidVersion = errors.New("version must be of the form major.minor")
)
