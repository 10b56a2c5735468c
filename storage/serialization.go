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
	"encoding/json"
	"fmt"

	"github.com/poiesic/gurukul/core"
)

// Persisted documents are JSON, indented for direct inspection on disk.

// MarshalArtifact serializes a LessonArtifact to a JSON document.
func MarshalArtifact(artifact *core.LessonArtifact) ([]byte, error) {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalArtifact deserializes a LessonArtifact from a JSON document.
func UnmarshalArtifact(data []byte) (*core.LessonArtifact, error) {
	var artifact core.LessonArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &artifact, nil
}

// MarshalWikiEntry serializes a WikiEntry to a JSON document.
func MarshalWikiEntry(entry *core.WikiEntry) ([]byte, error) {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalWikiEntry deserializes a WikiEntry from a JSON document.
func UnmarshalWikiEntry(data []byte) (*core.WikiEntry, error) {
	var entry core.WikiEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &entry, nil
}
