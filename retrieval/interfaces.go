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


// Package retrieval defines the contract for the external knowledge
// retriever. The retriever itself (embedding, vector search, ranking) is an
// opaque collaborator; gurukul only consumes ranked chunks tagged with their
// provenance.
package retrieval

import (
	"context"

	"github.com/poiesic/gurukul/core"
)

// Chunk is one unit of retrieved text with provenance metadata.
// Kind is either core.SourceKindBook or core.SourceKindDatabase, with the
// matching detail struct populated.
type Chunk struct {
	Kind        core.SourceKind
	Text        string
	Relevance   float32
	VectorStore string
	Book        *core.BookSource
	Database    *core.DatabaseSource
}

// Retriever returns ranked content chunks relevant to a query.
// Implementations must be thread-safe for concurrent use.
type Retriever interface {
	// Retrieve returns up to limit chunks ranked by relevance (highest
	// first). An empty result is not an error; it simply means the
	// knowledge base holds nothing relevant.
	Retrieve(ctx context.Context, query string, limit int) ([]Chunk, error)
}
