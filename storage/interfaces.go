package storage

import "context"

// Storage areas. Each area holds one JSON document per normalized key.
const (
	// AreaKnowledgeStore holds finished lesson artifacts.
	AreaKnowledgeStore = "knowledge_store"

	// AreaWikipediaCache holds cached Wikipedia lookups.
	AreaWikipediaCache = "wikipedia_cache"
)

// KV is the document substrate shared by the knowledge store and the
// Wikipedia cache: JSON documents addressed by (area, normalized key).
// Implementations must be thread-safe and support concurrent access.
type KV interface {
	// Get returns the document stored at (area, key).
	// Returns ErrNotFound if no document exists.
	Get(ctx context.Context, area, key string) ([]byte, error)

	// Put stores the document at (area, key), overwriting any prior value.
	Put(ctx context.Context, area, key string, value []byte) error

	// Delete removes the document at (area, key).
	// Returns ErrNotFound if no document exists.
	Delete(ctx context.Context, area, key string) error

	// List returns all keys present in the area, sorted lexicographically.
	List(ctx context.Context, area string) ([]string, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
