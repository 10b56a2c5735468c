package wiki

import "errors"

var (
	// ErrPageNotFound indicates the fetcher could not resolve a page title.
	ErrPageNotFound = errors.New("wikipedia page not found")

	// ErrFetcherRequired is returned when a fetcher is not provided.
	ErrFetcherRequired = errors.New("fetcher required")

	// ErrKVRequired is returned when a KV backend is not provided.
	ErrKVRequired = errors.New("kv backend required")
)
