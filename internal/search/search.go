// Package search wraps the analytics index store behind a small
// capability set: exists, create, bulk upsert, search, count. Callers
// depend on the Store interface, never on the concrete client.
package search

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrUnavailable reports that the index store could not be reached.
// Handlers translate it to 503 rather than a generic error.
var ErrUnavailable = errors.New("search store unavailable")

// Document is one upsert unit. ID is the document identity: writing
// the same ID again overwrites instead of duplicating.
type Document struct {
	ID   string
	Body any
}

// BulkFailure describes one document that failed inside a bulk batch.
type BulkFailure struct {
	ID     string
	Status int
	Reason string
}

// Hit is one search result. Sort carries the sort values used for
// search-after pagination.
type Hit struct {
	ID     string
	Source json.RawMessage
	Sort   []any
}

// Result is a parsed search response.
type Result struct {
	Total        int64
	Hits         []Hit
	Aggregations map[string]json.RawMessage
}

//go:generate mockgen -source=search.go -destination=store_mock.go -package=search
type Store interface {
	Ping(ctx context.Context) error
	Exists(ctx context.Context, index string) (bool, error)
	Create(ctx context.Context, index, mapping string) error
	// BulkUpsert writes all documents in one round trip. Individual
	// failures are returned, not raised: partial success is acceptable
	// for a derived cache.
	BulkUpsert(ctx context.Context, index string, docs []Document) (int, []BulkFailure, error)
	Search(ctx context.Context, index string, body any) (*Result, error)
	Count(ctx context.Context, index string) (int64, error)
}
