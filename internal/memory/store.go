// Package memory holds the append-only decision log: the store the
// pipeline searches for context before a run and appends a verdict to
// after one.
package memory

import (
	"context"

	"warroom/internal/models"
)

// SearchLimit caps how many records a search returns, most recent first.
const SearchLimit = 5

// Store is the external row-store contract. Append adds exactly one row;
// rows are never updated or deleted, and duplicate log ids are allowed.
// Search matches its query as a case-insensitive substring of ticker,
// keywords, rationale or pacer_type; an empty result is valid, not an
// error.
type Store interface {
	Append(ctx context.Context, record models.LogRecord) error
	Search(ctx context.Context, query string) ([]models.LogRecord, error)
	Close() error
}
