package driven

import (
	"context"

	"github.com/streamlens/streamlens/internal/core/domain"
)

// HistoryStore persists completed search runs.
type HistoryStore interface {
	// Append records one completed search.
	Append(ctx context.Context, record domain.SearchRecord) error

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]domain.SearchRecord, error)

	// Clear removes all history.
	Clear(ctx context.Context) error
}
