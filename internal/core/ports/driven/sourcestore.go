package driven

import (
	"context"

	"github.com/streamlens/streamlens/internal/core/domain"
)

// SourceStore persists source descriptors.
type SourceStore interface {
	// Get returns a source by ID. Returns domain.ErrNotFound if missing.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all sources ordered by name.
	List(ctx context.Context) ([]domain.Source, error)

	// Save creates or updates a source.
	Save(ctx context.Context, source domain.Source) error

	// Delete removes a source. Returns domain.ErrNotFound if missing.
	Delete(ctx context.Context, id string) error

	// SetEnabled toggles a source's participation in searches.
	SetEnabled(ctx context.Context, id string, enabled bool) error
}
