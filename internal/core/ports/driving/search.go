package driving

import (
	"context"

	"github.com/streamlens/streamlens/internal/core/domain"
)

// SearchAggregator fans a query out to sources, dedups the results, and
// publishes lifecycle events while doing so.
type SearchAggregator interface {
	// Search returns the concatenation of all unique candidates across
	// sources. An empty source list yields an empty result. Cancellation
	// via ctx fails the run with an error wrapping domain.ErrCancelled;
	// individual source failures never fail the run.
	Search(ctx context.Context, query string, sources []domain.Source, page int) ([]domain.MediaCandidate, error)
}

// PlaylistMatcher ranks aggregated candidates against a reference title.
type PlaylistMatcher interface {
	// Rank is pure and deterministic for a fixed input.
	Rank(candidates []domain.MediaCandidate, ref domain.Reference) domain.MatchReport
}
