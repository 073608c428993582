package driven

import (
	"context"

	"github.com/streamlens/streamlens/internal/core/domain"
)

// SourceClient performs one search request against one source.
// Implementations own their timeout and retry policy.
//
// Ordinary HTTP or application failures are reported in the returned page
// with Success=false and never as a Go error; the error return is reserved
// for cancellation (ctx.Err or an error wrapping it).
type SourceClient interface {
	Search(ctx context.Context, query string, source domain.Source, page int) (domain.SearchPage, error)
}
