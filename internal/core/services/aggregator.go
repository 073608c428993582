package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/streamlens/streamlens/internal/core/domain"
	"github.com/streamlens/streamlens/internal/core/ports/driven"
	"github.com/streamlens/streamlens/internal/core/ports/driving"
	"github.com/streamlens/streamlens/internal/eventbus"
	"github.com/streamlens/streamlens/internal/limiter"
	"github.com/streamlens/streamlens/internal/logger"
)

// DefaultConcurrency is the number of sources queried at once when the
// caller does not configure one.
const DefaultConcurrency = 3

// Ensure Aggregator implements the interface.
var _ driving.SearchAggregator = (*Aggregator)(nil)

// Aggregator fans one query out to all selected sources through a bounded
// limiter, dedups candidates across sources, and publishes lifecycle events
// as partial results arrive.
type Aggregator struct {
	client driven.SourceClient
	bus    *eventbus.Bus
	lim    *limiter.Limiter
}

// NewAggregator creates an aggregator querying at most concurrency sources
// at once. A non-positive concurrency falls back to DefaultConcurrency.
func NewAggregator(client driven.SourceClient, bus *eventbus.Bus, concurrency int) (*Aggregator, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	lim, err := limiter.New(concurrency)
	if err != nil {
		return nil, fmt.Errorf("create limiter: %w", err)
	}
	return &Aggregator{client: client, bus: bus, lim: lim}, nil
}

// runState is the per-run mutable state: the dedup set, the settled-source
// counter, the accumulated items, and the cancellation latch. It is scoped
// to one Search call so concurrent runs never interfere.
type runState struct {
	mu        sync.Mutex
	seen      map[string]struct{}
	items     []domain.MediaCandidate
	completed int
	total     int
	cancelled bool
}

// Search implements driving.SearchAggregator.
func (a *Aggregator) Search(
	ctx context.Context, query string, sources []domain.Source, page int,
) ([]domain.MediaCandidate, error) {
	logger.Section("Search Aggregation")
	logger.Debug("Query: %q, page: %d, sources: %d", query, page, len(sources))

	if len(sources) == 0 {
		logger.Warn("No sources selected, returning empty result")
		return []domain.MediaCandidate{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, err)
	}

	start := time.Now()
	st := &runState{
		seen:  make(map[string]struct{}),
		total: len(sources),
	}

	a.publish(domain.StartEvent{Query: query, Sources: sources, At: start})

	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.searchOne(ctx, st, query, src, page)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		st.cancel()
		a.publish(domain.AbortEvent{Query: query})
		logger.Info("Search aborted: %q", query)
		return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
	case <-done:
	}

	// The final race between completion and cancellation resolves to
	// cancelled.
	if err := ctx.Err(); err != nil || st.isCancelled() {
		st.cancel()
		a.publish(domain.AbortEvent{Query: query})
		logger.Info("Search aborted: %q", query)
		if err == nil {
			err = context.Canceled
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, err)
	}

	st.mu.Lock()
	items := st.items
	st.mu.Unlock()

	a.publish(domain.CompleteEvent{
		Query:      query,
		TotalItems: len(items),
		Duration:   time.Since(start),
	})
	logger.Info("Search complete: %q, %d items in %s", query, len(items), time.Since(start).Round(time.Millisecond))

	return items, nil
}

// searchOne runs one source's request through the limiter and settles it.
func (a *Aggregator) searchOne(ctx context.Context, st *runState, query string, src domain.Source, page int) {
	res, err := limiter.Go(ctx, a.lim, func() (domain.SearchPage, error) {
		if st.isCancelled() || ctx.Err() != nil {
			// Short-circuit to an empty contribution.
			return domain.SearchPage{}, context.Cause(ctx)
		}
		if !src.Enabled {
			// Callers filter with EnabledSources; a disabled source that
			// slips through settles as an ordinary failure.
			return domain.SearchPage{Success: false, Error: domain.ErrSourceDisabled.Error()}, nil
		}
		return a.client.Search(ctx, query, src, page)
	})
	a.settle(ctx, st, src, res, err)
}

// settle processes one source's outcome: dedup on success, an Error event
// on failure, and in either case exactly one Progress event. Events are
// published under the run lock so per-source ordering (Result before
// Progress) and the no-events-after-cancel guarantee hold; handlers must
// not call back into the aggregator.
func (a *Aggregator) settle(ctx context.Context, st *runState, src domain.Source, res domain.SearchPage, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.cancelled || ctx.Err() != nil {
		st.cancelled = true
		return
	}

	st.completed++

	switch {
	case err != nil:
		// The client contract reserves errors for cancellation, but a
		// misbehaving client is still treated as a source failure.
		logger.Warn("Source %s failed: %v", src.Name, err)
		a.publish(domain.ErrorEvent{Source: &src, Err: err})
	case !res.Success:
		logger.Warn("Source %s returned failure: %s", src.Name, res.Error)
		a.publish(domain.ErrorEvent{Source: &src, Err: fmt.Errorf("source %s: %s", src.ID, res.Error)})
	default:
		unique := make([]domain.MediaCandidate, 0, len(res.Items))
		for _, item := range res.Items {
			key := item.DedupKey()
			if _, dup := st.seen[key]; dup {
				continue
			}
			st.seen[key] = struct{}{}
			unique = append(unique, item)
		}
		st.items = append(st.items, unique...)
		logger.Debug("Source %s: %d items, %d new", src.Name, len(res.Items), len(unique))

		// Published even when no item survived dedup: pagination
		// metadata must still reach the caller.
		a.publish(domain.ResultEvent{Source: src, Items: unique, Pagination: res.Pagination})
	}

	a.publish(domain.ProgressEvent{Source: src, Completed: st.completed, Total: st.total})
}

func (a *Aggregator) publish(e eventbus.Event) {
	if a.bus != nil {
		a.bus.Publish(e)
	}
}

func (st *runState) cancel() {
	st.mu.Lock()
	st.cancelled = true
	st.mu.Unlock()
}

func (st *runState) isCancelled() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cancelled
}
