package sourceclient

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Per-host defaults. Providers are small community-run boxes; stay well
// below anything that could look like scraping.
const (
	defaultRequestsPerSecond = 4.0
	defaultBurstSize         = 8
)

// hostLimiters hands out one token-bucket limiter per provider host so a
// burst of paged requests to one provider cannot starve the others.
type hostLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

func newHostLimiters() *hostLimiters {
	return &hostLimiters{
		limiters: make(map[string]*rate.Limiter),
		rps:      defaultRequestsPerSecond,
		burst:    defaultBurstSize,
	}
}

// wait blocks until a request to host is allowed or ctx is cancelled.
func (h *hostLimiters) wait(ctx context.Context, host string) error {
	h.mu.Lock()
	lim, ok := h.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(h.rps), h.burst)
		h.limiters[host] = lim
	}
	h.mu.Unlock()

	return lim.Wait(ctx)
}
