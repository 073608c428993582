// Package limiter provides a bounded-concurrency task runner with strict
// FIFO admission. At most N tasks execute at once; waiters are admitted in
// the order they arrived, and one task's failure never affects the
// scheduling of the others.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidLimit is returned by New for a non-positive limit.
var ErrInvalidLimit = errors.New("limit must be at least 1")

// Limiter admits at most a fixed number of concurrently executing tasks.
type Limiter struct {
	mu       sync.Mutex
	limit    int
	inFlight int
	waiters  []chan struct{}
}

// New creates a limiter that admits up to limit concurrent tasks.
func New(limit int) (*Limiter, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	return &Limiter{limit: limit}, nil
}

// Do runs task once a slot is available and returns the task's error.
// Waiting is aborted if ctx is cancelled first, in which case the task never
// runs and ctx.Err() is returned.
func (l *Limiter) Do(ctx context.Context, task func() error) error {
	if err := l.acquire(ctx); err != nil {
		return err
	}
	defer l.release()
	return task()
}

// Go is like Do for tasks that produce a value.
func Go[T any](ctx context.Context, l *Limiter, task func() (T, error)) (T, error) {
	var result T
	err := l.Do(ctx, func() error {
		var taskErr error
		result, taskErr = task()
		return taskErr
	})
	return result, err
}

// InFlight returns the number of currently executing tasks.
func (l *Limiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

// Pending returns the number of tasks waiting for admission.
func (l *Limiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.waiters)
}

func (l *Limiter) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	if l.inFlight < l.limit {
		l.inFlight++
		l.mu.Unlock()
		return nil
	}

	ready := make(chan struct{})
	l.waiters = append(l.waiters, ready)
	l.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		for i, w := range l.waiters {
			if w == ready {
				l.waiters = append(l.waiters[:i:i], l.waiters[i+1:]...)
				l.mu.Unlock()
				return ctx.Err()
			}
		}
		l.mu.Unlock()
		// The slot was handed to us in the race with cancellation;
		// give it back so the next waiter is not starved.
		l.release()
		return ctx.Err()
	}
}

// release frees one slot, handing it directly to the oldest waiter if any.
func (l *Limiter) release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.waiters) > 0 {
		next := l.waiters[0]
		l.waiters = l.waiters[1:]
		close(next)
		return
	}
	l.inFlight--
}
