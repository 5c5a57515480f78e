package scheduler

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultWorkers is the fan-out concurrency used when none is configured.
const DefaultWorkers = 4

// Pool bounds the number of fan-out workers running at once. A single Pool may
// be shared by several schedulers.
type Pool struct {
	size int64
	sem  *semaphore.Weighted
}

// NewPool creates a pool with the given number of workers (DefaultWorkers if n <= 0).
func NewPool(n int) *Pool {
	if n <= 0 {
		n = DefaultWorkers
	}
	return &Pool{size: int64(n), sem: semaphore.NewWeighted(int64(n))}
}

// Size returns the maximum number of concurrent workers.
func (p *Pool) Size() int { return int(p.size) }

// Go runs fn on a new worker once a slot is free. wg is incremented before
// Go returns and released when fn finishes. If ctx is cancelled while waiting
// for a slot, fn is not run.
func (p *Pool) Go(ctx context.Context, wg *sync.WaitGroup, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer p.sem.Release(1)
		fn()
	}()
}
