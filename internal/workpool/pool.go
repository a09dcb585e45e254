// Package workpool runs units of work on a fixed number of slots.
package workpool

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultSize is the number of concurrent units when none is configured.
const DefaultSize = 6

// Pool bounds concurrency with a weighted semaphore. Waiting units are
// admitted in submission order.
type Pool struct {
	sem  *semaphore.Weighted
	size int
	wg   sync.WaitGroup
}

// New creates a Pool with size slots. size < 1 uses DefaultSize.
func New(size int) *Pool {
	if size < 1 {
		size = DefaultSize
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// Size returns the number of slots.
func (p *Pool) Size() int {
	return p.size
}

// Go queues fn and returns immediately. fn runs once a slot is free.
func (p *Pool) Go(fn func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		// Acquire with a background context never fails.
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)
		fn()
	}()
}

// Do runs fn on a slot and waits for it. It returns ctx.Err() without
// running fn when ctx is done before a slot frees up.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p.wg.Add(1)
	defer p.wg.Done()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn(ctx)
}

// Wait blocks until every unit submitted so far has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}
