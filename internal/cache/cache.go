// Package cache memoizes parsed releases by identity.
//
// A Cache runs at most one load per identity at a time: concurrent callers
// asking for the same identity share the outcome of a single load. Loaded
// releases are held weakly. Once no caller references a release any more,
// the garbage collector reclaims it and a background goroutine removes its
// slot, so the next request for that identity loads it again.
//
// Failed loads are not remembered.
package cache

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/handiism/bandcamp-explorer/internal/logger"
	"github.com/handiism/bandcamp-explorer/internal/model"
)

// LoadFunc produces the release for one identity.
type LoadFunc func(ctx context.Context) (*model.Release, error)

// entry is one slot: a load in progress or its finished outcome.
type entry struct {
	done chan struct{}

	// ref and err are written once, before done is closed.
	ref weak.Pointer[model.Release]
	err error
}

type outcome struct {
	release *model.Release
	err     error
}

// cleared identifies a slot whose release was collected.
type cleared struct {
	id    model.Identity
	entry *entry
}

// Cache is a single-flight, weakly retaining release cache.
//
// Create one with New at startup and share it; Close stops its
// reclamation goroutine.
type Cache struct {
	entries sync.Map // model.Identity -> *entry

	mu      sync.Mutex
	pending []cleared
	notify  chan struct{}

	loads   atomic.Int64
	evicted atomic.Int64

	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	log       *logger.Logger
}

// New creates a Cache and starts its reclamation goroutine.
func New(log *logger.Logger) *Cache {
	c := &Cache{
		notify: make(chan struct{}, 1),
		stop:   make(chan struct{}),
		log:    logger.OrDiscard(log).WithComponent("cache"),
	}

	c.wg.Add(1)
	go c.reclaim()

	return c
}

// Get returns the release for id, calling load when no live release or
// load in progress exists for it.
//
// load runs detached from the caller's cancellation so that other callers
// waiting on the same identity are unaffected. When ctx is done while
// waiting, Get returns ctx.Err() for this caller only.
func (c *Cache) Get(ctx context.Context, id model.Identity, load LoadFunc) (*model.Release, error) {
	for {
		fresh := &entry{done: make(chan struct{})}
		actual, loaded := c.entries.LoadOrStore(id, fresh)

		if !loaded {
			first := make(chan outcome, 1)
			go c.run(context.WithoutCancel(ctx), id, fresh, load, first)

			select {
			case out := <-first:
				return out.release, out.err
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		e := actual.(*entry)
		select {
		case <-e.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if e.err != nil {
			return nil, e.err
		}
		if release := e.ref.Value(); release != nil {
			return release, nil
		}

		// Collected before the reclamation goroutine got to it.
		c.entries.CompareAndDelete(id, e)
	}
}

// run performs one load and publishes its outcome. The strong reference
// travels only through first, which the initiating caller owns.
func (c *Cache) run(ctx context.Context, id model.Identity, e *entry, load LoadFunc, first chan<- outcome) {
	c.loads.Add(1)

	release, err := load(ctx)
	if err == nil && release == nil {
		err = errNilRelease
	}

	if err != nil {
		e.err = err
		c.entries.CompareAndDelete(id, e)
		close(e.done)
		first <- outcome{err: err}
		return
	}

	e.ref = weak.Make(release)
	runtime.AddCleanup(release, c.enqueue, cleared{id: id, entry: e})
	close(e.done)
	first <- outcome{release: release}
}

// enqueue runs on the runtime's cleanup goroutine and must not block.
func (c *Cache) enqueue(slot cleared) {
	c.mu.Lock()
	c.pending = append(c.pending, slot)
	c.mu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *Cache) reclaim() {
	defer c.wg.Done()

	for {
		select {
		case <-c.stop:
			return
		case <-c.notify:
		}

		c.mu.Lock()
		batch := c.pending
		c.pending = nil
		c.mu.Unlock()

		for _, slot := range batch {
			// The slot may already hold a newer load.
			if c.entries.CompareAndDelete(slot.id, slot.entry) {
				c.evicted.Add(1)
				c.log.Debug("evicted release", "identity", slot.id.String())
			}
		}
	}
}

// Len returns the number of slots, loads in progress included.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Stats reports how many loads ran and how many slots were reclaimed.
func (c *Cache) Stats() (loads, evicted int64) {
	return c.loads.Load(), c.evicted.Load()
}

// Close stops the reclamation goroutine. Get keeps working afterwards but
// collected slots are only removed lazily.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		close(c.stop)
	})
	c.wg.Wait()
}
