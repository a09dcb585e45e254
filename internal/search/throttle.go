package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Throttle is a pause gate shared by all loaders of one task. While it is
// paused, loaders wait before starting work; resuming releases all of them
// at once.
type Throttle struct {
	paused atomic.Bool

	mu     sync.Mutex
	until  time.Time
	resume chan struct{} // closed while not paused
}

// NewThrottle returns an open Throttle.
func NewThrottle() *Throttle {
	resume := make(chan struct{})
	close(resume)
	return &Throttle{resume: resume}
}

// Pause closes the gate for d. Pausing while already paused extends the
// window when the new deadline is later.
func (t *Throttle) Pause(d time.Duration) {
	if d <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	deadline := time.Now().Add(d)
	if t.paused.Load() {
		if deadline.After(t.until) {
			t.until = deadline
		}
		return
	}

	t.until = deadline
	t.resume = make(chan struct{})
	t.paused.Store(true)
	time.AfterFunc(d, t.release)
}

func (t *Throttle) release() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if remaining := time.Until(t.until); remaining > 0 {
		time.AfterFunc(remaining, t.release)
		return
	}
	t.paused.Store(false)
	close(t.resume)
}

// Paused reports whether the gate is closed.
func (t *Throttle) Paused() bool {
	return t.paused.Load()
}

// Wait blocks while the gate is closed. It returns ctx.Err() if ctx is done
// first.
func (t *Throttle) Wait(ctx context.Context) error {
	if !t.paused.Load() {
		return nil
	}

	t.mu.Lock()
	resume := t.resume
	t.mu.Unlock()

	select {
	case <-resume:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
