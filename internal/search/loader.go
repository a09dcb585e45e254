package search

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/handiism/bandcamp-explorer/internal/cache"
	"github.com/handiism/bandcamp-explorer/internal/model"
)

// ItemParser builds a release from an item URL.
type ItemParser interface {
	Parse(ctx context.Context, itemURL string) (*model.Release, error)
}

// Outcome is the settled result of one Loader invocation. Exactly one of
// Release, Err and Skipped is set.
type Outcome struct {
	Loader  *Loader
	Release *model.Release
	Err     error

	// Skipped means the task was cancelled before the loader did any work.
	Skipped bool
}

// Loader is a retryable unit that loads one item through the cache.
type Loader struct {
	url      string
	id       model.Identity
	attempts atomic.Int32

	cache    *cache.Cache
	parser   ItemParser
	throttle *Throttle
}

func newLoader(itemURL string, id model.Identity, c *cache.Cache, parser ItemParser, throttle *Throttle) *Loader {
	return &Loader{
		url:      itemURL,
		id:       id,
		cache:    c,
		parser:   parser,
		throttle: throttle,
	}
}

// URL returns the item URL.
func (l *Loader) URL() string {
	return l.url
}

// Attempts returns how many times Load has been called.
func (l *Loader) Attempts() int {
	return int(l.attempts.Load())
}

// Load waits for the throttle, then fetches the item through the cache.
// It never panics out and reports everything through the Outcome.
func (l *Loader) Load(ctx context.Context) Outcome {
	l.attempts.Add(1)

	if ctx.Err() != nil {
		return Outcome{Loader: l, Skipped: true}
	}
	if err := l.throttle.Wait(ctx); err != nil {
		return Outcome{Loader: l, Skipped: true}
	}
	if ctx.Err() != nil {
		return Outcome{Loader: l, Skipped: true}
	}

	release, err := l.cache.Get(ctx, l.id, func(ctx context.Context) (*model.Release, error) {
		return l.parser.Parse(ctx, l.url)
	})
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return Outcome{Loader: l, Skipped: true}
		}
		return Outcome{Loader: l, Err: err}
	}

	return Outcome{Loader: l, Release: release}
}
