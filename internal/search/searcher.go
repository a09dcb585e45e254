package search

import (
	"context"
	"time"

	"github.com/handiism/bandcamp-explorer/internal/bandcamp"
	"github.com/handiism/bandcamp-explorer/internal/cache"
	"github.com/handiism/bandcamp-explorer/internal/logger"
	"github.com/handiism/bandcamp-explorer/internal/workpool"
)

// LinkFetcher collects the item links of one resource page.
type LinkFetcher interface {
	FetchLinks(ctx context.Context, strategy bandcamp.Strategy, query string, page int) ([]string, error)
}

// Config holds search settings.
type Config struct {
	// SiteURL is the root of search and tag pages.
	SiteURL string

	// Cooldown is how long loaders pause after a throttling response.
	Cooldown time.Duration

	// MaxAttempts is how many times a throttled item is resubmitted
	// before it counts as failed.
	MaxAttempts int
}

// DefaultConfig returns the stock search settings.
func DefaultConfig() Config {
	return Config{
		SiteURL:     bandcamp.DefaultSiteURL,
		Cooldown:    5 * time.Second,
		MaxAttempts: 4,
	}
}

// Searcher starts search tasks. It is long lived and shares its pool and
// cache between tasks.
type Searcher struct {
	cfg     Config
	pool    *workpool.Pool
	cache   *cache.Cache
	fetcher LinkFetcher
	parser  ItemParser
	log     *logger.Logger
}

// NewSearcher creates a Searcher.
func NewSearcher(cfg Config, pool *workpool.Pool, c *cache.Cache, fetcher LinkFetcher, parser ItemParser, log *logger.Logger) *Searcher {
	return &Searcher{
		cfg:     cfg,
		pool:    pool,
		cache:   c,
		fetcher: fetcher,
		parser:  parser,
		log:     logger.OrDiscard(log).WithComponent("search"),
	}
}

// Submit validates params and starts a task. Cancelling ctx cancels the task.
func (s *Searcher) Submit(ctx context.Context, params Params) (*Task, error) {
	if params.Pages == 0 {
		params.Pages = 1
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	task := newTask(ctx, s, params)
	task.log.Info("search submitted", "type", params.Type.String(), "pages", params.Pages, "sort", params.Sort.String())

	go task.run()
	return task, nil
}
