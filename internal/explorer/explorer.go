package explorer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/bandcamp-explorer/internal/bandcamp"
	"github.com/handiism/bandcamp-explorer/internal/cache"
	"github.com/handiism/bandcamp-explorer/internal/config"
	"github.com/handiism/bandcamp-explorer/internal/export"
	"github.com/handiism/bandcamp-explorer/internal/http"
	"github.com/handiism/bandcamp-explorer/internal/logger"
	"github.com/handiism/bandcamp-explorer/internal/model"
	"github.com/handiism/bandcamp-explorer/internal/search"
	"github.com/handiism/bandcamp-explorer/internal/workpool"
)

// parallelReleases bounds concurrent release exports.
const parallelReleases = 2

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents an export progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// Done and Total count settled and queued releases.
	Done  int
	Total int
}

// Explorer coordinates searches and exports.
type Explorer struct {
	settings *config.Settings
	client   *http.Client
	pool     *workpool.Pool
	cache    *cache.Cache
	searcher *search.Searcher
	saver    *export.PreviewSaver
	log      *logger.Logger
}

// New validates settings and builds an Explorer.
func New(settings *config.Settings, log *logger.Logger) (*Explorer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	log = logger.OrDiscard(log)

	client := http.NewClient(settings.ToClientConfig(), log)
	pool := workpool.New(settings.Workers)
	c := cache.New(log)

	searcher := search.NewSearcher(settings.ToSearchConfig(), pool, c,
		bandcamp.NewFetcher(client, log),
		bandcamp.NewParser(client, settings.ArtworkSize, log),
		log)

	return &Explorer{
		settings: settings,
		client:   client,
		pool:     pool,
		cache:    c,
		searcher: searcher,
		saver:    export.NewPreviewSaver(client, settings.ToExportConfig(), log),
		log:      log.WithComponent("explorer"),
	}, nil
}

// Settings returns the settings the Explorer was built with.
func (e *Explorer) Settings() *config.Settings {
	return e.settings
}

// Search starts a search task. Cancelling ctx cancels the task.
func (e *Explorer) Search(ctx context.Context, params search.Params) (*search.Task, error) {
	return e.searcher.Submit(ctx, params)
}

// ExportPreviews saves the previews of releases. Releases without a
// playable track are skipped with a warning. The first hard failure is
// returned once every release has settled.
func (e *Explorer) ExportPreviews(ctx context.Context, releases []*model.Release, onProgress func(ProgressEvent)) error {
	if onProgress == nil {
		onProgress = func(ProgressEvent) {}
	}

	total := len(releases)
	var done atomic.Int32

	var g errgroup.Group
	g.SetLimit(parallelReleases)

	for _, r := range releases {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			onProgress(ProgressEvent{
				Message: fmt.Sprintf("Saving %s - %s", r.Artist(), r.Title()),
				Level:   LevelVerbose,
				Done:    int(done.Load()),
				Total:   total,
			})

			paths, err := e.saver.Save(ctx, r)
			n := int(done.Add(1))

			switch {
			case err == nil:
				onProgress(ProgressEvent{
					Message: fmt.Sprintf("Saved %s - %s (%d tracks)", r.Artist(), r.Title(), len(paths)),
					Level:   LevelSuccess,
					Done:    n,
					Total:   total,
				})
				return nil
			case len(paths) == 0 && ctx.Err() == nil && errors.Is(err, export.ErrNothingToSave):
				onProgress(ProgressEvent{
					Message: fmt.Sprintf("Skipped %s - %s: no previews", r.Artist(), r.Title()),
					Level:   LevelWarning,
					Done:    n,
					Total:   total,
				})
				return nil
			default:
				onProgress(ProgressEvent{
					Message: fmt.Sprintf("Error saving %s - %s: %v", r.Artist(), r.Title(), err),
					Level:   LevelError,
					Done:    n,
					Total:   total,
				})
				return err
			}
		})
	}

	return g.Wait()
}

// WritePlaylist writes a playlist of releases named name into the export
// folder and returns its path.
func (e *Explorer) WritePlaylist(releases []*model.Release, name string) (string, error) {
	path, err := e.saver.WritePlaylist(releases, name)
	if err != nil {
		return "", err
	}
	e.log.Info("playlist written", "path", path, "releases", len(releases))
	return path, nil
}

// CacheStats reports live cache entries, completed loads and reclaimed
// entries.
func (e *Explorer) CacheStats() (live int, loads, evicted int64) {
	loads, evicted = e.cache.Stats()
	return e.cache.Len(), loads, evicted
}

// Close waits for background loads to finish and stops the cache.
func (e *Explorer) Close() {
	e.pool.Wait()
	e.cache.Close()
}
