package search

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/bandcamp-explorer/internal/bandcamp"
	bchttp "github.com/handiism/bandcamp-explorer/internal/http"
	"github.com/handiism/bandcamp-explorer/internal/logger"
	"github.com/handiism/bandcamp-explorer/internal/model"
)

// State is the stage a task is in.
type State int32

const (
	StateCollecting State = iota
	StateFetching
	StateDone
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting-links"
	case StateFetching:
		return "fetching-items"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Final reports whether no further transitions follow.
func (s State) Final() bool {
	return s >= StateDone
}

// Event reports a status or progress change of a task.
type Event struct {
	State     State
	Status    string
	Processed int
	Total     int
	Time      time.Time
}

const eventBuffer = 64

// Task is one running search. All methods are safe for concurrent use.
type Task struct {
	id        string
	params    Params
	startedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc

	state     atomic.Int32
	processed atomic.Int64
	total     atomic.Int64

	mu     sync.Mutex
	status string

	events chan Event
	done   chan struct{}
	result *Result
	err    error

	searcher *Searcher
	throttle *Throttle
	log      *logger.Logger
}

// ID returns the task's unique identifier.
func (t *Task) ID() string { return t.id }

// Params returns the parameters the task was submitted with.
func (t *Task) Params() Params { return t.params }

// StartedAt returns the submission time.
func (t *Task) StartedAt() time.Time { return t.startedAt }

// State returns the current stage.
func (t *Task) State() State { return State(t.state.Load()) }

// Progress returns settled and total item counts.
func (t *Task) Progress() (processed, total int) {
	return int(t.processed.Load()), int(t.total.Load())
}

// Status returns a human readable description of the current stage.
func (t *Task) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Events delivers status and progress updates. Updates are dropped when
// the consumer falls behind. The channel is closed when the task ends.
func (t *Task) Events() <-chan Event { return t.events }

// Cancel asks the task to stop. Work already handed to the pool finishes
// in the background; loaders that have not started skip their item.
func (t *Task) Cancel() { t.cancel() }

// Done is closed when the task has ended.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task ends. A cancelled task returns a Result with
// Cancelled set and a nil error; a failed resource page returns an error.
func (t *Task) Wait() (*Result, error) {
	<-t.done
	return t.result, t.err
}

// Result returns the final result, or nil while the task is running.
func (t *Task) Result() (*Result, error) {
	select {
	case <-t.done:
		return t.result, t.err
	default:
		return nil, nil
	}
}

func newTask(parent context.Context, s *Searcher, params Params) *Task {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.New().String()

	return &Task{
		id:        id,
		params:    params,
		startedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan Event, eventBuffer),
		done:      make(chan struct{}),
		searcher:  s,
		throttle:  NewThrottle(),
		log:       s.log.WithSearch(id, params.Query),
	}
}

func (t *Task) setState(state State, status string) {
	t.state.Store(int32(state))
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
	t.emit()
}

func (t *Task) setProgress(processed, total int) {
	t.processed.Store(int64(processed))
	t.total.Store(int64(total))
	t.mu.Lock()
	t.status = fmt.Sprintf("loading releases (%d/%d)", processed, total)
	t.mu.Unlock()
	t.emit()
}

func (t *Task) emit() {
	processed, total := t.Progress()
	ev := Event{
		State:     t.State(),
		Status:    t.Status(),
		Processed: processed,
		Total:     total,
		Time:      time.Now(),
	}
	select {
	case t.events <- ev:
	default:
	}
}

func (t *Task) finish(result *Result, err error) {
	t.result = result
	t.err = err

	switch {
	case err != nil:
		t.setState(StateFailed, "failed: "+err.Error())
	case result.Cancelled:
		t.setState(StateCancelled, "cancelled")
	default:
		t.setState(StateDone, fmt.Sprintf("done: found %d, loaded %d, failed %d", result.Found, result.Loaded(), result.Failed))
	}

	close(t.events)
	close(t.done)
	t.cancel()
}

func (t *Task) cancelled() *Result {
	t.log.Info("search cancelled")
	return &Result{Params: t.params, Cancelled: true}
}

// run drives the task from link collection to the sorted result.
func (t *Task) run() {
	result, err := t.execute()
	t.finish(result, err)
}

func (t *Task) execute() (*Result, error) {
	s := t.searcher
	t.setState(StateCollecting, "requesting data")

	strategy, err := bandcamp.NewStrategy(t.params.Type, s.cfg.SiteURL)
	if err != nil {
		return nil, err
	}

	links, err := t.collectLinks(strategy)
	if t.ctx.Err() != nil {
		return t.cancelled(), nil
	}
	if err != nil {
		t.log.Error("resource fetch failed", "error", err)
		return nil, err
	}

	t.log.Info("links collected", "count", len(links))
	return t.loadItems(links), nil
}

// collectLinks fetches every requested page and returns their links
// without duplicates, in page order.
func (t *Task) collectLinks(strategy bandcamp.Strategy) ([]string, error) {
	s := t.searcher
	pages := bandcamp.ClampPages(strategy, t.params.Pages)
	perPage := make([][]string, pages)

	g, ctx := errgroup.WithContext(t.ctx)
	for i := range pages {
		g.Go(func() error {
			return s.pool.Do(ctx, func(ctx context.Context) error {
				links, err := s.fetcher.FetchLinks(ctx, strategy, t.params.Query, i+1)
				if err != nil {
					return fmt.Errorf("page %d: %w", i+1, err)
				}
				perPage[i] = links
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[model.Identity]struct{})
	var links []string
	for _, page := range perPage {
		for _, link := range page {
			id, err := model.IdentityFromString(link)
			if err != nil {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			links = append(links, link)
		}
	}
	return links, nil
}

// loadItems runs one loader per link and drains their outcomes.
func (t *Task) loadItems(links []string) *Result {
	s := t.searcher
	total := len(links)

	// Every loader has at most one outcome pending, so sends never block,
	// even after the task stopped draining.
	queue := make(chan Outcome, total)
	submit := func(l *Loader) {
		s.pool.Go(func() {
			queue <- l.Load(t.ctx)
		})
	}

	t.state.Store(int32(StateFetching))
	t.setProgress(0, total)

	for _, link := range links {
		id, _ := model.IdentityFromString(link)
		submit(newLoader(link, id, s.cache, s.parser, t.throttle))
	}

	var releases []*model.Release
	processed, failed := 0, 0

	for processed < total {
		if t.ctx.Err() != nil {
			return t.cancelled()
		}

		var out Outcome
		select {
		case <-t.ctx.Done():
			return t.cancelled()
		case out = <-queue:
		}

		if out.Skipped {
			continue
		}

		if out.Err == nil {
			releases = append(releases, out.Release)
			processed++
			t.setProgress(processed, total)
			continue
		}

		log := t.log.WithItem(out.Loader.URL())
		switch code := bchttp.StatusCode(out.Err); code {
		case http.StatusNotFound:
			log.Warn("item not found")
			failed++
		case http.StatusTooManyRequests, http.StatusServiceUnavailable:
			t.throttle.Pause(s.cfg.Cooldown)
			if out.Loader.Attempts() <= s.cfg.MaxAttempts {
				log.Warn("throttled, pausing", "status", code, "attempt", out.Loader.Attempts(), "cooldown", s.cfg.Cooldown)
				submit(out.Loader)
				continue
			}
			log.Warn("throttled, giving up", "status", code, "attempts", out.Loader.Attempts())
			failed++
		default:
			log.Warn("item failed", "error", out.Err)
			failed++
		}

		processed++
		t.setProgress(processed, total)
	}

	Sort(releases, t.params.Sort, t.params.Query)

	t.log.Info("search finished", "found", total, "loaded", len(releases), "failed", failed, "elapsed", time.Since(t.startedAt).Round(time.Millisecond))
	return &Result{
		Releases: releases,
		Found:    total,
		Failed:   failed,
		Params:   t.params,
	}
}
