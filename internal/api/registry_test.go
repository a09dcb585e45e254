package api

import (
	"context"
	"testing"

	"github.com/handiism/bandcamp-explorer/internal/cache"
	"github.com/handiism/bandcamp-explorer/internal/search"
	"github.com/handiism/bandcamp-explorer/internal/workpool"
)

func TestRegistry_EvictsOldestFinished(t *testing.T) {
	c := cache.New(nil)
	defer c.Close()

	gate := make(chan struct{})
	defer close(gate)

	blocked := search.NewSearcher(search.DefaultConfig(), workpool.New(1), c,
		&fakeFetcher{links: []string{"https://a.bandcamp.com/album/stuck"}}, &fakeParser{gate: gate}, nil)
	quick := search.NewSearcher(search.DefaultConfig(), workpool.New(1), c,
		&fakeFetcher{}, &fakeParser{}, nil)

	r := NewRegistry(2)

	running, err := blocked.Submit(context.Background(), search.Params{Query: "running"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	r.Add(running)

	var finished []*search.Task
	for _, q := range []string{"a", "b"} {
		task, err := quick.Submit(context.Background(), search.Params{Query: q})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		task.Wait()
		finished = append(finished, task)
		r.Add(task)
	}

	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	if _, ok := r.Get(running.ID()); !ok {
		t.Error("running task was evicted")
	}
	if _, ok := r.Get(finished[0].ID()); ok {
		t.Error("oldest finished task should have been evicted")
	}
	if _, ok := r.Get(finished[1].ID()); !ok {
		t.Error("newest task missing")
	}
}
