// Package search runs searches: it collects item links from resource
// pages, loads every item through the release cache and returns a sorted,
// deduplicated result.
//
// A search runs as a Task:
//
//	task, err := searcher.Submit(ctx, search.Params{Query: "ambient", Pages: 2})
//	for ev := range task.Events() {
//	    fmt.Println(ev.Status)
//	}
//	result, err := task.Wait()
//
// Items answered with HTTP 429 or 503 pause every loader of the task for a
// cooldown and are retried a bounded number of times. HTTP 404 and other
// failures are counted as failed. A failing resource page fails the task.
package search
