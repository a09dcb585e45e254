// Package explorer wires the search pipeline and the preview export
// behind one long lived value shared by the front ends.
//
// # Explorer
//
// The Explorer owns the connection client, the worker pool, the release
// cache and the searcher:
//
//	exp, err := explorer.New(settings, log)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	task, err := exp.Search(ctx, search.Params{Query: "ambient", Type: bandcamp.TypeTag, Pages: 3})
//	result, err := task.Wait()
//
// # Exporting
//
// ExportPreviews saves the preview MP3s of a result and reports progress
// via a callback that receives ProgressEvent:
//
//	err = exp.ExportPreviews(ctx, result.Releases, func(event explorer.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
// # Concurrency
//
// Search loads are bounded by the configured worker count. Exports run
// at most two releases at a time, with up to three tracks each.
package explorer
