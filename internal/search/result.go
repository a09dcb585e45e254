package search

import "github.com/handiism/bandcamp-explorer/internal/model"

// Result is the outcome of one search run. It is built once when the run
// ends and must not be modified afterwards.
type Result struct {
	// Releases are the successfully loaded releases in Params.Sort order.
	Releases []*model.Release

	// Found is the number of unique item links discovered.
	Found int

	// Failed counts items that could not be loaded.
	Failed int

	Params Params

	// Cancelled marks a run stopped by its caller. Such a result is empty.
	Cancelled bool
}

// Loaded returns the number of loaded releases.
func (r *Result) Loaded() int {
	return len(r.Releases)
}

// Combine merges next into prev and returns a new Result sorted by next's
// sort order. Releases already present in prev are not added twice.
// A nil or cancelled prev yields next unchanged.
func Combine(prev, next *Result) *Result {
	if prev == nil || prev.Cancelled {
		return next
	}
	if next == nil || next.Cancelled {
		return prev
	}

	merged := &Result{
		Releases: make([]*model.Release, 0, len(prev.Releases)+len(next.Releases)),
		Found:    prev.Found + next.Found,
		Failed:   prev.Failed + next.Failed,
		Params:   next.Params,
	}

	seen := make(map[model.Identity]struct{}, cap(merged.Releases))
	for _, list := range [][]*model.Release{prev.Releases, next.Releases} {
		for _, r := range list {
			if _, dup := seen[r.Identity()]; dup {
				continue
			}
			seen[r.Identity()] = struct{}{}
			merged.Releases = append(merged.Releases, r)
		}
	}

	Sort(merged.Releases, next.Params.Sort, next.Params.Query)
	return merged
}
