package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/handiism/bandcamp-explorer/internal/model"
)

// releaseSource exposes releases to the fuzzy matcher as lowercase
// "artist title tags" strings.
type releaseSource []*model.Release

func (s releaseSource) String(i int) string {
	r := s[i]
	return strings.ToLower(r.Artist() + " " + r.Title() + " " + strings.Join(r.Tags(), " "))
}

func (s releaseSource) Len() int { return len(s) }

// filterReleases returns the releases matching pattern, best match first.
// An empty pattern keeps every release in its original order.
func filterReleases(releases []*model.Release, pattern string) []*model.Release {
	if pattern == "" {
		return releases
	}
	matches := fuzzy.FindFrom(strings.ToLower(pattern), releaseSource(releases))
	out := make([]*model.Release, 0, len(matches))
	for _, match := range matches {
		out = append(out, releases[match.Index])
	}
	return out
}
