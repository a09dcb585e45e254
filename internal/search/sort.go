package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/handiism/bandcamp-explorer/internal/model"
)

// Sort orders releases in place. The sort is stable, so releases that
// compare equal keep their relative order.
func Sort(releases []*model.Release, by SortBy, query string) {
	slices.SortStableFunc(releases, comparator(releases, by, query))
}

func comparator(releases []*model.Release, by SortBy, query string) func(a, b *model.Release) int {
	switch by {
	case SortPublishDateAsc:
		return func(a, b *model.Release) int {
			return a.PublishDate().Compare(b.PublishDate())
		}
	case SortReleaseDateDesc:
		return func(a, b *model.Release) int {
			da, _ := a.ReleaseDate()
			db, _ := b.ReleaseDate()
			return db.Compare(da)
		}
	case SortArtist:
		return func(a, b *model.Release) int {
			return cmp.Or(
				compareFold(a.Artist(), b.Artist()),
				compareFold(a.Title(), b.Title()),
			)
		}
	case SortTitle:
		return func(a, b *model.Release) int {
			return compareFold(a.Title(), b.Title())
		}
	case SortPriceAsc:
		return func(a, b *model.Release) int {
			return cmp.Compare(a.Price().Cents(), b.Price().Cents())
		}
	case SortDurationDesc:
		return func(a, b *model.Release) int {
			return cmp.Compare(b.Duration().Seconds(), a.Duration().Seconds())
		}
	case SortRelevance:
		scores := relevance(releases, query)
		return func(a, b *model.Release) int {
			return cmp.Compare(scores[b], scores[a])
		}
	default:
		return func(a, b *model.Release) int {
			return b.PublishDate().Compare(a.PublishDate())
		}
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// relevance scores each release by the best Jaro-Winkler similarity of the
// query to its artist, its title or both.
func relevance(releases []*model.Release, query string) map[*model.Release]float32 {
	query = strings.ToLower(strings.TrimSpace(query))
	scores := make(map[*model.Release]float32, len(releases))

	for _, r := range releases {
		var best float32
		for _, candidate := range []string{
			r.Artist() + " " + r.Title(),
			r.Title(),
			r.Artist(),
		} {
			sim, err := edlib.StringsSimilarity(query, strings.ToLower(candidate), edlib.JaroWinkler)
			if err == nil && sim > best {
				best = sim
			}
		}
		scores[r] = best
	}

	return scores
}
