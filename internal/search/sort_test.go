package search

import (
	"testing"
	"time"

	"github.com/handiism/bandcamp-explorer/internal/model"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestSort_PublishDateDescStable(t *testing.T) {
	a := release("https://x.bandcamp.com/album/a", day(2020, 1, 1))
	b := release("https://x.bandcamp.com/album/b", day(2019, 5, 5))
	c := release("https://x.bandcamp.com/album/c", day(2020, 1, 1))

	releases := []*model.Release{a, b, c}
	Sort(releases, SortPublishDateDesc, "")

	want := []*model.Release{a, c, b}
	for i := range want {
		if releases[i] != want[i] {
			t.Errorf("position %d = %s, want %s", i, releases[i].Identity(), want[i].Identity())
		}
	}
}

func TestSort_Orders(t *testing.T) {
	mk := func(path, artist, title string, published time.Time, price float64, seconds float64) *model.Release {
		p, _ := model.NewPrice(price)
		r := release("https://x.bandcamp.com/album/"+path, published)
		return model.NewRelease(model.ReleaseInfo{
			Artist:      artist,
			Title:       title,
			PublishDate: published,
			ReleaseDate: published,
			Price:       p,
			Tracks:      []model.Track{{Number: 1, Duration: model.NewTime(seconds)}},
			Source:      r.Source(),
		})
	}

	first := mk("first", "Beta", "Night Drive", day(2021, 1, 1), 7, 100)
	second := mk("second", "alpha", "Zebra", day(2019, 1, 1), 1, 300)
	third := mk("third", "Gamma", "apple", day(2020, 1, 1), 3, 200)

	tests := []struct {
		by    SortBy
		query string
		want  []*model.Release
	}{
		{SortPublishDateDesc, "", []*model.Release{first, third, second}},
		{SortPublishDateAsc, "", []*model.Release{second, third, first}},
		{SortReleaseDateDesc, "", []*model.Release{first, third, second}},
		{SortArtist, "", []*model.Release{second, first, third}},
		{SortTitle, "", []*model.Release{third, first, second}},
		{SortPriceAsc, "", []*model.Release{second, third, first}},
		{SortDurationDesc, "", []*model.Release{second, third, first}},
		{SortRelevance, "beta night drive", []*model.Release{first}},
	}

	for _, tt := range tests {
		t.Run(tt.by.String(), func(t *testing.T) {
			releases := []*model.Release{third, second, first}
			Sort(releases, tt.by, tt.query)
			for i := range tt.want {
				if releases[i] != tt.want[i] {
					t.Errorf("position %d = %s, want %s", i, releases[i].Title(), tt.want[i].Title())
				}
			}
		})
	}
}

func TestParseSortBy(t *testing.T) {
	for _, name := range SortNames() {
		by, err := ParseSortBy(name)
		if err != nil || by.String() != name {
			t.Errorf("ParseSortBy(%q) = %v, %v", name, by, err)
		}
	}
	if by, err := ParseSortBy(""); err != nil || by != SortPublishDateDesc {
		t.Errorf("default sort = %v, %v", by, err)
	}
	if _, err := ParseSortBy("random"); err == nil {
		t.Error("expected error for unknown sort")
	}
}
