package model

import (
	"net/url"
	"time"
)

// UnknownDate is the sentinel for a date that was absent or unparsable.
var UnknownDate = time.Time{}

// ReleaseInfo carries the fields used to build a Release.
type ReleaseInfo struct {
	Artist          string
	Title           string
	About           string
	Credits         string
	DownloadType    DownloadType
	Price           Price
	ReleaseDate     time.Time
	PublishDate     time.Time
	Tags            []string
	Tracks          []Track
	ArtworkURL      string
	FreeDownloadURL string
	ParentURL       string
	Source          *url.URL
	Compilation     bool
}

// Release represents one album or track page.
//
// Release is immutable after NewRelease returns. Equality is identity
// based: two releases are Equal when their sources share an Identity.
type Release struct {
	info     ReleaseInfo
	identity Identity
	duration Time
}

// NewRelease builds a Release from info. Slices and the source URL are
// copied so later changes to info do not leak into the release.
func NewRelease(info ReleaseInfo) *Release {
	r := &Release{info: info}

	if info.Source != nil {
		src := *info.Source
		r.info.Source = &src
		r.identity = IdentityOf(&src)
	}

	r.info.Tags = append([]string(nil), info.Tags...)
	r.info.Tracks = append([]Track(nil), info.Tracks...)

	for _, t := range r.info.Tracks {
		r.duration = r.duration.Add(t.Duration)
	}

	return r
}

// Identity returns the canonical key of the release.
func (r *Release) Identity() Identity { return r.identity }

// Equal reports whether r and other share an Identity.
func (r *Release) Equal(other *Release) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.identity == other.identity
}

func (r *Release) Artist() string { return r.info.Artist }
func (r *Release) Title() string { return r.info.Title }
func (r *Release) About() string { return r.info.About }
func (r *Release) Credits() string { return r.info.Credits }
func (r *Release) DownloadType() DownloadType { return r.info.DownloadType }
func (r *Release) Price() Price { return r.info.Price }
func (r *Release) PublishDate() time.Time { return r.info.PublishDate }
func (r *Release) ArtworkURL() string { return r.info.ArtworkURL }
func (r *Release) FreeDownloadURL() string { return r.info.FreeDownloadURL }
func (r *Release) ParentURL() string { return r.info.ParentURL }
func (r *Release) IsCompilation() bool { return r.info.Compilation }
func (r *Release) Duration() Time { return r.duration }
func (r *Release) TrackCount() int { return len(r.info.Tracks) }

// ReleaseDate returns the release date and whether it is known.
func (r *Release) ReleaseDate() (time.Time, bool) {
	return r.info.ReleaseDate, !r.info.ReleaseDate.IsZero()
}

// Source returns a copy of the page URL the release was parsed from.
func (r *Release) Source() *url.URL {
	if r.info.Source == nil {
		return nil
	}
	src := *r.info.Source
	return &src
}

// Tags returns the lowercased tags in page order.
func (r *Release) Tags() []string {
	return append([]string(nil), r.info.Tags...)
}

// HasTag reports whether tag (lowercase) is attached to the release.
func (r *Release) HasTag(tag string) bool {
	for _, t := range r.info.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tracks returns a copy of the track list.
func (r *Release) Tracks() []Track {
	return append([]Track(nil), r.info.Tracks...)
}

// HasArtwork returns true if the release has cover art available.
func (r *Release) HasArtwork() bool {
	return r.info.ArtworkURL != ""
}
