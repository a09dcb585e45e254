// Package dto decodes the item data Bandcamp embeds in album and track pages.
package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/handiism/bandcamp-explorer/internal/bandcamp/literal"
	"github.com/handiism/bandcamp-explorer/internal/model"
)

const artworkURLFormat = "https://f4.bcbits.com/img/a%010d_%d.jpg"

// download_pref values
const (
	downloadPrefFree = 1
	downloadPrefPaid = 2
)

// ErrNotObject is returned when the item data is not an object literal.
var ErrNotObject = errors.New("item data is not an object")

// dateFormats are tried in order. Bandcamp writes "01 Jan 2023 00:00:00 GMT".
var dateFormats = []string{
	"02 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 MST",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339,
}

// ParseTime parses a Bandcamp date. Empty or unparsable input yields
// model.UnknownDate.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.UnknownDate
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC()
		}
	}
	return model.UnknownDate
}

// ArtworkURL builds a cover art URL from an art identifier and a size variant.
func ArtworkURL(artID int64, size int) string {
	return fmt.Sprintf(artworkURLFormat, artID, size)
}

// Tralbum is the decoded page data of an album or track ("tralbum").
type Tralbum struct {
	Artist  string
	Title   string
	About   string
	Credits string

	// URL is the canonical page URL, ItemType "album" or "track".
	URL      string
	ItemType string

	// FreeDownloadPage is set when the item can be downloaded for free.
	FreeDownloadPage string

	// AlbumURL is the parent album path of a track page.
	AlbumURL string

	ArtID *int64

	DownloadPref int
	MinimumPrice float64
	IsSetPrice   bool

	ReleaseDate      time.Time
	AlbumReleaseDate time.Time
	PublishDate      time.Time

	Tracks []Track
}

// Decode reads a Tralbum from a parsed literal. Missing fields keep their
// zero value; only a non-object root is an error.
func Decode(v *literal.Value) (*Tralbum, error) {
	if v.Kind() != literal.Object {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, v.Kind())
	}

	t := &Tralbum{
		Artist:           str(v.Path("artist")),
		Title:            str(v.Path("current.title")),
		About:            str(v.Path("current.about")),
		Credits:          str(v.Path("current.credits")),
		URL:              str(v.Path("url")),
		ItemType:         str(v.Path("current.type")),
		FreeDownloadPage: str(v.Path("freeDownloadPage")),
		AlbumURL:         str(v.Path("album_url")),
		ReleaseDate:      ParseTime(str(v.Path("current.release_date"))),
		AlbumReleaseDate: ParseTime(str(v.Path("album_release_date"))),
		PublishDate:      ParseTime(str(v.Path("current.publish_date"))),
	}
	if t.ItemType == "" {
		t.ItemType = str(v.Path("item_type"))
	}

	if id, ok := v.Path("art_id").Float(); ok && id > 0 {
		artID := int64(id)
		t.ArtID = &artID
	}

	t.DownloadPref, _ = v.Path("current.download_pref").Int()
	t.MinimumPrice, _ = v.Path("current.minimum_price").Float()
	t.IsSetPrice, _ = v.Path("current.is_set_price").Bool()

	trackinfo := v.Path("trackinfo")
	for i := 0; i < trackinfo.Len(); i++ {
		t.Tracks = append(t.Tracks, decodeTrack(trackinfo.Index(i)))
	}

	return t, nil
}

// DownloadType classifies the item's availability.
func (t *Tralbum) DownloadType() model.DownloadType {
	switch {
	case t.FreeDownloadPage != "" || t.DownloadPref == downloadPrefFree:
		return model.DownloadFree
	case t.DownloadPref >= downloadPrefPaid:
		if t.MinimumPrice > 0 || t.IsSetPrice {
			return model.DownloadPaid
		}
		return model.DownloadNameYourPrice
	default:
		return model.DownloadUnavailable
	}
}

// Price returns the minimum price, zero when the item is not for sale.
func (t *Tralbum) Price() model.Price {
	switch t.DownloadType() {
	case model.DownloadPaid, model.DownloadNameYourPrice:
		p, err := model.NewPrice(t.MinimumPrice)
		if err != nil {
			return model.Price{}
		}
		return p
	}
	return model.Price{}
}

// Released returns the album release date, falling back to the item's own
// release date. The result may be model.UnknownDate.
func (t *Tralbum) Released() time.Time {
	if !t.AlbumReleaseDate.IsZero() {
		return t.AlbumReleaseDate
	}
	return t.ReleaseDate
}

// Artwork returns the cover URL for size, or "" without an art identifier.
func (t *Tralbum) Artwork(size int) string {
	if t.ArtID == nil {
		return ""
	}
	return ArtworkURL(*t.ArtID, size)
}

func str(v *literal.Value) string {
	s, _ := v.String()
	return strings.TrimSpace(s)
}
