package dto

import "github.com/handiism/bandcamp-explorer/internal/bandcamp/literal"

// Track is one entry of the trackinfo array.
type Track struct {
	// Title is the raw title. On compilations it often reads "Artist - Title".
	Title string

	// TitleLink is the track page path, e.g. "/track/artist-title-2".
	TitleLink string

	Duration float64

	// AudioURL is the mp3-128 preview stream as found, possibly scheme relative.
	AudioURL string

	// Number is nil when the page omits it, as single track pages do.
	Number *int
}

func decodeTrack(v *literal.Value) Track {
	t := Track{
		Title:     str(v.Path("title")),
		TitleLink: str(v.Path("title_link")),
		AudioURL:  str(v.Path("file.mp3-128")),
	}
	t.Duration, _ = v.Path("duration").Float()
	if n, ok := v.Path("track_num").Int(); ok {
		t.Number = &n
	}
	return t
}
