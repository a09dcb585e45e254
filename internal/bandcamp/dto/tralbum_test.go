package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/handiism/bandcamp-explorer/internal/bandcamp/literal"
	"github.com/handiism/bandcamp-explorer/internal/model"
)

func mustDecode(t *testing.T, src string) *Tralbum {
	t.Helper()
	v, err := literal.Parse(src)
	if err != nil {
		t.Fatalf("literal.Parse: %v", err)
	}
	tr, err := Decode(v)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return tr
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"01 Jan 2023 00:00:00 GMT", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"5 Mar 2019 12:30:00 GMT", time.Date(2019, 3, 5, 12, 30, 0, 0, time.UTC)},
		{"Tue, 05 Mar 2019 12:30:00 GMT", time.Date(2019, 3, 5, 12, 30, 0, 0, time.UTC)},
		{"", model.UnknownDate},
		{"not a date", model.UnknownDate},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseTime(tt.input); !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tr := mustDecode(t, `{
		artist: "Test Artist",
		current: {title: "Test Album", about: "About text", credits: "Credits", type: "album",
			release_date: "01 Feb 2021 00:00:00 GMT", publish_date: "03 Feb 2021 10:00:00 GMT",
			download_pref: 2, minimum_price: 0.0, is_set_price: null},
		art_id: 1234567890,
		album_release_date: null,
		url: "https://artist.bandcamp.com/album/test-album",
		trackinfo: [
			{title: "One", title_link: "/track/one", duration: 120.4, track_num: 1, file: {"mp3-128": "//t4.bcbits.com/stream/1"}},
			{title: "Two", title_link: "/track/two", duration: 60, track_num: null, file: null}
		]
	}`)

	if tr.Artist != "Test Artist" || tr.Title != "Test Album" || tr.About != "About text" || tr.Credits != "Credits" {
		t.Errorf("text fields = %+v", tr)
	}
	if tr.ItemType != "album" || tr.URL != "https://artist.bandcamp.com/album/test-album" {
		t.Errorf("type/url = %q %q", tr.ItemType, tr.URL)
	}
	if got := tr.Released(); !got.Equal(time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Released() = %v", got)
	}
	if tr.PublishDate.Day() != 3 {
		t.Errorf("PublishDate = %v", tr.PublishDate)
	}
	if got := tr.Artwork(2); got != "https://f4.bcbits.com/img/a1234567890_2.jpg" {
		t.Errorf("Artwork(2) = %q", got)
	}
	if tr.DownloadType() != model.DownloadNameYourPrice {
		t.Errorf("DownloadType() = %v", tr.DownloadType())
	}

	if len(tr.Tracks) != 2 {
		t.Fatalf("got %d tracks", len(tr.Tracks))
	}
	first := tr.Tracks[0]
	if first.Title != "One" || first.TitleLink != "/track/one" || first.Duration != 120.4 || first.AudioURL != "//t4.bcbits.com/stream/1" {
		t.Errorf("first track = %+v", first)
	}
	if first.Number == nil || *first.Number != 1 {
		t.Errorf("first track number = %v", first.Number)
	}
	if tr.Tracks[1].Number != nil || tr.Tracks[1].AudioURL != "" {
		t.Errorf("second track = %+v", tr.Tracks[1])
	}
}

func TestTralbum_DownloadType(t *testing.T) {
	tests := []struct {
		name  string
		tr    Tralbum
		want  model.DownloadType
		price string
	}{
		{"default unavailable", Tralbum{}, model.DownloadUnavailable, "0.00"},
		{"free page", Tralbum{FreeDownloadPage: "https://bandcamp.com/download?id=1", DownloadPref: 2, MinimumPrice: 5}, model.DownloadFree, "0.00"},
		{"free pref", Tralbum{DownloadPref: 1}, model.DownloadFree, "0.00"},
		{"paid minimum", Tralbum{DownloadPref: 2, MinimumPrice: 7}, model.DownloadPaid, "7.00"},
		{"paid set price", Tralbum{DownloadPref: 2, IsSetPrice: true}, model.DownloadPaid, "0.00"},
		{"name your price", Tralbum{DownloadPref: 2}, model.DownloadNameYourPrice, "0.00"},
		{"minimum without pref", Tralbum{MinimumPrice: 3}, model.DownloadUnavailable, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.DownloadType(); got != tt.want {
				t.Errorf("DownloadType() = %v, want %v", got, tt.want)
			}
			if got := tt.tr.Price().String(); got != tt.price {
				t.Errorf("Price() = %s, want %s", got, tt.price)
			}
		})
	}
}

func TestDecode_NotObject(t *testing.T) {
	v, err := literal.Parse(`[1, 2]`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(v); !errors.Is(err, ErrNotObject) {
		t.Errorf("Decode(array) error = %v, want ErrNotObject", err)
	}
}
