package export

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bogem/id3v2"

	bchttp "github.com/handiism/bandcamp-explorer/internal/http"
	"github.com/handiism/bandcamp-explorer/internal/model"
)

// fakeAudio is not a real MP3; id3v2 only needs a file to prepend to.
var fakeAudio = bytes.Repeat([]byte{0xff, 0xfb, 0x90, 0x00}, 256)

func previewServer(t *testing.T) *httptest.Server {
	t.Helper()
	cover := pngImage(t, 1200, 800)
	mux := http.NewServeMux()
	mux.HandleFunc("/stream/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/missing") {
			http.NotFound(w, r)
			return
		}
		w.Write(fakeAudio)
	})
	mux.HandleFunc("/img/cover.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(cover)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func previewRelease(base string, tracks ...model.Track) *model.Release {
	src, _ := url.Parse("https://artist.bandcamp.com/album/first-light")
	return model.NewRelease(model.ReleaseInfo{
		Artist:      "Artist",
		Title:       "First Light",
		ReleaseDate: time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC),
		Tags:        []string{"ambient", "drone"},
		ArtworkURL:  base + "/img/cover.png",
		Source:      src,
		Tracks:      tracks,
	})
}

func newTestSaver(cfg Config) *PreviewSaver {
	return NewPreviewSaver(bchttp.NewClient(bchttp.DefaultClientConfig(), nil), cfg, nil)
}

func TestPreviewSaver_Save(t *testing.T) {
	srv := previewServer(t)
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.CoverMaxSize = 300

	r := previewRelease(srv.URL,
		model.Track{Number: 1, Title: "Dawn", AudioURL: srv.URL + "/stream/1"},
		model.Track{Number: 2, Title: "No Stream"},
		model.Track{Number: 3, Artist: "Guest", Title: "Noon", AudioURL: srv.URL + "/stream/3"},
	)

	paths, err := newTestSaver(cfg).Save(context.Background(), r)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	want := []string{
		filepath.Join(cfg.Dir, "Artist - First Light", "01 Dawn.mp3"),
		filepath.Join(cfg.Dir, "Artist - First Light", "03 Noon.mp3"),
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}

	tag, err := id3v2.Open(paths[1], id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("id3v2.Open: %v", err)
	}
	defer tag.Close()

	if tag.Artist() != "Guest" || tag.Album() != "First Light" || tag.Title() != "Noon" {
		t.Errorf("tags = %q / %q / %q", tag.Artist(), tag.Album(), tag.Title())
	}
	if tag.Year() != "2021" {
		t.Errorf("year = %q, want 2021", tag.Year())
	}
	if tag.Genre() != "ambient" {
		t.Errorf("genre = %q, want ambient", tag.Genre())
	}

	pics := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(pics) != 1 {
		t.Fatalf("attached pictures = %d, want 1", len(pics))
	}
	pic, ok := pics[0].(id3v2.PictureFrame)
	if !ok {
		t.Fatalf("frame type %T", pics[0])
	}
	img, err := jpeg.DecodeConfig(bytes.NewReader(pic.Picture))
	if err != nil {
		t.Fatalf("cover is not JPEG: %v", err)
	}
	if img.Width != 300 || img.Height != 200 {
		t.Errorf("cover = %dx%d, want 300x200", img.Width, img.Height)
	}
}

func TestPreviewSaver_Untagged(t *testing.T) {
	srv := previewServer(t)
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.TagPreviews = false

	r := previewRelease(srv.URL, model.Track{Number: 1, Title: "Dawn", AudioURL: srv.URL + "/stream/1"})
	paths, err := newTestSaver(cfg).Save(context.Background(), r)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(data, fakeAudio) {
		t.Errorf("untagged preview was modified (%d bytes)", len(data))
	}
}

func TestPreviewSaver_PartialFailure(t *testing.T) {
	srv := previewServer(t)
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()

	r := previewRelease(srv.URL,
		model.Track{Number: 1, Title: "Dawn", AudioURL: srv.URL + "/stream/1"},
		model.Track{Number: 2, Title: "Gone", AudioURL: srv.URL + "/stream/missing"},
	)

	paths, err := newTestSaver(cfg).Save(context.Background(), r)
	if err == nil {
		t.Fatal("expected error for missing stream")
	}
	if bchttp.StatusCode(err) != http.StatusNotFound {
		t.Errorf("StatusCode(err) = %d, want 404 (%v)", bchttp.StatusCode(err), err)
	}
	if len(paths) != 1 {
		t.Fatalf("paths = %v, want the one saved track", paths)
	}
	if _, err := os.Stat(filepath.Join(cfg.Dir, "Artist - First Light", "02 Gone.mp3")); !os.IsNotExist(err) {
		t.Errorf("failed download left a file behind: %v", err)
	}
}

func TestPreviewSaver_NothingToSave(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()

	r := previewRelease("http://127.0.0.1:0", model.Track{Number: 1, Title: "Silent"})
	_, err := newTestSaver(cfg).Save(context.Background(), r)
	if !errors.Is(err, ErrNothingToSave) {
		t.Errorf("err = %v, want ErrNothingToSave", err)
	}
}

func TestPreviewSaver_MissingArtwork(t *testing.T) {
	srv := previewServer(t)
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()

	src, _ := url.Parse("https://artist.bandcamp.com/track/solo")
	r := model.NewRelease(model.ReleaseInfo{
		Artist:     "Artist",
		Title:      "Solo",
		ArtworkURL: srv.URL + "/img/absent.jpg",
		Source:     src,
		Tracks:     []model.Track{{Number: 1, Title: "Solo", AudioURL: srv.URL + "/stream/1"}},
	})

	paths, err := newTestSaver(cfg).Save(context.Background(), r)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	tag, err := id3v2.Open(paths[0], id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("id3v2.Open: %v", err)
	}
	defer tag.Close()

	if n := len(tag.GetFrames(tag.CommonID("Attached picture"))); n != 0 {
		t.Errorf("attached pictures = %d, want 0", n)
	}
	if tag.Title() != "Solo" {
		t.Errorf("title = %q", tag.Title())
	}
}

func TestPreviewSaver_WritePlaylist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = filepath.Join(t.TempDir(), "nested")
	cfg.PlaylistFormat = FormatPLS

	path, err := newTestSaver(cfg).WritePlaylist(testReleases(), "tag: ambient")
	if err != nil {
		t.Fatalf("WritePlaylist: %v", err)
	}
	if filepath.Base(path) != "tag_ ambient.pls" {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "NumberOfEntries=3") {
		t.Errorf("playlist content:\n%s", data)
	}
}
