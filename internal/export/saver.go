package export

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	bchttp "github.com/handiism/bandcamp-explorer/internal/http"
	"github.com/handiism/bandcamp-explorer/internal/logger"
	"github.com/handiism/bandcamp-explorer/internal/model"
)

// parallelTracks bounds concurrent preview downloads of one release.
const parallelTracks = 3

// ErrNothingToSave is returned when a release has no playable track.
var ErrNothingToSave = errors.New("release has no playable tracks")

// PreviewSaver downloads preview streams and writes playlists.
//
// PreviewSaver is safe for concurrent use.
type PreviewSaver struct {
	client *bchttp.Client
	cfg    Config
	log    *logger.Logger
}

// NewPreviewSaver creates a new PreviewSaver.
func NewPreviewSaver(client *bchttp.Client, cfg Config, log *logger.Logger) *PreviewSaver {
	return &PreviewSaver{
		client: client,
		cfg:    cfg,
		log:    logger.OrDiscard(log).WithComponent("export"),
	}
}

// Save downloads every playable track of r into Dir/"Artist - Title" and
// returns the written paths in track order.
//
// A failed track does not stop the others. The returned error joins the
// per-track failures, and paths holds the tracks that were saved.
func (s *PreviewSaver) Save(ctx context.Context, r *model.Release) ([]string, error) {
	var tracks []model.Track
	for _, t := range r.Tracks() {
		if t.Playable() {
			tracks = append(tracks, t)
		}
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%s: %w", r.Identity(), ErrNothingToSave)
	}

	dir := filepath.Join(s.cfg.Dir, ReleaseDir(r))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var artwork []byte
	if s.cfg.TagPreviews {
		artwork = s.cover(ctx, r)
	}

	var (
		mu     sync.Mutex
		errs   []error
		stored = make([]string, len(tracks))
	)

	var g errgroup.Group
	g.SetLimit(parallelTracks)
	for i, t := range tracks {
		g.Go(func() error {
			path := filepath.Join(dir, TrackFileName(t))
			if err := s.saveTrack(ctx, r, t, path, artwork); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("track %d %q: %w", t.Number, t.Title, err))
				mu.Unlock()
				return nil
			}
			stored[i] = path
			return nil
		})
	}
	g.Wait()

	var paths []string
	for _, p := range stored {
		if p != "" {
			paths = append(paths, p)
		}
	}

	s.log.Info("previews saved", "release", r.Identity(), "saved", len(paths), "failed", len(errs))
	return paths, errors.Join(errs...)
}

func (s *PreviewSaver) saveTrack(ctx context.Context, r *model.Release, t model.Track, path string, artwork []byte) error {
	u, err := url.Parse(t.AudioURL)
	if err != nil {
		return err
	}
	if err := s.client.DownloadFile(ctx, u, path, nil); err != nil {
		return err
	}
	if !s.cfg.TagPreviews {
		return nil
	}
	if err := tagPreview(path, r, t, artwork); err != nil {
		return fmt.Errorf("tag: %w", err)
	}
	return nil
}

// cover fetches and resizes the release artwork. Failures only cost the
// embedded picture.
func (s *PreviewSaver) cover(ctx context.Context, r *model.Release) []byte {
	if !r.HasArtwork() {
		return nil
	}
	u, err := url.Parse(r.ArtworkURL())
	if err != nil {
		s.log.Warn("invalid artwork URL", "url", r.ArtworkURL(), "error", err)
		return nil
	}
	data, err := s.client.DownloadBytes(ctx, u)
	if err != nil {
		s.log.Warn("artwork download failed", "url", r.ArtworkURL(), "error", err)
		return nil
	}
	resized, err := ResizeCover(data, s.cfg.CoverMaxSize)
	if err != nil {
		s.log.Warn("artwork resize failed", "url", r.ArtworkURL(), "error", err)
		return nil
	}
	return resized
}

// WritePlaylist writes the playlist of releases to Dir/name plus the
// format extension and returns the path.
func (s *PreviewSaver) WritePlaylist(releases []*model.Release, name string) (string, error) {
	if err := os.MkdirAll(s.cfg.Dir, 0755); err != nil {
		return "", err
	}
	creator := NewPlaylistCreator(s.cfg.PlaylistFormat, s.cfg.M3UExtended)
	path := filepath.Join(s.cfg.Dir, SanitizeFileName(name)+s.cfg.PlaylistFormat.Extension())
	if err := os.WriteFile(path, []byte(creator.CreatePlaylist(releases)), 0644); err != nil {
		return "", err
	}
	return path, nil
}
