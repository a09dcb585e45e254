package export

import (
	"fmt"
	"strings"

	"github.com/handiism/bandcamp-explorer/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS
)

// ParsePlaylistFormat maps "m3u" or "pls" (any case) to a format.
func ParsePlaylistFormat(s string) (PlaylistFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m3u", "":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	default:
		return FormatM3U, fmt.Errorf("unknown playlist format %q", s)
	}
}

func (f PlaylistFormat) String() string {
	if f == FormatPLS {
		return "pls"
	}
	return "m3u"
}

// Extension returns the file extension, dot included.
func (f PlaylistFormat) Extension() string {
	return "." + f.String()
}

// PlaylistCreator generates playlists of preview streams.
//
// Tracks without an audio URL are skipped. Entries point at the remote
// stream, so the playlist can be opened from any directory.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(releases)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:180,Artist - Song Title
//	// http://t4.bcbits.com/stream/.../mp3-128/123
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended only applies to FormatM3U.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the format the creator writes.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

type entry struct {
	artist   string
	title    string
	url      string
	duration int64
}

func entries(releases []*model.Release) []entry {
	var out []entry
	for _, r := range releases {
		for _, t := range r.Tracks() {
			if !t.Playable() {
				continue
			}
			artist := t.Artist
			if artist == "" {
				artist = r.Artist()
			}
			out = append(out, entry{
				artist:   artist,
				title:    t.Title,
				url:      t.AudioURL,
				duration: t.Duration.Seconds(),
			})
		}
	}
	return out
}

// CreatePlaylist generates playlist content for releases.
func (p *PlaylistCreator) CreatePlaylist(releases []*model.Release) string {
	items := entries(releases)
	switch p.format {
	case FormatPLS:
		return p.createPLS(items)
	default:
		return p.createM3U(items)
	}
}

// createM3U generates an M3U playlist.
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:180,Artist - Title
//	http://...
func (p *PlaylistCreator) createM3U(items []entry) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, e := range items {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:%d,%s - %s\n", e.duration, oneLine(e.artist), oneLine(e.title))
		}
		sb.WriteString(e.url + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=http://...
//	Title1=Artist - Song Title
//	Length1=180
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(items []entry) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, e := range items {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, e.url)
		fmt.Fprintf(&sb, "Title%d=%s - %s\n", idx, oneLine(e.artist), oneLine(e.title))
		fmt.Fprintf(&sb, "Length%d=%d\n", idx, e.duration)
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(items))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// oneLine keeps titles from breaking the line-based formats.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
