package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/handiism/bandcamp-explorer/internal/model"
)

var (
	invalidChars   = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots   = regexp.MustCompile(`\.+$`)
	repeatedSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Leading and trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")      // Returns "Song_ Part 1_2"
//	SanitizeFileName("Track...")            // Returns "Track"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// ReleaseDir returns the folder name of a release.
func ReleaseDir(r *model.Release) string {
	name := SanitizeFileName(r.Artist() + " - " + r.Title())
	if name == "" || name == "-" {
		return SanitizeFileName(r.Identity().String())
	}
	return name
}

// TrackFileName returns "NN Title.mp3" for a preview.
func TrackFileName(t model.Track) string {
	title := SanitizeFileName(t.Title)
	if title == "" {
		title = "track"
	}
	return fmt.Sprintf("%02d %s.mp3", t.Number, title)
}
