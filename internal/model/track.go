package model

// Track represents a single track within a release.
//
// Track is a value type; copies are independent. A track without an
// AudioURL cannot be played but still carries its title and duration.
type Track struct {
	// Number is the track position (1-indexed).
	Number int

	// Artist is the track artist. For single-artist releases this is the
	// release artist.
	Artist string

	// Title is the track title.
	Title string

	// Duration is the track length.
	Duration Time

	// Link is the absolute URL of the track page.
	Link string

	// AudioURL is the preview stream URL. Empty if not playable.
	AudioURL string
}

// Playable reports whether the track has an audio stream.
func (t Track) Playable() bool {
	return t.AudioURL != ""
}
