package export

// Config controls where and how previews are exported.
type Config struct {
	// Dir is the root folder. Each release gets a subfolder named
	// "Artist - Title".
	Dir string

	PlaylistFormat PlaylistFormat

	// M3UExtended adds #EXTINF lines to M3U playlists.
	M3UExtended bool

	// TagPreviews writes ID3 tags and cover art into saved previews.
	TagPreviews bool

	// CoverMaxSize bounds the embedded cover art in pixels per side.
	// Zero embeds the artwork unchanged.
	CoverMaxSize int
}

// DefaultConfig returns the export defaults.
func DefaultConfig() Config {
	return Config{
		Dir:            "previews",
		PlaylistFormat: FormatM3U,
		M3UExtended:    true,
		TagPreviews:    true,
		CoverMaxSize:   500,
	}
}
