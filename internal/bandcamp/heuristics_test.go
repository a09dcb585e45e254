package bandcamp

import "testing"

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		link        string
		artist      string
		compilation bool
		wantArtist  string
		wantTitle   string
	}{
		{
			name:        "compilation splits",
			raw:         "Artist A - Song One",
			link:        "/track/artist-a-song-one",
			artist:      "Various Artists",
			compilation: true,
			wantArtist:  "Artist A",
			wantTitle:   "Song One",
		},
		{
			name:       "single artist dash title kept",
			raw:        "Intro - Outro",
			link:       "/track/intro-outro",
			artist:     "Solo Artist",
			wantArtist: "Solo Artist",
			wantTitle:  "Intro - Outro",
		},
		{
			name:       "numeric disambiguator ignored",
			raw:        "Intro - Outro",
			link:       "/track/intro-outro-2",
			artist:     "Solo Artist",
			wantArtist: "Solo Artist",
			wantTitle:  "Intro - Outro",
		},
		{
			name:       "link slug mismatch splits",
			raw:        "Guest - Collab",
			link:       "/track/collab",
			artist:     "Solo Artist",
			wantArtist: "Guest",
			wantTitle:  "Collab",
		},
		{
			name:       "prefix is release artist",
			raw:        "Solo - Track Name",
			link:       "/track/solo-track-name",
			artist:     "Solo Artist",
			wantArtist: "Solo Artist",
			wantTitle:  "Track Name",
		},
		{
			name:       "placeholder prefix",
			raw:        "V.A. - Track",
			link:       "/track/v-a-track",
			artist:     "Someone",
			wantArtist: "Someone",
			wantTitle:  "Track",
		},
		{
			name:        "en dash",
			raw:         "Artist B – Song Two",
			artist:      "Label Records",
			compilation: true,
			wantArtist:  "Artist B",
			wantTitle:   "Song Two",
		},
		{
			name:        "hyphen without spaces",
			raw:         "Re-Entry",
			artist:      "Various Artists",
			compilation: true,
			wantArtist:  "Various Artists",
			wantTitle:   "Re-Entry",
		},
		{
			name:       "no link keeps title",
			raw:        "Part One - Part Two",
			artist:     "Band",
			wantArtist: "Band",
			wantTitle:  "Part One - Part Two",
		},
		{
			name:       "diacritics fold to slug",
			raw:        "Été - Nuit",
			link:       "/track/ete-nuit",
			artist:     "Band",
			wantArtist: "Band",
			wantTitle:  "Été - Nuit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artist, title := splitTitle(tt.raw, tt.link, tt.artist, tt.compilation)
			if artist != tt.wantArtist || title != tt.wantTitle {
				t.Errorf("splitTitle(%q) = (%q, %q), want (%q, %q)", tt.raw, artist, title, tt.wantArtist, tt.wantTitle)
			}
		})
	}
}

func TestIsCompilation(t *testing.T) {
	tests := []struct {
		artist string
		title  string
		tags   []string
		want   bool
	}{
		{"Various Artists", "Summer", nil, true},
		{"V/A", "Summer", nil, true},
		{"VA", "Summer", nil, true},
		{"Dark Matter Records", "Summer", nil, true},
		{"Some Netlabel", "Summer", nil, true},
		{"Band", "Summer Sampler 2020", nil, true},
		{"Band", "Label Compilation", nil, true},
		{"Band", "Split", nil, true},
		{"Band", "Summer", []string{"ambient", "compilation"}, true},
		{"Band", "Summer", []string{"ambient", "various artists"}, true},
		{"Band", "Summer", []string{"ambient"}, false},
		{"Vanessa", "Splitting Hairs", nil, false},
	}

	for _, tt := range tests {
		if got := isCompilation(tt.artist, tt.title, tt.tags); got != tt.want {
			t.Errorf("isCompilation(%q, %q, %v) = %v, want %v", tt.artist, tt.title, tt.tags, got, tt.want)
		}
	}
}

func TestMinimize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Intro - Outro", "introoutro"},
		{"Ça Va?", "cava"},
		{"  ", ""},
		{"日本", ""},
		{"Track #2 (Live)", "track2live"},
	}
	for _, tt := range tests {
		if got := minimize(tt.in); got != tt.want {
			t.Errorf("minimize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnescapeEntities(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"rock &amp; roll", "rock & roll"},
		{"caf&eacute;", "café"},
		{"&#233;t&#xE9;", "été"},
		{"&#128512;", "&#128512;"},
		{"&#xD800;", "&#xD800;"},
		{"&unknown;", "&unknown;"},
		{"plain", "plain"},
		{"a & b", "a & b"},
	}
	for _, tt := range tests {
		if got := unescapeEntities(tt.in); got != tt.want {
			t.Errorf("unescapeEntities(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
