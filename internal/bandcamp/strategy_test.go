package bandcamp

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStrategy_ResourceURL(t *testing.T) {
	tests := []struct {
		typ   SearchType
		query string
		page  int
		want  string
	}{
		{TypeSearch, "dark ambient", 1, "https://bandcamp.com/search?page=1&q=dark+ambient"},
		{TypeSearch, "x", 3, "https://bandcamp.com/search?page=3&q=x"},
		{TypeTag, "Dark  Ambient", 2, "https://bandcamp.com/tag/dark-ambient?page=2&sort_field=date"},
		{TypeDirect, "artist.bandcamp.com/album/x", 5, "http://artist.bandcamp.com/album/x"},
		{TypeDirect, "https://artist.bandcamp.com/music", 1, "https://artist.bandcamp.com/music"},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String()+"/"+tt.query, func(t *testing.T) {
			s, err := NewStrategy(tt.typ, "")
			if err != nil {
				t.Fatal(err)
			}
			u, err := s.ResourceURL(tt.query, tt.page)
			if err != nil {
				t.Fatalf("ResourceURL: %v", err)
			}
			if u.String() != tt.want {
				t.Errorf("got %s, want %s", u, tt.want)
			}
		})
	}
}

func TestStrategy_Invalid(t *testing.T) {
	dir := t.TempDir()
	direct := DirectStrategy{}

	for _, query := range []string{"", "   ", "file:" + dir, "file:" + filepath.Join(dir, "missing.html"), "ftp://host/x"} {
		if _, err := direct.ResourceURL(query, 1); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("ResourceURL(%q) error = %v, want ErrInvalidQuery", query, err)
		}
	}

	search, _ := NewStrategy(TypeSearch, "")
	if _, err := search.ResourceURL("  ", 1); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("empty search error = %v", err)
	}
}

func TestDirectStrategy_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte("<html></html>"), 0644); err != nil {
		t.Fatal(err)
	}

	u, err := DirectStrategy{}.ResourceURL("file://"+path, 1)
	if err != nil {
		t.Fatalf("ResourceURL: %v", err)
	}
	if u.Scheme != "file" || u.Path != path {
		t.Errorf("got %s", u)
	}
}

func TestClampPages(t *testing.T) {
	search, _ := NewStrategy(TypeSearch, "")
	tag, _ := NewStrategy(TypeTag, "")
	direct, _ := NewStrategy(TypeDirect, "")

	tests := []struct {
		name  string
		s     Strategy
		pages int
		want  int
	}{
		{"search", search, 25, 25},
		{"search zero", search, 0, 1},
		{"tag capped", tag, 40, MaxTagPages},
		{"tag", tag, 3, 3},
		{"direct", direct, 7, 1},
	}
	for _, tt := range tests {
		if got := ClampPages(tt.s, tt.pages); got != tt.want {
			t.Errorf("%s: ClampPages(%d) = %d, want %d", tt.name, tt.pages, got, tt.want)
		}
	}
}

func TestParseSearchType(t *testing.T) {
	for _, typ := range []SearchType{TypeSearch, TypeTag, TypeDirect} {
		got, err := ParseSearchType(typ.String())
		if err != nil || got != typ {
			t.Errorf("ParseSearchType(%q) = %v, %v", typ.String(), got, err)
		}
	}
	if _, err := ParseSearchType("album"); err == nil {
		t.Error("expected error for unknown type")
	}
}
