package tui

import (
	"net/url"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/bandcamp-explorer/internal/bandcamp"
	"github.com/handiism/bandcamp-explorer/internal/model"
	"github.com/handiism/bandcamp-explorer/internal/search"
)

func release(path, artist, title string, tags ...string) *model.Release {
	src, _ := url.Parse("https://x.bandcamp.com" + path)
	return model.NewRelease(model.ReleaseInfo{
		Artist:      artist,
		Title:       title,
		Tags:        tags,
		PublishDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Source:      src,
	})
}

func testResult() *search.Result {
	return &search.Result{
		Releases: []*model.Release{
			release("/album/a", "Stars of the Lid", "Tired Sounds", "drone", "ambient"),
			release("/album/b", "Boards of Canada", "Geogaddi", "electronic"),
			release("/album/c", "Grouper", "Ruins", "ambient", "folk"),
		},
		Found: 3,
	}
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func keys(s string) []tea.Msg {
	var msgs []tea.Msg
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func TestFilterReleases(t *testing.T) {
	releases := testResult().Releases

	tests := []struct {
		pattern string
		want    []string
	}{
		{"", []string{"Tired Sounds", "Geogaddi", "Ruins"}},
		{"drone", []string{"Tired Sounds"}},
		{"BOARDS", []string{"Geogaddi"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := filterReleases(releases, tt.pattern)
			if len(got) != len(tt.want) {
				t.Fatalf("filterReleases(%q) = %d releases, want %d", tt.pattern, len(got), len(tt.want))
			}
			for i, r := range got {
				if r.Title() != tt.want[i] {
					t.Errorf("[%d] = %q, want %q", i, r.Title(), tt.want[i])
				}
			}
		})
	}
}

func TestModel_InputOptions(t *testing.T) {
	m := NewModel(nil)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.searchType != bandcamp.TypeTag {
		t.Errorf("after tab type = %v, want tag", m.searchType)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	if m.searchType != bandcamp.TypeSearch {
		t.Errorf("type did not wrap around: %v", m.searchType)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	if !m.combine {
		t.Error("ctrl+b should enable combine")
	}

	for range 20 {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	}
	if m.pages != bandcamp.MaxTagPages {
		t.Errorf("pages = %d, want %d", m.pages, bandcamp.MaxTagPages)
	}

	m = update(t, m, keys("ambient")...)
	if got := m.params(); got.Query != "ambient" || got.Pages != bandcamp.MaxTagPages || !got.Combine {
		t.Errorf("params = %+v", got)
	}

	// Without an explorer enter must not leave the input screen.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateInput {
		t.Errorf("state = %v, want input", m.state)
	}
}

func TestModel_ResultsAndFilter(t *testing.T) {
	m := NewModel(nil)
	m = update(t, m, TaskDoneMsg{Result: testResult()})

	if m.state != StateResults || len(m.visible) != 3 {
		t.Fatalf("state %v visible %d", m.state, len(m.visible))
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", m.cursor)
	}

	m = update(t, m, keys("/")...)
	if !m.filtering {
		t.Fatal("/ should start filtering")
	}
	m = update(t, m, keys("grouper")...)
	if len(m.visible) != 1 || m.visible[0].Title() != "Ruins" {
		t.Fatalf("filtered = %d releases", len(m.visible))
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d after filtering, want 0", m.cursor)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.filtering || len(m.visible) != 3 {
		t.Errorf("esc should clear the filter: filtering=%v visible=%d", m.filtering, len(m.visible))
	}

	m = update(t, m, keys("n")...)
	if m.state != StateInput {
		t.Errorf("n should start a new search, state = %v", m.state)
	}
}

func TestModel_CombineResults(t *testing.T) {
	m := NewModel(nil)
	m.combine = true

	m = update(t, m, TaskDoneMsg{Result: testResult()})
	next := &search.Result{
		Releases: []*model.Release{
			release("/album/a", "Stars of the Lid", "Tired Sounds"),
			release("/album/d", "Eluvium", "Copia"),
		},
		Found: 2,
	}
	m = update(t, m, TaskDoneMsg{Result: next})

	if m.result.Loaded() != 4 {
		t.Errorf("combined loaded = %d, want 4", m.result.Loaded())
	}
	if m.result.Found != 5 {
		t.Errorf("combined found = %d, want 5", m.result.Found)
	}
}

func TestModel_CancelledAndFailed(t *testing.T) {
	m := NewModel(nil)
	m.state = StateSearching

	m = update(t, m, TaskDoneMsg{Result: &search.Result{Cancelled: true}})
	if m.state != StateInput {
		t.Errorf("cancelled search state = %v, want input", m.state)
	}

	m.state = StateSearching
	m = update(t, m, TaskDoneMsg{Err: bandcamp.ErrInvalidQuery})
	if m.state != StateError || m.err == nil {
		t.Errorf("failed search state = %v err = %v", m.state, m.err)
	}

	m = update(t, m, keys("r")...)
	if m.state != StateInput {
		t.Errorf("r should return to input, state = %v", m.state)
	}
}
