package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/bandcamp-explorer/internal/explorer"
	"github.com/handiism/bandcamp-explorer/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)

	albumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4ECDC4"))
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ Bandcamp Explorer"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Discover releases on Bandcamp"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateSearching:
		b.WriteString(m.viewSearching())
	case StateResults:
		b.WriteString(m.viewResults())
	case StateExporting:
		b.WriteString(m.viewExporting())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func check(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter query:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Type:  %s (tab)\n", m.searchType)
	fmt.Fprintf(&b, "  Pages: %d (pgup/pgdown)\n", m.pages)
	fmt.Fprintf(&b, "  Sort:  %s (ctrl+s)\n", m.sort)
	fmt.Fprintf(&b, "  %s Combine with previous result (ctrl+b)\n", check(m.combine))

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("Previous result: %d releases", m.result.Loaded())))
		b.WriteString("\n")
	}
	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	return b.String()
}

func (m Model) viewSearching() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(m.status))
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.processed) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Releases: %d/%d", m.processed, m.total)))
	b.WriteString("\n")

	return b.String()
}

// listHeight is how many result rows fit on screen.
func (m Model) listHeight() int {
	if m.height <= 0 {
		return 15
	}
	return max(m.height-16, 3)
}

func (m Model) viewResults() string {
	var b strings.Builder

	summary := fmt.Sprintf("%d releases", len(m.visible))
	if m.result != nil && len(m.visible) != m.result.Loaded() {
		summary = fmt.Sprintf("%d of %d releases", len(m.visible), m.result.Loaded())
	}
	b.WriteString(successStyle.Render(summary))
	b.WriteString("\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	height := m.listHeight()
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(m.visible))

	for i := start; i < end; i++ {
		line := releaseLine(m.visible[i])
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("› " + line))
		} else {
			b.WriteString(albumStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.cursor < len(m.visible) {
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(releaseDetails(m.visible[m.cursor])))
		b.WriteString("\n")
	}

	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	return b.String()
}

func (m Model) viewExporting() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Saving previews..."))
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.processed) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Releases: %d/%d", m.processed, m.total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s", m.err.Error())
	}

	return b.String()
}

func releaseLine(r *model.Release) string {
	published := "unknown"
	if !r.PublishDate().IsZero() {
		published = r.PublishDate().Format("2006-01-02")
	}
	return fmt.Sprintf("%s - %s  %s  %s", r.Artist(), r.Title(), dimStyle.Render(published), r.Duration())
}

func releaseDetails(r *model.Release) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - %s\n", r.Artist(), r.Title())
	if date, ok := r.ReleaseDate(); ok {
		fmt.Fprintf(&b, "Released: %s\n", date.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "Tracks: %d (%s)\n", r.TrackCount(), r.Duration())
	fmt.Fprintf(&b, "Download: %s", r.DownloadType())
	if r.DownloadType() == model.DownloadPaid {
		fmt.Fprintf(&b, " (%s)", r.Price())
	}
	b.WriteString("\n")
	if tags := r.Tags(); len(tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(tags, ", "))
	}
	if src := r.Source(); src != nil {
		b.WriteString(src.String())
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case explorer.LevelError:
			style = errorStyle
			prefix = "✗"
		case explorer.LevelWarning:
			style = warningStyle
			prefix = "!"
		case explorer.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case explorer.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: search • tab: type • ctrl+s: sort • ctrl+b: combine • esc: quit"
	case StateSearching, StateExporting:
		return "esc: cancel"
	case StateResults:
		if m.filtering {
			return "enter: apply • esc: clear filter"
		}
		return "↑/↓: move • /: filter • e: save previews • p: playlist • n: new search • q: quit"
	case StateError:
		return "r: new search • q: quit"
	}
	return ""
}
