// Package tui provides a Bubble Tea terminal user interface for bandcamp-explorer.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/bandcamp-explorer/internal/bandcamp"
	"github.com/handiism/bandcamp-explorer/internal/explorer"
	"github.com/handiism/bandcamp-explorer/internal/model"
	"github.com/handiism/bandcamp-explorer/internal/search"
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateSearching
	StateResults
	StateExporting
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   explorer.ProgressLevel
}

// maxLogs is how many log lines stay on screen.
const maxLogs = 10

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	filter    textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	explorer  *explorer.Explorer
	logs      []LogEntry
	err       error

	// Search context
	ctx    context.Context
	cancel context.CancelFunc
	task   *search.Task

	// Search options
	searchType bandcamp.SearchType
	pages      int
	sort       search.SortBy
	combine    bool

	// Search progress
	status    string
	processed int
	total     int

	result    *search.Result
	visible   []*model.Release
	cursor    int
	filtering bool

	exportEvents chan explorer.ProgressEvent

	width  int
	height int
}

// NewModel creates a new TUI model. exp may be nil in tests that never
// start a search.
func NewModel(exp *explorer.Explorer) Model {
	ti := textinput.New()
	ti.Placeholder = "artist, album or tag"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.CharLimit = 100
	fi.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	sort := search.SortPublishDateDesc
	if exp != nil {
		sort = exp.Settings().Sort()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		filter:    fi,
		spinner:   sp,
		progress:  prog,
		explorer:  exp,
		pages:     1,
		sort:      sort,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// TaskStartedMsg is sent once a search was submitted.
	TaskStartedMsg struct {
		Task *search.Task
		Err  error
	}

	// TaskEventMsg carries a status or progress update of the running task.
	TaskEventMsg struct {
		Event search.Event
	}

	// TaskDoneMsg is sent when the task has ended.
	TaskDoneMsg struct {
		Result *search.Result
		Err    error
	}

	// ExportMsg is sent for every export progress event.
	ExportMsg struct {
		Event explorer.ProgressEvent
	}

	// ExportDoneMsg is sent when an export has finished.
	ExportDoneMsg struct {
		Err error
	}

	// PlaylistMsg is sent when a playlist was written.
	PlaylistMsg struct {
		Path string
		Err  error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case TaskStartedMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			break
		}
		m.task = msg.Task
		cmds = append(cmds, waitForEvent(msg.Task), m.spinner.Tick)

	case TaskEventMsg:
		if m.task == nil {
			break
		}
		m.status = msg.Event.Status
		m.processed = msg.Event.Processed
		m.total = msg.Event.Total
		cmds = append(cmds, waitForEvent(m.task))
		if m.total > 0 {
			cmds = append(cmds, m.progress.SetPercent(float64(m.processed)/float64(m.total)))
		}

	case TaskDoneMsg:
		m.task = nil
		switch {
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		case msg.Result.Cancelled:
			m.state = StateInput
			m.addLog("search cancelled", explorer.LevelWarning)
			cmds = append(cmds, m.textInput.Focus())
		default:
			if m.combine {
				m.result = search.Combine(m.result, msg.Result)
			} else {
				m.result = msg.Result
			}
			m.addLog(fmt.Sprintf("found %d, loaded %d, failed %d", msg.Result.Found, msg.Result.Loaded(), msg.Result.Failed), explorer.LevelSuccess)
			m.state = StateResults
			m.applyFilter()
		}

	case ExportMsg:
		if msg.Event.Level != explorer.LevelVerbose {
			m.addLog(msg.Event.Message, msg.Event.Level)
		}
		m.processed = msg.Event.Done
		m.total = msg.Event.Total
		if m.exportEvents != nil {
			cmds = append(cmds, waitForExport(m.exportEvents))
		}
		if m.total > 0 {
			cmds = append(cmds, m.progress.SetPercent(float64(m.processed)/float64(m.total)))
		}

	case ExportDoneMsg:
		m.exportEvents = nil
		m.state = StateResults
		if msg.Err != nil {
			m.addLog("export failed: "+msg.Err.Error(), explorer.LevelError)
		} else {
			m.addLog("export complete", explorer.LevelSuccess)
		}

	case PlaylistMsg:
		if msg.Err != nil {
			m.addLog("playlist failed: "+msg.Err.Error(), explorer.LevelError)
		} else {
			m.addLog("playlist written to "+msg.Path, explorer.LevelSuccess)
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text inputs
	switch {
	case m.state == StateInput:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	case m.state == StateResults && m.filtering:
		before := m.filter.Value()
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		cmds = append(cmds, cmd)
		if m.filter.Value() != before {
			m.applyFilter()
		}
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes key presses. handled reports that the key must not
// reach the text inputs.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		m.cancel()
		return m, tea.Quit, true
	}

	switch m.state {
	case StateInput:
		switch key {
		case "esc":
			m.cancel()
			return m, tea.Quit, true
		case "enter":
			if m.textInput.Value() == "" || m.explorer == nil {
				return m, nil, true
			}
			m.state = StateSearching
			m.status = "submitting"
			m.processed, m.total = 0, 0
			m.textInput.Blur()
			return m, tea.Batch(m.startSearch(), m.progress.SetPercent(0)), true
		case "tab":
			m.searchType = (m.searchType + 1) % (bandcamp.TypeDirect + 1)
			return m, nil, true
		case "ctrl+b":
			m.combine = !m.combine
			return m, nil, true
		case "ctrl+s":
			m.sort = (m.sort + 1) % (search.SortRelevance + 1)
			return m, nil, true
		case "pgup":
			m.pages = min(m.pages+1, bandcamp.MaxTagPages)
			return m, nil, true
		case "pgdown":
			m.pages = max(m.pages-1, 1)
			return m, nil, true
		}

	case StateSearching:
		if key == "esc" && m.task != nil {
			m.task.Cancel()
			m.status = "cancelling"
		}
		return m, nil, true

	case StateExporting:
		if key == "esc" {
			m.cancel()
			m.ctx, m.cancel = context.WithCancel(context.Background())
		}
		return m, nil, true

	case StateResults:
		if m.filtering {
			switch key {
			case "esc":
				m.filtering = false
				m.filter.Blur()
				m.filter.SetValue("")
				m.applyFilter()
				return m, nil, true
			case "enter":
				m.filtering = false
				m.filter.Blur()
				return m, nil, true
			case "up", "down":
				m.moveCursor(key)
				return m, nil, true
			}
			return m, nil, false
		}

		switch key {
		case "/":
			m.filtering = true
			return m, m.filter.Focus(), true
		case "up", "k", "down", "j", "home", "end":
			m.moveCursor(key)
		case "e":
			if len(m.visible) > 0 && m.explorer != nil {
				m.state = StateExporting
				m.processed, m.total = 0, len(m.visible)
				m.exportEvents = make(chan explorer.ProgressEvent, 16)
				return m, tea.Batch(m.startExport(m.visible, m.exportEvents), waitForExport(m.exportEvents), m.progress.SetPercent(0)), true
			}
		case "p":
			if len(m.visible) > 0 && m.explorer != nil {
				return m, m.writePlaylist(m.visible, m.textInput.Value()), true
			}
		case "n", "esc":
			m.state = StateInput
			m.textInput.SetValue("")
			return m, m.textInput.Focus(), true
		case "q":
			m.cancel()
			return m, tea.Quit, true
		}
		return m, nil, true

	case StateError:
		switch key {
		case "q":
			return m, tea.Quit, true
		case "r", "esc":
			m.state = StateInput
			m.err = nil
			return m, m.textInput.Focus(), true
		}
		return m, nil, true
	}

	return m, nil, false
}

func (m *Model) moveCursor(key string) {
	switch key {
	case "up", "k":
		m.cursor--
	case "down", "j":
		m.cursor++
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = len(m.visible) - 1
	}
	m.cursor = max(0, min(m.cursor, len(m.visible)-1))
}

func (m *Model) applyFilter() {
	if m.result == nil {
		m.visible = nil
	} else {
		m.visible = filterReleases(m.result.Releases, m.filter.Value())
	}
	m.cursor = max(0, min(m.cursor, len(m.visible)-1))
}

func (m *Model) addLog(message string, level explorer.ProgressLevel) {
	m.logs = append(m.logs, LogEntry{Message: message, Level: level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// params builds the search parameters from the input state.
func (m Model) params() search.Params {
	return search.Params{
		Query:   m.textInput.Value(),
		Type:    m.searchType,
		Pages:   m.pages,
		Combine: m.combine,
		Sort:    m.sort,
	}
}

// startSearch submits the search in the background.
func (m Model) startSearch() tea.Cmd {
	exp, ctx, params := m.explorer, m.ctx, m.params()
	return func() tea.Msg {
		task, err := exp.Search(ctx, params)
		return TaskStartedMsg{Task: task, Err: err}
	}
}

// waitForEvent relays the next task event, or the result once the event
// stream is closed.
func waitForEvent(task *search.Task) tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-task.Events(); ok {
			return TaskEventMsg{Event: ev}
		}
		result, err := task.Wait()
		return TaskDoneMsg{Result: result, Err: err}
	}
}

// startExport runs the export and closes events when it is done.
func (m Model) startExport(releases []*model.Release, events chan explorer.ProgressEvent) tea.Cmd {
	exp, ctx := m.explorer, m.ctx
	return func() tea.Msg {
		defer close(events)
		err := exp.ExportPreviews(ctx, releases, func(ev explorer.ProgressEvent) {
			events <- ev
		})
		return ExportDoneMsg{Err: err}
	}
}

func waitForExport(events <-chan explorer.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return ExportMsg{Event: ev}
	}
}

func (m Model) writePlaylist(releases []*model.Release, name string) tea.Cmd {
	exp := m.explorer
	if name == "" {
		name = "previews-" + time.Now().Format("20060102-150405")
	}
	return func() tea.Msg {
		path, err := exp.WritePlaylist(releases, name)
		return PlaylistMsg{Path: path, Err: err}
	}
}

// Run starts the TUI application.
func Run(exp *explorer.Explorer) error {
	p := tea.NewProgram(NewModel(exp), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
