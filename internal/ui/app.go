package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/bodyscale/internal/logtail"
	"github.com/five82/bodyscale/internal/prefs"
	"github.com/five82/bodyscale/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewMeasures View = iota
	ViewUser
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Store      *state.Store
	LogPath    string
	PollTick   time.Duration
	ThemeName  string
	WeightUnit string
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	logPath   string
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	theme       Theme
	weightUnit  string
	currentView View
	width       int
	height      int
	ready       bool

	snapshot    state.Snapshot
	selectedRow int

	userViewport viewport.Model
	logViewport  viewport.Model
	logLines     []string
	logErr       error

	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	unit := opts.WeightUnit
	if unit != prefs.UnitPounds {
		unit = prefs.UnitKilograms
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:         ctx,
		store:       opts.Store,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.ThemeName),
		weightUnit:  unit,
		currentView: ViewMeasures,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(m.height-chromeHeight, 1)
		if !m.ready {
			m.userViewport = viewport.New(m.width, bodyHeight)
			m.logViewport = viewport.New(m.width, bodyHeight)
		} else {
			m.userViewport.Width, m.userViewport.Height = m.width, bodyHeight
			m.logViewport.Width, m.logViewport.Height = m.width, bodyHeight
		}
		m.ready = true
		m.updateUserViewport()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampSelection()
		m.updateUserViewport()
		return m, nil

	case logLinesMsg:
		m.logLines = msg.lines
		m.logErr = msg.err
		m.updateLogViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewUser:
		return m.userViewport.View()
	case ViewLogs:
		return m.logViewport.View()
	default:
		return m.renderMeasures()
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateUserViewport()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleUnit):
		if m.weightUnit == prefs.UnitKilograms {
			m.weightUnit = prefs.UnitPounds
		} else {
			m.weightUnit = prefs.UnitKilograms
		}
		m.savePrefs()
		m.updateUserViewport()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.currentView = (m.currentView + 1) % 3
		if m.currentView == ViewLogs {
			return m, m.refreshLogs()
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewMeasures), key.Matches(msg, m.keys.Escape):
		m.currentView = ViewMeasures
		return m, nil

	case key.Matches(msg, m.keys.ViewUser):
		m.currentView = ViewUser
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, m.refreshLogs()
	}

	switch m.currentView {
	case ViewMeasures:
		return m.handleMeasuresKey(msg)
	case ViewUser:
		var cmd tea.Cmd
		m.userViewport, cmd = m.userViewport.Update(msg)
		return m, cmd
	case ViewLogs:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleMeasuresKey moves the selection in the measurements table.
func (m Model) handleMeasuresKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Groups)
	if count == 0 {
		return m, nil
	}
	half := max(m.tableRows()/2, 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		m.selectedRow++
	case key.Matches(msg, m.keys.Up):
		m.selectedRow--
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		m.selectedRow += half
	case key.Matches(msg, m.keys.HalfPageUp):
		m.selectedRow -= half
	}
	m.clampSelection()
	return m, nil
}

// handleTick processes the refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs {
		cmds = append(cmds, m.refreshLogs())
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m *Model) clampSelection() {
	count := len(m.snapshot.Groups)
	if m.selectedRow >= count {
		m.selectedRow = count - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, WeightUnit: m.weightUnit})
}

func (m Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type logLinesMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
