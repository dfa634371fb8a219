// Package ui provides the Bubble Tea TUI for pixfeed: a project picker,
// the project inbox as a navigable list, and a detail pane per share.
//
// The UI never touches the PIX session directly. Every service action
// runs through the callbacks in Options, which the app layer serializes
// against its background poller.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bitvfx/pix-go/internal/prefs"
	"github.com/bitvfx/pix-go/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	PollTick  time.Duration
	ThemeName string
	PrefsPath string

	// ProjectLoaded marks that a project is already active; otherwise
	// the picker opens with ProjectChoices.
	ProjectLoaded  bool
	ProjectChoices []string

	// LoadProject activates the named project and performs the initial
	// inbox fetch.
	LoadProject func(context.Context, string) error

	// Refresh re-fetches the inbox into the store; the poller owns the
	// cadence, this powers the manual refresh key.
	Refresh func(context.Context)

	// MarkRead and Delete act on one inbox item by id, service first,
	// store second.
	MarkRead func(context.Context, string) error
	Delete   func(context.Context, string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	store       *state.Store
	prefsPath   string
	pollTick    time.Duration
	loadProject func(context.Context, string) error
	refresh     func(context.Context)
	markRead    func(context.Context, string) error
	deleteItem  func(context.Context, string) error

	// UI state
	keys       keyMap
	theme      Theme
	styles     Styles
	width      int
	height     int
	ready      bool
	showDetail bool
	showHelp   bool
	statusLine string

	// Picker state
	showPicker    bool
	choices       []string
	pickerIndex   int
	pickerLoading bool

	// Data state
	projectLoaded bool
	snapshot      state.Snapshot
	selected      int

	// Detail state
	detailViewport viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(opts.ThemeName)

	return Model{
		ctx:           ctx,
		store:         opts.Store,
		prefsPath:     prefsPath,
		pollTick:      pollTick,
		loadProject:   opts.LoadProject,
		refresh:       opts.Refresh,
		markRead:      opts.MarkRead,
		deleteItem:    opts.Delete,
		keys:          DefaultKeyMap(),
		theme:         theme,
		styles:        theme.Styles(),
		projectLoaded: opts.ProjectLoaded,
		showPicker:    !opts.ProjectLoaded && len(opts.ProjectChoices) > 0,
		choices:       opts.ProjectChoices,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
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
		if !m.ready {
			m.detailViewport = viewport.New(msg.Width, msg.Height-4)
		} else {
			m.detailViewport.Width = msg.Width
			m.detailViewport.Height = msg.Height - 4
		}
		m.ready = true
		m.syncDetail()
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.pollTick))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampSelection()
		m.syncDetail()
		return m, nil

	case projectMsg:
		m.pickerLoading = false
		if msg.err != nil {
			m.statusLine = "error: " + msg.err.Error()
			return m, nil
		}
		m.projectLoaded = true
		m.showPicker = false
		m.statusLine = ""
		return m, fetchSnapshotCmd(m.store)

	case actionMsg:
		if msg.err != nil {
			m.statusLine = "error: " + msg.err.Error()
		} else {
			m.statusLine = msg.info
		}
		return m, fetchSnapshotCmd(m.store)
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
	if m.showPicker {
		return m.renderPicker()
	}
	if m.showDetail {
		return m.renderDetail()
	}
	return m.renderInbox()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.showHelp = false
		m.showDetail = false
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = NextTheme(m.theme.Name)
		m.styles = m.theme.Styles()
		m.statusLine = "theme: " + m.theme.Name
		return m, saveThemeCmd(m.prefsPath, m.theme.Name)
	}

	if m.showPicker {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.showDetail {
			m.detailViewport.ScrollUp(1)
			return m, nil
		}
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.showDetail {
			m.detailViewport.ScrollDown(1)
			return m, nil
		}
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.selected = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.selected = len(m.snapshot.Entries) - 1
		m.clampSelection()
		return m, nil

	case key.Matches(msg, m.keys.Open):
		entry, ok := m.selectedEntry()
		if !ok {
			return m, nil
		}
		m.showDetail = true
		m.syncDetail()
		if !entry.Viewed && m.projectLoaded {
			return m, actionCmd(m.ctx, m.markRead, entry.ID, "marked as read")
		}
		return m, nil

	case key.Matches(msg, m.keys.MarkRead):
		if entry, ok := m.selectedEntry(); ok && !entry.Viewed && m.projectLoaded {
			return m, actionCmd(m.ctx, m.markRead, entry.ID, "marked as read")
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if entry, ok := m.selectedEntry(); ok && m.projectLoaded {
			m.showDetail = false
			return m, actionCmd(m.ctx, m.deleteItem, entry.ID, "deleted")
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.projectLoaded {
			return m, refreshCmd(m.ctx, m.store, m.refresh)
		}
		return m, nil
	}

	return m, nil
}

// handlePickerKey navigates and confirms the project picker.
func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.pickerIndex > 0 {
			m.pickerIndex--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.pickerIndex < len(m.choices)-1 {
			m.pickerIndex++
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.pickerLoading || m.loadProject == nil {
			return m, nil
		}
		m.pickerLoading = true
		m.statusLine = "loading " + m.choices[m.pickerIndex] + "..."
		return m, loadProjectCmd(m.ctx, m.choices[m.pickerIndex], m.loadProject)
	}

	return m, nil
}

func (m *Model) moveSelection(delta int) {
	m.selected += delta
	m.clampSelection()
	m.syncDetail()
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.snapshot.Entries) {
		m.selected = len(m.snapshot.Entries) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) selectedEntry() (state.Entry, bool) {
	if m.selected < 0 || m.selected >= len(m.snapshot.Entries) {
		return state.Entry{}, false
	}
	return m.snapshot.Entries[m.selected], true
}

func (m *Model) syncDetail() {
	if !m.ready {
		return
	}
	if entry, ok := m.selectedEntry(); ok {
		m.detailViewport.SetContent(m.renderDetailBody(entry))
	} else {
		m.detailViewport.SetContent("")
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type projectMsg struct {
	err error
}

type actionMsg struct {
	info string
	err  error
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

func loadProjectCmd(ctx context.Context, name string, load func(context.Context, string) error) tea.Cmd {
	return func() tea.Msg {
		return projectMsg{err: load(ctx, name)}
	}
}

func actionCmd(ctx context.Context, act func(context.Context, string) error, id, info string) tea.Cmd {
	return func() tea.Msg {
		if act == nil {
			return actionMsg{}
		}
		if err := act(ctx, id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{info: info}
	}
}

func refreshCmd(ctx context.Context, store *state.Store, refresh func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		if refresh != nil {
			refresh(ctx)
		}
		return snapshotMsg(store.Snapshot())
	}
}

func saveThemeCmd(prefsPath, theme string) tea.Cmd {
	return func() tea.Msg {
		p := prefs.Load(prefsPath)
		p.Theme = theme
		if err := prefs.Save(prefsPath, p); err != nil {
			return actionMsg{err: err}
		}
		return nil
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
