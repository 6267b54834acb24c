package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/editor"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Config    *config.Config
	APIURL    string
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    logging.Logger
	PollTick  time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	config    *config.Config
	apiURL    string
	prefsPath string
	logger    logging.Logger
	pollTick  time.Duration
	keys      keyMap
	now       func() time.Time

	// UI state
	theme   Theme
	compact bool
	width   int
	height  int
	ready   bool

	// Data state
	snapshot state.Snapshot
	inflight int // store commands dispatched but not yet reported back
	spinner  spinner.Model

	// List state
	selectedRow int
	selectedID  string

	// Editor
	session editor.Session
	form    productForm
	saving  bool

	// Overlays
	modal       Modal
	showHelp    bool
	showLogs    bool
	logViewport viewport.Model
	logErr      error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.Prefs.Theme
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	apiURL := opts.APIURL
	if apiURL == "" && opts.Config != nil {
		apiURL = opts.Config.APIURL
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		store:     opts.Store,
		config:    opts.Config,
		apiURL:    apiURL,
		prefsPath: prefsPath,
		logger:    logger,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		now:       time.Now,
		theme:     GetTheme(themeName),
		compact:   opts.Prefs.Compact,
		spinner:   sp,
		form:      newProductForm(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, refreshCmd(m.ctx, m.store))
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
			m.logViewport = viewport.New(msg.Width, maxInt(1, msg.Height-2))
		}
		m.ready = true
		m.logViewport.Width = msg.Width
		m.logViewport.Height = maxInt(1, msg.Height-2)
		m.form.resize(m.formWidth())
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case refreshDoneMsg:
		m.inflight = maxInt(0, m.inflight-1)
		m.applySnapshot(msg.snapshot)
		return m, nil

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case confirmDeleteMsg:
		if m.store == nil {
			return m, nil
		}
		m.inflight++
		return m, deleteCmd(m.ctx, m.store, msg.id)

	case deleteDoneMsg:
		m.inflight = maxInt(0, m.inflight-1)
		m.applySnapshot(msg.snapshot)
		if msg.err != nil {
			m.logger.Warn(m.ctx, "delete failed", "id", msg.id, "error", msg.err)
		}
		return m, nil

	case logLinesMsg:
		m.logErr = msg.err
		m.logViewport.SetContent(m.renderLogLines(msg.lines))
		m.logViewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and other input messages belong to the form.
	if m.session.Visible() {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
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

	if m.showLogs {
		return m.renderLogs()
	}

	return m.renderMain()
}

// handleKey processes keyboard input. Overlays take keys before the list.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.showLogs {
		return m.handleLogsKey(msg)
	}

	if m.modal != nil {
		next, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if m.session.Visible() {
		return m.handleFormKey(msg)
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
		return m, nil

	case key.Matches(msg, m.keys.Compact):
		m.compact = !m.compact
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.store == nil {
			return m, nil
		}
		m.inflight++
		return m, refreshCmd(m.ctx, m.store)

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		return m, m.loadLogs()

	case key.Matches(msg, m.keys.New):
		return m.openForm(func(s *editor.Session) { s.OpenForCreate() })
	}

	return m.handleListKey(msg)
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Pick up changes made by the background poller.
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

// applySnapshot installs a new snapshot and keeps the cursor on the same
// product when it still exists. A snapshot older than the one shown, such as
// a tick read that raced a refresh, is ignored.
func (m *Model) applySnapshot(snap state.Snapshot) {
	if snap.OlderThan(m.snapshot) {
		m.logger.Debug(m.ctx, "ignoring stale snapshot", "version", snap.Version, "current", m.snapshot.Version)
		return
	}
	m.snapshot = snap
	m.restoreSelection()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Compact: m.compact}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn(m.ctx, "save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// loading reports whether a spinner should be shown.
func (m Model) loading() bool {
	return m.inflight > 0 || m.saving || m.snapshot.Loading()
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	used := 2
	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
		used++
	}

	b.WriteString(m.renderContent(maxInt(1, m.height-used)))

	return b.String()
}

// renderContent renders the main content area: a modal, the form, or the list.
func (m Model) renderContent(height int) string {
	switch {
	case m.modal != nil:
		return m.modal.View(m.theme, m.width, height)
	case m.session.Visible():
		return lipgloss.Place(
			m.width,
			height,
			lipgloss.Center,
			lipgloss.Center,
			m.renderForm(),
			lipgloss.WithWhitespaceChars(" "),
		)
	default:
		return m.renderProducts(height)
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type refreshDoneMsg struct {
	snapshot state.Snapshot
	err      error
}

type submitDoneMsg struct {
	sub      editor.Submission
	err      error
	snapshot state.Snapshot
}

type confirmDeleteMsg struct {
	id string
}

type deleteDoneMsg struct {
	id       string
	err      error
	snapshot state.Snapshot
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

func refreshCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		err := store.Refresh(ctx)
		return refreshDoneMsg{snapshot: store.Snapshot(), err: err}
	}
}

func submitCmd(ctx context.Context, store *state.Store, sub editor.Submission) tea.Cmd {
	return func() tea.Msg {
		err := sub.Run(ctx, store)
		return submitDoneMsg{sub: sub, err: err, snapshot: store.Snapshot()}
	}
}

func deleteCmd(ctx context.Context, store *state.Store, id string) tea.Cmd {
	return func() tea.Msg {
		err := store.Delete(ctx, id)
		return deleteDoneMsg{id: id, err: err, snapshot: store.Snapshot()}
	}
}

// productByID looks a product up in the model's current snapshot.
func (m Model) productByID(id string) (catalog.Product, bool) {
	for _, p := range m.snapshot.Products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
