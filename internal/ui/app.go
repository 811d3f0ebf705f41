package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/nib/internal/access"
	"github.com/five82/nib/internal/draft"
	"github.com/five82/nib/internal/inkwell"
	"github.com/five82/nib/internal/prefs"
	"github.com/five82/nib/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewDetail
	ViewEditor
)

// API is everything the UI asks of the server. *inkwell.Client satisfies it.
type API interface {
	state.Lister
	access.Lookup
	draft.Saver
	access.Deleter
}

var _ API = (*inkwell.Client)(nil)

// Options configures the UI.
type Options struct {
	Context     context.Context
	API         API
	Store       *state.Store
	Actor       *inkwell.Actor
	Location    *time.Location
	PageSize    int
	PollTick    time.Duration
	ThemeName   string
	PrefsPath   string
	DefaultView string
	Logger      *slog.Logger
	Now         func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	api       API
	resolver  *access.Resolver
	store     *state.Store
	actor     *inkwell.Actor
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
	prefsPath string
	pollTick  time.Duration
	pageSize  int
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	spinner     spinner.Model

	// Flash line under the header
	flash      string
	flashError bool

	// List state
	snapshot    state.Snapshot
	lastUpdated time.Time
	selectedRow int
	listLoading bool

	// Detail state
	detailGen      uint64
	detailIdent    string
	detailArticle  *inkwell.Article
	detailErr      string
	detailLoading  bool
	detailViewport viewport.Model

	// Editor state
	editorGen     uint64
	form          *draft.Form
	titleInput    textinput.Model
	scheduleInput textinput.Model
	body          textarea.Model
	focus         editorField
	saving        bool
	discardArmed  bool
	editorReturn  View

	// Delete confirmation
	confirmDelete bool
	pendingDelete *inkwell.Article
	deleting      bool
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

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:            ctx,
		api:            opts.API,
		resolver:       access.NewResolver(opts.API, logger),
		store:          store,
		actor:          opts.Actor,
		loc:            loc,
		now:            now,
		logger:         logger,
		prefsPath:      prefsPath,
		pollTick:       pollTick,
		pageSize:       pageSize,
		keys:           DefaultKeyMap(),
		theme:          GetTheme(themeName),
		currentView:    ViewList,
		spinner:        sp,
		detailViewport: viewport.New(0, 0),
	}

	scope := state.ParseScope(opts.DefaultView)
	if scope == state.ScopeMine && m.actor == nil {
		scope = state.ScopeFeed
	}
	q, _ := store.Current()
	if q.Scope != scope || q.PageSize != pageSize {
		store.SetQuery(state.Query{Scope: scope, Page: 1, PageSize: pageSize})
	}
	m.snapshot = store.Snapshot()
	return m
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
		m.ready = true
		m.resizeDetail()
		m.resizeEditor()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case listRefreshedMsg:
		m.listLoading = false
		m.applySnapshot(msg.snapshot)
		if msg.err != nil {
			m.logger.Debug("list refresh failed", "error", msg.err)
		}
		return m, nil

	case articleLoadedMsg:
		return m.handleArticleLoaded(msg)

	case articleSavedMsg:
		return m.handleArticleSaved(msg)

	case articleDeletedMsg:
		return m.handleArticleDeleted(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.currentView == ViewEditor {
		return m.updateEditorInputs(msg)
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

	if m.confirmDelete {
		return m.renderConfirmDelete()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.confirmDelete {
		return m.handleConfirmDeleteKey(msg)
	}

	// The editor owns every printable key.
	if m.currentView == ViewEditor {
		return m.handleEditorKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			current, _ := prefs.Load(m.prefsPath)
			current.Theme = m.theme.Name
			if err := prefs.Save(m.prefsPath, current); err != nil {
				m.logger.Warn("save prefs failed", "error", err)
			}
		}
		m.refreshDetailContent()
		return m, nil
	}

	switch m.currentView {
	case ViewList:
		return m.handleListKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	}

	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.lastUpdated = m.now()
	if m.selectedRow >= len(snap.Articles) {
		m.selectedRow = max(0, len(snap.Articles)-1)
	}
}

func (m Model) busy() bool {
	return m.listLoading || m.detailLoading || m.saving || m.deleting
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashError = isErr
}

func (m *Model) clearFlash() {
	m.flash = ""
	m.flashError = false
}

// startBusy returns cmd batched with a spinner tick when nothing was
// already animating.
func (m Model) startBusy(wasBusy bool, cmd tea.Cmd) tea.Cmd {
	if wasBusy {
		return cmd
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderFlash())
	b.WriteString("\n")

	b.WriteString(m.renderContent())
	b.WriteString("\n")

	b.WriteString(m.renderFooter())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.renderList()
	case ViewDetail:
		return m.renderDetail()
	case ViewEditor:
		return m.renderEditor()
	default:
		return ""
	}
}

// contentHeight is the number of rows between the header block and footer.
func (m Model) contentHeight() int {
	return max(1, m.height-3)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type listRefreshedMsg struct {
	snapshot state.Snapshot
	err      error
}

type articleLoadedMsg struct {
	gen     uint64
	article *inkwell.Article
	err     error
}

type articleSavedMsg struct {
	gen     uint64
	form    *draft.Form
	article *inkwell.Article
	err     error
}

type articleDeletedMsg struct {
	id      int64
	deleted bool
	err     error
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

func refreshListCmd(ctx context.Context, store *state.Store, lister state.Lister, actor *inkwell.Actor) tea.Cmd {
	return func() tea.Msg {
		err := state.Refresh(ctx, store, lister, actor)
		return listRefreshedMsg{snapshot: store.Snapshot(), err: err}
	}
}

func loadArticleCmd(ctx context.Context, resolver *access.Resolver, gen uint64, ident string, actor *inkwell.Actor) tea.Cmd {
	return func() tea.Msg {
		article, err := resolver.Resolve(ctx, ident, actor)
		return articleLoadedMsg{gen: gen, article: article, err: err}
	}
}

// saveArticleCmd submits a private copy of form so the live form is never
// touched off the event loop.
func saveArticleCmd(ctx context.Context, saver draft.Saver, gen uint64, form draft.Form, actor *inkwell.Actor, action draft.Action) tea.Cmd {
	return func() tea.Msg {
		article, err := form.Submit(ctx, saver, actor, action)
		return articleSavedMsg{gen: gen, form: &form, article: article, err: err}
	}
}

func deleteArticleCmd(ctx context.Context, deleter access.Deleter, actor *inkwell.Actor, a inkwell.Article) tea.Cmd {
	return func() tea.Msg {
		// The modal already asked.
		ok, err := access.Delete(ctx, deleter, access.Always, actor, a)
		return articleDeletedMsg{id: a.ID, deleted: ok, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
