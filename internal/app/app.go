package app

import (
	"log/slog"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/rooms/internal/clipboard"
	"github.com/zhubert/rooms/internal/config"
	"github.com/zhubert/rooms/internal/events"
	"github.com/zhubert/rooms/internal/git"
	"github.com/zhubert/rooms/internal/logger"
	"github.com/zhubert/rooms/internal/room"
	"github.com/zhubert/rooms/internal/terminal"
	"github.com/zhubert/rooms/internal/ui"
)

// Focus represents which panel receives keys
type Focus int

const (
	FocusSidebar Focus = iota
	FocusTerminal
)

func (f Focus) String() string {
	if f == FocusTerminal {
		return "terminal"
	}
	return "sidebar"
}

// Options configures a Model.
type Options struct {
	Primary  string // primary worktree
	RoomsDir string // directory new rooms are created in
	Config   *config.Config

	Git       *git.GitService     // nil uses a default service
	Spawner   terminal.Spawner    // nil starts $SHELL
	Clipboard clipboard.Clipboard // nil uses the system clipboard
	Rand      room.Rand           // nil uses the global source

	SkipPostCreate bool
	PTYDebug       bool
	Version        string
}

// Model is the main Bubble Tea model
type Model struct {
	cfg      *config.Config
	version  string
	primary  string
	roomsDir string
	skipPost bool
	rand     room.Rand
	clip     clipboard.Clipboard

	git      *git.GitService
	syncer   *git.Synchronizer
	sessions *terminal.Manager
	events   *events.Log
	log      *slog.Logger

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	pane    *ui.TerminalPane
	modal   *ui.Modal
	menu    *ui.ContextMenu

	width          int
	height         int
	focus          Focus
	sidebarVisible bool
	paneVisible    bool

	// Ground truth from the last successful sync, the transient overlay
	// and the paths with an operation in flight. Mutated only in Update.
	snapshot []git.SnapshotEntry
	overlay  room.Overlay
	busy     map[string]Operation
	views    []room.View

	paneDirty bool
}

// New creates a new app model
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if cfg.Theme != "" {
		ui.SetThemeByName(cfg.Theme)
	}

	svc := opts.Git
	if svc == nil {
		svc = git.NewGitService()
	}
	roomsDir := opts.RoomsDir
	if roomsDir == "" {
		roomsDir = cfg.RoomsPath(opts.Primary)
	}
	// git reports worktree paths with symlinks resolved
	if resolved, err := filepath.EvalSymlinks(roomsDir); err == nil {
		roomsDir = resolved
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.System{}
	}
	ui.UseClipboard(clip)

	sessions := terminal.NewManager(opts.Spawner)
	sessions.SetPTYDebug(opts.PTYDebug)

	m := &Model{
		cfg:            cfg,
		version:        opts.Version,
		primary:        opts.Primary,
		roomsDir:       roomsDir,
		skipPost:       opts.SkipPostCreate,
		rand:           opts.Rand,
		clip:           clip,
		git:            svc,
		syncer:         git.NewSynchronizer(svc, opts.Primary, roomsDir),
		sessions:       sessions,
		events:         events.New(filepath.Join(roomsDir, events.FileName)),
		log:            logger.ComponentLogger("app"),
		header:         ui.NewHeader(),
		footer:         ui.NewFooter(),
		sidebar:        ui.NewSidebar(),
		pane:           ui.NewTerminalPane(),
		modal:          ui.NewModal(),
		menu:           ui.NewContextMenu(),
		focus:          FocusSidebar,
		sidebarVisible: true,
		paneVisible:    true,
		overlay:        make(room.Overlay),
		busy:           make(map[string]Operation),
	}
	m.header.SetRepoName(filepath.Base(opts.Primary))
	m.sidebar.SetFocused(true)
	m.refreshViews()
	return m
}

// Init starts the first sync, the session event listener and the render
// tick.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.syncCmd(false),
		listenForSessionEvents(m.sessions.Events()),
		renderTick(),
	)
}

// Close shuts down every shell. Call it after the program exits.
func (m *Model) Close() {
	m.sessions.CloseAll()
}

// Views returns the rooms as currently rendered.
func (m *Model) Views() []room.View {
	return m.views
}

// Focus returns the focused panel.
func (m *Model) Focus() Focus {
	return m.focus
}

// RoomsDir returns the directory rooms are created in.
func (m *Model) RoomsDir() string {
	return m.roomsDir
}

// selectedRoom returns the room highlighted in the sidebar, or nil.
func (m *Model) selectedRoom() *room.View {
	return m.sidebar.SelectedRoom()
}

// selectedSession returns the live shell of the selected room, or nil.
func (m *Model) selectedSession() *terminal.Session {
	v := m.selectedRoom()
	if v == nil {
		return nil
	}
	return m.sessions.Get(v.Path)
}

// refreshViews reconciles git, the overlay and the live sessions into the
// rendered room list.
func (m *Model) refreshViews() {
	m.views = room.Reconcile(m.snapshot, m.overlay, m.sessions.Live())
	m.sidebar.SetViews(m.views)
	m.refreshPane()
}

// refreshPane points the header and terminal pane at the selected room.
func (m *Model) refreshPane() {
	m.paneDirty = false
	v := m.selectedRoom()
	if v == nil {
		m.header.SetRoom("", "")
		m.pane.SetRoom("")
		if len(m.views) == 0 {
			m.pane.ClearSnapshot("No rooms. Press a to create one.")
		} else {
			m.pane.ClearSnapshot("No room selected")
		}
		return
	}

	m.header.SetRoom(v.Name, v.Branch)
	m.pane.SetRoom(v.Name)
	if s := m.sessions.Get(v.Path); s != nil {
		m.pane.SetSnapshot(s.Snapshot())
		return
	}
	switch {
	case v.IsPrunable:
		m.pane.ClearSnapshot("Worktree is missing. Press Enter to prune.")
	case v.Status.InFlight():
		m.pane.ClearSnapshot(v.Name + " is " + v.Status.String() + "…")
	case v.Section == room.SectionFailed:
		m.pane.ClearSnapshot(v.LastError)
	default:
		m.pane.ClearSnapshot("Press Enter to open a shell in " + v.Name)
	}
}

// selectPath selects the room at path, resetting scrollback when the
// selection changes.
func (m *Model) selectPath(path string) {
	prev := m.selectedRoom()
	if !m.sidebar.SelectPath(path) {
		return
	}
	if prev == nil || prev.Path != path {
		m.selectionChanged(prev)
	}
}

// selectionChanged returns the shells of the previous and new room to their
// live screens.
func (m *Model) selectionChanged(prev *room.View) {
	if prev != nil {
		if s := m.sessions.Get(prev.Path); s != nil {
			s.ResetScroll()
		}
	}
	if s := m.selectedSession(); s != nil {
		s.ResetScroll()
	}
	m.refreshPane()
}

// focusSidebar shows the sidebar and gives it the keys.
func (m *Model) focusSidebar() {
	m.focus = FocusSidebar
	m.menu.Close()
	if !m.sidebarVisible {
		m.sidebarVisible = true
		m.updateSizes()
	}
	m.sidebar.SetFocused(true)
	m.pane.SetFocused(false)
}

// focusTerminal gives the terminal pane the keys.
func (m *Model) focusTerminal() {
	m.focus = FocusTerminal
	if !m.paneVisible {
		m.paneVisible = true
		m.updateSizes()
	}
	m.sidebar.SetFocused(false)
	m.pane.SetFocused(true)
}
