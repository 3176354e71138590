// Package terminal hosts the interactive shells behind rooms: PTY processes,
// the VT emulator that turns their output into a cell grid, key translation
// and hook injection.
package terminal

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	rerrors "github.com/zhubert/rooms/internal/errors"
	"github.com/zhubert/rooms/internal/logger"
)

// readChunk is the size of each PTY read.
const readChunk = 4096

// eventBuffer bounds the queue of pending session events.
const eventBuffer = 256

// EventKind distinguishes session events.
type EventKind int

const (
	// EventOutput means the session's screen changed.
	EventOutput EventKind = iota
	// EventExited means the shell exited and the reader stopped.
	EventExited
)

// Event is sent by reader goroutines. Readers never touch the session map;
// the event loop decides what an exit means.
type Event struct {
	Kind      EventKind
	Path      string
	SessionID string
	Err       error
}

// Manager owns the session map. Its methods are called from the event loop.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	spawn    Spawner
	events   chan Event
	quit     chan struct{}
	quitOnce sync.Once
	wg       sync.WaitGroup

	ptyDebug bool
	log      *slog.Logger
}

// NewManager returns a manager that starts shells with spawn, or with
// SpawnShell when spawn is nil.
func NewManager(spawn Spawner) *Manager {
	if spawn == nil {
		spawn = SpawnShell
	}
	return &Manager{
		sessions: make(map[string]*Session),
		spawn:    spawn,
		events:   make(chan Event, eventBuffer),
		quit:     make(chan struct{}),
		log:      logger.ComponentLogger("terminal"),
	}
}

// SetPTYDebug enables tracing of every raw PTY chunk to the debug log.
func (m *Manager) SetPTYDebug(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ptyDebug = enabled
}

// Events returns the channel of output and exit notifications.
func (m *Manager) Events() <-chan Event { return m.events }

// Open returns the session for path, starting a shell when there is none.
// A second Open for the same path returns the same session.
func (m *Manager) Open(path string, cols, rows int) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[path]; ok {
		return s, nil
	}

	proc, err := m.spawn(path, cols, rows)
	if err != nil {
		m.log.Error("failed to start shell", "path", path, "error", err)
		return nil, rerrors.E(rerrors.Op("terminal.Open"), rerrors.KindSession, fmt.Sprintf("could not start shell in %s", path), err)
	}

	cols, rows = clampSize(cols, rows)
	s := newSession(path, proc, cols, rows)
	m.sessions[path] = s
	m.log.Info("session opened", "path", path, "id", s.ID, "cols", cols, "rows", rows)

	m.wg.Add(1)
	go m.read(s, m.ptyDebug)
	return s, nil
}

// read drains the PTY into the session's emulator until the shell exits or
// the session is closed.
func (m *Manager) read(s *Session, debug bool) {
	defer m.wg.Done()
	defer close(s.done)

	ptyLog := logger.ComponentLogger("pty").With("path", s.Path)
	buf := make([]byte, readChunk)
	for {
		n, err := s.proc.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if debug {
				ptyLog.Debug("read", "bytes", n, "data", fmt.Sprintf("%q", chunk))
			}
			if replies := s.feed(chunk); len(replies) > 0 {
				if _, werr := s.proc.Write(replies); werr != nil {
					ptyLog.Debug("reply failed", "error", werr)
				}
			}
			m.notify(Event{Kind: EventOutput, Path: s.Path, SessionID: s.ID})
		}
		if err != nil {
			ptyLog.Debug("reader stopped", "error", err)
			break
		}
	}

	waitErr := s.proc.Wait()
	s.markClosed()
	m.log.Info("shell exited", "path", s.Path, "id", s.ID, "error", waitErr)

	select {
	case m.events <- Event{Kind: EventExited, Path: s.Path, SessionID: s.ID, Err: waitErr}:
	case <-m.quit:
	}
}

// notify queues an output event, dropping it when the queue is full. The
// render tick picks up the change regardless.
func (m *Manager) notify(ev Event) {
	select {
	case m.events <- ev:
	default:
	}
}

// Get returns the open session for path, or nil.
func (m *Manager) Get(path string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[path]
}

// Live returns the set of paths with an open session.
func (m *Manager) Live() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	live := make(map[string]bool, len(m.sessions))
	for p := range m.sessions {
		live[p] = true
	}
	return live
}

// Paths returns the paths with an open session in sorted order.
func (m *Manager) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.sessions))
	for p := range m.sessions {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Resize changes the PTY and emulator size of the session for path.
func (m *Manager) Resize(path string, cols, rows int) error {
	s := m.Get(path)
	if s == nil {
		return rerrors.Session(rerrors.Op("terminal.Resize"), path)
	}
	return s.resize(cols, rows)
}

// ResizeAll applies the viewport size to every session.
func (m *Manager) ResizeAll(cols, rows int) {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		if err := s.resize(cols, rows); err != nil {
			m.log.Debug("resize skipped", "path", s.Path, "error", err)
		}
	}
}

// WriteInput sends bytes to the shell for path and resets its scroll offset.
func (m *Manager) WriteInput(path string, p []byte) error {
	s := m.Get(path)
	if s == nil {
		return rerrors.Session(rerrors.Op("terminal.WriteInput"), path)
	}
	_, err := s.Write(p)
	return err
}

// Paste sends text to the shell for path as a bracketed paste.
func (m *Manager) Paste(path, text string) error {
	s := m.Get(path)
	if s == nil {
		return rerrors.Session(rerrors.Op("terminal.Paste"), path)
	}
	return s.Paste(text)
}

// Close removes the session for path and hangs up its shell in the
// background. Closing a missing session returns a SessionError.
func (m *Manager) Close(path string) error {
	m.mu.Lock()
	s, ok := m.sessions[path]
	if ok {
		delete(m.sessions, path)
	}
	m.mu.Unlock()

	if !ok {
		return rerrors.Session(rerrors.Op("terminal.Close"), path)
	}
	m.log.Info("session closed", "path", path, "id", s.ID)
	m.closeProcess(s)
	return nil
}

func (m *Manager) closeProcess(s *Session) {
	s.markClosed()
	go func() {
		if err := s.proc.Close(); err != nil {
			m.log.Debug("close pty", "path", s.Path, "error", err)
		}
	}()
}

// Reap removes the session for path after its shell exited, if it is still
// the session identified by id. It reports whether a session was removed.
func (m *Manager) Reap(path, id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[path]
	if !ok || s.ID != id {
		m.mu.Unlock()
		return false
	}
	delete(m.sessions, path)
	m.mu.Unlock()

	m.closeProcess(s)
	return true
}

// CloseAll closes every session and waits for the readers to stop.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	m.quitOnce.Do(func() { close(m.quit) })
	for _, s := range sessions {
		s.markClosed()
		if err := s.proc.Close(); err != nil {
			m.log.Debug("close pty", "path", s.Path, "error", err)
		}
	}
	m.wg.Wait()
}
