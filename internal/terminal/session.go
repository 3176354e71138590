package terminal

import (
	"sync"

	"github.com/google/uuid"

	rerrors "github.com/zhubert/rooms/internal/errors"
)

// Bracketed paste delimiters.
const (
	PasteStart = "\x1b[200~"
	PasteEnd   = "\x1b[201~"
)

// Session is a live shell for one room. The emulator and scroll offset are
// guarded by mu: the reader goroutine writes and the render loop takes
// snapshots.
type Session struct {
	ID   string
	Path string

	proc Process
	done chan struct{}

	mu     sync.Mutex
	emu    *Emulator
	offset int
	closed bool
}

func newSession(path string, proc Process, cols, rows int) *Session {
	return &Session{
		ID:   uuid.NewString(),
		Path: path,
		proc: proc,
		done: make(chan struct{}),
		emu:  NewEmulator(cols, rows),
	}
}

// Done is closed when the reader goroutine has stopped.
func (s *Session) Done() <-chan struct{} { return s.done }

// Closed reports whether Close was called or the shell exited.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// feed hands a chunk of output to the emulator and returns any replies the
// emulator queued for the shell.
func (s *Session) feed(p []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emu.Feed(p)
	return s.emu.TakeReplies()
}

// Snapshot returns the visible window at the current scroll offset.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.emu.Snapshot(s.offset)
	s.offset = snap.Offset
	return snap
}

// ScrollOffset returns how many lines the view is scrolled back.
func (s *Session) ScrollOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// ScrollBy moves the view delta lines into the scrollback (positive) or
// toward the live screen (negative), clamped to the available history.
func (s *Session) ScrollBy(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = clampOffset(s.offset+delta, s.emu.ScrollbackLen())
	return s.offset
}

// SetScrollOffset sets the scroll offset, clamped to the available history.
func (s *Session) SetScrollOffset(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = clampOffset(n, s.emu.ScrollbackLen())
}

// ResetScroll returns the view to the live screen.
func (s *Session) ResetScroll() {
	s.mu.Lock()
	s.offset = 0
	s.mu.Unlock()
}

func clampOffset(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}

// AppCursor reports whether the shell asked for application cursor keys.
func (s *Session) AppCursor() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emu.AppCursor()
}

// Title returns the window title the shell set, if any.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emu.Title()
}

// Write sends input to the shell and returns the view to the live screen.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, rerrors.Session(rerrors.Op("terminal.Write"), s.Path)
	}
	s.offset = 0
	s.mu.Unlock()
	return s.proc.Write(p)
}

// Paste sends text wrapped in bracketed paste delimiters so the shell
// treats embedded newlines as literal text.
func (s *Session) Paste(text string) error {
	_, err := s.Write([]byte(PasteStart + text + PasteEnd))
	return err
}

func (s *Session) resize(cols, rows int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return rerrors.Session(rerrors.Op("terminal.Resize"), s.Path)
	}
	cur, curRows := s.emu.Size()
	cols, rows = clampSize(cols, rows)
	if cur == cols && curRows == rows {
		s.mu.Unlock()
		return nil
	}
	s.emu.Resize(cols, rows)
	s.offset = clampOffset(s.offset, s.emu.ScrollbackLen())
	s.mu.Unlock()
	return s.proc.Resize(cols, rows)
}

// markClosed flips the session to closed and reports whether this call did it.
func (s *Session) markClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	return true
}
