package app

import (
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/rooms/internal/terminal"
)

// renderInterval bounds how often a changed shell screen is redrawn.
const renderInterval = 50 * time.Millisecond

// SessionEventMsg wraps an event from a shell reader.
type SessionEventMsg struct {
	Event terminal.Event
	ch    <-chan terminal.Event
}

type renderTickMsg time.Time

// listenForSessionEvents waits for the next shell event. The handler re-arms
// it after each one.
func listenForSessionEvents(ch <-chan terminal.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return SessionEventMsg{Event: ev, ch: ch}
	}
}

func renderTick() tea.Cmd {
	return tea.Tick(renderInterval, func(t time.Time) tea.Msg {
		return renderTickMsg(t)
	})
}

func (m *Model) handleSessionEvent(msg SessionEventMsg) (tea.Model, tea.Cmd) {
	next := listenForSessionEvents(msg.ch)
	ev := msg.Event

	switch ev.Kind {
	case terminal.EventOutput:
		if v := m.selectedRoom(); v != nil && v.Path == ev.Path {
			m.paneDirty = true
		}
		return m, next

	case terminal.EventExited:
		if !m.sessions.Reap(ev.Path, ev.SessionID) {
			// A newer shell owns the path, or the session was closed on purpose.
			return m, next
		}
		name := filepath.Base(ev.Path)
		m.log.Info("shell exited", "room", name, "error", ev.Err)
		if v := m.selectedRoom(); v != nil && v.Path == ev.Path && m.focus == FocusTerminal {
			m.focusSidebar()
		}
		m.refreshViews()
		return m, tea.Batch(next, m.ShowFlashInfo("Shell exited in "+name))
	}
	return m, next
}

// handleRenderTick redraws the selected shell when its screen changed.
func (m *Model) handleRenderTick() (tea.Model, tea.Cmd) {
	if m.paneDirty {
		m.refreshPane()
	}
	return m, renderTick()
}
