package app

import (
	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/rooms/internal/ui"
)

// paneOrigin returns the screen cell of the terminal pane's top-left corner.
func (m *Model) paneOrigin() (x, y int) {
	if m.sidebarVisible {
		x = m.sidebar.Width()
	}
	return x, ui.HeaderHeight
}

// inSidebar reports whether screen cell x, y is over the room list.
func (m *Model) inSidebar(x, y int) bool {
	ctx := ui.GetViewContext()
	return m.sidebarVisible && x < m.sidebar.Width() &&
		y >= ui.HeaderHeight && y < ui.HeaderHeight+ctx.ContentHeight
}

// inPane reports whether screen cell x, y is over the terminal pane.
func (m *Model) inPane(x, y int) bool {
	if !m.paneVisible {
		return false
	}
	ctx := ui.GetViewContext()
	px, py := m.paneOrigin()
	return x >= px && x < px+m.pane.Width() && y >= py && y < py+ctx.ContentHeight
}

// routeMouseEvents sends mouse events to the component under the pointer.
// The terminal pane receives coordinates relative to its own corner.
func (m *Model) routeMouseEvents(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.modal.IsVisible() {
		return m, nil
	}
	if m.menu.IsOpen() {
		if click, ok := msg.(tea.MouseClickMsg); ok {
			menu, cmd := m.menu.Update(click)
			m.menu = menu
			return m, cmd
		}
		return m, nil
	}

	px, py := m.paneOrigin()
	switch msg := msg.(type) {
	case tea.MouseWheelMsg:
		return m.handleWheel(msg)

	case tea.MouseClickMsg:
		if m.inSidebar(msg.X, msg.Y) {
			if msg.Button == tea.MouseLeft {
				return m.handleSidebarClick(msg.Y - ui.HeaderHeight)
			}
			return m, nil
		}
		if !m.inPane(msg.X, msg.Y) {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseRight:
			m.menu.Open(msg.X, msg.Y, m.width, m.height, m.pane.HasTextSelection())
			return m, nil
		case tea.MouseLeft:
			if m.selectedSession() != nil && m.focus != FocusTerminal {
				m.focusTerminal()
				m.updateFooterContext()
			}
			msg.X -= px
			msg.Y -= py
			pane, cmd := m.pane.Update(msg)
			m.pane = pane
			return m, cmd
		}

	case tea.MouseMotionMsg:
		if !m.paneVisible {
			return m, nil
		}
		msg.X -= px
		msg.Y -= py
		pane, cmd := m.pane.Update(msg)
		m.pane = pane
		return m, cmd

	case tea.MouseReleaseMsg:
		if !m.paneVisible {
			return m, nil
		}
		msg.X -= px
		msg.Y -= py
		pane, cmd := m.pane.Update(msg)
		m.pane = pane
		return m, cmd
	}
	return m, nil
}

// handleSidebarClick selects the room on the clicked row and focuses the
// sidebar.
func (m *Model) handleSidebarClick(y int) (tea.Model, tea.Cmd) {
	prev := m.selectedRoom()
	if m.sidebar.ClickLine(y) {
		if cur := m.selectedRoom(); prev == nil || cur.Path != prev.Path {
			m.selectionChanged(prev)
		}
	}
	m.focusSidebar()
	m.updateFooterContext()
	return m, nil
}

// handleWheel scrolls the shell under the pointer, or moves the sidebar
// selection.
func (m *Model) handleWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	var delta int
	switch msg.Button {
	case tea.MouseWheelUp:
		delta = 1
	case tea.MouseWheelDown:
		delta = -1
	default:
		return m, nil
	}

	if m.inSidebar(msg.X, msg.Y) {
		prev := m.selectedRoom()
		if delta > 0 {
			m.sidebar.MoveUp()
		} else {
			m.sidebar.MoveDown()
		}
		if cur := m.selectedRoom(); cur != nil && (prev == nil || cur.Path != prev.Path) {
			m.selectionChanged(prev)
		}
		m.updateFooterContext()
		return m, nil
	}

	if m.inPane(msg.X, msg.Y) {
		if sess := m.selectedSession(); sess != nil {
			sess.ScrollBy(delta * ui.WheelScrollLines)
			m.refreshPane()
			m.updateFooterContext()
		}
	}
	return m, nil
}
