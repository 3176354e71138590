package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/zhubert/rooms/internal/ui"
)

// updateSizes recalculates and applies dimensions to all UI components, and
// resizes every shell to the pane.
func (m *Model) updateSizes() {
	if m.width == 0 || m.height == 0 {
		return
	}
	ctx := ui.GetViewContext()
	ctx.UpdateTerminalSize(m.width, m.height, m.sidebarVisible)

	m.header.SetWidth(ctx.TerminalWidth)
	m.footer.SetWidth(ctx.TerminalWidth)

	sidebarWidth := ctx.SidebarWidth
	if !m.paneVisible {
		sidebarWidth = ctx.TerminalWidth
	}
	m.sidebar.SetSize(sidebarWidth, ctx.ContentHeight)
	m.pane.SetSize(ctx.TerminalPaneW, ctx.ContentHeight)

	cols, rows := ctx.ShellSize()
	m.sessions.ResizeAll(cols, rows)
	m.refreshPane()
}

// View renders the app
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		v.SetContent("Loading...")
		return v
	}

	m.updateFooterContext()
	ctx := ui.GetViewContext()

	var panels string
	switch {
	case m.sidebarVisible && m.paneVisible:
		panels = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), m.pane.View())
	case m.sidebarVisible:
		panels = m.sidebar.View()
	case m.paneVisible:
		panels = m.pane.View()
	default:
		msg := lipgloss.NewStyle().Foreground(ui.ColorTextMuted).Render(bothHiddenMessage)
		panels = ui.PanelStyle.
			Width(ctx.TerminalWidth).
			Height(ctx.ContentHeight).
			Render(lipgloss.Place(ctx.TerminalWidth-ui.BorderSize, ctx.ContentHeight-ui.BorderSize, lipgloss.Center, lipgloss.Center, msg))
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		panels,
		m.footer.View(),
	)

	if m.menu.IsOpen() {
		view = m.menu.Overlay(view, m.width, m.height)
	}

	if m.modal.IsVisible() {
		v.SetContent(m.modal.View(m.width, m.height))
		return v
	}

	v.SetContent(view)
	return v
}
