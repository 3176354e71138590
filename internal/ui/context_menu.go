package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/zhubert/rooms/internal/keys"
)

// MenuAction is an entry of the terminal context menu.
type MenuAction int

const (
	MenuCopy MenuAction = iota
	MenuPaste
)

func (a MenuAction) String() string {
	switch a {
	case MenuCopy:
		return "Copy"
	default:
		return "Paste"
	}
}

// MenuActionMsg is sent when a context menu entry is chosen.
type MenuActionMsg struct {
	Action MenuAction
}

const menuMinWidth = 12

// ContextMenu is the right-click menu of the terminal pane. Copy is only
// offered while text is selected.
type ContextMenu struct {
	items    []MenuAction
	selected int
	x, y     int
	open     bool
}

// NewContextMenu creates a closed menu.
func NewContextMenu() *ContextMenu {
	return &ContextMenu{}
}

// Open shows the menu with its top-left corner at x, y, clamped so it fits
// within screenW x screenH.
func (m *ContextMenu) Open(x, y, screenW, screenH int, hasSelection bool) {
	m.items = m.items[:0]
	if hasSelection {
		m.items = append(m.items, MenuCopy)
	}
	m.items = append(m.items, MenuPaste)
	m.selected = 0
	m.open = true

	w, h := m.size()
	if x+w > screenW {
		x = max(0, screenW-w)
	}
	if y+h > screenH {
		y = max(0, screenH-h)
	}
	m.x, m.y = x, y
}

// Close hides the menu.
func (m *ContextMenu) Close() {
	m.open = false
}

// IsOpen reports whether the menu is showing.
func (m *ContextMenu) IsOpen() bool {
	return m.open
}

// Items returns the entries of the open menu.
func (m *ContextMenu) Items() []MenuAction {
	return m.items
}

// Position returns the top-left corner of the menu.
func (m *ContextMenu) Position() (x, y int) {
	return m.x, m.y
}

func (m *ContextMenu) size() (w, h int) {
	labelWidth := 0
	for _, item := range m.items {
		labelWidth = max(labelWidth, ansi.StringWidth(item.String()))
	}
	return max(labelWidth+4, menuMinWidth), len(m.items) + 2
}

// contains reports whether screen cell x, y is inside the menu.
func (m *ContextMenu) contains(x, y int) bool {
	w, h := m.size()
	return x >= m.x && x < m.x+w && y >= m.y && y < m.y+h
}

func (m *ContextMenu) choose() tea.Cmd {
	action := m.items[m.selected]
	m.open = false
	return func() tea.Msg { return MenuActionMsg{Action: action} }
}

// Update handles keys and left clicks while the menu is open. Clicks use
// screen coordinates; a click outside the menu closes it.
func (m *ContextMenu) Update(msg tea.Msg) (*ContextMenu, tea.Cmd) {
	if !m.open {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case keys.Escape:
			m.open = false
		case keys.Up, "k":
			if m.selected > 0 {
				m.selected--
			}
		case keys.Down, "j":
			if m.selected < len(m.items)-1 {
				m.selected++
			}
		case keys.Enter:
			return m, m.choose()
		}

	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft {
			return m, nil
		}
		if !m.contains(msg.X, msg.Y) {
			m.open = false
			return m, nil
		}
		m.selected = max(0, min(msg.Y-m.y-1, len(m.items)-1))
		return m, m.choose()
	}
	return m, nil
}

// View renders the menu box.
func (m *ContextMenu) View() string {
	if !m.open {
		return ""
	}
	w, _ := m.size()
	inner := w - BorderSize

	lines := make([]string, len(m.items))
	for i, item := range m.items {
		style := MenuItemStyle
		if i == m.selected {
			style = MenuSelectedStyle
		}
		lines[i] = style.Width(inner).Render(item.String())
	}
	return MenuStyle.Render(strings.Join(lines, "\n"))
}

// Overlay draws the menu over a width x height view at its position.
func (m *ContextMenu) Overlay(base string, width, height int) string {
	if !m.open || width <= 0 || height <= 0 {
		return base
	}
	scr := uv.NewScreenBuffer(width, height)
	uv.NewStyledString(base).Draw(scr, uv.Rect(0, 0, width, height))
	w, h := m.size()
	uv.NewStyledString(m.View()).Draw(scr, uv.Rect(m.x, m.y, w, h))
	return scr.Render()
}
