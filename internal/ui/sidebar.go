package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/zhubert/rooms/internal/keys"
	"github.com/zhubert/rooms/internal/room"
)

// Sidebar lists rooms grouped into Active, Inactive and Failed sections.
type Sidebar struct {
	width        int
	height       int
	focused      bool
	views        []room.View
	selectedIdx  int
	scrollOffset int

	// lineRooms maps each rendered line to a view index, -1 for headers
	// and spacing. Rebuilt on every View.
	lineRooms []int
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	return &Sidebar{focused: true}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetViews replaces the room list. The selection follows the selected
// room's path; when that room is gone the index is clamped.
func (s *Sidebar) SetViews(views []room.View) {
	var selectedPath string
	if sel := s.SelectedRoom(); sel != nil {
		selectedPath = sel.Path
	}
	s.views = views
	if selectedPath != "" {
		if idx := room.FindByPath(views, selectedPath); idx >= 0 {
			s.selectedIdx = idx
			return
		}
	}
	s.clampSelection()
}

// Views returns the rooms shown.
func (s *Sidebar) Views() []room.View {
	return s.views
}

func (s *Sidebar) clampSelection() {
	if s.selectedIdx >= len(s.views) {
		s.selectedIdx = len(s.views) - 1
	}
	if s.selectedIdx < 0 {
		s.selectedIdx = 0
	}
}

// SelectedRoom returns the selected room, or nil when the list is empty.
func (s *Sidebar) SelectedRoom() *room.View {
	if s.selectedIdx < 0 || s.selectedIdx >= len(s.views) {
		return nil
	}
	v := s.views[s.selectedIdx]
	return &v
}

// SelectedIndex returns the index of the selected room.
func (s *Sidebar) SelectedIndex() int {
	return s.selectedIdx
}

// SelectPath selects the room at path and reports whether it exists.
func (s *Sidebar) SelectPath(path string) bool {
	idx := room.FindByPath(s.views, path)
	if idx < 0 {
		return false
	}
	s.selectedIdx = idx
	return true
}

// SelectName selects the room named name and reports whether it exists.
func (s *Sidebar) SelectName(name string) bool {
	idx := room.FindByName(s.views, name)
	if idx < 0 {
		return false
	}
	s.selectedIdx = idx
	return true
}

// MoveUp selects the previous room.
func (s *Sidebar) MoveUp() {
	if s.selectedIdx > 0 {
		s.selectedIdx--
	}
}

// MoveDown selects the next room.
func (s *Sidebar) MoveDown() {
	if s.selectedIdx < len(s.views)-1 {
		s.selectedIdx++
	}
}

// Update handles navigation keys
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	if !s.focused {
		return s, nil
	}
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case keys.Up, "k":
			s.MoveUp()
		case keys.Down, "j":
			s.MoveDown()
		case "home", "g":
			s.selectedIdx = 0
		case "end", "G":
			s.selectedIdx = len(s.views) - 1
			s.clampSelection()
		}
	}
	return s, nil
}

// RoomAtLine returns the view index under a sidebar-relative row, or -1.
// y counts from the sidebar's top border.
func (s *Sidebar) RoomAtLine(y int) int {
	line := y - 1 + s.scrollOffset
	if y < 1 || line < 0 || line >= len(s.lineRooms) {
		return -1
	}
	return s.lineRooms[line]
}

// ClickLine selects the room under a sidebar-relative row and reports
// whether one was hit.
func (s *Sidebar) ClickLine(y int) bool {
	idx := s.RoomAtLine(y)
	if idx < 0 {
		return false
	}
	s.selectedIdx = idx
	return true
}

func statusIconStyle(st room.Status) lipgloss.Style {
	switch {
	case st == room.StatusReady:
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	case st.InFlight():
		return lipgloss.NewStyle().Foreground(ColorWarning)
	case st == room.StatusError:
		return lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	case st == room.StatusOrphaned:
		return lipgloss.NewStyle().Foreground(ColorWarning)
	default:
		return lipgloss.NewStyle().Foreground(ColorTextMuted)
	}
}

// roomLabels returns the bracketed markers shown after a room name.
func roomLabels(v room.View) []string {
	var labels []string
	if v.IsPrimary {
		labels = append(labels, "[primary]")
	}
	if v.IsPrunable {
		labels = append(labels, "[prunable]")
	}
	if v.IsLocked {
		labels = append(labels, "[locked]")
	}
	if v.Status == room.StatusError || (v.LastError != "" && !v.IsPrunable) {
		labels = append(labels, "[error]")
	}
	if v.Status.InFlight() {
		labels = append(labels, "["+v.Status.String()+"]")
	}
	return labels
}

// renderRoom renders one room line fitted to width.
func (s *Sidebar) renderRoom(v room.View, selected bool, width int) string {
	labels := strings.Join(roomLabels(v), " ")
	// "> " or "  ", the icon and a space
	nameWidth := width - 2 - 2 - 2
	if labels != "" {
		nameWidth -= ansi.StringWidth(labels) + 1
	}
	name := v.Name
	if nameWidth < 1 {
		nameWidth = 1
	}
	name = ansi.Truncate(name, nameWidth, "…")

	prefix := "  "
	if selected {
		prefix = "> "
	}

	var b strings.Builder
	b.WriteString(prefix)
	if selected {
		b.WriteString(v.Status.Icon())
	} else {
		b.WriteString(statusIconStyle(v.Status).Render(v.Status.Icon()))
	}
	b.WriteString(" ")
	b.WriteString(name)
	if labels != "" {
		b.WriteString(" ")
		if selected {
			b.WriteString(labels)
		} else {
			b.WriteString(SidebarLabelStyle.Render(labels))
		}
	}
	line := ansi.Truncate(b.String(), width-2, "…")

	if selected {
		return SidebarSelectedStyle.Width(width).Render(line)
	}
	return SidebarItemStyle.Width(width).Render(line)
}

// View renders the sidebar
func (s *Sidebar) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerHeight := ctx.InnerHeight(s.height)
	innerWidth := ctx.InnerWidth(s.width)
	s.lineRooms = s.lineRooms[:0]

	var content string
	if len(s.views) == 0 {
		content = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render("No rooms. Press a to create one.")
	} else {
		var allLines []string
		selectedLine := 0
		idx := 0

		for i, group := range room.Groups(s.views) {
			if i > 0 {
				allLines = append(allLines, "")
				s.lineRooms = append(s.lineRooms, -1)
			}
			header := fmt.Sprintf("%s (%d)", group.Section, len(group.Views))
			allLines = append(allLines, SidebarSectionStyle.Render(header))
			s.lineRooms = append(s.lineRooms, -1)

			for _, v := range group.Views {
				selected := idx == s.selectedIdx
				if selected {
					selectedLine = len(allLines)
				}
				allLines = append(allLines, s.renderRoom(v, selected, innerWidth))
				s.lineRooms = append(s.lineRooms, idx)
				idx++
			}
		}

		// Adjust scroll to keep the selected room visible
		if selectedLine < s.scrollOffset {
			s.scrollOffset = selectedLine
		} else if selectedLine >= s.scrollOffset+innerHeight {
			s.scrollOffset = selectedLine - innerHeight + 1
		}
		maxScroll := len(allLines) - innerHeight
		if maxScroll < 0 {
			maxScroll = 0
		}
		if s.scrollOffset > maxScroll {
			s.scrollOffset = maxScroll
		}
		if s.scrollOffset < 0 {
			s.scrollOffset = 0
		}

		allLines = allLines[s.scrollOffset:]
		if len(allLines) > innerHeight {
			allLines = allLines[:innerHeight]
		}
		content = strings.Join(allLines, "\n")
	}

	return style.Width(s.width).Height(s.height).Render(content)
}
