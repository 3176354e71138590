package ui

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/zhubert/rooms/internal/terminal"
)

// Resolved terminal colors for the current theme.
var (
	termPalette   [16]color.Color
	termDefaultFG color.Color
	termDefaultBG color.Color
)

// resetTerminalPalette reloads the ANSI palette from the current theme.
func resetTerminalPalette() {
	t := currentTheme
	for i, hex := range t.Palette() {
		termPalette[i] = lipgloss.Color(hex)
	}
	termDefaultFG = lipgloss.Color(t.Text)
	termDefaultBG = lipgloss.Color(t.Bg)
}

var cubeLevels = [6]uint8{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}

// xterm256 maps a palette index above 15 to its RGB value.
func xterm256(i uint8) color.Color {
	if i >= 232 {
		v := 8 + 10*(i-232)
		return color.RGBA{R: v, G: v, B: v, A: 0xff}
	}
	i -= 16
	return color.RGBA{
		R: cubeLevels[i/36],
		G: cubeLevels[(i/6)%6],
		B: cubeLevels[i%6],
		A: 0xff,
	}
}

// resolveColor returns nil for the default color.
func resolveColor(c terminal.Color) color.Color {
	switch c.Kind {
	case terminal.ColorIndexed:
		if c.Index < 16 {
			return termPalette[c.Index]
		}
		return xterm256(c.Index)
	case terminal.ColorRGB:
		return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	default:
		return nil
	}
}

// cellStyle builds the lipgloss style for a cell. Inverse video resolves
// default colors to the theme before swapping so the swap is visible.
func cellStyle(c terminal.Cell, cursor bool) lipgloss.Style {
	fg, bg := resolveColor(c.FG), resolveColor(c.BG)

	inverse := c.Attrs&terminal.AttrInverse != 0
	if cursor {
		inverse = !inverse
	}
	if inverse {
		if fg == nil {
			fg = termDefaultFG
		}
		if bg == nil {
			bg = termDefaultBG
		}
		fg, bg = bg, fg
	}
	if c.Attrs&terminal.AttrHidden != 0 {
		fg = bg
		if fg == nil {
			fg = termDefaultBG
		}
	}

	s := lipgloss.NewStyle()
	if fg != nil {
		s = s.Foreground(fg)
	}
	if bg != nil {
		s = s.Background(bg)
	}
	if c.Attrs&terminal.AttrBold != 0 {
		s = s.Bold(true)
	}
	if c.Attrs&terminal.AttrDim != 0 {
		s = s.Faint(true)
	}
	if c.Attrs&terminal.AttrItalic != 0 {
		s = s.Italic(true)
	}
	if c.Attrs&terminal.AttrUnderline != 0 {
		s = s.Underline(true)
	}
	if c.Attrs&terminal.AttrBlink != 0 {
		s = s.Blink(true)
	}
	if c.Attrs&terminal.AttrStrike != 0 {
		s = s.Strikethrough(true)
	}
	return s
}

// renderLine renders one row of cells, batching runs that share a style.
// cursorX is -1 when the cursor is not on this row.
func renderLine(line []terminal.Cell, cursorX int) string {
	var out, run strings.Builder
	var runStyle terminal.Cell
	inRun := false

	flush := func() {
		if !inRun {
			return
		}
		out.WriteString(cellStyle(runStyle, false).Render(run.String()))
		run.Reset()
		inRun = false
	}

	for x, c := range line {
		if c.Width == 0 {
			continue
		}
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		if x == cursorX {
			flush()
			out.WriteString(cellStyle(c, true).Render(string(r)))
			continue
		}
		if inRun && c.Style() != runStyle {
			flush()
		}
		runStyle = c.Style()
		inRun = true
		run.WriteRune(r)
	}
	flush()
	return out.String()
}

// TerminalPane shows the shell of the selected room.
type TerminalPane struct {
	width    int
	height   int
	focused  bool
	roomName string

	snap        terminal.Snapshot
	hasSnap     bool
	placeholder string

	selection selectionState
}

// NewTerminalPane creates an empty pane.
func NewTerminalPane() *TerminalPane {
	p := &TerminalPane{}
	p.selection.clear()
	return p
}

// SetSize sets the pane size, borders included.
func (p *TerminalPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Width returns the pane width.
func (p *TerminalPane) Width() int { return p.width }

// SetFocused sets whether keys go to the shell.
func (p *TerminalPane) SetFocused(focused bool) { p.focused = focused }

// IsFocused reports whether the pane has focus.
func (p *TerminalPane) IsFocused() bool { return p.focused }

// SetRoom sets the room whose shell is shown. Changing rooms drops the
// selection.
func (p *TerminalPane) SetRoom(name string) {
	if name != p.roomName {
		p.SelectionClear()
	}
	p.roomName = name
}

// SetSnapshot sets the screen to render.
func (p *TerminalPane) SetSnapshot(s terminal.Snapshot) {
	p.snap = s
	p.hasSnap = true
}

// ClearSnapshot shows message instead of a shell.
func (p *TerminalPane) ClearSnapshot(message string) {
	p.snap = terminal.Snapshot{}
	p.hasSnap = false
	p.placeholder = message
	p.SelectionClear()
}

// HasSnapshot reports whether a shell screen is shown.
func (p *TerminalPane) HasSnapshot() bool { return p.hasSnap }

// Snapshot returns the screen being shown.
func (p *TerminalPane) Snapshot() terminal.Snapshot { return p.snap }

// gridSize returns the cells available to the shell.
func (p *TerminalPane) gridSize() (cols, rows int) {
	cols = p.width - BorderSize
	rows = p.height - BorderSize - 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// Update handles mouse events with coordinates relative to the pane's top
// left corner.
func (p *TerminalPane) Update(msg tea.Msg) (*TerminalPane, tea.Cmd) {
	if !p.hasSnap {
		return p, nil
	}
	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft {
			return p, nil
		}
		// One column of border, one row of border plus the title row
		return p, p.handleMouseClick(msg.X-1, msg.Y-2)

	case tea.MouseMotionMsg:
		if p.selection.Active {
			p.EndSelection(msg.X-1, msg.Y-2)
		}

	case tea.MouseReleaseMsg:
		if !p.selection.Active {
			return p, nil
		}
		p.EndSelection(msg.X-1, msg.Y-2)
		p.SelectionStop()
		if p.HasTextSelection() {
			return p, p.CopySelectedText()
		}

	case SelectionFlashTickMsg:
		p.selection.FlashFrame = -1
	}
	return p, nil
}

func (p *TerminalPane) title() string {
	title := p.roomName
	if p.hasSnap && p.snap.Title != "" && p.snap.Title != p.roomName {
		title += " · " + p.snap.Title
	}
	if title == "" {
		title = "terminal"
	}
	return title
}

// View renders the pane.
func (p *TerminalPane) View() string {
	style := PanelStyle
	if p.focused {
		style = PanelFocusedStyle
	}
	cols, rows := p.gridSize()

	right := ""
	if p.hasSnap && p.snap.Offset > 0 {
		right = StatusLoadingStyle.Render(fmt.Sprintf("↑ %d/%d", p.snap.Offset, p.snap.ScrollbackLen))
	}
	titleWidth := cols - ansi.StringWidth(right) - 1
	if titleWidth < 1 {
		titleWidth = 1
	}
	left := PanelTitleStyle.Render(ansi.Truncate(p.title(), titleWidth, "…"))
	gap := cols - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 0 {
		gap = 0
	}
	header := left + strings.Repeat(" ", gap) + right

	var body string
	if p.hasSnap {
		body = p.selectionView(p.renderGrid(cols, rows), cols, rows)
	} else {
		msg := lipgloss.NewStyle().Foreground(ColorTextMuted).Render(p.placeholder)
		body = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, msg)
	}

	content := header + "\n" + body
	return style.Width(p.width).Height(p.height).Render(content)
}

// renderGrid renders the snapshot fitted to cols x rows.
func (p *TerminalPane) renderGrid(cols, rows int) string {
	lines := make([]string, rows)
	for y := 0; y < rows; y++ {
		if y >= len(p.snap.Lines) {
			lines[y] = strings.Repeat(" ", cols)
			continue
		}
		cursorX := -1
		if p.focused && p.snap.CursorVisible && y == p.snap.CursorY {
			cursorX = p.snap.CursorX
		}
		line := renderLine(p.snap.Lines[y], cursorX)
		w := ansi.StringWidth(line)
		switch {
		case w > cols:
			line = ansi.Truncate(line, cols, "")
		case w < cols:
			line += strings.Repeat(" ", cols-w)
		}
		lines[y] = line
	}
	return strings.Join(lines, "\n")
}
