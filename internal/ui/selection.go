// Text selection in the terminal pane.
//
// Selection coordinates are grid cells: (0,0) is the top-left cell of the
// shell screen, below the pane border and title row. TerminalPane.Update
// receives pane-relative mouse coordinates and subtracts the border and
// title before calling into this file.
//
// Text is extracted from the snapshot's cells rather than the rendered view,
// so wide runes and styling never shift columns.
package ui

import (
	"image/color"
	"strings"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/rivo/uniseg"
	"github.com/zhubert/rooms/internal/clipboard"
	"github.com/zhubert/rooms/internal/logger"
	"github.com/zhubert/rooms/internal/terminal"
)

// ClipboardErrorMsg is sent when clipboard operations fail
type ClipboardErrorMsg struct {
	Error error
}

// SelectionCopiedMsg is sent once the selection has been handed to the
// clipboard.
type SelectionCopiedMsg struct {
	Text string
}

// SelectionFlashTickMsg ends the copy flash.
type SelectionFlashTickMsg time.Time

// SelectionFlashTick returns a command that sends a selection flash tick
func SelectionFlashTick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return SelectionFlashTickMsg(t)
	})
}

const (
	doubleClickThreshold = 500 * time.Millisecond
	clickTolerance       = 2 // cells
)

type selectionState struct {
	StartCol, StartLine int
	EndCol, EndLine     int
	Active              bool
	FlashFrame          int // 0 while the copy flash shows, -1 otherwise

	lastClickTime time.Time
	lastClickX    int
	lastClickY    int
	clickCount    int
}

func (s *selectionState) clear() {
	s.StartCol, s.StartLine = -1, -1
	s.EndCol, s.EndLine = -1, -1
	s.Active = false
	s.FlashFrame = -1
}

// StartSelection begins a text selection at the given cell
func (p *TerminalPane) StartSelection(col, line int) {
	col, line = p.clampCell(col, line)
	p.selection.StartCol = col
	p.selection.StartLine = line
	p.selection.EndCol = col
	p.selection.EndLine = line
	p.selection.Active = true
}

// EndSelection updates the end position of the selection during drag
func (p *TerminalPane) EndSelection(col, line int) {
	if !p.selection.Active {
		return
	}
	p.selection.EndCol, p.selection.EndLine = p.clampCell(col, line)
}

// SelectionStop ends the drag but keeps the selection visible
func (p *TerminalPane) SelectionStop() {
	p.selection.Active = false
}

// SelectionClear clears the selection entirely
func (p *TerminalPane) SelectionClear() {
	p.selection.clear()
}

// HasTextSelection returns true if there is an active or completed selection
func (p *TerminalPane) HasTextSelection() bool {
	s := p.selection
	return s.StartCol >= 0 && s.StartLine >= 0 &&
		(s.EndCol != s.StartCol || s.EndLine != s.StartLine)
}

// IsSelectionFlashing reports whether the copy flash is showing.
func (p *TerminalPane) IsSelectionFlashing() bool {
	return p.selection.FlashFrame >= 0
}

// clampCell keeps a position inside the grid. The column may equal the
// width so a selection can include the last cell.
func (p *TerminalPane) clampCell(col, line int) (int, int) {
	cols, rows := p.gridSize()
	col = max(0, min(col, cols))
	line = max(0, min(line, rows-1))
	return col, line
}

// ExtendSelection moves the selection end by dx, dy. Without a selection it
// starts one at the shell cursor.
func (p *TerminalPane) ExtendSelection(dx, dy int) {
	if !p.hasSnap {
		return
	}
	if p.selection.StartCol < 0 {
		p.StartSelection(p.snap.CursorX, p.snap.CursorY)
	}
	p.selection.Active = true
	p.EndSelection(p.selection.EndCol+dx, p.selection.EndLine+dy)
	p.selection.Active = false
}

// handleMouseClick handles mouse click events and detects double/triple clicks
func (p *TerminalPane) handleMouseClick(x, y int) tea.Cmd {
	now := time.Now()
	s := &p.selection

	if now.Sub(s.lastClickTime) <= doubleClickThreshold &&
		abs(x-s.lastClickX) <= clickTolerance &&
		abs(y-s.lastClickY) <= clickTolerance {
		s.clickCount++
	} else {
		s.clickCount = 1
	}

	s.lastClickTime = now
	s.lastClickX = x
	s.lastClickY = y

	switch s.clickCount {
	case 1:
		p.StartSelection(x, y)
	case 2:
		p.SelectWord(x, y)
		return p.CopySelectedText()
	case 3:
		p.SelectLine(y)
		s.clickCount = 0
		return p.CopySelectedText()
	}
	return nil
}

// abs returns the absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// lineRunes returns the printable runes of a row, one per column.
func (p *TerminalPane) lineRunes(line int) []rune {
	if line < 0 || line >= len(p.snap.Lines) {
		return nil
	}
	cells := p.snap.Lines[line]
	runes := make([]rune, len(cells))
	for x, c := range cells {
		switch {
		case c.Width == 0:
			runes[x] = 0
		case c.Rune == 0:
			runes[x] = ' '
		default:
			runes[x] = c.Rune
		}
	}
	return runes
}

// SelectWord selects the word under the given cell
func (p *TerminalPane) SelectWord(col, line int) {
	runes := p.lineRunes(line)
	if col < 0 || col >= len(runes) {
		return
	}

	// Map each column to its byte offset in the row text so uniseg's word
	// boundaries can be translated back to columns.
	var text strings.Builder
	offsets := make([]int, len(runes)+1)
	for x, r := range runes {
		offsets[x] = text.Len()
		if r != 0 {
			text.WriteRune(r)
		}
	}
	offsets[len(runes)] = text.Len()
	str := text.String()

	colAt := func(off int) int {
		for x := range runes {
			if offsets[x] >= off && runes[x] != 0 {
				return x
			}
		}
		return len(runes)
	}

	target := offsets[col]
	start, end := 0, len(str)
	state := -1
	rest := str
	pos := 0
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if target >= pos && target < pos+len(word) {
			start, end = pos, pos+len(word)
			break
		}
		pos += len(word)
	}

	startCol := colAt(start)
	endCol := colAt(end)
	if strings.TrimSpace(str[start:end]) == "" || endCol <= startCol {
		return
	}

	p.selection.StartCol = startCol
	p.selection.StartLine = line
	p.selection.EndCol = endCol
	p.selection.EndLine = line
	p.selection.Active = false
}

// SelectLine selects a whole row.
func (p *TerminalPane) SelectLine(line int) {
	if line < 0 || line >= len(p.snap.Lines) {
		return
	}
	p.selection.StartCol = 0
	p.selection.StartLine = line
	p.selection.EndCol = len(p.snap.Lines[line])
	p.selection.EndLine = line
	p.selection.Active = false
}

// selectionArea returns the selection in reading order.
func (p *TerminalPane) selectionArea() (startCol, startLine, endCol, endLine int) {
	s := p.selection
	startCol, startLine = s.StartCol, s.StartLine
	endCol, endLine = s.EndCol, s.EndLine
	if startLine > endLine || (startLine == endLine && startCol > endCol) {
		startCol, endCol = endCol, startCol
		startLine, endLine = endLine, startLine
	}
	return
}

// GetSelectedText returns the currently selected text. Rows are joined with
// newlines and trailing blanks on each row are dropped.
func (p *TerminalPane) GetSelectedText() string {
	if !p.HasTextSelection() {
		return ""
	}
	startCol, startLine, endCol, endLine := p.selectionArea()

	var b strings.Builder
	for y := startLine; y <= endLine && y < len(p.snap.Lines); y++ {
		line := p.snap.Lines[y]
		from, to := 0, len(line)
		if y == startLine {
			from = startCol
		}
		if y == endLine {
			to = endCol
		}
		b.WriteString(terminal.LineText(line, from, to))
		if y < endLine {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n ")
}

// CopySelectedText copies the selected text to the clipboard and starts the
// flash.
func (p *TerminalPane) CopySelectedText() tea.Cmd {
	text := p.GetSelectedText()
	if text == "" {
		return nil
	}
	p.selection.FlashFrame = 0
	return CopyText(text)
}

var (
	clipMu     sync.Mutex
	systemClip clipboard.Clipboard = clipboard.System{}
)

// UseClipboard replaces the clipboard selections are copied to.
func UseClipboard(c clipboard.Clipboard) {
	clipMu.Lock()
	defer clipMu.Unlock()
	systemClip = c
}

// CurrentClipboard returns the clipboard selections are copied to.
func CurrentClipboard() clipboard.Clipboard {
	clipMu.Lock()
	defer clipMu.Unlock()
	return systemClip
}

// CopyText writes text to the terminal clipboard with OSC 52 and to the
// system clipboard.
func CopyText(text string) tea.Cmd {
	clip := CurrentClipboard()
	return tea.Batch(
		tea.SetClipboard(text),
		func() tea.Msg {
			if err := clip.WriteText(text); err != nil {
				logger.ComponentLogger("clipboard").Warn("failed to write to clipboard", "error", err)
				return ClipboardErrorMsg{Error: err}
			}
			return SelectionCopiedMsg{Text: text}
		},
		SelectionFlashTick(),
	)
}

// selectionView applies selection highlighting to the rendered grid using
// ultraviolet.
func (p *TerminalPane) selectionView(view string, width, height int) string {
	if !p.HasTextSelection() || width <= 0 || height <= 0 {
		return view
	}

	area := uv.Rect(0, 0, width, height)
	scr := uv.NewScreenBuffer(area.Dx(), area.Dy())
	uv.NewStyledString(view).Draw(scr, area)

	startCol, startLine, endCol, endLine := p.selectionArea()

	var selBg, selFg color.Color
	if p.selection.FlashFrame == 0 {
		selBg = TextSelectionFlashStyle.GetBackground()
		selFg = TextSelectionFlashStyle.GetForeground()
	} else {
		selBg = TextSelectionStyle.GetBackground()
		selFg = TextSelectionStyle.GetForeground()
	}

	for y := startLine; y <= endLine && y < height; y++ {
		xStart, xEnd := 0, width
		if y == startLine {
			xStart = startCol
		}
		if y == endLine {
			xEnd = endCol
		}
		for x := xStart; x < xEnd && x < width; x++ {
			cell := scr.CellAt(x, y)
			if cell != nil {
				cell = cell.Clone()
				cell.Style.Bg = selBg
				cell.Style.Fg = selFg
				scr.SetCell(x, y, cell)
			}
		}
	}

	return scr.Render()
}
