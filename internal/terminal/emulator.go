package terminal

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// ScrollbackLines is the number of lines kept above the primary screen.
const ScrollbackLines = 1000

// ColorKind tells how a Color is specified.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorIndexed           // 0-15 named, 16-255 palette
	ColorRGB
)

// Color is a cell foreground or background.
type Color struct {
	Kind    ColorKind
	Index   uint8
	R, G, B uint8
}

// DefaultColor leaves the color to the renderer's theme.
var DefaultColor = Color{}

// Indexed returns a palette color.
func Indexed(i uint8) Color { return Color{Kind: ColorIndexed, Index: i} }

// RGB returns a true color.
func RGB(r, g, b uint8) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

// Attr is a bit set of SGR rendition attributes.
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrHidden
	AttrStrike
)

// Cell is one screen position. Width is 2 for the first half of a wide rune
// and 0 for the position it covers.
type Cell struct {
	Rune  rune
	Width uint8
	FG    Color
	BG    Color
	Attrs Attr
}

// Style returns c with its rune cleared, for comparing runs of cells.
func (c Cell) Style() Cell {
	return Cell{FG: c.FG, BG: c.BG, Attrs: c.Attrs}
}

func blankCell(pen Cell) Cell {
	return Cell{Rune: ' ', Width: 1, BG: pen.BG}
}

type parserState uint8

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeIntermediate
	stateCSIParam
	stateCSIIntermediate
	stateCSIIgnore
	stateOSCString
	stateOSCEsc
	stateCharset
)

const (
	maxParams   = 32
	maxParamVal = 65535
	maxOSCLen   = 4096
)

type cursor struct {
	x, y        int
	pen         Cell
	pendingWrap bool
	lineDrawing bool
}

// scrollback is a fixed-capacity ring of lines.
type scrollback struct {
	lines [][]Cell
	start int
	n     int
}

func (s *scrollback) push(line []Cell) {
	if len(s.lines) < ScrollbackLines {
		s.lines = append(s.lines, line)
		s.n++
		return
	}
	s.lines[s.start] = line
	s.start = (s.start + 1) % ScrollbackLines
}

func (s *scrollback) at(i int) []Cell {
	return s.lines[(s.start+i)%len(s.lines)]
}

func (s *scrollback) clear() {
	s.lines, s.start, s.n = nil, 0, 0
}

// Emulator interprets a VT100/xterm byte stream into a grid of styled cells.
// It performs no I/O and is not safe for concurrent use; Session serializes
// access.
type Emulator struct {
	cols, rows int

	grid      [][]Cell
	other     [][]Cell // the inactive screen
	altActive bool
	history   scrollback

	cur        cursor
	saved      cursor // saved cursor of the active screen
	otherSaved cursor
	top, bot   int // scroll region, inclusive

	cursorVisible  bool
	autowrap       bool
	insertMode     bool
	appCursor      bool
	bracketedPaste bool
	title          string

	replies []byte

	state         parserState
	params        []int
	paramColon    []bool
	paramStarted  bool
	private       byte
	intermediates []byte
	osc           []byte
	charsetTarget byte

	utf8Buf  [utf8.UTFMax]byte
	utf8Len  int
	utf8Need int
}

// NewEmulator returns an emulator with a blank cols x rows screen.
func NewEmulator(cols, rows int) *Emulator {
	cols, rows = clampSize(cols, rows)
	e := &Emulator{cols: cols, rows: rows}
	e.reset()
	return e
}

func clampSize(cols, rows int) (int, int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

func (e *Emulator) reset() {
	e.grid = newGrid(e.cols, e.rows, Cell{})
	e.other = newGrid(e.cols, e.rows, Cell{})
	e.altActive = false
	e.cur = cursor{}
	e.saved = cursor{}
	e.otherSaved = cursor{}
	e.top, e.bot = 0, e.rows-1
	e.cursorVisible = true
	e.autowrap = true
	e.insertMode = false
	e.appCursor = false
	e.bracketedPaste = false
	e.state = stateGround
}

func newGrid(cols, rows int, pen Cell) [][]Cell {
	g := make([][]Cell, rows)
	for y := range g {
		g[y] = newLine(cols, pen)
	}
	return g
}

func newLine(cols int, pen Cell) []Cell {
	line := make([]Cell, cols)
	b := blankCell(pen)
	for x := range line {
		line[x] = b
	}
	return line
}

// Size returns the screen dimensions.
func (e *Emulator) Size() (cols, rows int) { return e.cols, e.rows }

// AppCursor reports whether DECCKM application cursor keys are enabled.
func (e *Emulator) AppCursor() bool { return e.appCursor }

// BracketedPaste reports whether the application enabled mode 2004.
func (e *Emulator) BracketedPaste() bool { return e.bracketedPaste }

// AltScreen reports whether the alternate screen is active.
func (e *Emulator) AltScreen() bool { return e.altActive }

// Title returns the last window title set through OSC 0 or 2.
func (e *Emulator) Title() string { return e.title }

// ScrollbackLen returns the number of lines above the live screen.
func (e *Emulator) ScrollbackLen() int { return e.history.n }

// TakeReplies returns and clears the bytes queued for the PTY, such as
// device status reports.
func (e *Emulator) TakeReplies() []byte {
	r := e.replies
	e.replies = nil
	return r
}

// Write implements io.Writer so the emulator can sit behind an io.Copy.
func (e *Emulator) Write(p []byte) (int, error) {
	e.Feed(p)
	return len(p), nil
}

// Feed consumes a chunk of output. Sequences split across chunks are
// resumed on the next call.
func (e *Emulator) Feed(p []byte) {
	for _, b := range p {
		e.step(b)
	}
}

func (e *Emulator) step(b byte) {
	// CAN and SUB abort any sequence.
	if b == 0x18 || b == 0x1a {
		e.state = stateGround
		e.utf8Need = 0
		return
	}

	switch e.state {
	case stateGround:
		e.ground(b)
	case stateEscape:
		e.escape(b)
	case stateEscapeIntermediate:
		e.escapeIntermediate(b)
	case stateCSIParam:
		e.csiParam(b)
	case stateCSIIntermediate:
		e.csiIntermediate(b)
	case stateCSIIgnore:
		e.csiIgnore(b)
	case stateOSCString:
		e.oscString(b)
	case stateOSCEsc:
		e.oscEsc(b)
	case stateCharset:
		e.charset(b)
	}
}

func (e *Emulator) ground(b byte) {
	if e.utf8Need > 0 {
		if b >= 0x80 && b <= 0xbf {
			e.utf8Buf[e.utf8Len] = b
			e.utf8Len++
			if e.utf8Len == e.utf8Need {
				r, _ := utf8.DecodeRune(e.utf8Buf[:e.utf8Len])
				e.utf8Need, e.utf8Len = 0, 0
				e.print(r)
			}
			return
		}
		// Truncated sequence: emit a replacement and reprocess b.
		e.utf8Need, e.utf8Len = 0, 0
		e.print(utf8.RuneError)
	}

	switch {
	case b == 0x1b:
		e.enterEscape()
	case b < 0x20:
		e.execute(b)
	case b == 0x7f:
		// DEL is ignored.
	case b < 0x80:
		e.print(rune(b))
	case b >= 0xc2 && b <= 0xdf:
		e.beginUTF8(b, 2)
	case b >= 0xe0 && b <= 0xef:
		e.beginUTF8(b, 3)
	case b >= 0xf0 && b <= 0xf4:
		e.beginUTF8(b, 4)
	default:
		e.print(utf8.RuneError)
	}
}

func (e *Emulator) beginUTF8(b byte, n int) {
	e.utf8Buf[0] = b
	e.utf8Len = 1
	e.utf8Need = n
}

func (e *Emulator) enterEscape() {
	e.state = stateEscape
	e.intermediates = e.intermediates[:0]
}

// execute runs a C0 control.
func (e *Emulator) execute(b byte) {
	switch b {
	case '\b':
		e.cur.pendingWrap = false
		if e.cur.x > 0 {
			e.cur.x--
		}
	case '\t':
		e.cur.pendingWrap = false
		next := (e.cur.x/8 + 1) * 8
		if next >= e.cols {
			next = e.cols - 1
		}
		e.cur.x = next
	case '\n', '\v', '\f':
		e.index()
	case '\r':
		e.cur.x = 0
		e.cur.pendingWrap = false
	case 0x0e, 0x0f:
		// SO/SI charset shifts are not supported.
	}
}

var lineDrawing = map[rune]rune{
	'j': '┘', 'k': '┐', 'l': '┌', 'm': '└', 'n': '┼', 'q': '─', 't': '├',
	'u': '┤', 'v': '┴', 'w': '┬', 'x': '│', 'a': '▒', '`': '◆', 'f': '°',
	'g': '±', 'o': '⎺', 's': '⎽', '~': '·', 'y': '≤', 'z': '≥', '{': 'π',
	'|': '≠', '}': '£',
}

func (e *Emulator) print(r rune) {
	if e.cur.lineDrawing {
		if m, ok := lineDrawing[r]; ok {
			r = m
		}
	}

	w := runewidth.RuneWidth(r)
	if w == 0 {
		// Combining marks are dropped.
		return
	}

	if e.cur.pendingWrap && e.autowrap {
		e.cur.x = 0
		e.index()
	}
	e.cur.pendingWrap = false

	if w == 2 && e.cur.x == e.cols-1 {
		if !e.autowrap || e.cols < 2 {
			return
		}
		e.grid[e.cur.y][e.cur.x] = blankCell(e.cur.pen)
		e.cur.x = 0
		e.index()
	}

	line := e.grid[e.cur.y]
	if e.insertMode {
		copy(line[e.cur.x+w:], line[e.cur.x:])
	}
	e.clearWide(line, e.cur.x)
	if w == 2 {
		e.clearWide(line, e.cur.x+1)
	}

	pen := e.cur.pen
	line[e.cur.x] = Cell{Rune: r, Width: uint8(w), FG: pen.FG, BG: pen.BG, Attrs: pen.Attrs}
	if w == 2 {
		line[e.cur.x+1] = Cell{Rune: 0, Width: 0, FG: pen.FG, BG: pen.BG, Attrs: pen.Attrs}
	}

	e.cur.x += w
	if e.cur.x >= e.cols {
		e.cur.x = e.cols - 1
		e.cur.pendingWrap = true
	}
}

// clearWide blanks the other half of a wide rune overlapping x.
func (e *Emulator) clearWide(line []Cell, x int) {
	if x >= len(line) {
		return
	}
	switch line[x].Width {
	case 0:
		if x > 0 {
			line[x-1] = blankCell(line[x-1])
		}
	case 2:
		if x+1 < len(line) {
			line[x+1] = blankCell(line[x+1])
		}
	}
}

// index moves the cursor down, scrolling the region at its bottom margin.
func (e *Emulator) index() {
	if e.cur.y == e.bot {
		e.scrollUp(1)
	} else if e.cur.y < e.rows-1 {
		e.cur.y++
	}
}

func (e *Emulator) reverseIndex() {
	if e.cur.y == e.top {
		e.scrollDown(1)
	} else if e.cur.y > 0 {
		e.cur.y--
	}
}

// scrollUp moves the scroll region up by n lines. Lines leaving the top of
// the primary screen are kept in the scrollback when the region starts at
// the first row.
func (e *Emulator) scrollUp(n int) {
	height := e.bot - e.top + 1
	if n > height {
		n = height
	}
	for i := 0; i < n; i++ {
		gone := e.grid[e.top]
		if !e.altActive && e.top == 0 {
			e.history.push(gone)
		}
		copy(e.grid[e.top:e.bot], e.grid[e.top+1:e.bot+1])
		e.grid[e.bot] = newLine(e.cols, e.cur.pen)
	}
}

func (e *Emulator) scrollDown(n int) {
	height := e.bot - e.top + 1
	if n > height {
		n = height
	}
	for i := 0; i < n; i++ {
		copy(e.grid[e.top+1:e.bot+1], e.grid[e.top:e.bot])
		e.grid[e.top] = newLine(e.cols, e.cur.pen)
	}
}

func (e *Emulator) escape(b byte) {
	switch {
	case b < 0x20:
		if b == 0x1b {
			e.enterEscape()
			return
		}
		e.execute(b)
		return
	case b >= 0x20 && b <= 0x2f:
		if b == '(' || b == ')' || b == '*' || b == '+' {
			e.charsetTarget = b
			e.state = stateCharset
			return
		}
		e.intermediates = append(e.intermediates, b)
		e.state = stateEscapeIntermediate
		return
	}

	e.state = stateGround
	switch b {
	case '[':
		e.params = e.params[:0]
		e.paramColon = e.paramColon[:0]
		e.paramStarted = false
		e.private = 0
		e.intermediates = e.intermediates[:0]
		e.state = stateCSIParam
	case ']':
		e.osc = e.osc[:0]
		e.state = stateOSCString
	case 'P', 'X', '^', '_':
		// DCS, SOS, PM and APC strings are consumed and discarded.
		e.osc = e.osc[:0]
		e.state = stateOSCString
		e.osc = append(e.osc, 0xff)
	case '7':
		e.saved = e.cur
	case '8':
		e.restoreCursor()
	case 'D':
		e.index()
	case 'E':
		e.cur.x = 0
		e.index()
	case 'M':
		e.reverseIndex()
	case 'c':
		title := e.title
		e.reset()
		e.history.clear()
		e.title = title
	}
}

func (e *Emulator) escapeIntermediate(b byte) {
	switch {
	case b < 0x20:
		e.execute(b)
	case b <= 0x2f:
		e.intermediates = append(e.intermediates, b)
	default:
		e.state = stateGround
	}
}

func (e *Emulator) charset(b byte) {
	e.state = stateGround
	if e.charsetTarget == '(' {
		e.cur.lineDrawing = b == '0'
	}
}

func (e *Emulator) csiParam(b byte) {
	switch {
	case b == 0x1b:
		e.enterEscape()
	case b < 0x20:
		e.execute(b)
	case b >= '0' && b <= '9':
		if !e.paramStarted {
			e.params = append(e.params, 0)
			e.paramColon = append(e.paramColon, false)
			e.paramStarted = true
		}
		i := len(e.params) - 1
		if v := e.params[i]*10 + int(b-'0'); v <= maxParamVal {
			e.params[i] = v
		}
	case b == ';' || b == ':':
		if !e.paramStarted {
			e.params = append(e.params, 0)
			e.paramColon = append(e.paramColon, false)
		}
		if len(e.params) >= maxParams {
			e.state = stateCSIIgnore
			return
		}
		e.params = append(e.params, 0)
		e.paramColon = append(e.paramColon, b == ':')
		e.paramStarted = true
	case b >= 0x3c && b <= 0x3f:
		if e.paramStarted || e.private != 0 {
			e.state = stateCSIIgnore
			return
		}
		e.private = b
	case b >= 0x20 && b <= 0x2f:
		e.intermediates = append(e.intermediates, b)
		e.state = stateCSIIntermediate
	case b >= 0x40 && b <= 0x7e:
		e.state = stateGround
		e.dispatchCSI(b)
	default:
		e.state = stateCSIIgnore
	}
}

func (e *Emulator) csiIntermediate(b byte) {
	switch {
	case b == 0x1b:
		e.enterEscape()
	case b < 0x20:
		e.execute(b)
	case b <= 0x2f:
		e.intermediates = append(e.intermediates, b)
	case b <= 0x3f:
		e.state = stateCSIIgnore
	case b <= 0x7e:
		e.state = stateGround
		e.dispatchCSI(b)
	}
}

func (e *Emulator) csiIgnore(b byte) {
	switch {
	case b == 0x1b:
		e.enterEscape()
	case b < 0x20:
		e.execute(b)
	case b >= 0x40 && b <= 0x7e:
		e.state = stateGround
	}
}

func (e *Emulator) oscString(b byte) {
	switch b {
	case 0x07:
		e.state = stateGround
		e.dispatchOSC()
	case 0x1b:
		e.state = stateOSCEsc
	default:
		if b < 0x20 {
			return
		}
		if len(e.osc) < maxOSCLen {
			e.osc = append(e.osc, b)
		}
	}
}

func (e *Emulator) oscEsc(b byte) {
	e.dispatchOSC()
	if b == '\\' {
		e.state = stateGround
		return
	}
	e.enterEscape()
	e.escape(b)
}

func (e *Emulator) dispatchOSC() {
	if len(e.osc) > 0 && e.osc[0] == 0xff {
		return
	}
	cmd, arg, ok := strings.Cut(string(e.osc), ";")
	if !ok {
		return
	}
	switch cmd {
	case "0", "2":
		e.title = strings.ToValidUTF8(arg, string(utf8.RuneError))
	}
}

// param returns parameter i, or def when it is missing or zero.
func (e *Emulator) param(i, def int) int {
	if i >= len(e.params) || e.params[i] == 0 {
		return def
	}
	return e.params[i]
}

func (e *Emulator) dispatchCSI(final byte) {
	if len(e.intermediates) > 0 {
		if e.intermediates[0] == '!' && final == 'p' {
			e.softReset()
		}
		return
	}

	if e.private == '?' {
		switch final {
		case 'h':
			e.setPrivateModes(true)
		case 'l':
			e.setPrivateModes(false)
		}
		return
	}
	if e.private == '>' {
		if final == 'c' {
			e.replies = append(e.replies, "\x1b[>1;10;0c"...)
		}
		return
	}
	if e.private != 0 {
		return
	}

	switch final {
	case '@':
		e.insertChars(e.param(0, 1))
	case 'A':
		e.moveCursor(e.cur.x, e.cur.y-e.param(0, 1), true)
	case 'B', 'e':
		e.moveCursor(e.cur.x, e.cur.y+e.param(0, 1), true)
	case 'C', 'a':
		e.moveCursor(e.cur.x+e.param(0, 1), e.cur.y, true)
	case 'D':
		e.moveCursor(e.cur.x-e.param(0, 1), e.cur.y, true)
	case 'E':
		e.moveCursor(0, e.cur.y+e.param(0, 1), true)
	case 'F':
		e.moveCursor(0, e.cur.y-e.param(0, 1), true)
	case 'G', '`':
		e.moveCursor(e.param(0, 1)-1, e.cur.y, false)
	case 'H', 'f':
		e.moveCursor(e.param(1, 1)-1, e.param(0, 1)-1, false)
	case 'd':
		e.moveCursor(e.cur.x, e.param(0, 1)-1, false)
	case 'J':
		e.eraseDisplay(e.param(0, 0))
	case 'K':
		e.eraseLine(e.param(0, 0))
	case 'L':
		e.insertLines(e.param(0, 1))
	case 'M':
		e.deleteLines(e.param(0, 1))
	case 'P':
		e.deleteChars(e.param(0, 1))
	case 'X':
		e.eraseChars(e.param(0, 1))
	case 'S':
		e.scrollUp(e.param(0, 1))
	case 'T':
		e.scrollDown(e.param(0, 1))
	case 'm':
		e.sgr()
	case 'r':
		e.setScrollRegion(e.param(0, 1)-1, e.param(1, e.rows)-1)
	case 's':
		e.saved = e.cur
	case 'u':
		e.restoreCursor()
	case 'h', 'l':
		for i := range e.params {
			if e.params[i] == 4 {
				e.insertMode = final == 'h'
			}
		}
	case 'n':
		switch e.param(0, 0) {
		case 5:
			e.replies = append(e.replies, "\x1b[0n"...)
		case 6:
			e.replies = append(e.replies, fmt.Sprintf("\x1b[%d;%dR", e.cur.y+1, e.cur.x+1)...)
		}
	case 'c':
		if e.param(0, 0) == 0 {
			e.replies = append(e.replies, "\x1b[?1;2c"...)
		}
	}
}

func (e *Emulator) setPrivateModes(on bool) {
	for _, mode := range e.params {
		switch mode {
		case 1:
			e.appCursor = on
		case 7:
			e.autowrap = on
		case 25:
			e.cursorVisible = on
		case 47, 1047:
			e.switchScreen(on, false)
		case 1049:
			if on {
				e.saved.pendingWrap = false
				e.switchScreen(true, true)
			} else {
				e.switchScreen(false, true)
			}
		case 2004:
			e.bracketedPaste = on
		}
	}
}

// switchScreen activates the alternate screen (on) or the primary one.
// With clear, the alternate screen is erased on entry and the cursor travels
// with its saved state, as xterm does for mode 1049.
func (e *Emulator) switchScreen(alt, clear bool) {
	if alt == e.altActive {
		return
	}
	if alt && clear {
		e.saved = e.cur
	}
	e.grid, e.other = e.other, e.grid
	e.saved, e.otherSaved = e.otherSaved, e.saved
	e.altActive = alt

	if alt && clear {
		e.otherSaved = e.cur
		for y := range e.grid {
			e.grid[y] = newLine(e.cols, Cell{})
		}
	}
	if !alt && clear {
		e.cur = e.saved
	}
	e.top, e.bot = 0, e.rows-1
	e.clampCursor()
}

func (e *Emulator) softReset() {
	e.cursorVisible = true
	e.autowrap = true
	e.insertMode = false
	e.appCursor = false
	e.top, e.bot = 0, e.rows-1
	e.cur.pen = Cell{}
	e.cur.lineDrawing = false
	e.saved = cursor{}
}

func (e *Emulator) restoreCursor() {
	e.cur = e.saved
	e.clampCursor()
}

func (e *Emulator) clampCursor() {
	if e.cur.x >= e.cols {
		e.cur.x = e.cols - 1
	}
	if e.cur.y >= e.rows {
		e.cur.y = e.rows - 1
	}
	if e.cur.x < 0 {
		e.cur.x = 0
	}
	if e.cur.y < 0 {
		e.cur.y = 0
	}
}

// moveCursor positions the cursor. Relative vertical moves stop at the
// scroll margins when the cursor starts inside the region.
func (e *Emulator) moveCursor(x, y int, relative bool) {
	e.cur.pendingWrap = false
	minY, maxY := 0, e.rows-1
	if relative && e.cur.y >= e.top && e.cur.y <= e.bot {
		minY, maxY = e.top, e.bot
	}
	if y < minY {
		y = minY
	}
	if y > maxY {
		y = maxY
	}
	e.cur.x, e.cur.y = x, y
	e.clampCursor()
}

func (e *Emulator) setScrollRegion(top, bot int) {
	if bot >= e.rows {
		bot = e.rows - 1
	}
	if top < 0 {
		top = 0
	}
	if top >= bot {
		return
	}
	e.top, e.bot = top, bot
	e.moveCursor(0, 0, false)
}

func (e *Emulator) eraseDisplay(mode int) {
	switch mode {
	case 0:
		e.eraseLine(0)
		for y := e.cur.y + 1; y < e.rows; y++ {
			e.grid[y] = newLine(e.cols, e.cur.pen)
		}
	case 1:
		e.eraseLine(1)
		for y := 0; y < e.cur.y; y++ {
			e.grid[y] = newLine(e.cols, e.cur.pen)
		}
	case 2:
		for y := range e.grid {
			e.grid[y] = newLine(e.cols, e.cur.pen)
		}
	case 3:
		e.history.clear()
	}
}

func (e *Emulator) eraseLine(mode int) {
	line := e.grid[e.cur.y]
	from, to := 0, e.cols
	switch mode {
	case 0:
		from = e.cur.x
	case 1:
		to = e.cur.x + 1
	}
	b := blankCell(e.cur.pen)
	for x := from; x < to && x < len(line); x++ {
		line[x] = b
	}
	e.cur.pendingWrap = false
}

func (e *Emulator) eraseChars(n int) {
	line := e.grid[e.cur.y]
	b := blankCell(e.cur.pen)
	for x := e.cur.x; x < e.cur.x+n && x < e.cols; x++ {
		line[x] = b
	}
	e.cur.pendingWrap = false
}

func (e *Emulator) insertChars(n int) {
	line := e.grid[e.cur.y]
	if n > e.cols-e.cur.x {
		n = e.cols - e.cur.x
	}
	copy(line[e.cur.x+n:], line[e.cur.x:])
	b := blankCell(e.cur.pen)
	for x := e.cur.x; x < e.cur.x+n; x++ {
		line[x] = b
	}
	e.cur.pendingWrap = false
}

func (e *Emulator) deleteChars(n int) {
	line := e.grid[e.cur.y]
	if n > e.cols-e.cur.x {
		n = e.cols - e.cur.x
	}
	copy(line[e.cur.x:], line[e.cur.x+n:])
	b := blankCell(e.cur.pen)
	for x := e.cols - n; x < e.cols; x++ {
		line[x] = b
	}
	e.cur.pendingWrap = false
}

func (e *Emulator) insertLines(n int) {
	if e.cur.y < e.top || e.cur.y > e.bot {
		return
	}
	top := e.top
	e.top = e.cur.y
	e.scrollDown(n)
	e.top = top
	e.cur.x = 0
}

func (e *Emulator) deleteLines(n int) {
	if e.cur.y < e.top || e.cur.y > e.bot {
		return
	}
	top := e.top
	e.top = e.cur.y
	// Deleted lines never enter the scrollback.
	alt := e.altActive
	e.altActive = true
	e.scrollUp(n)
	e.altActive = alt
	e.top = top
	e.cur.x = 0
}

func (e *Emulator) sgr() {
	if len(e.params) == 0 {
		e.cur.pen = Cell{}
		return
	}
	pen := &e.cur.pen
	for i := 0; i < len(e.params); i++ {
		p := e.params[i]
		switch {
		case p == 0:
			*pen = Cell{}
		case p == 1:
			pen.Attrs |= AttrBold
		case p == 2:
			pen.Attrs |= AttrDim
		case p == 3:
			pen.Attrs |= AttrItalic
		case p == 4:
			// 4:0 turns underline off; other styles count as underline.
			if i+1 < len(e.params) && e.paramColon[i+1] {
				if e.params[i+1] == 0 {
					pen.Attrs &^= AttrUnderline
				} else {
					pen.Attrs |= AttrUnderline
				}
				i++
			} else {
				pen.Attrs |= AttrUnderline
			}
		case p == 5 || p == 6:
			pen.Attrs |= AttrBlink
		case p == 7:
			pen.Attrs |= AttrInverse
		case p == 8:
			pen.Attrs |= AttrHidden
		case p == 9:
			pen.Attrs |= AttrStrike
		case p == 21:
			pen.Attrs |= AttrUnderline
		case p == 22:
			pen.Attrs &^= AttrBold | AttrDim
		case p == 23:
			pen.Attrs &^= AttrItalic
		case p == 24:
			pen.Attrs &^= AttrUnderline
		case p == 25:
			pen.Attrs &^= AttrBlink
		case p == 27:
			pen.Attrs &^= AttrInverse
		case p == 28:
			pen.Attrs &^= AttrHidden
		case p == 29:
			pen.Attrs &^= AttrStrike
		case p >= 30 && p <= 37:
			pen.FG = Indexed(uint8(p - 30))
		case p == 38:
			var c Color
			c, i = e.extendedColor(i)
			if c.Kind != ColorDefault {
				pen.FG = c
			}
		case p == 39:
			pen.FG = DefaultColor
		case p >= 40 && p <= 47:
			pen.BG = Indexed(uint8(p - 40))
		case p == 48:
			var c Color
			c, i = e.extendedColor(i)
			if c.Kind != ColorDefault {
				pen.BG = c
			}
		case p == 49:
			pen.BG = DefaultColor
		case p == 58:
			// Underline color is parsed and dropped.
			_, i = e.extendedColor(i)
		case p >= 90 && p <= 97:
			pen.FG = Indexed(uint8(p - 90 + 8))
		case p >= 100 && p <= 107:
			pen.BG = Indexed(uint8(p - 100 + 8))
		}
	}
}

// extendedColor parses the arguments of SGR 38/48/58 starting after index i,
// in both the "38;5;n" and "38:2::r:g:b" forms. It returns the color and the
// index of the last parameter consumed.
func (e *Emulator) extendedColor(i int) (Color, int) {
	if i+1 < len(e.params) && e.paramColon[i+1] {
		// Colon form: gather the sub-parameters.
		j := i + 1
		var sub []int
		for j < len(e.params) && (j == i+1 || e.paramColon[j]) {
			sub = append(sub, e.params[j])
			j++
		}
		last := j - 1
		switch {
		case len(sub) >= 2 && sub[0] == 5:
			return Indexed(uint8(sub[1])), last
		case len(sub) >= 5 && sub[0] == 2:
			n := len(sub)
			return RGB(uint8(sub[n-3]), uint8(sub[n-2]), uint8(sub[n-1])), last
		case len(sub) == 4 && sub[0] == 2:
			return RGB(uint8(sub[1]), uint8(sub[2]), uint8(sub[3])), last
		}
		return DefaultColor, last
	}

	if i+1 >= len(e.params) {
		return DefaultColor, i
	}
	switch e.params[i+1] {
	case 5:
		if i+2 < len(e.params) {
			return Indexed(uint8(e.params[i+2])), i + 2
		}
		return DefaultColor, len(e.params) - 1
	case 2:
		if i+4 < len(e.params) {
			return RGB(uint8(e.params[i+2]), uint8(e.params[i+3]), uint8(e.params[i+4])), i + 4
		}
		return DefaultColor, len(e.params) - 1
	}
	return DefaultColor, i + 1
}

// Resize changes the screen size. When the screen shrinks below the cursor,
// lines above it move into the scrollback so the cursor line stays visible.
func (e *Emulator) Resize(cols, rows int) {
	cols, rows = clampSize(cols, rows)
	if cols == e.cols && rows == e.rows {
		return
	}

	if shift := e.cur.y - (rows - 1); shift > 0 {
		for i := 0; i < shift; i++ {
			if !e.altActive {
				e.history.push(e.grid[i])
			}
		}
		e.grid = e.grid[shift:]
		e.cur.y -= shift
	}

	e.grid = resizeGrid(e.grid, cols, rows)
	e.other = resizeGrid(e.other, cols, rows)
	e.cols, e.rows = cols, rows
	e.top, e.bot = 0, rows-1
	e.cur.pendingWrap = false
	e.clampCursor()
	for _, c := range []*cursor{&e.saved, &e.otherSaved} {
		if c.x >= cols {
			c.x = cols - 1
		}
		if c.y >= rows {
			c.y = rows - 1
		}
	}
}

func resizeGrid(g [][]Cell, cols, rows int) [][]Cell {
	out := make([][]Cell, rows)
	for y := range out {
		if y < len(g) {
			out[y] = resizeLine(g[y], cols)
		} else {
			out[y] = newLine(cols, Cell{})
		}
	}
	return out
}

func resizeLine(line []Cell, cols int) []Cell {
	if len(line) == cols {
		return line
	}
	out := newLine(cols, Cell{})
	copy(out, line)
	// A wide rune cut in half at the new edge becomes a blank.
	if cols > 0 && out[cols-1].Width == 2 {
		out[cols-1] = blankCell(out[cols-1])
	}
	return out
}

// Snapshot is a copy of the visible window.
type Snapshot struct {
	Lines         [][]Cell
	Cols, Rows    int
	CursorX       int
	CursorY       int
	CursorVisible bool
	Offset        int // lines scrolled back from the live screen, after clamping
	ScrollbackLen int
	Title         string
	AltScreen     bool
}

// Snapshot copies the visible window. offset 0 is the live screen; larger
// offsets look back into the scrollback and are clamped to its length. The
// cursor is only reported visible on the live screen.
func (e *Emulator) Snapshot(offset int) Snapshot {
	if offset < 0 {
		offset = 0
	}
	if offset > e.history.n {
		offset = e.history.n
	}

	s := Snapshot{
		Lines:         make([][]Cell, e.rows),
		Cols:          e.cols,
		Rows:          e.rows,
		CursorX:       e.cur.x,
		CursorY:       e.cur.y,
		CursorVisible: e.cursorVisible && offset == 0,
		Offset:        offset,
		ScrollbackLen: e.history.n,
		Title:         e.title,
		AltScreen:     e.altActive,
	}

	start := e.history.n - offset
	for y := 0; y < e.rows; y++ {
		idx := start + y
		var src []Cell
		if idx < e.history.n {
			src = e.history.at(idx)
		} else {
			src = e.grid[idx-e.history.n]
		}
		s.Lines[y] = resizeLine(append([]Cell(nil), src...), e.cols)
	}
	return s
}

// Text returns the snapshot as plain text, one line per row with trailing
// blanks removed.
func (s Snapshot) Text() string {
	lines := make([]string, len(s.Lines))
	for y, line := range s.Lines {
		lines[y] = LineText(line, 0, len(line))
	}
	return strings.Join(lines, "\n")
}

// LineText returns the runes of line[from:to] with trailing spaces trimmed.
func LineText(line []Cell, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(line) {
		to = len(line)
	}
	var b strings.Builder
	for x := from; x < to; x++ {
		c := line[x]
		if c.Width == 0 {
			continue
		}
		if c.Rune == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(c.Rune)
	}
	return strings.TrimRight(b.String(), " ")
}
