package terminal

import (
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
)

const esc = "\x1b"

var functionKeys = map[rune]string{
	tea.KeyF1:  esc + "OP",
	tea.KeyF2:  esc + "OQ",
	tea.KeyF3:  esc + "OR",
	tea.KeyF4:  esc + "OS",
	tea.KeyF5:  esc + "[15~",
	tea.KeyF6:  esc + "[17~",
	tea.KeyF7:  esc + "[18~",
	tea.KeyF8:  esc + "[19~",
	tea.KeyF9:  esc + "[20~",
	tea.KeyF10: esc + "[21~",
	tea.KeyF11: esc + "[23~",
	tea.KeyF12: esc + "[24~",
}

var editingKeys = map[rune]string{
	tea.KeyPgUp:   esc + "[5~",
	tea.KeyPgDown: esc + "[6~",
	tea.KeyDelete: esc + "[3~",
	tea.KeyInsert: esc + "[2~",
}

// cursorKeys maps to the final byte of the cursor sequence. With DECCKM set
// the sequence is SS3 based (ESC O A) instead of CSI (ESC [ A).
var cursorKeys = map[rune]byte{
	tea.KeyUp:    'A',
	tea.KeyDown:  'B',
	tea.KeyRight: 'C',
	tea.KeyLeft:  'D',
	tea.KeyHome:  'H',
	tea.KeyEnd:   'F',
}

// TranslateKey converts a key press into the bytes a VT220-compatible
// terminal would send. It returns nil for keys that have no encoding.
func TranslateKey(msg tea.KeyPressMsg, appCursor bool) []byte {
	alt := msg.Mod.Contains(tea.ModAlt)
	ctrl := msg.Mod.Contains(tea.ModCtrl)

	var out string
	switch msg.Code {
	case tea.KeyEnter:
		out = "\r"
	case tea.KeyBackspace:
		out = "\x7f"
	case tea.KeyTab:
		if msg.Mod.Contains(tea.ModShift) {
			return []byte(esc + "[Z")
		}
		out = "\t"
	case tea.KeyEscape:
		out = esc
	case tea.KeySpace:
		if ctrl {
			return []byte{0}
		}
		out = " "
	default:
		if final, ok := cursorKeys[msg.Code]; ok {
			return []byte(cursorSequence(final, msg.Mod, appCursor))
		}
		if seq, ok := editingKeys[msg.Code]; ok {
			out = seq
			break
		}
		if seq, ok := functionKeys[msg.Code]; ok {
			out = seq
			break
		}
		if ctrl {
			if b, ok := controlByte(msg.Code); ok {
				out = string([]byte{b})
				break
			}
			return nil
		}
		if msg.Text != "" {
			out = msg.Text
		} else if msg.Code >= 0x20 && msg.Code != utf8.RuneError && utf8.ValidRune(msg.Code) && msg.Code < tea.KeyExtended {
			out = string(msg.Code)
		} else {
			return nil
		}
	}

	if alt {
		out = esc + out
	}
	return []byte(out)
}

// cursorSequence encodes an arrow, Home or End key. Modified keys use the
// xterm "CSI 1 ; m X" form.
func cursorSequence(final byte, mod tea.KeyMod, appCursor bool) string {
	m := 1
	if mod.Contains(tea.ModShift) {
		m++
	}
	if mod.Contains(tea.ModAlt) {
		m += 2
	}
	if mod.Contains(tea.ModCtrl) {
		m += 4
	}
	if m > 1 {
		return esc + "[1;" + string(rune('0'+m)) + string(final)
	}
	if appCursor {
		return esc + "O" + string(final)
	}
	return esc + "[" + string(final)
}

// controlByte maps Ctrl+key to its C0 code: letters give 1-26.
func controlByte(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 1, true
	case r >= 'A' && r <= 'Z':
		return byte(r-'A') + 1, true
	case r == '@' || r == '2':
		return 0, true
	case r == '[' || r == '3':
		return 0x1b, true
	case r == '\\' || r == '4':
		return 0x1c, true
	case r == ']' || r == '5':
		return 0x1d, true
	case r == '^' || r == '6':
		return 0x1e, true
	case r == '_' || r == '7' || r == '/':
		return 0x1f, true
	case r == '8' || r == '?':
		return 0x7f, true
	}
	return 0, false
}
