package ui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestContextMenu_Items(t *testing.T) {
	tests := []struct {
		name         string
		hasSelection bool
		want         []MenuAction
	}{
		{"with selection", true, []MenuAction{MenuCopy, MenuPaste}},
		{"without selection", false, []MenuAction{MenuPaste}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewContextMenu()
			m.Open(10, 10, 100, 40, tt.hasSelection)
			got := m.Items()
			if len(got) != len(tt.want) {
				t.Fatalf("items = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("item %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestContextMenu_ClampsToScreen(t *testing.T) {
	m := NewContextMenu()
	m.Open(95, 39, 100, 40, true)
	x, y := m.Position()
	w, h := m.size()
	if x+w > 100 || y+h > 40 {
		t.Errorf("menu at %d,%d size %dx%d overflows 100x40", x, y, w, h)
	}
}

func TestContextMenu_KeyboardChoose(t *testing.T) {
	m := NewContextMenu()
	m.Open(0, 0, 80, 24, true)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should choose an entry")
	}
	if got := cmd().(MenuActionMsg); got.Action != MenuPaste {
		t.Errorf("chose %v, want Paste", got.Action)
	}
	if m.IsOpen() {
		t.Error("menu should close after choosing")
	}
}

func TestContextMenu_Escape(t *testing.T) {
	m := NewContextMenu()
	m.Open(0, 0, 80, 24, false)
	m, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil || m.IsOpen() {
		t.Error("escape should close without an action")
	}
}

func TestContextMenu_Mouse(t *testing.T) {
	m := NewContextMenu()
	m.Open(10, 5, 80, 24, true)

	// Row 0 is the border; the first entry is on y+1
	_, cmd := m.Update(tea.MouseClickMsg{X: 12, Y: 6, Button: tea.MouseLeft})
	if cmd == nil || cmd().(MenuActionMsg).Action != MenuCopy {
		t.Error("clicking the first row should choose Copy")
	}

	m.Open(10, 5, 80, 24, true)
	_, cmd = m.Update(tea.MouseClickMsg{X: 0, Y: 0, Button: tea.MouseLeft})
	if cmd != nil || m.IsOpen() {
		t.Error("clicking outside should close the menu")
	}
}

func TestContextMenu_View(t *testing.T) {
	m := NewContextMenu()
	if m.View() != "" {
		t.Error("closed menu renders nothing")
	}
	m.Open(0, 0, 80, 24, true)
	view := stripANSI(m.View())
	if !strings.Contains(view, "Copy") || !strings.Contains(view, "Paste") {
		t.Errorf("menu view = %q", view)
	}

	base := strings.Repeat(strings.Repeat(".", 40)+"\n", 9) + strings.Repeat(".", 40)
	over := stripANSI(m.Overlay(base, 40, 10))
	if !strings.Contains(over, "Paste") {
		t.Error("overlay should draw the menu")
	}
}
