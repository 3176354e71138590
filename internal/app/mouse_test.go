package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/rooms/internal/keys"
	"github.com/zhubert/rooms/internal/room"
	"github.com/zhubert/rooms/internal/terminal"
	"github.com/zhubert/rooms/internal/ui"
)

// sidebarRowOf returns the screen row the room called name is drawn on.
func sidebarRowOf(t *testing.T, m *Model, name string) int {
	t.Helper()
	m.View()
	idx := room.FindByName(m.sidebar.Views(), name)
	for y := 1; y < ui.GetViewContext().ContentHeight; y++ {
		if m.sidebar.RoomAtLine(y) == idx {
			return ui.HeaderHeight + y
		}
	}
	t.Fatalf("room %q not drawn in the sidebar", name)
	return 0
}

func TestMouse_ClickSelectsRoom(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m
	env.addRoom(t, "clicked")
	enterRoom(t, env, "other")

	y := sidebarRowOf(t, m, "clicked")
	m.Update(tea.MouseClickMsg{X: 5, Y: y, Button: tea.MouseLeft})

	if sel := m.selectedRoom(); sel == nil || sel.Name != "clicked" {
		t.Errorf("selected = %v, want clicked", sel)
	}
	if m.Focus() != FocusSidebar {
		t.Error("clicking the sidebar should focus it")
	}
}

func TestMouse_ClickPaneFocusesShell(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m
	enterRoom(t, env, "pane")
	sendKey(t, m, keys.CtrlB)

	m.Update(tea.MouseClickMsg{X: m.sidebar.Width() + 5, Y: 5, Button: tea.MouseLeft})
	if m.Focus() != FocusTerminal {
		t.Error("clicking the pane should focus the shell")
	}
}

func TestMouse_WheelScrollsShell(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m
	proc := enterRoom(t, env, "wheel")

	var out strings.Builder
	for i := 0; i < 100; i++ {
		out.WriteString("output\r\n")
	}
	proc.emit(t, out.String())
	sess := m.sessions.Get(proc.dir)
	waitFor(t, "scrollback", func() bool { return sess.Snapshot().ScrollbackLen > 10 })

	x := m.sidebar.Width() + 10
	m.Update(tea.MouseWheelMsg{X: x, Y: 10, Button: tea.MouseWheelUp})
	m.Update(tea.MouseWheelMsg{X: x, Y: 10, Button: tea.MouseWheelUp})
	if got, want := sess.ScrollOffset(), 2*ui.WheelScrollLines; got != want {
		t.Errorf("offset = %d, want %d", got, want)
	}
	m.Update(tea.MouseWheelMsg{X: x, Y: 10, Button: tea.MouseWheelDown})
	if got, want := sess.ScrollOffset(), ui.WheelScrollLines; got != want {
		t.Errorf("offset = %d, want %d", got, want)
	}
}

func TestMouse_WheelOverSidebarMovesSelection(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m
	env.addRoom(t, "first")
	env.addRoom(t, "second")
	env.selectRoom(t, "first")

	m.Update(tea.MouseWheelMsg{X: 2, Y: 5, Button: tea.MouseWheelDown})
	if sel := m.selectedRoom(); sel == nil || sel.Name != "second" {
		t.Errorf("selected = %v, want second", sel)
	}
}

func TestMouse_ContextMenuPaste(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m
	proc := enterRoom(t, env, "menu")
	sendKey(t, m, keys.CtrlB)
	if err := env.clip.WriteText("from clipboard"); err != nil {
		t.Fatal(err)
	}

	m.Update(tea.MouseClickMsg{X: m.sidebar.Width() + 10, Y: 10, Button: tea.MouseRight})
	if !m.menu.IsOpen() {
		t.Fatal("right click should open the menu")
	}
	items := m.menu.Items()
	if len(items) != 1 || items[0] != ui.MenuPaste {
		t.Fatalf("menu = %v, want only Paste without a selection", items)
	}

	mx, my := m.menu.Position()
	_, cmd := m.Update(tea.MouseClickMsg{X: mx + 1, Y: my + 1, Button: tea.MouseLeft})
	drain(t, m, cmd)

	if m.menu.IsOpen() {
		t.Error("menu still open after choosing")
	}
	if m.Focus() != FocusTerminal {
		t.Error("paste should focus the shell")
	}
	waitForInput(t, proc, terminal.PasteStart+"from clipboard"+terminal.PasteEnd)
}

func TestMouse_ContextMenuClosesOnOutsideClick(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m
	enterRoom(t, env, "outside")

	m.Update(tea.MouseClickMsg{X: m.sidebar.Width() + 10, Y: 10, Button: tea.MouseRight})
	m.Update(tea.MouseClickMsg{X: 1, Y: 1, Button: tea.MouseLeft})
	if m.menu.IsOpen() {
		t.Error("clicking outside should close the menu")
	}
}

func TestMouse_CopyWithoutSelection(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m

	_, cmd := m.Update(ui.MenuActionMsg{Action: ui.MenuCopy})
	drain(t, m, cmd)
	if m.FlashText() != "No selection to copy" {
		t.Errorf("flash = %q", m.FlashText())
	}
}

func TestMouse_IgnoredWhileModalOpen(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m
	env.addRoom(t, "behind")
	y := sidebarRowOf(t, m, "behind")

	sendKey(t, m, "?")
	m.Update(tea.MouseClickMsg{X: 5, Y: y, Button: tea.MouseLeft})
	if sel := m.selectedRoom(); sel != nil && sel.Name == "behind" {
		t.Error("click went through the help modal")
	}
}
