package app

import (
	"testing"

	"github.com/zhubert/rooms/internal/keys"
	"github.com/zhubert/rooms/internal/ui/modals"
)

func TestShortcutRegistry_KeysAreUnique(t *testing.T) {
	seen := make(map[string]string)
	for _, s := range append(ShortcutRegistry, helpShortcut) {
		for _, k := range append([]string{s.Key}, s.Aliases...) {
			if prev, ok := seen[k]; ok {
				t.Errorf("key %q bound to both %q and %q", k, prev, s.Description)
			}
			seen[k] = s.Description
		}
		if s.Category == "" {
			t.Errorf("shortcut %q has no category", s.Key)
		}
	}
}

func TestShortcutKeyFor(t *testing.T) {
	tests := []struct {
		display string
		want    string
		ok      bool
	}{
		{"d/Del", "d", true},
		{"Enter", keys.Enter, true},
		{"ctrl-b", keys.CtrlB, true},
		{"R", "R", true},
		{"?", "?", true},
		{"Mouse wheel", "", false},
	}
	for _, tt := range tests {
		got, ok := shortcutKeyFor(tt.display)
		if got != tt.want || ok != tt.ok {
			t.Errorf("shortcutKeyFor(%q) = %q, %v; want %q, %v", tt.display, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExecuteShortcut_RequiresRoom(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m
	m.snapshot = nil
	m.refreshViews()

	for _, key := range []string{"r", "D", keys.Delete} {
		_, _, ok := m.ExecuteShortcut(key)
		if !ok {
			t.Errorf("ExecuteShortcut(%q) not handled", key)
		}
		if m.FlashText() != "No room selected" {
			t.Errorf("%q: flash = %q", key, m.FlashText())
		}
	}
}

func TestExecuteShortcut_ConditionFailsWithoutSession(t *testing.T) {
	env := newTestEnv(t, nil)
	if _, _, ok := env.m.ExecuteShortcut(keys.PgUp); ok {
		t.Error("PgUp should not run without a shell")
	}
}

func TestExecuteShortcut_Unknown(t *testing.T) {
	env := newTestEnv(t, nil)
	if _, _, ok := env.m.ExecuteShortcut("z"); ok {
		t.Error("unbound key reported as handled")
	}
}

func TestHelpSections_Order(t *testing.T) {
	env := newTestEnv(t, nil)
	sections := env.m.getApplicableHelpSections(append(ShortcutRegistry, helpShortcut), DisplayOnlyShortcuts)

	var titles []string
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	want := []string{CategoryNavigation, CategoryRooms, CategoryTerminal, CategoryGeneral}
	if len(titles) != len(want) {
		t.Fatalf("sections = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("section %d = %q, want %q", i, titles[i], want[i])
		}
	}

	for _, s := range sections {
		for _, sc := range s.Shortcuts {
			if sc.Key == "PgUp" {
				t.Error("PgUp listed without a shell")
			}
		}
	}
}

func TestHelpShortcutTriggered(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m

	_, cmd := m.Update(modals.HelpShortcutTriggeredMsg{Key: "R"})
	drain(t, m, cmd)
	if m.FlashText() != "Rooms refreshed" {
		t.Errorf("flash = %q", m.FlashText())
	}
}

func TestHelpModal_EnterRunsSelectedShortcut(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m

	sendKey(t, m, "?")
	state := m.modal.State.(*modals.HelpState)
	sel := state.GetSelectedShortcut()
	if sel == nil {
		t.Fatal("help has no selected entry")
	}
	key, ok := shortcutKeyFor(sel.Key)
	if !ok {
		t.Fatalf("first entry %q is not runnable", sel.Key)
	}

	_, cmd := m.Update(keyPress(keys.Enter))
	if m.modal.IsVisible() {
		t.Error("Enter should close help")
	}
	if cmd == nil {
		t.Fatal("Enter returned no command")
	}
	msg, ok := cmd().(modals.HelpShortcutTriggeredMsg)
	if !ok || msg.Key != key {
		t.Errorf("cmd() = %#v, want trigger for %q", msg, key)
	}
}
