package ui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/rooms/internal/room"
)

func testViews() []room.View {
	return []room.View{
		{Name: "quick-fox-a1b2", Path: "/rooms/quick-fox-a1b2", Branch: "quick-fox-a1b2", Status: room.StatusReady, HasSession: true, Section: room.SectionActive},
		{Name: "main", Path: "/repo", Branch: "main", Status: room.StatusIdle, IsPrimary: true, Section: room.SectionInactive},
		{Name: "calm-bear-1f2c", Path: "/rooms/calm-bear-1f2c", Status: room.StatusIdle, Section: room.SectionInactive},
		{Name: "gone", Path: "/rooms/gone", Status: room.StatusOrphaned, IsPrunable: true, Section: room.SectionFailed},
	}
}

func newTestSidebar() *Sidebar {
	s := NewSidebar()
	s.SetSize(SidebarWidth, 20)
	s.SetViews(testViews())
	return s
}

func keyPress(code rune, text string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code, Text: text}
}

func TestSidebar_Empty(t *testing.T) {
	s := NewSidebar()
	s.SetSize(SidebarWidth, 10)

	if s.SelectedRoom() != nil {
		t.Error("SelectedRoom() should be nil with no rooms")
	}
	if !strings.Contains(s.View(), "No rooms") {
		t.Error("empty sidebar should explain how to create a room")
	}
}

func TestSidebar_Navigation(t *testing.T) {
	s := newTestSidebar()

	if got := s.SelectedRoom().Name; got != "quick-fox-a1b2" {
		t.Fatalf("initial selection = %q", got)
	}

	s, _ = s.Update(keyPress('j', "j"))
	if got := s.SelectedRoom().Name; got != "main" {
		t.Errorf("after j = %q, want main", got)
	}

	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if got := s.SelectedRoom().Name; got != "calm-bear-1f2c" {
		t.Errorf("after down = %q", got)
	}

	s, _ = s.Update(keyPress('G', "G"))
	if got := s.SelectedRoom().Name; got != "gone" {
		t.Errorf("after G = %q", got)
	}

	// Stops at the end
	s.MoveDown()
	if s.SelectedIndex() != 3 {
		t.Errorf("MoveDown past end moved to %d", s.SelectedIndex())
	}

	s, _ = s.Update(keyPress('k', "k"))
	if got := s.SelectedRoom().Name; got != "calm-bear-1f2c" {
		t.Errorf("after k = %q", got)
	}
}

func TestSidebar_UnfocusedIgnoresKeys(t *testing.T) {
	s := newTestSidebar()
	s.SetFocused(false)
	s, _ = s.Update(keyPress('j', "j"))
	if s.SelectedIndex() != 0 {
		t.Error("unfocused sidebar should not move")
	}
}

func TestSidebar_SetViewsKeepsSelectionByPath(t *testing.T) {
	s := newTestSidebar()
	s.SelectPath("/rooms/calm-bear-1f2c")

	// A new room sorts ahead of the selection
	views := append([]room.View{
		{Name: "aaa-new-0000", Path: "/rooms/aaa-new-0000", Status: room.StatusReady, HasSession: true, Section: room.SectionActive},
	}, testViews()...)
	s.SetViews(views)

	if got := s.SelectedRoom().Path; got != "/rooms/calm-bear-1f2c" {
		t.Errorf("selection should follow path, got %q", got)
	}
}

func TestSidebar_SetViewsClampsWhenSelectedRemoved(t *testing.T) {
	s := newTestSidebar()
	s.SelectPath("/rooms/gone")

	s.SetViews(testViews()[:2])
	if got := s.SelectedRoom().Name; got != "main" {
		t.Errorf("selection = %q, want clamp to last room", got)
	}

	s.SetViews(nil)
	if s.SelectedRoom() != nil {
		t.Error("selection should be nil after all rooms vanish")
	}
}

func TestSidebar_SelectName(t *testing.T) {
	s := newTestSidebar()
	if !s.SelectName("main") {
		t.Fatal("SelectName(main) = false")
	}
	if s.SelectName("nope") {
		t.Error("SelectName of unknown room should fail")
	}
	if got := s.SelectedRoom().Name; got != "main" {
		t.Errorf("selection = %q", got)
	}
}

func TestSidebar_View(t *testing.T) {
	s := newTestSidebar()
	view := stripANSI(s.View())

	for _, want := range []string{
		"Active (1)", "Inactive (2)", "Failed (1)",
		"quick-fox-a1b2", "[primary]", "[prunable]",
		"●", "○", "?",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("sidebar view should contain %q:\n%s", want, view)
		}
	}

	// Sections render in order
	if strings.Index(view, "Active") > strings.Index(view, "Inactive") ||
		strings.Index(view, "Inactive") > strings.Index(view, "Failed") {
		t.Error("sections out of order")
	}
}

func TestSidebar_ViewTruncatesLongNames(t *testing.T) {
	s := NewSidebar()
	s.SetSize(SidebarWidth, 10)
	long := strings.Repeat("x", 80)
	s.SetViews([]room.View{{Name: long, Path: "/rooms/" + long, Section: room.SectionInactive}})

	view := stripANSI(s.View())
	if strings.Contains(view, long) {
		t.Error("long name should be truncated")
	}
	if !strings.Contains(view, "…") {
		t.Error("truncated name should end with an ellipsis")
	}
}

func TestSidebar_ScrollKeepsSelectionVisible(t *testing.T) {
	var views []room.View
	for i := 0; i < 30; i++ {
		name := "room-" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		views = append(views, room.View{Name: name, Path: "/rooms/" + name, Section: room.SectionInactive})
	}
	s := NewSidebar()
	s.SetSize(SidebarWidth, 8)
	s.SetViews(views)
	s.SelectPath(views[29].Path)

	view := stripANSI(s.View())
	if !strings.Contains(view, views[29].Name) {
		t.Error("selected room should be scrolled into view")
	}
	if s.scrollOffset == 0 {
		t.Error("sidebar should have scrolled")
	}
}

func TestSidebar_ClickLine(t *testing.T) {
	s := newTestSidebar()
	s.View()

	// Row 0 is the border, row 1 the Active header, row 2 the first room
	if s.ClickLine(1) {
		t.Error("clicking a section header should not select")
	}
	if !s.ClickLine(2) || s.SelectedRoom().Name != "quick-fox-a1b2" {
		t.Error("row 2 should select the first room")
	}
	// Blank line, Inactive header, then main
	if !s.ClickLine(5) || s.SelectedRoom().Name != "main" {
		t.Errorf("row 5 should select main, got %v", s.SelectedRoom())
	}
	if s.ClickLine(100) {
		t.Error("clicking below the list should not select")
	}
}
