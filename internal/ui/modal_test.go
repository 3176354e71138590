package ui

import (
	"strings"
	"testing"

	"github.com/zhubert/rooms/internal/ui/modals"
)

func TestNewModal(t *testing.T) {
	modal := NewModal()

	if modal.IsVisible() {
		t.Error("New modal should not be visible")
	}
	if modal.View(80, 24) != "" {
		t.Error("hidden modal should render nothing")
	}
}

func TestModal_ShowHide(t *testing.T) {
	modal := NewModal()
	modal.Show(modals.NewRenameRoomState("/r/quick-fox", "quick-fox"))

	if !modal.IsVisible() {
		t.Error("Modal should be visible after Show")
	}

	modal.SetError("boom")
	modal.Hide()

	if modal.IsVisible() {
		t.Error("Modal should not be visible after Hide")
	}
	if modal.GetError() != "" {
		t.Error("Hide should clear the error")
	}
}

func TestModal_ShowClearsError(t *testing.T) {
	modal := NewModal()
	modal.SetError("stale")
	modal.Show(modals.NewCreateRoomState(""))

	if modal.GetError() != "" {
		t.Errorf("Show should clear the error, got %q", modal.GetError())
	}
}

func TestModal_ViewIncludesError(t *testing.T) {
	modal := NewModal()
	modal.Show(modals.NewCreateRoomState(""))
	modal.SetError("name already in use")

	out := modal.View(100, 30)
	if !strings.Contains(out, "New Room") {
		t.Error("view should contain the modal title")
	}
	if !strings.Contains(out, "name already in use") {
		t.Error("view should contain the error")
	}
	if lines := strings.Count(out, "\n") + 1; lines != 30 {
		t.Errorf("modal should be placed over the full screen height, got %d lines", lines)
	}
}

func TestModal_HelpIsSized(t *testing.T) {
	modal := NewModal()
	modal.Show(modals.NewHelpStateFromSections([]modals.HelpSection{
		{Title: "General", Shortcuts: []modals.HelpShortcut{{Key: "q", Desc: "Quit"}}},
	}))

	out := modal.View(100, 30)
	if !strings.Contains(out, "Quit") {
		t.Error("help modal should list its shortcuts")
	}
}
