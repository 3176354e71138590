package ui

import (
	"strings"
	"testing"
	"time"
)

func TestNewFooter(t *testing.T) {
	footer := NewFooter()
	if len(footer.bindings) == 0 {
		t.Error("Expected default bindings to be set")
	}
	if footer.flashMessage != nil {
		t.Error("Expected no flash message initially")
	}
}

func TestFooter_SetFlash(t *testing.T) {
	footer := NewFooter()
	footer.SetFlash("Created room: quick-fox-a1b2", FlashSuccess)

	if footer.flashMessage == nil {
		t.Fatal("Expected flash message to be set")
	}
	if footer.flashMessage.Text != "Created room: quick-fox-a1b2" {
		t.Errorf("text = %q", footer.flashMessage.Text)
	}
	if footer.flashMessage.Type != FlashSuccess {
		t.Errorf("type = %v, want FlashSuccess", footer.flashMessage.Type)
	}
	if footer.flashMessage.Duration != DefaultFlashDuration {
		t.Errorf("duration = %v, want %v", footer.flashMessage.Duration, DefaultFlashDuration)
	}
}

func TestFooter_FlashExpiry(t *testing.T) {
	footer := NewFooter()
	footer.SetFlashWithDuration("Rooms refreshed", FlashInfo, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if footer.ClearIfExpired() {
		t.Error("expired flash should be cleared")
	}
	if footer.HasFlash() {
		t.Error("HasFlash() should be false after expiry")
	}

	footer.SetFlashWithDuration("Selection copied", FlashSuccess, time.Hour)
	if !footer.ClearIfExpired() {
		t.Error("live flash should remain")
	}
	footer.ClearFlash()
	if footer.FlashText() != "" {
		t.Error("ClearFlash should remove the message")
	}
}

func TestFooter_FlashTypes(t *testing.T) {
	tests := []struct {
		name         string
		flashType    FlashType
		expectedIcon string
	}{
		{"Error", FlashError, "✕"},
		{"Warning", FlashWarning, "⚠"},
		{"Info", FlashInfo, "ℹ"},
		{"Success", FlashSuccess, "✓"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			footer := NewFooter()
			footer.SetWidth(80)
			footer.SetFlash("Test message", tt.flashType)

			view := footer.View()
			if !strings.Contains(view, tt.expectedIcon) {
				t.Errorf("Expected %s flash to contain icon %q", tt.name, tt.expectedIcon)
			}
			if !strings.Contains(view, "Test message") {
				t.Error("flash text missing")
			}
		})
	}
}

func TestFooter_Bindings(t *testing.T) {
	tests := []struct {
		name           string
		hasRoom        bool
		sidebarFocused bool
		hasSession     bool
		scrolled       bool
		want           []string
		notWant        []string
	}{
		{
			name:           "sidebar without rooms",
			sidebarFocused: true,
			want:           []string{"new/quick", "help", "quit"},
			notWant:        []string{"delete", "rename", "open"},
		},
		{
			name:           "sidebar with room",
			hasRoom:        true,
			sidebarFocused: true,
			want:           []string{"open", "delete", "rename", "quit"},
		},
		{
			name:       "terminal focused",
			hasRoom:    true,
			hasSession: true,
			want:       []string{"sidebar", "scroll", "select"},
			notWant:    []string{"quit", "back to live"},
		},
		{
			name:       "terminal scrolled back",
			hasRoom:    true,
			hasSession: true,
			scrolled:   true,
			want:       []string{"back to live"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			footer := NewFooter()
			footer.SetWidth(160)
			footer.SetContext(tt.hasRoom, tt.sidebarFocused, tt.hasSession, tt.scrolled)
			view := footer.View()
			for _, w := range tt.want {
				if !strings.Contains(view, w) {
					t.Errorf("footer should contain %q: %q", w, stripANSI(view))
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(view, w) {
					t.Errorf("footer should not contain %q", w)
				}
			}
		})
	}
}

func TestFlashTick(t *testing.T) {
	if FlashTick() == nil {
		t.Error("FlashTick() should return a command")
	}
}
