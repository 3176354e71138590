package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FlashType selects the icon and color of a flash message.
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// DefaultFlashDuration is how long a flash message stays in the footer.
const DefaultFlashDuration = 4 * time.Second

// FlashMessage is a transient status line shown instead of the bindings.
type FlashMessage struct {
	Text      string
	Type      FlashType
	Duration  time.Duration
	CreatedAt time.Time
}

// IsExpired reports whether the message has outlived its duration.
func (f *FlashMessage) IsExpired() bool {
	return time.Since(f.CreatedAt) >= f.Duration
}

// FlashTickMsg drives flash expiry.
type FlashTickMsg time.Time

// FlashTick returns a command that checks flash expiry once a second.
func FlashTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width          int
	bindings       []KeyBinding
	hasRoom        bool // Whether a room is selected
	sidebarFocused bool // Whether the sidebar has focus
	hasSession     bool // Whether the selected room has a live shell
	scrolled       bool // Whether the terminal shows scrollback
	flashMessage   *FlashMessage
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{
		bindings: []KeyBinding{
			{Key: "enter", Desc: "open"},
			{Key: "a/A", Desc: "new/quick"},
			{Key: "d", Desc: "delete"},
			{Key: "r", Desc: "rename"},
			{Key: "ctrl+b", Desc: "focus"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(hasRoom, sidebarFocused, hasSession, scrolled bool) {
	f.hasRoom = hasRoom
	f.sidebarFocused = sidebarFocused
	f.hasSession = hasSession
	f.scrolled = scrolled
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetBindings allows custom keybindings
func (f *Footer) SetBindings(bindings []KeyBinding) {
	f.bindings = bindings
}

// SetFlash shows text for DefaultFlashDuration.
func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.SetFlashWithDuration(text, flashType, DefaultFlashDuration)
}

// SetFlashWithDuration shows text for d.
func (f *Footer) SetFlashWithDuration(text string, flashType FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{
		Text:      text,
		Type:      flashType,
		Duration:  d,
		CreatedAt: time.Now(),
	}
}

// ClearFlash removes the flash message.
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// HasFlash reports whether a flash message is showing.
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// FlashText returns the current flash text, or "".
func (f *Footer) FlashText() string {
	if f.flashMessage == nil {
		return ""
	}
	return f.flashMessage.Text
}

// ClearIfExpired drops an expired flash and reports whether one remains.
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
	}
	return f.flashMessage != nil
}

func flashStyle(t FlashType) (string, lipgloss.Style) {
	switch t {
	case FlashError:
		return "✕", lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	case FlashWarning:
		return "⚠", lipgloss.NewStyle().Foreground(ColorWarning)
	case FlashSuccess:
		return "✓", lipgloss.NewStyle().Foreground(ColorSuccess)
	default:
		return "ℹ", lipgloss.NewStyle().Foreground(ColorInfo)
	}
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashMessage != nil {
		icon, style := flashStyle(f.flashMessage.Type)
		text := icon + " " + f.flashMessage.Text
		if f.width > 2 {
			text = ansi.Truncate(text, f.width-2, "…")
		}
		return FooterStyle.Width(f.width).Render(style.Render(text))
	}

	var bindings []KeyBinding
	switch {
	case !f.sidebarFocused && f.hasSession:
		bindings = []KeyBinding{
			{Key: "ctrl+b", Desc: "sidebar"},
			{Key: "pgup/dn", Desc: "scroll"},
			{Key: "drag", Desc: "select"},
			{Key: "right-click", Desc: "menu"},
		}
		if f.scrolled {
			bindings = append(bindings, KeyBinding{Key: "type", Desc: "back to live"})
		}
	default:
		for _, b := range f.bindings {
			// Room-specific bindings need a selected room
			if (b.Key == "enter" || b.Key == "d" || b.Key == "r") && !f.hasRoom {
				continue
			}
			bindings = append(bindings, b)
		}
	}

	var parts []string
	for _, b := range bindings {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}
	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")

	return FooterStyle.Width(f.width).Render(content)
}
