package app

import (
	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/rooms/internal/ui"
)

// flashTick schedules the next flash expiry check.
var flashTick = ui.FlashTick

// ShowFlash shows a message in the footer and starts the expiry tick.
func (m *Model) ShowFlash(text string, t ui.FlashType) tea.Cmd {
	m.footer.SetFlash(text, t)
	return flashTick()
}

func (m *Model) ShowFlashInfo(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashInfo)
}

func (m *Model) ShowFlashSuccess(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashSuccess)
}

func (m *Model) ShowFlashWarning(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashWarning)
}

// ShowFlashError logs text as well as showing it.
func (m *Model) ShowFlashError(text string) tea.Cmd {
	m.log.Error(text)
	return m.ShowFlash(text, ui.FlashError)
}

// FlashText returns the footer message, or "".
func (m *Model) FlashText() string {
	return m.footer.FlashText()
}

func (m *Model) handleFlashTick() (tea.Model, tea.Cmd) {
	if m.footer.ClearIfExpired() {
		return m, flashTick()
	}
	return m, nil
}
