package app

import (
	tea "charm.land/bubbletea/v2"
	rerrors "github.com/zhubert/rooms/internal/errors"
	"github.com/zhubert/rooms/internal/keys"
	"github.com/zhubert/rooms/internal/terminal"
	"github.com/zhubert/rooms/internal/ui"
	"github.com/zhubert/rooms/internal/ui/modals"
)

// bothHiddenMessage is shown when neither the sidebar nor the terminal is
// visible.
const bothHiddenMessage = "Press Ctrl+B for sidebar, Ctrl+T for terminal, ? for help"

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		return m.handlePaste(msg.Content)

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg, tea.MouseWheelMsg:
		return m.routeMouseEvents(msg)

	case modals.HelpShortcutTriggeredMsg:
		result, cmd, _ := m.ExecuteShortcut(msg.Key)
		return result, cmd

	case SessionEventMsg:
		return m.handleSessionEvent(msg)

	case renderTickMsg:
		return m.handleRenderTick()

	case SyncResultMsg:
		return m.handleSyncResult(msg)

	case CreateResultMsg:
		return m.handleCreateResult(msg)

	case PostCreateResultMsg:
		return m.handlePostCreateResult(msg)

	case PostEnterResultMsg:
		return m.handlePostEnterResult(msg)

	case DirtyProbedMsg:
		return m.handleDirtyProbed(msg)

	case DeleteResultMsg:
		return m.handleDeleteResult(msg)

	case RenameResultMsg:
		return m.handleRenameResult(msg)

	case PruneResultMsg:
		return m.handlePruneResult(msg)

	case ui.FlashTickMsg:
		return m.handleFlashTick()

	case ui.MenuActionMsg:
		return m.handleMenuAction(msg.Action)

	case ui.SelectionCopiedMsg:
		return m, nil

	case ui.ClipboardErrorMsg:
		return m, m.ShowFlashWarning("Copy failed: " + msg.Error.Error())

	case ui.SelectionFlashTickMsg:
		pane, cmd := m.pane.Update(msg)
		m.pane = pane
		return m, cmd
	}

	// Forward anything else to the open modal, e.g. cursor blink
	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}
	if m.menu.IsOpen() {
		menu, cmd := m.menu.Update(msg)
		m.menu = menu
		return m, cmd
	}

	if !m.sidebarVisible && !m.paneVisible {
		switch key {
		case keys.CtrlB:
			m.focusSidebar()
		case keys.CtrlT:
			m.focusTerminal()
		case "?":
			return shortcutHelp(m)
		default:
			return m, m.ShowFlashInfo(bothHiddenMessage)
		}
		return m, nil
	}

	if m.focus == FocusTerminal {
		return m.handleTerminalKey(msg)
	}

	if key == keys.CtrlC {
		return m, tea.Quit
	}
	if result, cmd, ok := m.ExecuteShortcut(key); ok {
		m.updateFooterContext()
		return result, cmd
	}

	prev := m.selectedRoom()
	sidebar, cmd := m.sidebar.Update(msg)
	m.sidebar = sidebar
	if cur := m.selectedRoom(); cur != nil && (prev == nil || prev.Path != cur.Path) {
		m.selectionChanged(prev)
	}
	m.updateFooterContext()
	return m, cmd
}

// handleTerminalKey sends keys to the selected room's shell. Ctrl+B, paging
// and the selection keys are kept by the app.
func (m *Model) handleTerminalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case keys.CtrlB:
		m.focusSidebar()
		m.updateFooterContext()
		return m, nil
	case keys.PgUp:
		m.scrollPage(1)
		return m, nil
	case keys.PgDown:
		m.scrollPage(-1)
		return m, nil
	case keys.ShiftUp:
		m.pane.ExtendSelection(0, -1)
		return m, nil
	case keys.ShiftDown:
		m.pane.ExtendSelection(0, 1)
		return m, nil
	case keys.ShiftLeft:
		m.pane.ExtendSelection(-1, 0)
		return m, nil
	case keys.ShiftRight:
		m.pane.ExtendSelection(1, 0)
		return m, nil
	case keys.SuperC, keys.MetaC:
		if m.pane.HasTextSelection() {
			return m, m.pane.CopySelectedText()
		}
		return m, nil
	}

	sess := m.selectedSession()
	if sess == nil {
		return m, nil
	}
	data := terminal.TranslateKey(msg, sess.AppCursor())
	if len(data) == 0 {
		return m, nil
	}
	m.pane.SelectionClear()
	if err := m.sessions.WriteInput(sess.Path, data); err != nil {
		m.log.Debug("key not delivered", "room", sess.Path, "error", err)
		return m, nil
	}
	m.paneDirty = true
	return m, nil
}

// scrollPage moves the selected shell's scrollback by one screen. Positive
// pages go back in history.
func (m *Model) scrollPage(pages int) {
	sess := m.selectedSession()
	if sess == nil {
		return
	}
	_, rows := ui.GetViewContext().ShellSize()
	sess.ScrollBy(pages * rows)
	m.refreshPane()
	m.updateFooterContext()
}

// handlePaste delivers pasted text to the focused shell.
func (m *Model) handlePaste(text string) (tea.Model, tea.Cmd) {
	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(tea.PasteMsg{Content: text})
		m.modal = modal
		return m, cmd
	}
	if m.focus != FocusTerminal {
		return m, nil
	}
	sess := m.selectedSession()
	if sess == nil {
		return m, nil
	}
	if err := m.sessions.Paste(sess.Path, text); err != nil {
		return m, m.ShowFlashError("Paste error: " + rerrors.UserMessage(err))
	}
	m.paneDirty = true
	return m, nil
}

// handleMenuAction runs a context menu entry.
func (m *Model) handleMenuAction(action ui.MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case ui.MenuCopy:
		if !m.pane.HasTextSelection() {
			return m, m.ShowFlashInfo("No selection to copy")
		}
		return m, tea.Batch(m.pane.CopySelectedText(), m.ShowFlashSuccess("Selection copied"))
	case ui.MenuPaste:
		text, err := m.clip.ReadText()
		if err != nil {
			return m, m.ShowFlashError("Paste failed: " + err.Error())
		}
		m.focusTerminal()
		return m.handlePaste(text)
	}
	return m, nil
}

// updateFooterContext tells the footer which bindings apply.
func (m *Model) updateFooterContext() {
	sess := m.selectedSession()
	scrolled := sess != nil && sess.ScrollOffset() > 0
	m.footer.SetContext(m.selectedRoom() != nil, m.focus == FocusSidebar, sess != nil, scrolled)
}
