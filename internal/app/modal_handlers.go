package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	rerrors "github.com/zhubert/rooms/internal/errors"
	"github.com/zhubert/rooms/internal/keys"
	"github.com/zhubert/rooms/internal/ui/modals"
)

// handleModalKey routes keys to the visible modal.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch s := m.modal.State.(type) {
	case *modals.HelpState:
		return m.handleHelpModal(msg, s)
	case *modals.CreateRoomState:
		return m.handleCreateModal(msg, s)
	case *modals.RenameRoomState:
		return m.handleRenameModal(msg, s)
	case *modals.ConfirmDeleteState:
		return m.handleConfirmDeleteModal(msg, s)
	}
	return m, nil
}

func (m *Model) handleHelpModal(msg tea.KeyPressMsg, state *modals.HelpState) (tea.Model, tea.Cmd) {
	key := msg.String()
	if state.IsFiltering() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return m, cmd
	}
	switch key {
	case keys.Escape, "?", "q":
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		sel := state.GetSelectedShortcut()
		if sel == nil {
			return m, nil
		}
		shortcutKey, ok := shortcutKeyFor(sel.Key)
		m.modal.Hide()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return modals.HelpShortcutTriggeredMsg{Key: shortcutKey}
		}
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

func (m *Model) handleCreateModal(msg tea.KeyPressMsg, state *modals.CreateRoomState) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		if state.Step == modals.CreateStepName {
			name, err := m.resolveCreateName(strings.TrimSpace(state.GetName()))
			if err != nil {
				m.modal.SetError(rerrors.UserMessage(err))
				return m, nil
			}
			m.modal.SetError("")
			state.Advance(name)
			return m, nil
		}
		name, branch := state.ResolvedName(), strings.TrimSpace(state.GetBranch())
		m.modal.Hide()
		return m.startCreate(name, branch)
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

func (m *Model) handleRenameModal(msg tea.KeyPressMsg, state *modals.RenameRoomState) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		return m.beginRename(state.RoomName, strings.TrimSpace(state.GetNewName()))
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleConfirmDeleteModal answers the delete prompt. y and n decide at
// once; Enter takes the highlighted button.
func (m *Model) handleConfirmDeleteModal(msg tea.KeyPressMsg, state *modals.ConfirmDeleteState) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Escape, "n", "N":
		m.modal.Hide()
		return m, m.ShowFlashInfo("Delete cancelled")
	case "y", "Y":
		return m.confirmDelete(state)
	case keys.Enter:
		if state.Confirmed() {
			return m.confirmDelete(state)
		}
		m.modal.Hide()
		return m, m.ShowFlashInfo("Delete cancelled")
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

func (m *Model) confirmDelete(state *modals.ConfirmDeleteState) (tea.Model, tea.Cmd) {
	m.modal.Hide()
	for _, v := range m.views {
		if v.Path == state.Target.Path {
			return m.beginDelete(v)
		}
	}
	return m, m.ShowFlashWarning("Room " + state.Target.Name + " no longer exists")
}
