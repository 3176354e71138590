package modals

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// RenameRoomState prompts for a new room name. The branch is untouched.
type RenameRoomState struct {
	Path      string
	RoomName  string
	NameInput textinput.Model
}

func (*RenameRoomState) modalState() {}

func (s *RenameRoomState) Title() string { return "Rename Room" }

func (s *RenameRoomState) Help() string {
	return "Enter: save  Esc: cancel"
}

func (s *RenameRoomState) Render() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render(s.Title()),
		renderLabel("Current name:", false),
		renderValue(s.RoomName),
		renderLabel("New name:", true),
		inputStyle(true).Render(s.NameInput.View()),
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *RenameRoomState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.NameInput, cmd = s.NameInput.Update(msg)
	return s, cmd
}

// GetNewName returns the new name entered by the user
func (s *RenameRoomState) GetNewName() string {
	return s.NameInput.Value()
}

// NewRenameRoomState creates a rename prompt prefilled with the current
// name.
func NewRenameRoomState(path, currentName string) *RenameRoomState {
	nameInput := textinput.New()
	nameInput.Placeholder = "new room name"
	nameInput.CharLimit = ModalInputCharLimit
	nameInput.SetWidth(ModalInputWidth)
	nameInput.SetValue(currentName)
	nameInput.Focus()

	return &RenameRoomState{
		Path:      path,
		RoomName:  currentName,
		NameInput: nameInput,
	}
}
