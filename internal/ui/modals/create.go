package modals

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Steps of the create prompt.
const (
	CreateStepName = iota
	CreateStepBranch
)

// CreateRoomState prompts for a room name and then a branch. An empty name
// means a generated one; an empty branch means the room name.
type CreateRoomState struct {
	Step        int
	NameInput   textinput.Model
	BranchInput textinput.Model
	BaseBranch  string // configured base for new branches, shown for context

	name string // resolved name after the first step
}

func (*CreateRoomState) modalState() {}

func (s *CreateRoomState) Title() string { return "New Room" }

func (s *CreateRoomState) Help() string {
	if s.Step == CreateStepName {
		return "Enter: next  Esc: cancel  (leave empty to generate)"
	}
	return "Enter: create  Esc: cancel  (leave empty to use the room name)"
}

func (s *CreateRoomState) Render() string {
	parts := []string{ModalTitleStyle.Render(s.Title())}

	if s.Step == CreateStepName {
		parts = append(parts,
			renderLabel("Room name:", false),
			inputStyle(true).Render(s.NameInput.View()),
		)
	} else {
		parts = append(parts,
			renderLabel("Room name:", false),
			renderValue(s.name),
			renderLabel("Branch:", true),
			inputStyle(true).Render(s.BranchInput.View()),
		)
		if s.BaseBranch != "" {
			parts = append(parts, lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true).
				Render("New branches start from "+s.BaseBranch))
		}
	}

	parts = append(parts, ModalHelpStyle.Render(s.Help()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *CreateRoomState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	if s.Step == CreateStepName {
		s.NameInput, cmd = s.NameInput.Update(msg)
	} else {
		s.BranchInput, cmd = s.BranchInput.Update(msg)
	}
	return s, cmd
}

// GetName returns the name as typed.
func (s *CreateRoomState) GetName() string {
	return s.NameInput.Value()
}

// Advance moves to the branch step with the resolved room name.
func (s *CreateRoomState) Advance(name string) {
	s.name = name
	s.Step = CreateStepBranch
	s.NameInput.Blur()
	s.BranchInput.Placeholder = name
	s.BranchInput.Focus()
}

// ResolvedName returns the name chosen in the first step.
func (s *CreateRoomState) ResolvedName() string {
	return s.name
}

// GetBranch returns the branch, defaulting to the room name.
func (s *CreateRoomState) GetBranch() string {
	if b := s.BranchInput.Value(); b != "" {
		return b
	}
	return s.name
}

// NewCreateRoomState creates the prompt focused on the name input.
func NewCreateRoomState(baseBranch string) *CreateRoomState {
	nameInput := textinput.New()
	nameInput.Placeholder = "leave empty for a generated name"
	nameInput.CharLimit = ModalInputCharLimit
	nameInput.SetWidth(ModalInputWidth)
	nameInput.Focus()

	branchInput := textinput.New()
	branchInput.CharLimit = ModalInputCharLimit
	branchInput.SetWidth(ModalInputWidth)

	return &CreateRoomState{
		Step:        CreateStepName,
		NameInput:   nameInput,
		BranchInput: branchInput,
		BaseBranch:  baseBranch,
	}
}
