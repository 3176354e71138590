package modals

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// DeleteTarget describes the room shown in the delete confirmation.
type DeleteTarget struct {
	Name   string
	Path   string
	Branch string // empty when detached

	// Dirty summary, display only
	DirtySummary string
	DirtyFiles   []string
	ProbeError   string
}

// ConfirmDeleteState asks before removing a worktree. The branch is kept.
type ConfirmDeleteState struct {
	Target  DeleteTarget
	confirm bool
	form    *huh.Form
}

func (*ConfirmDeleteState) modalState() {}

func (s *ConfirmDeleteState) Title() string { return "Delete Room?" }

func (s *ConfirmDeleteState) Help() string {
	return "left/right: choose  y/n: answer  Enter: confirm  Esc: cancel"
}

func (s *ConfirmDeleteState) Render() string {
	branch := s.Target.Branch
	if branch == "" {
		branch = "(detached)"
	}

	parts := []string{
		ModalTitleStyle.Render(s.Title()),
		renderValue(s.Target.Name),
		lipgloss.NewStyle().Foreground(ColorTextMuted).Render("  " + TruncatePath(s.Target.Path, ModalInputWidth)),
		lipgloss.NewStyle().Foreground(ColorTextMuted).Render("  branch " + branch + " is kept"),
	}

	switch {
	case s.Target.ProbeError != "":
		parts = append(parts, lipgloss.NewStyle().
			Foreground(ColorWarning).
			MarginTop(1).
			Render("Could not check for changes: "+s.Target.ProbeError))
	case len(s.Target.DirtyFiles) > 0:
		warn := lipgloss.NewStyle().Foreground(ColorWarning).MarginTop(1)
		files := make([]string, len(s.Target.DirtyFiles))
		for i, f := range s.Target.DirtyFiles {
			files[i] = "    " + f
		}
		parts = append(parts,
			warn.Render("Uncommitted changes: "+s.Target.DirtySummary),
			lipgloss.NewStyle().Foreground(ColorTextMuted).Render(strings.Join(files, "\n")),
		)
	default:
		parts = append(parts, lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			MarginTop(1).
			Render(s.Target.DirtySummary))
	}

	parts = append(parts, "", s.form.View(), ModalHelpStyle.Render(s.Help()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *ConfirmDeleteState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Confirmed reports whether "Delete" is highlighted.
func (s *ConfirmDeleteState) Confirmed() bool {
	return s.confirm
}

// NewConfirmDeleteState creates a confirmation defaulting to "Cancel".
func NewConfirmDeleteState(target DeleteTarget) *ConfirmDeleteState {
	s := &ConfirmDeleteState{Target: target}
	s.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Remove this worktree?").
			Description("Uncommitted work in it is lost.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&s.confirm),
	)).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(ModalWidth - 6)

	initHuhForm(s.form)
	return s
}
