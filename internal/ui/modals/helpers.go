package modals

import (
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// TruncatePath truncates a path from the beginning with an ellipsis.
func TruncatePath(path string, maxLen int) string {
	w := ansi.StringWidth(path)
	if w <= maxLen {
		return path
	}
	return "…" + ansi.TruncateLeft(path, w-maxLen+1, "")
}

// renderLabel renders a muted field label.
func renderLabel(text string, marginTop bool) string {
	style := lipgloss.NewStyle().Foreground(ColorTextMuted)
	if marginTop {
		style = style.MarginTop(1)
	}
	return style.Render(text)
}

// renderValue renders a prominent value under a label.
func renderValue(text string) string {
	return lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		Render("  " + text)
}

// inputStyle frames the focused text input with a left border.
func inputStyle(focused bool) lipgloss.Style {
	if focused {
		return lipgloss.NewStyle().
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorPrimary).
			PaddingLeft(1)
	}
	return lipgloss.NewStyle().PaddingLeft(2)
}
