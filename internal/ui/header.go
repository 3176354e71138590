package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const headerTitle = " rooms"

// Header represents the top header bar
type Header struct {
	width    int
	roomName string
	branch   string
	repoName string
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetRepoName sets the repository shown after the title
func (h *Header) SetRepoName(name string) {
	h.repoName = name
}

// SetRoom sets the focused room and its branch. An empty branch means a
// detached HEAD.
func (h *Header) SetRoom(name, branch string) {
	h.roomName = name
	h.branch = branch
}

// View renders the header
func (h *Header) View() string {
	titleText := headerTitle
	if h.repoName != "" {
		titleText += " · " + h.repoName
	}

	var rightText, branchMarker string
	if h.roomName != "" {
		rightText = h.roomName
		if h.branch != "" {
			branchMarker = "(" + h.branch + ")"
		} else {
			branchMarker = "(detached)"
		}
		rightText += " " + branchMarker + " "
	}

	paddingLen := h.width - ansi.StringWidth(titleText) - ansi.StringWidth(rightText)
	if paddingLen < 0 {
		paddingLen = 0
	}

	fullContent := titleText + strings.Repeat(" ", paddingLen) + rightText
	if h.width > 0 {
		fullContent = ansi.Truncate(fullContent, h.width, "…")
	}
	return h.renderGradient(fullContent, branchMarker)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders the content with a theme-aware gradient background.
// The branch marker, when present, is muted.
func (h *Header) renderGradient(content, branchMarker string) string {
	if len(content) == 0 {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)

	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	runes := []rune(content)
	markerStart, markerEnd := -1, -1
	if branchMarker != "" {
		if i := strings.LastIndex(content, branchMarker); i >= 0 {
			markerStart = len([]rune(content[:i]))
			markerEnd = markerStart + len([]rune(branchMarker))
		}
	}

	width := len(runes)
	titleLen := len([]rune(headerTitle))
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)
		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)
		bgColor := lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))

		style := lipgloss.NewStyle().
			Background(bgColor).
			Bold(i < titleLen)

		if i >= markerStart && i < markerEnd {
			style = style.Foreground(mutedColor)
		} else {
			style = style.Foreground(textColor)
		}

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
