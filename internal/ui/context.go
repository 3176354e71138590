package ui

import (
	"sync"

	"github.com/zhubert/rooms/internal/logger"
)

// ViewContext holds centralized layout calculations.
// All size calculations should go through this to avoid duplication.
type ViewContext struct {
	// Terminal dimensions
	TerminalWidth  int
	TerminalHeight int

	// Calculated dimensions
	HeaderHeight   int
	FooterHeight   int
	ContentHeight  int
	SidebarWidth   int // 0 when the sidebar is hidden
	TerminalPaneX  int // column where the terminal pane starts
	TerminalPaneW  int // terminal pane width, borders included
	SidebarVisible bool

	mu sync.Mutex
}

// Global view context instance
var (
	ctx     *ViewContext
	ctxOnce sync.Once
)

// GetViewContext returns the singleton ViewContext instance
func GetViewContext() *ViewContext {
	ctxOnce.Do(func() {
		ctx = &ViewContext{
			HeaderHeight:   HeaderHeight,
			FooterHeight:   FooterHeight,
			SidebarVisible: true,
		}
		logger.ComponentLogger("ui").Debug("ViewContext initialized")
	})
	return ctx
}

// UpdateTerminalSize recalculates all dimensions when the terminal size or
// sidebar visibility changes. Call it from the event loop.
func (v *ViewContext) UpdateTerminalSize(width, height int, sidebarVisible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Validate dimensions to prevent negative layout values
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if height < MinTerminalHeight {
		height = MinTerminalHeight
	}

	v.TerminalWidth = width
	v.TerminalHeight = height
	v.HeaderHeight = HeaderHeight
	v.FooterHeight = FooterHeight
	v.ContentHeight = height - v.HeaderHeight - v.FooterHeight
	v.SidebarVisible = sidebarVisible

	v.SidebarWidth = 0
	if sidebarVisible {
		v.SidebarWidth = SidebarWidth
	}
	v.TerminalPaneX = v.SidebarWidth
	v.TerminalPaneW = width - v.SidebarWidth

	logger.ComponentLogger("ui").Debug("terminal size updated",
		"width", width,
		"height", height,
		"contentHeight", v.ContentHeight,
		"sidebarWidth", v.SidebarWidth,
		"paneWidth", v.TerminalPaneW,
	)
}

// InnerWidth returns the usable width inside a panel with borders
func (v *ViewContext) InnerWidth(panelWidth int) int {
	return panelWidth - BorderSize
}

// InnerHeight returns the usable height inside a panel with borders
func (v *ViewContext) InnerHeight(panelHeight int) int {
	return panelHeight - BorderSize
}

// ShellSize returns the columns and rows available to a room's shell.
func (v *ViewContext) ShellSize() (cols, rows int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	cols = v.InnerWidth(v.TerminalPaneW)
	// One row of the inner area is the pane title.
	rows = v.InnerHeight(v.ContentHeight) - 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}
