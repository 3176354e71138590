package ui

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// SidebarWidth is the fixed width of the room list, borders included
	SidebarWidth = 40

	// MinTerminalWidth and MinTerminalHeight bound the layout from below
	MinTerminalWidth  = 60
	MinTerminalHeight = 10
)

// Modal dimensions
const (
	// ModalWidth is the default width of modals
	ModalWidth = 60

	// ModalInputCharLimit is the character limit for modal text inputs
	ModalInputCharLimit = 256

	// ModalInputWidth is the width of modal text inputs
	ModalInputWidth = 50

	// HelpModalMaxVisible is the number of help rows shown at once
	HelpModalMaxVisible = 18
)

// Terminal pane scrolling
const (
	// WheelScrollLines is how far one mouse wheel step scrolls the scrollback
	WheelScrollLines = 3
)
