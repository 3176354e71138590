// Package ui provides the user interface components for the rooms TUI.
//
// # Overview
//
// The ui package implements the visual components of rooms using the Bubble
// Tea framework and Lipgloss styling library. Components are plain structs
// with Update and View methods; the app package owns them and routes
// messages.
//
// # Layout System
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├──────────────┬──────────────────────────────────────┤
//	│              │ room title                           │
//	│   Sidebar    │                                      │
//	│  (40 cols)   │        Terminal Pane                 │
//	│              │                                      │
//	├──────────────┴──────────────────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// The sidebar can be hidden, in which case the terminal pane takes the full
// width. All size calculations go through ViewContext.
//
// # Components
//
// Header: application title, repository and the selected room's branch.
//
// Footer: context-aware key bindings, replaced by flash messages while one
// is showing.
//
// Sidebar: rooms grouped into Active, Inactive and Failed sections, with
// status icons and markers for primary, prunable and locked worktrees.
//
// TerminalPane: renders a terminal.Snapshot cell by cell in the current
// theme's palette. Supports mouse selection, scrollback offset display and
// a right-click ContextMenu.
//
// Modal: popup dialogs whose states live in the modals subpackage.
//
// # Styles
//
// Styles are rebuilt from the active Theme by SetTheme. The terminal
// palette and modal styles follow the theme as well.
package ui
