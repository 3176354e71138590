package app

import (
	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/rooms/internal/keys"
	"github.com/zhubert/rooms/internal/ui/modals"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// This is the single source of truth for sidebar shortcuts.
type Shortcut struct {
	Key          string                              // The key binding (e.g., "a", "ctrl+b")
	Aliases      []string                            // Other keys that run the same handler
	DisplayKey   string                              // Display name in help; defaults to Key
	Description  string                              // Human-readable description
	Category     string                              // Section for help modal grouping
	RequiresRoom bool                                // Must have a room selected
	Handler      func(m *Model) (tea.Model, tea.Cmd) // Action to perform
	Condition    func(m *Model) bool                 // Optional extra condition
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryNavigation = "Navigation"
	CategoryRooms      = "Rooms"
	CategoryTerminal   = "Terminal (when focused)"
	CategoryGeneral    = "General"
)

// categoryOrder defines the display order of categories in the help modal
var categoryOrder = []string{
	CategoryNavigation,
	CategoryRooms,
	CategoryTerminal,
	CategoryGeneral,
}

// ShortcutRegistry holds the shortcuts available while the sidebar has
// focus. They also run from the help modal.
var ShortcutRegistry = []Shortcut{
	// Navigation
	{
		Key:          keys.Enter,
		DisplayKey:   "Enter",
		Description:  "Open room shell / prune stale worktree",
		Category:     CategoryNavigation,
		RequiresRoom: true,
		Handler:      shortcutEnter,
	},
	{
		Key:         keys.CtrlB,
		DisplayKey:  "ctrl-b",
		Description: "Show or hide the sidebar",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleSidebar,
	},
	{
		Key:         keys.CtrlT,
		DisplayKey:  "ctrl-t",
		Description: "Show or hide the terminal",
		Category:    CategoryNavigation,
		Handler:     shortcutTogglePane,
	},
	{
		Key:          keys.PgUp,
		DisplayKey:   "PgUp",
		Description:  "Scroll terminal back",
		Category:     CategoryNavigation,
		RequiresRoom: true,
		Handler:      shortcutPageUp,
		Condition:    func(m *Model) bool { return m.selectedSession() != nil },
	},
	{
		Key:          keys.PgDown,
		DisplayKey:   "PgDn",
		Description:  "Scroll terminal forward",
		Category:     CategoryNavigation,
		RequiresRoom: true,
		Handler:      shortcutPageDown,
		Condition:    func(m *Model) bool { return m.selectedSession() != nil },
	},

	// Rooms
	{
		Key:         "a",
		Description: "Create room (name and branch)",
		Category:    CategoryRooms,
		Handler:     shortcutCreate,
	},
	{
		Key:         "A",
		Description: "Create room with a generated name",
		Category:    CategoryRooms,
		Handler:     shortcutQuickCreate,
	},
	{
		Key:          "d",
		Aliases:      []string{keys.Delete, keys.Backspace},
		DisplayKey:   "d/Del",
		Description:  "Delete room (asks first)",
		Category:     CategoryRooms,
		RequiresRoom: true,
		Handler:      shortcutDelete,
	},
	{
		Key:          "D",
		Description:  "Delete room without asking",
		Category:     CategoryRooms,
		RequiresRoom: true,
		Handler:      shortcutDeleteNow,
	},
	{
		Key:          "r",
		Description:  "Rename room",
		Category:     CategoryRooms,
		RequiresRoom: true,
		Handler:      shortcutRename,
	},
	{
		Key:         "R",
		Description: "Refresh rooms from git",
		Category:    CategoryRooms,
		Handler:     shortcutRefresh,
	},

	// General
	{
		Key:         "q",
		Description: "Quit",
		Category:    CategoryGeneral,
		Handler:     shortcutQuit,
	},
}

// helpShortcut is defined separately to avoid initialization cycle.
// It references ShortcutRegistry, so it can't be in the registry itself.
var helpShortcut = Shortcut{
	Key:         "?",
	Description: "Show this help",
	Category:    CategoryGeneral,
}

// DisplayOnlyShortcuts are shown in help but not executable from the help modal.
var DisplayOnlyShortcuts = []Shortcut{
	{DisplayKey: "↑/↓ or j/k", Description: "Move through rooms", Category: CategoryNavigation},
	{DisplayKey: "Mouse wheel", Description: "Scroll terminal or room list", Category: CategoryNavigation},

	{DisplayKey: "ctrl-b", Description: "Back to the sidebar", Category: CategoryTerminal},
	{DisplayKey: "PgUp/PgDn", Description: "Scroll back one screen", Category: CategoryTerminal},
	{DisplayKey: "Mouse drag", Description: "Select text (auto-copies)", Category: CategoryTerminal},
	{DisplayKey: "shift-arrows", Description: "Extend selection", Category: CategoryTerminal},
	{DisplayKey: "Right click", Description: "Copy / paste menu", Category: CategoryTerminal},
	{DisplayKey: "ctrl-c", Description: "Interrupt (sent to the shell)", Category: CategoryTerminal},
}

func (s Shortcut) matches(key string) bool {
	if s.Key == key {
		return true
	}
	for _, a := range s.Aliases {
		if a == key {
			return true
		}
	}
	return false
}

// isShortcutApplicable checks the shortcut's guards against the current state.
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresRoom && m.selectedRoom() == nil {
		return false
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// ExecuteShortcut finds and executes a shortcut by key.
// Returns (model, cmd, true) if the shortcut was found and executed.
// Returns (model, nil, false) if the shortcut was not found or guards failed.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	if key == helpShortcut.Key {
		result, cmd := shortcutHelp(m)
		return result, cmd, true
	}

	for _, s := range ShortcutRegistry {
		if !s.matches(key) {
			continue
		}
		if s.RequiresRoom && m.selectedRoom() == nil {
			m.log.Debug("shortcut guard failed", "key", key, "reason", "no room selected")
			return m, m.ShowFlashWarning("No room selected"), true
		}
		if s.Condition != nil && !s.Condition(m) {
			m.log.Debug("shortcut guard failed", "key", key, "reason", "condition")
			return m, nil, false
		}
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// getApplicableHelpSections generates help modal sections from shortcuts that are
// applicable in the current application state.
func (m *Model) getApplicableHelpSections(registry []Shortcut, displayOnly []Shortcut) []modals.HelpSection {
	categories := make(map[string][]modals.HelpShortcut)

	for _, s := range registry {
		if !m.isShortcutApplicable(s) {
			continue
		}
		displayKey := s.DisplayKey
		if displayKey == "" {
			displayKey = s.Key
		}
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  displayKey,
			Desc: s.Description,
		})
	}

	for _, s := range displayOnly {
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  s.DisplayKey,
			Desc: s.Description,
		})
	}

	var sections []modals.HelpSection
	for _, cat := range categoryOrder {
		if shortcuts, ok := categories[cat]; ok && len(shortcuts) > 0 {
			sections = append(sections, modals.HelpSection{
				Title:     cat,
				Shortcuts: shortcuts,
			})
		}
	}
	return sections
}

// shortcutKeyFor maps a help entry back to the key that runs it.
func shortcutKeyFor(displayKey string) (string, bool) {
	all := append(ShortcutRegistry, helpShortcut)
	for _, s := range all {
		if s.DisplayKey == displayKey || (s.DisplayKey == "" && s.Key == displayKey) {
			return s.Key, true
		}
	}
	return "", false
}

// =============================================================================
// Shortcut Handlers
// =============================================================================

func shortcutEnter(m *Model) (tea.Model, tea.Cmd) {
	return m.enterSelected()
}

func shortcutToggleSidebar(m *Model) (tea.Model, tea.Cmd) {
	m.sidebarVisible = !m.sidebarVisible
	if !m.sidebarVisible {
		m.focus = FocusTerminal
		m.sidebar.SetFocused(false)
		m.pane.SetFocused(m.paneVisible)
	}
	m.updateSizes()
	return m, nil
}

func shortcutTogglePane(m *Model) (tea.Model, tea.Cmd) {
	m.paneVisible = !m.paneVisible
	m.updateSizes()
	return m, nil
}

func shortcutPageUp(m *Model) (tea.Model, tea.Cmd) {
	m.scrollPage(1)
	return m, nil
}

func shortcutPageDown(m *Model) (tea.Model, tea.Cmd) {
	m.scrollPage(-1)
	return m, nil
}

func shortcutCreate(m *Model) (tea.Model, tea.Cmd) {
	return m.showCreateModal()
}

func shortcutQuickCreate(m *Model) (tea.Model, tea.Cmd) {
	return m.quickCreate()
}

func shortcutDelete(m *Model) (tea.Model, tea.Cmd) {
	return m.requestDelete()
}

func shortcutDeleteNow(m *Model) (tea.Model, tea.Cmd) {
	return m.deleteSelected()
}

func shortcutRename(m *Model) (tea.Model, tea.Cmd) {
	return m.showRenameModal()
}

func shortcutRefresh(m *Model) (tea.Model, tea.Cmd) {
	return m, m.syncCmd(true)
}

func shortcutHelp(m *Model) (tea.Model, tea.Cmd) {
	// Include help shortcut in the registry for display purposes
	allShortcuts := append(ShortcutRegistry, helpShortcut)
	sections := m.getApplicableHelpSections(allShortcuts, DisplayOnlyShortcuts)
	m.modal.Show(modals.NewHelpStateFromSections(sections))
	return m, nil
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}
