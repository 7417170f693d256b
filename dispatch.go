package main

// ---------------------------------------------------------------------------
// Shared dispatch table: single source of truth for overlay/modal priority
// ---------------------------------------------------------------------------
//
// Two consumers read this table:
//   - Update (app.go)          — finds the active handler for a tea.KeyMsg
//   - footerBindings (app.go)  — finds the active scope for footer hints
//
// Adding a new overlay/modal: add one entry in the correct priority position.
// The exit confirm dialog stays first; nothing may intercept keys above it
// while it is open.

import tea "github.com/charmbracelet/bubbletea"

// overlayEntry defines one level in the overlay precedence chain.
// Guard returns true when this overlay is active.
type overlayEntry struct {
	name    string
	guard   func(m model) bool
	scope   func(m model) string
	handler func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd)
}

// overlayPrecedence returns the authoritative overlay priority table, ordered
// highest to lowest. The first matching guard wins. This is a function (not a
// package var) to avoid Go initialization cycles.
func overlayPrecedence() []overlayEntry {
	return []overlayEntry{
		{
			name:    "exitConfirm",
			guard:   func(m model) bool { return m.exit.open() },
			scope:   func(m model) string { return scopeExitConfirm },
			handler: func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) { return m.updateExitConfirm(msg) },
		},
		{
			name:    "tare",
			guard:   func(m model) bool { return m.tare != nil },
			scope:   func(m model) string { return scopeTareModal },
			handler: func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) { return m.updateTareModal(msg) },
		},
		{
			name:    "itemSearch",
			guard:   func(m model) bool { return m.searchOpen },
			scope:   func(m model) string { return scopeItemSearch },
			handler: func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) { return m.updateItemSearch(msg) },
		},
	}
}

// dispatchOverlayKey finds the first matching overlay and dispatches the key.
// Returns (model, cmd, true) if an overlay handled it, or (model, nil, false)
// if no overlay matched and the caller should continue with tab-level dispatch.
func (m model) dispatchOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	for _, entry := range overlayPrecedence() {
		if entry.guard(m) {
			result, cmd := entry.handler(m, msg)
			return result, cmd, true
		}
	}
	return m, nil, false
}

// activeScope returns the scope whose bindings currently apply: the
// highest-priority active overlay, the standby screen when locked, or the
// active tab.
func (m model) activeScope() string {
	for _, entry := range overlayPrecedence() {
		if entry.guard(m) {
			return entry.scope(m)
		}
	}
	if m.locked {
		return scopeStandby
	}
	return m.tabScope()
}

// tabScope resolves the active scope for tab-level dispatch (no overlay active).
func (m model) tabScope() string {
	switch m.activeTab {
	case tabShelves:
		return scopeShelves
	case tabItems:
		return scopeItems
	case tabSystem:
		return scopeSystem
	default:
		return scopeShelves
	}
}
