package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bitsnbytes/bnbkiosk/internal/shelf"
	"github.com/bitsnbytes/bnbkiosk/internal/telemetry"
)

const maxPatternBuf = 32

// ---------------------------------------------------------------------------
// Standby lock screen
// ---------------------------------------------------------------------------

// updateStandby consumes digit presses into the unlock pattern buffer. The
// console unlocks when the buffer ends with the configured admin pattern,
// matching from the most recent keystrokes so earlier mistypes are harmless.
func (m model) updateStandby(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyName := normalizeKeyName(msg.String())

	if len(keyName) == 1 && keyName[0] >= '0' && keyName[0] <= '9' {
		m.patternBuf += keyName
		if len(m.patternBuf) > maxPatternBuf {
			m.patternBuf = m.patternBuf[len(m.patternBuf)-maxPatternBuf:]
		}
		if pattern := m.cfg.Kiosk.AdminPattern; pattern != "" && hasSuffix(m.patternBuf, pattern) {
			m.locked = false
			m.patternBuf = ""
			m.activeTab = tabShelves
			m.status = "Unlocked."
			m.log.Info().Msg("console unlocked")
			return m, m.recordAuditCmd("unlock", "")
		}
		return m, nil
	}

	binding := m.keys.Lookup(keyName, scopeStandby)
	if binding == nil {
		return m, nil
	}
	switch binding.Action {
	case actionClearEntry:
		m.patternBuf = ""
		return m, nil
	case actionExit:
		return m.requestExit()
	}
	return m, nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// ---------------------------------------------------------------------------
// Main (unlocked) key dispatch
// ---------------------------------------------------------------------------

func (m model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyName := normalizeKeyName(msg.String())
	scope := m.tabScope()
	binding := m.keys.Lookup(keyName, scope)
	if binding == nil {
		return m, nil
	}

	switch binding.Action {
	case actionExit:
		return m.requestExit()
	case actionNextTab:
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil
	case actionPrevTab:
		m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		return m, nil
	case actionLock:
		m.locked = true
		m.patternBuf = ""
		m.status = "Locked. Enter admin pattern."
		m.log.Info().Msg("console locked")
		return m, m.recordAuditCmd("lock", "")
	}

	switch scope {
	case scopeShelves:
		return m.updateShelvesTab(binding, keyName)
	case scopeItems:
		return m.updateItemsTab(binding, keyName)
	case scopeSystem:
		return m.updateSystemTab(binding, keyName)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Shelves tab
// ---------------------------------------------------------------------------

func (m model) updateShelvesTab(binding *Binding, keyName string) (tea.Model, tea.Cmd) {
	switch binding.Action {
	case actionNavigate:
		delta := 1
		if keyName == "k" || keyName == "up" {
			delta = -1
		}
		if n := len(m.shelfRows); n > 0 {
			m.shelfCursor = (m.shelfCursor + delta + n) % n
		}
		return m, nil
	case actionSlot:
		delta := 1
		if keyName == "h" || keyName == "left" {
			delta = -1
		}
		m.slotCursor = (m.slotCursor + delta + shelf.SlotsPerShelf) % shelf.SlotsPerShelf
		return m, nil
	case actionTare:
		return m.openTareModal()
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Items tab
// ---------------------------------------------------------------------------

func (m model) updateItemsTab(binding *Binding, keyName string) (tea.Model, tea.Cmd) {
	switch binding.Action {
	case actionNavigate:
		delta := 1
		if keyName == "k" || keyName == "up" {
			delta = -1
		}
		m.moveItemCursor(delta)
		return m, nil
	case actionSearch:
		m.searchOpen = true
		m.searchQuery = ""
		m.searchCursor = 0
		m.searchResults = nil
		return m, nil
	case actionRefresh:
		m.status = "Reloading catalog…"
		return m, m.loadItemsCmd()
	}
	return m, nil
}

func (m *model) moveItemCursor(delta int) {
	n := len(m.items)
	if n == 0 {
		return
	}
	m.itemCursor += delta
	if m.itemCursor < 0 {
		m.itemCursor = 0
	}
	if m.itemCursor >= n {
		m.itemCursor = n - 1
	}
	visible := m.visibleRows()
	if m.itemCursor < m.itemTop {
		m.itemTop = m.itemCursor
	}
	if m.itemCursor >= m.itemTop+visible {
		m.itemTop = m.itemCursor - visible + 1
	}
}

// ---------------------------------------------------------------------------
// System tab
// ---------------------------------------------------------------------------

func (m model) updateSystemTab(binding *Binding, keyName string) (tea.Model, tea.Cmd) {
	switch binding.Action {
	case actionNavigate:
		delta := 1
		if keyName == "k" || keyName == "up" {
			delta = -1
		}
		m.auditTop += delta
		if m.auditTop < 0 {
			m.auditTop = 0
		}
		if last := len(m.auditRows) - 1; m.auditTop > last && last >= 0 {
			m.auditTop = last
		}
		return m, nil
	case actionDoors:
		m.doorsOpen = !m.doorsOpen
		return m, m.hardwareCmd("set_doors", m.doorsOpen)
	case actionHatch:
		m.hatchOpen = !m.hatchOpen
		return m, m.hardwareCmd("set_hatch", m.hatchOpen)
	}
	return m, nil
}

// hardwareCmd publishes an actuation command to the shelf gateway and logs
// it to the audit trail.
func (m model) hardwareCmd(action string, open bool) tea.Cmd {
	feed := m.feed
	log := m.log
	detail := "close"
	if open {
		detail = "open"
	}
	publish := func() tea.Msg {
		if feed == nil {
			return nil
		}
		if err := feed.Publish(telemetry.Command{Action: action, Value: open}); err != nil {
			log.Warn().Err(err).Str("action", action).Msg("hardware command failed")
		}
		return nil
	}
	return tea.Batch(publish, m.recordAuditCmd(action, detail))
}
