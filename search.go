package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
)

// ---------------------------------------------------------------------------
// Item search overlay
// ---------------------------------------------------------------------------

const maxSearchResults = 8

// rankItems orders the catalog by how well each item name matches the query.
// Substring matches rank first, then everything else by edit distance, so a
// partial word still finds the item even with a typo or two.
func rankItems(items []itemRow, query string) []itemRow {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	type scored struct {
		row  itemRow
		sub  bool
		dist int
	}
	ranked := make([]scored, 0, len(items))
	for _, it := range items {
		name := strings.ToUpper(it.name)
		ranked = append(ranked, scored{
			row:  it,
			sub:  strings.Contains(name, q),
			dist: levenshtein.ComputeDistance(name, q),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].sub != ranked[j].sub {
			return ranked[i].sub
		}
		return ranked[i].dist < ranked[j].dist
	})
	n := len(ranked)
	if n > maxSearchResults {
		n = maxSearchResults
	}
	out := make([]itemRow, 0, n)
	for _, s := range ranked[:n] {
		out = append(out, s.row)
	}
	return out
}

func (m model) updateItemSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyName := normalizeKeyName(msg.String())

	if binding := m.keys.Lookup(keyName, scopeItemSearch); binding != nil {
		switch binding.Action {
		case actionClose:
			m.searchOpen = false
			m.searchQuery = ""
			m.searchResults = nil
			return m, nil
		case actionSelect:
			return m.jumpToSearchResult()
		}
	}

	switch keyName {
	case "ctrl+c":
		return m.requestExit()
	case "backspace":
		if len(m.searchQuery) > 0 {
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-1]
		}
	case "up", "ctrl+p":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil
	case "down", "ctrl+n":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
		return m, nil
	default:
		if len(msg.Runes) == 1 && msg.Runes[0] >= ' ' && msg.Runes[0] != 127 {
			m.searchQuery += string(msg.Runes)
		} else {
			return m, nil
		}
	}

	m.searchResults = rankItems(m.items, m.searchQuery)
	if m.searchCursor >= len(m.searchResults) {
		m.searchCursor = 0
	}
	return m, nil
}

// jumpToSearchResult closes the overlay and moves the items cursor onto the
// selected result.
func (m model) jumpToSearchResult() (tea.Model, tea.Cmd) {
	if m.searchCursor < len(m.searchResults) {
		target := m.searchResults[m.searchCursor].id
		for i, it := range m.items {
			if it.id == target {
				m.itemCursor = i
				m.itemTop = 0
				m.moveItemCursor(0)
				break
			}
		}
	}
	m.searchOpen = false
	m.searchQuery = ""
	m.searchResults = nil
	return m, nil
}

func (m model) searchView() string {
	lines := []string{
		titleStyle.Render("Find item"),
		"",
		"/ " + m.searchQuery + cursorStyle.Render("▌"),
		"",
	}
	if len(m.searchResults) == 0 {
		lines = append(lines, statusStyle.Render("(type to search)"))
	}
	for i, it := range m.searchResults {
		prefix := "  "
		if i == m.searchCursor {
			prefix = cursorStyle.Render("> ")
		}
		lines = append(lines, prefix+truncate(fmt.Sprintf("%s  %.2f", it.name, it.price), 40))
	}
	return strings.Join(lines, "\n")
}
