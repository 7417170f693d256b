package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Styles — Catppuccin Mocha themed
// ---------------------------------------------------------------------------

var (
	// Section titles
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	// Header bar (spans full width)
	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	// App name in header
	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	// Tab styles
	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Background(colorMantle)

	// Loading / status text
	statusStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	// Footer bar
	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	// Status bar (above footer)
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	// Section containers
	listBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	// Modal overlay
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	// Dimmed base screen beneath a modal
	dimStyle = lipgloss.NewStyle().Foreground(colorSurface2)

	// Help key styling
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	// Table styles
	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(colorSubtext0).
				Bold(true)

	onlineStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	offlineStyle = lipgloss.NewStyle().Foreground(colorError)

	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	errorTextStyle = lipgloss.NewStyle().Foreground(colorError)

	dialogButtonStyle = lipgloss.NewStyle().
				Foreground(colorSubtext0).
				Background(colorSurface0).
				Padding(0, 1)

	dialogButtonFocusStyle = lipgloss.NewStyle().
				Foreground(colorMantle).
				Background(colorAccent).
				Bold(true).
				Padding(0, 1)

	// Scroll indicator
	scrollStyle = lipgloss.NewStyle().Foreground(colorOverlay1)
)

// ---------------------------------------------------------------------------
// Tab names
// ---------------------------------------------------------------------------

var tabNames = []string{"Shelves", "Items", "System"}

// ---------------------------------------------------------------------------
// Section & chrome rendering
// ---------------------------------------------------------------------------

func renderHeader(appName string, activeTab, width int) string {
	name := headerAppStyle.Render(appName)

	var tabs []string
	for i, tab := range tabNames {
		if i == activeTab {
			tabs = append(tabs, activeTabStyle.Render(tab))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tab))
		}
	}
	tabBar := tabSepStyle.Render(" ") + strings.Join(tabs, tabSepStyle.Render("│"))

	line1Content := name + "  " + tabBar

	if width <= 0 {
		return headerBarStyle.Render(line1Content)
	}
	return headerBarStyle.Width(width).Render(line1Content)
}

func (m model) renderSection(title, content string) string {
	contentWidth := m.sectionContentWidth()
	header := padRight(titleStyle.Render(title), contentWidth)
	sepStyle := lipgloss.NewStyle().Foreground(colorSurface2)
	separator := sepStyle.Render(strings.Repeat("─", contentWidth))
	sectionContent := header + "\n" + separator + "\n" + content
	section := listBoxStyle.Width(m.sectionWidth()).Render(sectionContent)
	if m.width == 0 {
		return section
	}
	return lipgloss.Place(m.width, lipgloss.Height(section), lipgloss.Center, lipgloss.Top, section)
}

func (m model) renderFooter(bindings []key.Binding) string {
	// Every character carries the footer background.
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)

	if m.width == 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(m.width).Render(content)
}

func (m model) renderStatus(text string) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	if m.width == 0 {
		return statusBarStyle.Render(flat)
	}
	return statusBarStyle.Width(m.width).Render(flat)
}

func (m model) placeWithFooter(body, statusLine, footer string) string {
	if m.height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := m.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(m.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	// Full-width lines prevent ghosting from previous frames
	lines := splitLines(main)
	for i, line := range lines {
		lines[i] = padRight(line, m.width)
	}
	main = strings.Join(lines, "\n")
	return main + "\n" + statusLine + "\n" + footer
}

// ---------------------------------------------------------------------------
// Modal overlay
// ---------------------------------------------------------------------------

// composeModal layers popup over the base screen. When dim is set the base
// is repainted in a muted foreground first, so the modal is the only lit
// surface on screen.
func (m model) composeModal(base, statusLine, footer, popup string, dim bool) string {
	baseView := m.placeWithFooter(base, statusLine, footer)
	if dim {
		baseView = dimLines(baseView)
	}
	if m.height == 0 || m.width == 0 {
		return baseView + "\n\n" + popup
	}
	modal := modalStyle.Render(popup)
	lines := splitLines(modal)
	modalWidth := maxLineWidth(lines)
	modalHeight := len(lines)

	targetHeight := m.height - 2
	if targetHeight < 1 {
		targetHeight = 1
	}
	x := (m.width - modalWidth) / 2
	if x < 0 {
		x = 0
	}
	y := (targetHeight - modalHeight) / 2
	if y < 0 {
		y = 0
	}
	return overlayAt(baseView, modal, x, y, m.width, targetHeight)
}

// ---------------------------------------------------------------------------
// Data rendering
// ---------------------------------------------------------------------------

func renderShelfTable(shelves []shelfRow, shelfCursor, slotCursor, width int) string {
	if len(shelves) == 0 {
		return statusStyle.Render("No shelves registered.")
	}
	var lines []string
	header := fmt.Sprintf("  %-14s %-20s %-8s  %s", "Label", "MAC", "Status", "Slots (item · est · g)")
	lines = append(lines, tableHeaderStyle.Render(header))

	for i, row := range shelves {
		prefix := "  "
		if i == shelfCursor {
			prefix = cursorStyle.Render("> ")
		}
		status := onlineStyle.Render("online")
		if !row.online {
			status = offlineStyle.Render("OFFLINE")
		}
		lines = append(lines, fmt.Sprintf("%s%-14s %-20s %s",
			prefix, truncate(row.label, 14), row.mac, status))
		for s, slot := range row.slots {
			marker := "   "
			if i == shelfCursor && s == slotCursor {
				marker = cursorStyle.Render(" ◆ ")
			}
			name := slot.itemName
			if name == "" {
				name = "(unassigned)"
			}
			reading := "—"
			if slot.hasReading {
				reading = fmt.Sprintf("%d · %.1fg", slot.units, slot.grams)
			}
			lines = append(lines, fmt.Sprintf("%s  slot %d  %-28s %s",
				marker, s, truncate(name, 28), reading))
		}
	}
	for i, line := range lines {
		lines[i] = truncate(line, width)
	}
	return strings.Join(lines, "\n")
}

func renderItemTable(items []itemRow, cursor, topIndex, visible, width int) string {
	nameWidth := 30
	upcWidth := 14
	priceWidth := 8

	header := fmt.Sprintf("  %-*s  %-*s  %*s  %s", nameWidth, "Name", upcWidth, "UPC", priceWidth, "Price", "Avg g")
	lines := []string{tableHeaderStyle.Render(header)}

	end := topIndex + visible
	if end > len(items) {
		end = len(items)
	}
	for i := topIndex; i < end; i++ {
		row := items[i]
		prefix := "  "
		if i == cursor {
			prefix = cursorStyle.Render("> ")
		}
		lines = append(lines, fmt.Sprintf("%s%-*s  %-*s  %*.2f  %.1f",
			prefix, nameWidth, truncate(row.name, nameWidth), upcWidth, row.upc, priceWidth, row.price, row.avgWeightG))
	}

	total := len(items)
	if total > 0 && visible > 0 {
		start := topIndex + 1
		endIdx := topIndex + visible
		if endIdx > total {
			endIdx = total
		}
		lines = append(lines, scrollStyle.Render(fmt.Sprintf("── showing %d-%d of %d ──", start, endIdx, total)))
	}

	for i, line := range lines {
		lines[i] = truncate(line, width)
	}
	return strings.Join(lines, "\n")
}
