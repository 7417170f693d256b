package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/bitsnbytes/bnbkiosk/internal/config"
	"github.com/bitsnbytes/bnbkiosk/internal/shelf"
	"github.com/bitsnbytes/bnbkiosk/internal/store"
	"github.com/bitsnbytes/bnbkiosk/internal/telemetry"
)

const appName = "bnbkiosk"

// Tab indices
const (
	tabShelves = 0
	tabItems   = 1
	tabSystem  = 2
	tabCount   = 3
)

// ---------------------------------------------------------------------------
// View row types — snapshots taken from the shelf manager and the store so
// View never touches shared state.
// ---------------------------------------------------------------------------

type slotRow struct {
	itemName   string
	hasReading bool
	grams      float64
	units      int
}

type shelfRow struct {
	mac    string
	label  string
	online bool
	slots  []slotRow
}

type itemRow struct {
	id         int64
	name       string
	upc        string
	price      float64
	avgWeightG float64
}

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type itemsLoadedMsg struct {
	items []store.Item
	err   error
}

type auditLoadedMsg struct {
	events []store.AuditEvent
	err    error
}

type auditRecordedMsg struct {
	err error
}

type slotSavedMsg struct {
	err error
}

type sampleMsg telemetry.Sample

type tickMsg time.Time

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	cfg  config.Config
	log  zerolog.Logger
	keys *KeyRegistry

	width  int
	height int
	status string

	sessionID string

	locked     bool
	patternBuf string

	activeTab int

	shelves     *shelf.Manager
	shelfRows   []shelfRow
	shelfCursor int
	slotCursor  int

	items      []itemRow
	itemCursor int
	itemTop    int

	searchOpen    bool
	searchQuery   string
	searchResults []itemRow
	searchCursor  int

	tare *tareState

	auditRows []store.AuditEvent
	auditTop  int

	doorsOpen bool
	hatchOpen bool

	exit   exitDialog
	exitFn func() error

	itemRepo  *store.ItemRepo
	shelfRepo *store.ShelfRepo
	auditRepo *store.AuditRepo
	feed      *telemetry.Client
}

type deps struct {
	shelves   *shelf.Manager
	itemRepo  *store.ItemRepo
	shelfRepo *store.ShelfRepo
	auditRepo *store.AuditRepo
	feed      *telemetry.Client
	exitFn    func() error
	sessionID string
}

func newModel(cfg config.Config, log zerolog.Logger, keys *KeyRegistry, d deps) model {
	shelves := d.shelves
	if shelves == nil {
		shelves = shelf.NewManager(time.Duration(cfg.Telemetry.OfflineAfterSec) * time.Second)
	}
	return model{
		cfg:       cfg,
		log:       log,
		keys:      keys,
		locked:    true,
		status:    "Locked. Enter admin pattern.",
		sessionID: d.sessionID,
		shelves:   shelves,
		itemRepo:  d.itemRepo,
		shelfRepo: d.shelfRepo,
		auditRepo: d.auditRepo,
		feed:      d.feed,
		exitFn:    d.exitFn,
	}
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func (m model) loadItemsCmd() tea.Cmd {
	repo := m.itemRepo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		items, err := repo.List(context.Background())
		return itemsLoadedMsg{items: items, err: err}
	}
}

func (m model) loadAuditCmd() tea.Cmd {
	repo := m.auditRepo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		events, err := repo.Recent(context.Background(), 50)
		return auditLoadedMsg{events: events, err: err}
	}
}

func (m model) recordAuditCmd(action, detail string) tea.Cmd {
	repo := m.auditRepo
	if repo == nil {
		return nil
	}
	sessionID := m.sessionID
	return func() tea.Msg {
		_, err := repo.Record(context.Background(), sessionID, action, detail)
		return auditRecordedMsg{err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ---------------------------------------------------------------------------
// Bubble Tea interface: Init / Update / View
// ---------------------------------------------------------------------------

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadItemsCmd(), m.loadAuditCmd(), tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case itemsLoadedMsg:
		return m.handleItemsLoaded(msg)
	case auditLoadedMsg:
		return m.handleAuditLoaded(msg)
	case auditRecordedMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("audit write failed")
			return m, nil
		}
		return m, m.loadAuditCmd()
	case slotSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Save failed: %v", msg.err)
		}
		return m, nil
	case sampleMsg:
		return m.handleSample(msg)
	case tickMsg:
		m.refreshShelfRows(time.Time(msg))
		return m, tickCmd()
	case exitDoneMsg:
		return m.handleExitDone(msg)
	case tea.KeyMsg:
		if next, cmd, handled := m.dispatchOverlayKey(msg); handled {
			return next, cmd
		}
		if m.locked {
			return m.updateStandby(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m model) View() string {
	statusLine := m.renderStatus(m.status)
	footer := m.renderFooter(m.footerBindings())

	var base string
	if m.locked {
		base = m.standbyView()
	} else {
		header := renderHeader(appName, m.activeTab, m.width)
		var body string
		switch m.activeTab {
		case tabShelves:
			body = m.shelvesView()
		case tabItems:
			body = m.itemsView()
		case tabSystem:
			body = m.systemView()
		default:
			body = m.shelvesView()
		}
		base = header + "\n\n" + body
	}

	// Exit confirm outranks every other overlay and is the only one that
	// dims the screen behind it.
	if m.exit.open() {
		return m.composeModal(base, statusLine, footer, m.exitDialogView(), true)
	}
	if m.tare != nil {
		return m.composeModal(base, statusLine, footer, m.tareView(), false)
	}
	if m.searchOpen {
		return m.composeModal(base, statusLine, footer, m.searchView(), false)
	}
	return m.placeWithFooter(base, statusLine, footer)
}

// ---------------------------------------------------------------------------
// Per-tab views
// ---------------------------------------------------------------------------

func (m model) standbyView() string {
	mask := strings.Repeat("●", len(m.patternBuf))
	lines := []string{
		headerAppStyle.Render(m.cfg.Kiosk.Name),
		"",
		statusStyle.Render("Console locked"),
		"",
		"Pattern: " + cursorStyle.Render(mask),
	}
	body := strings.Join(lines, "\n")
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, body)
}

func (m model) shelvesView() string {
	content := renderShelfTable(m.shelfRows, m.shelfCursor, m.slotCursor, m.sectionContentWidth())
	return m.renderSection("Shelves", content)
}

func (m model) itemsView() string {
	content := renderItemTable(m.items, m.itemCursor, m.itemTop, m.visibleRows(), m.sectionContentWidth())
	return m.renderSection("Items", content)
}

func (m model) systemView() string {
	width := m.sectionContentWidth()

	stateOf := func(open bool) string {
		if open {
			return onlineStyle.Render("open")
		}
		return statusStyle.Render("closed")
	}
	hw := fmt.Sprintf("Doors: %s   Hatch: %s", stateOf(m.doorsOpen), stateOf(m.hatchOpen))

	var lines []string
	lines = append(lines, hw, "")
	lines = append(lines, tableHeaderStyle.Render("Recent events"))
	if len(m.auditRows) == 0 {
		lines = append(lines, statusStyle.Render("(none)"))
	}
	end := m.auditTop + m.visibleRows()
	if end > len(m.auditRows) {
		end = len(m.auditRows)
	}
	for _, ev := range m.auditRows[m.auditTop:end] {
		line := fmt.Sprintf("%s  %-12s %s",
			ev.CreatedAt.Format("15:04:05"), ev.Action, ev.Detail)
		lines = append(lines, truncate(line, width))
	}
	return m.renderSection("System", strings.Join(lines, "\n"))
}

// ---------------------------------------------------------------------------
// Message handlers
// ---------------------------------------------------------------------------

func (m model) handleItemsLoaded(msg itemsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = fmt.Sprintf("Catalog load failed: %v", msg.err)
		return m, nil
	}
	m.items = make([]itemRow, 0, len(msg.items))
	for _, it := range msg.items {
		m.items = append(m.items, itemRow{
			id:         it.ID,
			name:       it.Name,
			upc:        it.UPC,
			price:      it.Price,
			avgWeightG: it.AvgWeightG,
		})
	}
	if m.itemCursor >= len(m.items) {
		m.itemCursor = 0
		m.itemTop = 0
	}
	return m, nil
}

func (m model) handleAuditLoaded(msg auditLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Error().Err(msg.err).Msg("audit load failed")
		return m, nil
	}
	m.auditRows = msg.events
	if m.auditTop >= len(m.auditRows) {
		m.auditTop = 0
	}
	return m, nil
}

func (m model) handleSample(msg sampleMsg) (tea.Model, tea.Cmd) {
	s := telemetry.Sample(msg)
	if err := m.shelves.ApplySample(s.Mac, s.Values, s.At); err != nil {
		m.log.Debug().Err(err).Str("mac", s.Mac).Msg("sample rejected")
		return m, nil
	}
	m.refreshShelfRows(s.At)
	return m, nil
}

// refreshShelfRows rebuilds the render snapshot from the shelf manager.
func (m *model) refreshShelfRows(now time.Time) {
	stale := make(map[string]bool)
	for _, mac := range m.shelves.Stale(now) {
		stale[mac] = true
	}
	snapshot := m.shelves.Snapshot()
	rows := make([]shelfRow, 0, len(snapshot))
	for _, sh := range snapshot {
		row := shelfRow{
			mac:    sh.Mac,
			label:  sh.Label,
			online: !stale[sh.Mac],
		}
		for i := range sh.Slots {
			slot := sh.Slots[i]
			g, ok := slot.Grams()
			row.slots = append(row.slots, slotRow{
				itemName:   slot.ItemName,
				hasReading: ok,
				grams:      g,
				units:      slot.EstimatedUnits(),
			})
		}
		rows = append(rows, row)
	}
	m.shelfRows = rows
	if m.shelfCursor >= len(rows) {
		m.shelfCursor = 0
	}
}

// ---------------------------------------------------------------------------
// Layout helpers
// ---------------------------------------------------------------------------

func (m model) sectionWidth() int {
	if m.width == 0 {
		return 84
	}
	w := m.width - 4
	if w > 110 {
		w = 110
	}
	if w < 40 {
		w = 40
	}
	return w
}

func (m model) sectionContentWidth() int {
	return m.sectionWidth() - 4
}

func (m model) visibleRows() int {
	if m.cfg.UI.RowsPerPage > 0 {
		return m.cfg.UI.RowsPerPage
	}
	return 20
}

func (m model) footerBindings() []key.Binding {
	return m.keys.HelpBindings(m.activeScope())
}
