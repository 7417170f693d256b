package main

import (
	"strings"
	"testing"
	"time"

	"github.com/bitsnbytes/bnbkiosk/internal/shelf"
	"github.com/bitsnbytes/bnbkiosk/internal/telemetry"
)

func TestUnlockPattern(t *testing.T) {
	m := testModel()
	if !m.locked {
		t.Fatal("console should start locked")
	}

	// Mistyped digits before the pattern are harmless: matching runs on the
	// most recent keystrokes.
	m = pressAll(t, m, "5", "5", "1", "3", "7", "9")
	if m.locked {
		t.Fatal("suffix match did not unlock")
	}
	if m.activeTab != tabShelves {
		t.Fatalf("unlock should land on shelves, got tab %d", m.activeTab)
	}
}

func TestUnlockIgnoresNonDigits(t *testing.T) {
	m := testModel()
	m = pressAll(t, m, "a", "1", "x", "3", "7", "9")
	// Letters are ignored entirely, so the digit sequence 1379 still runs.
	if m.locked {
		t.Fatal("letters should not break the digit sequence")
	}
}

func TestUnlockEscResetsBuffer(t *testing.T) {
	m := testModel()
	m = pressAll(t, m, "1", "3")
	m, _ = press(t, m, "esc")
	if m.patternBuf != "" {
		t.Fatalf("esc did not clear the buffer: %q", m.patternBuf)
	}
	m = pressAll(t, m, "7", "9")
	if !m.locked {
		t.Fatal("cleared buffer should not complete the pattern")
	}
}

func TestLockFromAnyTab(t *testing.T) {
	m := unlocked(t)
	m.activeTab = tabSystem
	m, _ = press(t, m, "L")
	if !m.locked {
		t.Fatal("L did not lock the console")
	}
	if m.patternBuf != "" {
		t.Fatal("lock left a stale pattern buffer")
	}
}

func TestTabCycling(t *testing.T) {
	m := unlocked(t)
	m, _ = press(t, m, "tab")
	if m.activeTab != tabItems {
		t.Fatalf("tab = %d, want items", m.activeTab)
	}
	m = pressAll(t, m, "tab", "tab")
	if m.activeTab != tabShelves {
		t.Fatalf("tab wrap = %d, want shelves", m.activeTab)
	}
	m, _ = press(t, m, "shift+tab")
	if m.activeTab != tabSystem {
		t.Fatalf("shift+tab = %d, want system", m.activeTab)
	}
}

func TestItemCursorPaging(t *testing.T) {
	m := unlocked(t)
	m.activeTab = tabItems
	for i := 0; i < 25; i++ {
		m.items = append(m.items, itemRow{id: int64(i + 1), name: "item"})
	}

	for i := 0; i < 12; i++ {
		m, _ = press(t, m, "j")
	}
	if m.itemCursor != 12 {
		t.Fatalf("cursor = %d, want 12", m.itemCursor)
	}
	// rows_per_page is 10, so the window must have scrolled.
	if m.itemTop != 3 {
		t.Fatalf("top = %d, want 3", m.itemTop)
	}
	m, _ = press(t, m, "k")
	if m.itemCursor != 11 {
		t.Fatalf("cursor after k = %d", m.itemCursor)
	}
}

func TestSampleUpdatesShelves(t *testing.T) {
	m := unlocked(t)
	m.shelves.Register("aa:bb", "A", []shelf.SlotConfig{
		{ItemName: "Little Bites Chocolate", AvgWeightG: 46.5, ConversionFactor: 1},
	})

	now := time.Now()
	next, _ := m.Update(sampleMsg(telemetry.Sample{Mac: "aa:bb", Values: []float64{93, 0, 0, 0}, At: now}))
	m = next.(model)

	if len(m.shelfRows) != 1 {
		t.Fatalf("shelfRows = %d", len(m.shelfRows))
	}
	row := m.shelfRows[0]
	if !row.online {
		t.Fatal("freshly sampled shelf marked offline")
	}
	if !row.slots[0].hasReading || row.slots[0].units != 2 {
		t.Fatalf("slot 0 = %+v, want 2 units", row.slots[0])
	}
}

func TestTickMarksSilentShelvesOffline(t *testing.T) {
	m := unlocked(t)
	m.shelves.Register("aa:bb", "A", nil)

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(model)
	if cmd == nil {
		t.Fatal("tick must reschedule itself")
	}
	if len(m.shelfRows) != 1 || m.shelfRows[0].online {
		t.Fatalf("never-heard shelf should render offline: %+v", m.shelfRows)
	}
}

func TestTareFlowThroughKeys(t *testing.T) {
	m := unlocked(t)
	m.shelves.Register("aa:bb", "A", nil)
	sample := telemetry.Sample{Mac: "aa:bb", Values: []float64{120, 0, 0, 0}, At: time.Now()}
	next, _ := m.Update(sampleMsg(sample))
	m = next.(model)

	m, _ = press(t, m, "t")
	if m.tare == nil || m.tare.mac != "aa:bb" {
		t.Fatalf("tare modal not opened: %+v", m.tare)
	}

	// Capture zero at 120.
	m, _ = press(t, m, "enter")
	if m.tare.step != tareStepLoaded || m.tare.zeroRaw != 120 {
		t.Fatalf("after zero capture: %+v", m.tare)
	}

	// Same reading again: flat tare, stays open with the error shown.
	m, _ = press(t, m, "enter")
	if m.tare == nil || m.tare.errText == "" {
		t.Fatal("flat tare should keep the modal open with an error")
	}

	// New reading with the reference weight, then capture succeeds.
	sample.Values[0] = 1370
	next, _ = m.Update(sampleMsg(sample))
	m = next.(model)
	m, _ = press(t, m, "enter")
	if m.tare != nil {
		t.Fatalf("tare modal still open: %+v", m.tare)
	}
	if !strings.Contains(m.status, "0.4000") {
		t.Fatalf("status = %q, want factor 0.4000", m.status)
	}
}

func TestTareRequiresOnlineShelf(t *testing.T) {
	m := unlocked(t)
	m.shelfRows = []shelfRow{{mac: "aa", label: "A", online: false, slots: make([]slotRow, 4)}}
	m, _ = press(t, m, "t")
	if m.tare != nil {
		t.Fatal("tare should refuse an offline shelf")
	}
}

func TestTareCancel(t *testing.T) {
	m := unlocked(t)
	m.shelfRows = []shelfRow{{mac: "aa", label: "A", online: true, slots: make([]slotRow, 4)}}
	m, _ = press(t, m, "t")
	m, _ = press(t, m, "esc")
	if m.tare != nil {
		t.Fatal("esc did not cancel the tare modal")
	}
}

func TestSystemHardwareToggles(t *testing.T) {
	m := unlocked(t)
	m.activeTab = tabSystem
	m, cmd := press(t, m, "d")
	if !m.doorsOpen {
		t.Fatal("d did not toggle doors")
	}
	if cmd == nil {
		t.Fatal("door toggle should produce a command")
	}
	m, _ = press(t, m, "b")
	if !m.hatchOpen {
		t.Fatal("b did not toggle hatch")
	}
	m, _ = press(t, m, "d")
	if m.doorsOpen {
		t.Fatal("second d did not close doors")
	}
}

func TestStandbyViewMasksPattern(t *testing.T) {
	m := testModel()
	m = pressAll(t, m, "1", "3")
	view := m.View()
	if strings.Contains(view, "13") {
		t.Fatal("pattern digits leaked into the standby view")
	}
	if !strings.Contains(view, "●●") {
		t.Fatal("pattern mask not rendered")
	}
}
