package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bitsnbytes/bnbkiosk/internal/store"
)

// ---------------------------------------------------------------------------
// Tare modal
// ---------------------------------------------------------------------------
//
// Two-step calibration for the selected slot: capture a reading with the
// slot empty, then a reading with the configured reference weight on it.
// The derived factor is pushed into the shelf manager and persisted.

const (
	tareStepZero = iota
	tareStepLoaded
)

type tareState struct {
	mac     string
	slot    int
	step    int
	zeroRaw float64
	errText string
}

func (m model) openTareModal() (tea.Model, tea.Cmd) {
	if len(m.shelfRows) == 0 {
		m.status = "No shelf selected."
		return m, nil
	}
	row := m.shelfRows[m.shelfCursor]
	if !row.online {
		m.status = "Shelf is offline; cannot tare."
		return m, nil
	}
	m.tare = &tareState{mac: row.mac, slot: m.slotCursor, step: tareStepZero}
	return m, nil
}

func (m model) updateTareModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyName := normalizeKeyName(msg.String())
	binding := m.keys.Lookup(keyName, scopeTareModal)
	if binding == nil {
		return m, nil
	}
	switch binding.Action {
	case actionClose:
		m.tare = nil
		return m, nil
	case actionCapture:
		return m.captureTareReading()
	case actionExit:
		return m.requestExit()
	}
	return m, nil
}

func (m model) captureTareReading() (tea.Model, tea.Cmd) {
	t := m.tare
	raw, err := m.shelves.LatestRaw(t.mac, t.slot)
	if err != nil {
		t.errText = err.Error()
		return m, nil
	}
	t.errText = ""

	if t.step == tareStepZero {
		t.zeroRaw = raw
		t.step = tareStepLoaded
		return m, nil
	}

	factor, err := m.shelves.Calibrate(t.mac, t.slot, t.zeroRaw, raw, m.cfg.Tare.KnownWeightG)
	if err != nil {
		// Stay on the loaded step so the operator can reseat the weight.
		t.errText = err.Error()
		return m, nil
	}

	m.log.Info().
		Str("mac", t.mac).
		Int("slot", t.slot).
		Float64("factor", factor).
		Msg("slot tared")
	m.status = fmt.Sprintf("Slot %d tared, factor %.4f", t.slot, factor)
	cmd := tea.Batch(
		m.saveSlotCmd(t.mac, t.slot, factor, t.zeroRaw),
		m.recordAuditCmd("tare", fmt.Sprintf("%s slot %d factor %.4f", t.mac, t.slot, factor)),
	)
	m.tare = nil
	return m, cmd
}

func (m model) saveSlotCmd(mac string, slot int, factor, zero float64) tea.Cmd {
	repo := m.shelfRepo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		slots, err := repo.Slots(context.Background(), mac)
		if err != nil {
			return slotSavedMsg{err: err}
		}
		a := store.SlotAssignment{ShelfMac: mac, SlotIndex: slot, ConversionFactor: factor, ZeroOffset: zero}
		for _, existing := range slots {
			if existing.SlotIndex == slot {
				a.ItemID = existing.ItemID
				break
			}
		}
		return slotSavedMsg{err: repo.SaveSlot(context.Background(), a)}
	}
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

func (m model) tareView() string {
	t := m.tare
	title := titleStyle.Render(fmt.Sprintf("Tare shelf %s, slot %d", t.mac, t.slot))

	var prompt string
	switch t.step {
	case tareStepZero:
		prompt = "Empty the slot and press enter."
	default:
		prompt = fmt.Sprintf("Place the %.0fg reference weight and press enter.", m.cfg.Tare.KnownWeightG)
	}

	lines := []string{title, "", prompt}
	if t.step == tareStepLoaded {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("zero captured: %.1f", t.zeroRaw)))
	}
	if t.errText != "" {
		lines = append(lines, "", errorTextStyle.Render(truncate(t.errText, 48)))
	}
	return strings.Join(lines, "\n")
}
