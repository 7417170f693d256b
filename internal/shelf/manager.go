// Package shelf tracks the live state of the kiosk's weight-sensing shelves:
// latest load-cell readings per slot, unit estimates, calibration, and a
// watchdog for shelves that stop reporting.
package shelf

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// SlotsPerShelf is fixed by the shelf controller hardware.
const SlotsPerShelf = 4

var (
	ErrUnknownShelf = errors.New("shelf not registered")
	ErrBadSample    = errors.New("sample does not match slot count")
	ErrNoReading    = errors.New("no reading for slot yet")
)

// Slot is the runtime state of one shelf position.
type Slot struct {
	ItemName         string
	AvgWeightG       float64
	ConversionFactor float64 // raw counts to grams
	ZeroOffset       float64 // raw reading with the slot empty
	raw              float64
	hasReading       bool
}

// Grams converts the latest raw reading to grams using the slot calibration.
// Returns false when no reading has arrived or the last point was invalid.
func (s *Slot) Grams() (float64, bool) {
	if !s.hasReading {
		return 0, false
	}
	return (s.raw - s.ZeroOffset) * s.ConversionFactor, true
}

// EstimatedUnits estimates the number of items on the slot from its weight.
// Slots with no assigned item or no per-unit weight report zero.
func (s *Slot) EstimatedUnits() int {
	g, ok := s.Grams()
	if !ok || s.AvgWeightG <= 0 {
		return 0
	}
	n := int(math.Round(g / s.AvgWeightG))
	if n < 0 {
		return 0
	}
	return n
}

// Shelf is the runtime state of one registered shelf.
type Shelf struct {
	Mac      string
	Label    string
	Slots    [SlotsPerShelf]Slot
	LastSeen time.Time
}

// Online reports whether the shelf has been heard from within the watchdog
// window ending at now.
func (s *Shelf) Online(now time.Time, offlineAfter time.Duration) bool {
	if s.LastSeen.IsZero() {
		return false
	}
	return now.Sub(s.LastSeen) <= offlineAfter
}

// Manager owns the mac-to-shelf map. Safe for concurrent use; the telemetry
// reader and the UI loop both touch it.
type Manager struct {
	mu           sync.Mutex
	shelves      map[string]*Shelf
	offlineAfter time.Duration
}

func NewManager(offlineAfter time.Duration) *Manager {
	return &Manager{
		shelves:      make(map[string]*Shelf),
		offlineAfter: offlineAfter,
	}
}

// SlotConfig seeds one slot's assignment and calibration at registration.
type SlotConfig struct {
	ItemName         string
	AvgWeightG       float64
	ConversionFactor float64
	ZeroOffset       float64
}

// Register adds or replaces a shelf. Samples for unregistered MACs are
// rejected, so registration is the admission control for the feed.
func (m *Manager) Register(mac, label string, slots []SlotConfig) {
	sh := &Shelf{Mac: mac, Label: label}
	for i := range sh.Slots {
		sh.Slots[i].ConversionFactor = 0.44 // controller default until tared
		if i < len(slots) {
			sh.Slots[i].ItemName = slots[i].ItemName
			sh.Slots[i].AvgWeightG = slots[i].AvgWeightG
			if slots[i].ConversionFactor > 0 {
				sh.Slots[i].ConversionFactor = slots[i].ConversionFactor
			}
			sh.Slots[i].ZeroOffset = slots[i].ZeroOffset
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shelves[mac] = sh
}

// ApplySample records one telemetry frame. values holds one raw reading per
// slot; NaN marks a point the controller could not read, which leaves that
// slot's previous reading in place.
func (m *Manager) ApplySample(mac string, values []float64, at time.Time) error {
	if len(values) != SlotsPerShelf {
		return fmt.Errorf("%w: got %d values", ErrBadSample, len(values))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sh, ok := m.shelves[mac]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownShelf, mac)
	}
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sh.Slots[i].raw = v
		sh.Slots[i].hasReading = true
	}
	sh.LastSeen = at
	return nil
}

// LatestRaw returns the latest raw reading for a slot, for the tare flow.
func (m *Manager) LatestRaw(mac string, slot int) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sh, ok := m.shelves[mac]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownShelf, mac)
	}
	if slot < 0 || slot >= SlotsPerShelf {
		return 0, fmt.Errorf("%w: slot %d", ErrBadSample, slot)
	}
	if !sh.Slots[slot].hasReading {
		return 0, ErrNoReading
	}
	return sh.Slots[slot].raw, nil
}

// Snapshot returns a copy of all shelves, ordered by label then mac.
func (m *Manager) Snapshot() []Shelf {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Shelf, 0, len(m.shelves))
	for _, sh := range m.shelves {
		out = append(out, *sh)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].Mac < out[j].Mac
	})
	return out
}

// Stale returns the MACs of registered shelves that have missed the watchdog
// window, for the UI to flag offline.
func (m *Manager) Stale(now time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for mac, sh := range m.shelves {
		if !sh.Online(now, m.offlineAfter) {
			out = append(out, mac)
		}
	}
	sort.Strings(out)
	return out
}
