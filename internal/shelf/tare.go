package shelf

import (
	"errors"
	"fmt"
)

// ErrFlatTare means the loaded capture equals the zero capture, so no
// conversion factor can be derived.
var ErrFlatTare = errors.New("loaded reading equals zero reading")

// Calibrate derives a new conversion factor for a slot from a two-point tare:
// a raw reading with the slot empty and a raw reading with a known reference
// weight on it. The factor maps raw counts to grams:
//
//	factor = knownG / (loadedRaw - zeroRaw)
//
// On success the slot's zero offset and factor are replaced and the new
// factor is returned so the caller can persist it.
func (m *Manager) Calibrate(mac string, slot int, zeroRaw, loadedRaw, knownG float64) (float64, error) {
	if slot < 0 || slot >= SlotsPerShelf {
		return 0, fmt.Errorf("%w: slot %d", ErrBadSample, slot)
	}
	if knownG <= 0 {
		return 0, fmt.Errorf("known weight must be positive, got %.1f", knownG)
	}
	if loadedRaw == zeroRaw {
		return 0, ErrFlatTare
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sh, ok := m.shelves[mac]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownShelf, mac)
	}
	factor := knownG / (loadedRaw - zeroRaw)
	sh.Slots[slot].ZeroOffset = zeroRaw
	sh.Slots[slot].ConversionFactor = factor
	return factor, nil
}
