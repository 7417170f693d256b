package store

import "time"

// Item is one catalog entry. Weights are the per-unit average and standard
// deviation in grams, used by the shelves to turn load-cell readings into
// unit counts.
type Item struct {
	ID          int64
	Name        string
	UPC         string
	Price       float64
	Units       int
	AvgWeightG  float64
	StdWeightG  float64
	VisionClass string
	CreatedAt   time.Time
}

// Shelf is a registered shelf controller, keyed by its MAC address.
type Shelf struct {
	Mac       string
	Label     string
	CreatedAt time.Time
}

// SlotAssignment binds an item to one slot of a shelf, together with the
// slot's calibration.
type SlotAssignment struct {
	ShelfMac         string
	SlotIndex        int
	ItemID           *int64
	ConversionFactor float64
	ZeroOffset       float64
}

// AuditEvent records one admin action.
type AuditEvent struct {
	ID        string
	SessionID string
	Action    string
	Detail    string
	CreatedAt time.Time
}
