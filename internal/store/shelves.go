package store

import (
	"context"
	"database/sql"
)

// ShelfRepo handles shelf registration and slot assignments.
type ShelfRepo struct {
	db *sql.DB
}

func NewShelfRepo(db *sql.DB) *ShelfRepo {
	return &ShelfRepo{db: db}
}

func (r *ShelfRepo) Upsert(ctx context.Context, s Shelf) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO shelves(mac, label) VALUES (?, ?)
	ON CONFLICT(mac) DO UPDATE SET label=excluded.label;
	`, s.Mac, s.Label)
	return err
}

func (r *ShelfRepo) List(ctx context.Context) ([]Shelf, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT mac, label, created_at FROM shelves ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Shelf
	for rows.Next() {
		var s Shelf
		if err := rows.Scan(&s.Mac, &s.Label, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SaveSlot stores one slot's item binding and calibration.
func (r *ShelfRepo) SaveSlot(ctx context.Context, a SlotAssignment) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO slot_assignments(shelf_mac, slot_index, item_id, conversion_factor, zero_offset)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(shelf_mac, slot_index) DO UPDATE SET
	 item_id=excluded.item_id,
	 conversion_factor=excluded.conversion_factor,
	 zero_offset=excluded.zero_offset;
	`, a.ShelfMac, a.SlotIndex, a.ItemID, a.ConversionFactor, a.ZeroOffset)
	return err
}

// Slots returns all slot assignments for a shelf, ordered by slot index.
func (r *ShelfRepo) Slots(ctx context.Context, mac string) ([]SlotAssignment, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT shelf_mac, slot_index, item_id, conversion_factor, zero_offset
	FROM slot_assignments WHERE shelf_mac = ? ORDER BY slot_index`, mac)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SlotAssignment
	for rows.Next() {
		var a SlotAssignment
		if err := rows.Scan(&a.ShelfMac, &a.SlotIndex, &a.ItemID, &a.ConversionFactor, &a.ZeroOffset); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
