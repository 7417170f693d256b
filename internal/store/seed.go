package store

import (
	"context"
	"database/sql"
)

// defaultItems is the starter catalog loaded into a fresh database so a
// newly imaged kiosk has something on its shelves before the backoffice
// pushes the real inventory.
var defaultItems = []Item{
	{Name: "Little Bites Chocolate", UPC: "123456789012", Price: 2.10, Units: 100, AvgWeightG: 47, StdWeightG: 10, VisionClass: "pouch"},
	{Name: "Little Bites Party", UPC: "234567890123", Price: 2.10, Units: 50, AvgWeightG: 47, StdWeightG: 10, VisionClass: "pouch"},
	{Name: "Skittles Gummies", UPC: "345678901234", Price: 2.40, Units: 75, AvgWeightG: 164.4, StdWeightG: 15, VisionClass: "bottle"},
	{Name: "Swedish Fish Mini Tropical", UPC: "456789012345", Price: 3.50, Units: 120, AvgWeightG: 226, StdWeightG: 10, VisionClass: "pouch"},
	{Name: "Sour Patch Peach", UPC: "567890123456", Price: 3.50, Units: 90, AvgWeightG: 228, StdWeightG: 15, VisionClass: "cylinder"},
	{Name: "Brownie Brittle Chocolate Chip", UPC: "678901234567", Price: 34.99, Units: 60, AvgWeightG: 78, StdWeightG: 10, VisionClass: "rectangle"},
	{Name: "Swedish Fish Original", UPC: "789012345678", Price: 19.99, Units: 100, AvgWeightG: 141, StdWeightG: 10, VisionClass: "pouch"},
	{Name: "Welch's Fruit Snacks", UPC: "890123456789", Price: 39.99, Units: 40, AvgWeightG: 142, StdWeightG: 14, VisionClass: "rectangle"},
	{Name: "Sour Patch Kids", Price: 3.50, Units: 100, AvgWeightG: 226, StdWeightG: 20, VisionClass: "sour-patch"},
	{Name: "12 Pack Wild Cherry Pepsi", Price: 5.50, Units: 100, AvgWeightG: 4000, StdWeightG: 500, VisionClass: "pepsi-box"},
	{Name: "12 Pack Loganberry", Price: 5.50, Units: 100, AvgWeightG: 4000, StdWeightG: 500, VisionClass: "loganberry-box"},
	{Name: "Wild Cherry Pepsi Can", Price: 2.50, Units: 100, AvgWeightG: 200, StdWeightG: 20},
	{Name: "Little Bites Blueberry", UPC: "123456789012", Price: 2.10, Units: 100, AvgWeightG: 47, StdWeightG: 10, VisionClass: "pouch"},
}

// SeedDefaults loads the starter catalog into an empty items table. A
// non-empty table is left alone. The catalog lands atomically so a crash
// mid-seed cannot leave a half-stocked kiosk.
func SeedDefaults(ctx context.Context, db *sql.DB, items *ItemRepo) error {
	n, err := items.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return WithTx(db, func(tx *sql.Tx) error {
		for _, it := range defaultItems {
			if err := upsertItem(ctx, tx, it); err != nil {
				return err
			}
		}
		return nil
	})
}
