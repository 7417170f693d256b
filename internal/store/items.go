package store

import (
	"context"
	"database/sql"
)

// ItemRepo handles the item catalog.
type ItemRepo struct {
	db *sql.DB
}

func NewItemRepo(db *sql.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// execer is satisfied by both *sql.DB and *sql.Tx, so writes can run
// standalone or inside WithTx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertItem(ctx context.Context, ex execer, it Item) error {
	_, err := ex.ExecContext(ctx, `
	INSERT INTO items(name, upc, price, units, avg_weight_g, std_weight_g, vision_class, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
	 upc=excluded.upc,
	 price=excluded.price,
	 units=excluded.units,
	 avg_weight_g=excluded.avg_weight_g,
	 std_weight_g=excluded.std_weight_g,
	 vision_class=excluded.vision_class;
	`, it.Name, it.UPC, it.Price, it.Units, it.AvgWeightG, it.StdWeightG, it.VisionClass, Now())
	return err
}

func (r *ItemRepo) Upsert(ctx context.Context, it Item) error {
	return upsertItem(ctx, r.db, it)
}

func (r *ItemRepo) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, upc, price, units, avg_weight_g, std_weight_g, vision_class, created_at
	FROM items ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.UPC, &it.Price, &it.Units,
			&it.AvgWeightG, &it.StdWeightG, &it.VisionClass, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *ItemRepo) Get(ctx context.Context, id int64) (Item, error) {
	var it Item
	err := r.db.QueryRowContext(ctx, `
	SELECT id, name, upc, price, units, avg_weight_g, std_weight_g, vision_class, created_at
	FROM items WHERE id = ?`, id).Scan(&it.ID, &it.Name, &it.UPC, &it.Price, &it.Units,
		&it.AvgWeightG, &it.StdWeightG, &it.VisionClass, &it.CreatedAt)
	return it, err
}

func (r *ItemRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n)
	return n, err
}
