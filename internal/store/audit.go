package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// AuditRepo records admin actions. Every event carries the id of the unlock
// session it happened under, so a kiosk's history can be grouped by visit.
type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Record inserts an event and returns its generated id.
func (r *AuditRepo) Record(ctx context.Context, sessionID, action, detail string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO audit_events(id, session_id, action, detail, created_at) VALUES (?, ?, ?, ?, ?);
	`, id, sessionID, action, detail, Now())
	if err != nil {
		return "", err
	}
	return id, nil
}

// Recent returns the latest events, newest first.
func (r *AuditRepo) Recent(ctx context.Context, limit int) ([]AuditEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, session_id, action, detail, created_at
	FROM audit_events ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AuditEvent
	for rows.Next() {
		var e AuditEvent
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
