package sqlite

import (
	"context"
	"fmt"

	"github.com/workhive/workhive/internal/models"
)

func (r *SQLiteRepo) AppendEvent(ctx context.Context, e *models.Event) error {
	if e == nil {
		return fmt.Errorf("event is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO events (id, type, entity_id, payload, created) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Type, e.EntityID, e.Payload, e.Created)
	return err
}

func (r *SQLiteRepo) ListEvents(ctx context.Context, limit, offset int) ([]models.Event, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, type, entity_id, payload, created FROM events ORDER BY created, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Type, &e.EntityID, &e.Payload, &e.Created); err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountEvents(ctx context.Context) (int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM events`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
