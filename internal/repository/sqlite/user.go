package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/workhive/workhive/internal/models"
)

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO users (id, kind, username, name, email, owner, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, int(u.Kind), u.Username, u.Name, u.Email, u.Owner, now())
	return err
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, kind, username, name, email, owner, updated FROM users WHERE id = ?`, id)
	var u models.User
	var kind int
	if err := row.Scan(&u.ID, &kind, &u.Username, &u.Name, &u.Email, &u.Owner, &u.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	u.Kind = models.UserKind(kind)
	return &u, nil
}

func (r *SQLiteRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE users SET name = ?, email = ?, updated = ? WHERE id = ?`, u.Name, u.Email, now(), u.ID)
	return err
}

// NextUserID returns max(id)+1, or 0 when the table is empty. User ids are
// assigned by the registry engine, not by sqlite autoincrement, so the first
// registration gets id 0.
func (r *SQLiteRepo) NextUserID(ctx context.Context) (int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT COALESCE(MAX(id) + 1, 0) FROM users`)
	var next int64
	if err := row.Scan(&next); err != nil {
		return 0, err
	}

	return next, nil
}

func (r *SQLiteRepo) GetMeta(ctx context.Context, key string) (string, error) {
	row := r.conn.QueryRow(ctx, `SELECT value FROM platform_meta WHERE key = ?`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}

		return "", err
	}

	return v, nil
}

func (r *SQLiteRepo) SetMeta(ctx context.Context, key, value string) error {
	_, err := r.conn.Exec(ctx, `INSERT INTO platform_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	return err
}
