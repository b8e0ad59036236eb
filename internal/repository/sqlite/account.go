package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/workhive/workhive/internal/models"
)

func (r *SQLiteRepo) CreateAccount(ctx context.Context, a *models.Account) error {
	if a == nil {
		return fmt.Errorf("account is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO accounts (id, email, password_hash, created) VALUES (?, ?, ?, ?)`, a.ID, a.Email, a.PasswordHash, now())
	return err
}

func (r *SQLiteRepo) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, password_hash, created FROM accounts WHERE id = ?`, id)
	var a models.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &a, nil
}

func (r *SQLiteRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, password_hash, created FROM accounts WHERE email = ?`, email)
	var a models.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &a, nil
}
