package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

func (r *SQLiteRepo) GetBalance(ctx context.Context, account string) (int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT balance FROM ledger_accounts WHERE account = ?`, account)
	var balance int64
	if err := row.Scan(&balance); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}

		return 0, err
	}

	return balance, nil
}

func (r *SQLiteRepo) UpsertBalance(ctx context.Context, account string, balance int64) error {
	_, err := r.conn.Exec(ctx, `INSERT INTO ledger_accounts (account, balance, updated) VALUES (?, ?, ?) ON CONFLICT(account) DO UPDATE SET balance=excluded.balance, updated=excluded.updated`,
		account, balance, now())
	return err
}

// MoveBalance debits `from` and credits `to` inside one transaction so a
// failed write cannot leave half a transfer behind.
func (r *SQLiteRepo) MoveBalance(ctx context.Context, from, to string, amount int64) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return err
	}

	ts := now()
	res, err := tx.ExecContext(ctx, `UPDATE ledger_accounts SET balance = balance - ?, updated = ? WHERE account = ? AND balance >= ?`, amount, ts, from, amount)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if n == 0 {
		_ = tx.Rollback()
		return fmt.Errorf("debit %s: no spendable balance row", from)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO ledger_accounts (account, balance, updated) VALUES (?, ?, ?) ON CONFLICT(account) DO UPDATE SET balance = balance + ?, updated = ?`, to, amount, ts, amount, ts); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SQLiteRepo) GetAllowance(ctx context.Context, owner, spender string) (int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT amount FROM ledger_allowances WHERE owner = ? AND spender = ?`, owner, spender)
	var amount int64
	if err := row.Scan(&amount); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}

		return 0, err
	}

	return amount, nil
}

func (r *SQLiteRepo) SetAllowance(ctx context.Context, owner, spender string, amount int64) error {
	_, err := r.conn.Exec(ctx, `INSERT INTO ledger_allowances (owner, spender, amount, updated) VALUES (?, ?, ?, ?) ON CONFLICT(owner, spender) DO UPDATE SET amount=excluded.amount, updated=excluded.updated`,
		owner, spender, amount, now())
	return err
}

func (r *SQLiteRepo) IsMinter(ctx context.Context, account string) (bool, error) {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM ledger_minters WHERE account = ?`, account)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *SQLiteRepo) AddMinter(ctx context.Context, account string) error {
	_, err := r.conn.Exec(ctx, `INSERT INTO ledger_minters (account, created) VALUES (?, ?) ON CONFLICT(account) DO NOTHING`, account, now())
	return err
}
