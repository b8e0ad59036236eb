package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/workhive/workhive/internal/models"
)

func (r *SQLiteRepo) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p == nil {
		return fmt.Errorf("payment is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO payments (id, client_id, freelancer_id, job_id, amount, status, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ClientID, p.FreelancerID, p.JobID, p.Amount, int(p.Status), now(), now())
	return err
}

func (r *SQLiteRepo) GetPaymentByID(ctx context.Context, id int64) (*models.Payment, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, client_id, freelancer_id, job_id, amount, status, created, updated FROM payments WHERE id = ?`, id)

	var p models.Payment
	var status int
	if err := row.Scan(&p.ID, &p.ClientID, &p.FreelancerID, &p.JobID, &p.Amount, &status, &p.Created, &p.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	p.Status = models.PaymentStatus(status)
	return &p, nil
}

func (r *SQLiteRepo) UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus) error {
	_, err := r.conn.Exec(ctx, `UPDATE payments SET status = ?, updated = ? WHERE id = ?`, int(status), now(), id)
	return err
}

// NextPaymentID returns max(id)+1, or 0 when the table is empty. The first
// payment gets id 0.
func (r *SQLiteRepo) NextPaymentID(ctx context.Context) (int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT COALESCE(MAX(id) + 1, 0) FROM payments`)
	var next int64
	if err := row.Scan(&next); err != nil {
		return 0, err
	}

	return next, nil
}
