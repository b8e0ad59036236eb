package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/workhive/workhive/internal/models"
)

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}

	var freelancer any
	if j.FreelancerID != nil {
		freelancer = *j.FreelancerID
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO jobs (id, client_id, freelancer_id, description, payment_amount, status, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.ClientID, freelancer, j.Description, j.PaymentAmount, int(j.Status), now(), now())
	return err
}

func (r *SQLiteRepo) GetJobByID(ctx context.Context, id int64) (*models.Job, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, client_id, freelancer_id, description, payment_amount, status, created, updated FROM jobs WHERE id = ?`, id)

	var j models.Job
	var freelancer sql.NullInt64
	var status int
	if err := row.Scan(&j.ID, &j.ClientID, &freelancer, &j.Description, &j.PaymentAmount, &status, &j.Created, &j.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if freelancer.Valid {
		j.FreelancerID = &freelancer.Int64
	}
	j.Status = models.JobStatus(status)
	return &j, nil
}

func (r *SQLiteRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}

	var freelancer any
	if j.FreelancerID != nil {
		freelancer = *j.FreelancerID
	}
	_, err := r.conn.Exec(ctx, `UPDATE jobs SET freelancer_id = ?, description = ?, payment_amount = ?, status = ?, updated = ? WHERE id = ?`,
		freelancer, j.Description, j.PaymentAmount, int(j.Status), now(), j.ID)
	return err
}

func (r *SQLiteRepo) ListJobs(ctx context.Context, limit, offset int) ([]models.Job, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, client_id, freelancer_id, description, payment_amount, status, created, updated FROM jobs ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		var j models.Job
		var freelancer sql.NullInt64
		var status int
		if err := rows.Scan(&j.ID, &j.ClientID, &freelancer, &j.Description, &j.PaymentAmount, &status, &j.Created, &j.Updated); err != nil {
			return nil, err
		}
		if freelancer.Valid {
			j.FreelancerID = &freelancer.Int64
		}
		j.Status = models.JobStatus(status)
		out = append(out, j)
	}

	return out, rows.Err()
}

// NextJobID returns max(id)+1, or 1 when the table is empty. The first
// listed job gets id 1.
func (r *SQLiteRepo) NextJobID(ctx context.Context) (int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT COALESCE(MAX(id) + 1, 1) FROM jobs`)
	var next int64
	if err := row.Scan(&next); err != nil {
		return 0, err
	}

	return next, nil
}
