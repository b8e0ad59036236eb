package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/workhive/workhive/internal/models"
)

func (r *SQLiteRepo) AddWorkExperience(ctx context.Context, w *models.WorkExperience) (int64, error) {
	if w == nil {
		return 0, fmt.Errorf("work experience is nil")
	}

	skills, err := json.Marshal(w.Skills)
	if err != nil {
		return 0, fmt.Errorf("marshal skills: %w", err)
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO work_experience (user_id, job_title, description, start_date, end_date, skills, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.UserID, w.JobTitle, w.Description, w.StartDate, w.EndDate, string(skills), now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) ListWorkExperience(ctx context.Context, userID int64) ([]models.WorkExperience, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, job_title, description, start_date, end_date, skills, created FROM work_experience WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkExperience
	for rows.Next() {
		var w models.WorkExperience
		var skills string
		if err := rows.Scan(&w.ID, &w.UserID, &w.JobTitle, &w.Description, &w.StartDate, &w.EndDate, &skills, &w.Created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(skills), &w.Skills); err != nil {
			return nil, fmt.Errorf("unmarshal skills for entry %d: %w", w.ID, err)
		}
		out = append(out, w)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) AddReview(ctx context.Context, rv *models.Review) (int64, error) {
	if rv == nil {
		return 0, fmt.Errorf("review is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO reviews (reviewer_id, subject_id, rating, comment, created) VALUES (?, ?, ?, ?, ?)`,
		rv.ReviewerID, rv.SubjectID, rv.Rating, rv.Comment, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) ListReviews(ctx context.Context, subjectID int64) ([]models.Review, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, reviewer_id, subject_id, rating, comment, created FROM reviews WHERE subject_id = ? ORDER BY id`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.ReviewerID, &rv.SubjectID, &rv.Rating, &rv.Comment, &rv.Created); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) ReviewStats(ctx context.Context, subjectID int64) (int64, int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT COALESCE(SUM(rating), 0), COUNT(1) FROM reviews WHERE subject_id = ?`, subjectID)
	var sum, count int64
	if err := row.Scan(&sum, &count); err != nil {
		return 0, 0, err
	}

	return sum, count, nil
}
