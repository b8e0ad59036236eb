// Package resume implements the reputation engine: append-only work history
// and reviews for freelancers, with a derived reputation score. There is no
// state machine here, only append-and-aggregate.
package resume

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"log/slog"

	"github.com/workhive/workhive/internal/events"
	"github.com/workhive/workhive/internal/faults"
	"github.com/workhive/workhive/internal/models"
	"github.com/workhive/workhive/pkg/repository"
)

// Identity is the slice of the user registry the engine needs.
type Identity interface {
	IsClient(ctx context.Context, id int64) (bool, error)
	IsFreelancer(ctx context.Context, id int64) (bool, error)
	OwnerOf(ctx context.Context, id int64) (string, error)
}

type Engine struct {
	repo     repository.ResumeRepo
	identity Identity
	events   *events.Recorder
	logger   *slog.Logger

	mu sync.Mutex
}

func NewEngine(repo repository.ResumeRepo, identity Identity, rec *events.Recorder, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{repo: repo, identity: identity, events: rec, logger: logger}
}

// AddWorkExperience appends a resume entry for a freelancer. Only the
// subject's owning account may add entries; entries are never mutated or
// removed. Date ranges are recorded as given, without overlap or chronology
// checks.
func (e *Engine) AddWorkExperience(ctx context.Context, caller string, userID int64, jobTitle, description string, startDate, endDate int64, skills []string) (int64, error) {
	jobTitle = strings.TrimSpace(jobTitle)
	if jobTitle == "" {
		return 0, fmt.Errorf("job title is required")
	}

	owner, err := e.identity.OwnerOf(ctx, userID)
	if err != nil {
		return 0, err
	}
	if owner != caller {
		return 0, fmt.Errorf("%w: caller does not own user %d", faults.ErrUnauthorized, userID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	w := &models.WorkExperience{
		UserID:      userID,
		JobTitle:    jobTitle,
		Description: description,
		StartDate:   startDate,
		EndDate:     endDate,
		Skills:      skills,
	}
	id, err := e.repo.AddWorkExperience(ctx, w)
	if err != nil {
		return 0, fmt.Errorf("add work experience: %w", err)
	}

	e.events.Record(ctx, events.TypeWorkExperienceAdded, userID, map[string]any{
		"user_id":   userID,
		"entry_id":  id,
		"job_title": jobTitle,
	})

	return id, nil
}

// GetWorkHistory returns a freelancer's resume entries in insertion order.
func (e *Engine) GetWorkHistory(ctx context.Context, userID int64) ([]models.WorkExperience, error) {
	return e.repo.ListWorkExperience(ctx, userID)
}

// AddReview appends a rating and comment from a client about a freelancer.
// Nothing prevents repeat reviews from the same reviewer and no completed
// job between the parties is required.
func (e *Engine) AddReview(ctx context.Context, reviewerID, subjectID int64, rating int, comment string) (int64, error) {
	if rating < 1 || rating > 5 {
		return 0, faults.ErrInvalidRating
	}

	isClient, err := e.identity.IsClient(ctx, reviewerID)
	if err != nil {
		return 0, err
	}
	if !isClient {
		return 0, fmt.Errorf("%w: reviewer %d is not a client", faults.ErrInvalidActor, reviewerID)
	}
	isFreelancer, err := e.identity.IsFreelancer(ctx, subjectID)
	if err != nil {
		return 0, err
	}
	if !isFreelancer {
		return 0, fmt.Errorf("%w: subject %d is not a freelancer", faults.ErrInvalidActor, subjectID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rv := &models.Review{
		ReviewerID: reviewerID,
		SubjectID:  subjectID,
		Rating:     rating,
		Comment:    comment,
	}
	id, err := e.repo.AddReview(ctx, rv)
	if err != nil {
		return 0, fmt.Errorf("add review: %w", err)
	}

	e.logger.Info("review added", "subject_id", subjectID, "rating", rating)
	e.events.Record(ctx, events.TypeReviewAdded, subjectID, map[string]any{
		"review_id":   id,
		"reviewer_id": reviewerID,
		"subject_id":  subjectID,
		"rating":      rating,
	})

	return id, nil
}

// GetReviews returns all reviews for a subject in insertion order.
func (e *Engine) GetReviews(ctx context.Context, subjectID int64) ([]models.Review, error) {
	return e.repo.ListReviews(ctx, subjectID)
}

// GetReputationScore returns floor(sum of ratings / review count) using
// integer division, and 0 when the subject has no reviews. Integer math
// keeps the score deterministic across platforms.
func (e *Engine) GetReputationScore(ctx context.Context, subjectID int64) (int64, error) {
	sum, count, err := e.repo.ReviewStats(ctx, subjectID)
	if err != nil {
		return 0, fmt.Errorf("review stats for %d: %w", subjectID, err)
	}
	if count == 0 {
		return 0, nil
	}

	return sum / count, nil
}
