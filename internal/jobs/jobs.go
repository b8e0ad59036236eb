// Package jobs implements the job lifecycle state machine:
//
//	Open -> InProgress -> Completed
//	Open -> Cancelled
//
// Completed and Cancelled are terminal. Job ids are monotonic from 1.
package jobs

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

// Identity is the slice of the user registry the engine needs for actor
// validation.
type Identity interface {
	IsClient(ctx context.Context, id int64) (bool, error)
	IsFreelancer(ctx context.Context, id int64) (bool, error)
	OwnerOf(ctx context.Context, id int64) (string, error)
}

// Engine owns the Job aggregate. One mutex serialises every transition so a
// job cannot take two transitions at once; reads go straight to the repo.
type Engine struct {
	repo     repository.JobRepo
	identity Identity
	events   *events.Recorder
	logger   *slog.Logger

	mu     sync.Mutex
	nextID int64
}

func NewEngine(ctx context.Context, repo repository.JobRepo, identity Identity, rec *events.Recorder, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	next, err := repo.NextJobID(ctx)
	if err != nil {
		return nil, fmt.Errorf("load job id counter: %w", err)
	}

	return &Engine{repo: repo, identity: identity, events: rec, logger: logger, nextID: next}, nil
}

// ListJob creates an Open job for a client. The caller must be the owning
// account of clientID.
func (e *Engine) ListJob(ctx context.Context, caller string, clientID int64, description string, amount int64) (int64, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return 0, fmt.Errorf("description is required")
	}
	if amount <= 0 {
		return 0, fmt.Errorf("payment amount must be positive")
	}

	owner, err := e.identity.OwnerOf(ctx, clientID)
	if err != nil {
		return 0, err
	}
	if owner != caller {
		return 0, fmt.Errorf("%w: caller does not own client %d", faults.ErrUnauthorized, clientID)
	}
	isClient, err := e.identity.IsClient(ctx, clientID)
	if err != nil {
		return 0, err
	}
	if !isClient {
		return 0, fmt.Errorf("%w: user %d is not a client", faults.ErrInvalidActor, clientID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	j := &models.Job{
		ID:            e.nextID,
		ClientID:      clientID,
		Description:   description,
		PaymentAmount: amount,
		Status:        models.JobOpen,
	}
	if err := e.repo.CreateJob(ctx, j); err != nil {
		return 0, fmt.Errorf("create job: %w", err)
	}
	e.nextID++

	e.logger.Info("job listed", "job_id", j.ID, "client_id", clientID, "amount", amount)
	e.events.Record(ctx, events.TypeJobListed, j.ID, map[string]any{
		"job_id":    j.ID,
		"client_id": clientID,
		"amount":    amount,
		"status":    models.JobOpen.String(),
	})

	return j.ID, nil
}

// UpdateJob changes the description and payment amount of an Open job.
// Restricted to the job's client.
func (e *Engine) UpdateJob(ctx context.Context, caller string, jobID int64, description string, amount int64) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("description is required")
	}
	if amount <= 0 {
		return fmt.Errorf("payment amount must be positive")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	j, err := e.getJob(ctx, jobID)
	if err != nil {
		return err
	}
	if err := e.requireClientOwner(ctx, caller, j); err != nil {
		return err
	}
	if j.Status != models.JobOpen {
		return fmt.Errorf("%w: job %d is not open", faults.ErrInvalidState, jobID)
	}

	j.Description = description
	j.PaymentAmount = amount
	if err := e.repo.UpdateJob(ctx, j); err != nil {
		return fmt.Errorf("update job %d: %w", jobID, err)
	}

	e.events.Record(ctx, events.TypeJobUpdated, jobID, map[string]any{
		"job_id": jobID,
		"amount": amount,
		"status": j.Status.String(),
	})

	return nil
}

// BidJob assigns a freelancer to an Open job and moves it to InProgress.
// First accepted bid wins; there is no auction.
func (e *Engine) BidJob(ctx context.Context, freelancerID, jobID int64) error {
	isFreelancer, err := e.identity.IsFreelancer(ctx, freelancerID)
	if err != nil {
		return err
	}
	if !isFreelancer {
		return fmt.Errorf("%w: user %d is not a freelancer", faults.ErrInvalidActor, freelancerID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	j, err := e.getJob(ctx, jobID)
	if err != nil {
		return err
	}
	if j.Status != models.JobOpen {
		return fmt.Errorf("%w: job %d is not open for bids", faults.ErrInvalidState, jobID)
	}

	j.FreelancerID = &freelancerID
	j.Status = models.JobInProgress
	if err := e.repo.UpdateJob(ctx, j); err != nil {
		return fmt.Errorf("update job %d: %w", jobID, err)
	}

	e.logger.Info("job bid accepted", "job_id", jobID, "freelancer_id", freelancerID)
	e.events.Record(ctx, events.TypeJobBid, jobID, map[string]any{
		"job_id":        jobID,
		"freelancer_id": freelancerID,
		"status":        j.Status.String(),
	})

	return nil
}

// CompleteJob moves an InProgress job to Completed. Completion is asserted
// unilaterally; there is no dispute state.
func (e *Engine) CompleteJob(ctx context.Context, jobID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	j, err := e.getJob(ctx, jobID)
	if err != nil {
		return err
	}
	if j.Status != models.JobInProgress {
		return fmt.Errorf("%w: job %d is not in progress", faults.ErrInvalidState, jobID)
	}

	j.Status = models.JobCompleted
	if err := e.repo.UpdateJob(ctx, j); err != nil {
		return fmt.Errorf("update job %d: %w", jobID, err)
	}

	e.events.Record(ctx, events.TypeJobCompleted, jobID, map[string]any{
		"job_id": jobID,
		"status": j.Status.String(),
	})

	return nil
}

// CancelJob moves an Open job to Cancelled. Restricted to the job's client.
func (e *Engine) CancelJob(ctx context.Context, caller string, jobID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	j, err := e.getJob(ctx, jobID)
	if err != nil {
		return err
	}
	if err := e.requireClientOwner(ctx, caller, j); err != nil {
		return err
	}
	if j.Status != models.JobOpen {
		return fmt.Errorf("%w: job %d is not open", faults.ErrInvalidState, jobID)
	}

	j.Status = models.JobCancelled
	if err := e.repo.UpdateJob(ctx, j); err != nil {
		return fmt.Errorf("update job %d: %w", jobID, err)
	}

	e.events.Record(ctx, events.TypeJobCancelled, jobID, map[string]any{
		"job_id": jobID,
		"status": j.Status.String(),
	})

	return nil
}

// GetJobDetails returns the full job record.
func (e *Engine) GetJobDetails(ctx context.Context, jobID int64) (*models.Job, error) {
	return e.getJob(ctx, jobID)
}

// ListJobs returns jobs in id order for discovery.
func (e *Engine) ListJobs(ctx context.Context, limit, offset int) ([]models.Job, error) {
	return e.repo.ListJobs(ctx, limit, offset)
}

func (e *Engine) getJob(ctx context.Context, jobID int64) (*models.Job, error) {
	j, err := e.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", jobID, err)
	}
	if j == nil {
		return nil, fmt.Errorf("job %d: %w", jobID, faults.ErrNotFound)
	}

	return j, nil
}

func (e *Engine) requireClientOwner(ctx context.Context, caller string, j *models.Job) error {
	owner, err := e.identity.OwnerOf(ctx, j.ClientID)
	if err != nil {
		return err
	}
	if owner != caller {
		return fmt.Errorf("%w: caller is not the job's client", faults.ErrUnauthorized)
	}

	return nil
}
