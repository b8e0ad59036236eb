// Package escrow implements the payment escrow state machine:
//
//	Pending -> Completed
//	Pending -> Refunded
//
// Both outcomes are terminal and mutually exclusive. Funds leave the
// client's spendable balance at initiation and are routed to exactly one of
// freelancer or client at settlement. Payment ids are monotonic from 0.
package escrow

import (
	"context"
	"fmt"
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

// Ledger is the funds-movement primitive the escrow settles against.
type Ledger interface {
	TransferFrom(ctx context.Context, spender, from, to string, amount int64) error
	Transfer(ctx context.Context, from, to string, amount int64) error
}

// Engine owns the Payment aggregate. Escrowed funds are held on the
// engine's own custody account between initiation and settlement.
type Engine struct {
	repo     repository.PaymentRepo
	identity Identity
	ledger   Ledger
	events   *events.Recorder
	logger   *slog.Logger
	custody  string

	mu     sync.Mutex
	nextID int64
}

func NewEngine(ctx context.Context, repo repository.PaymentRepo, identity Identity, ledger Ledger, rec *events.Recorder, logger *slog.Logger, custody string) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if custody == "" {
		return nil, fmt.Errorf("custody account is required")
	}

	next, err := repo.NextPaymentID(ctx)
	if err != nil {
		return nil, fmt.Errorf("load payment id counter: %w", err)
	}

	return &Engine{repo: repo, identity: identity, ledger: ledger, events: rec, logger: logger, custody: custody, nextID: next}, nil
}

// CustodyAccount returns the account escrowed funds are held on.
func (e *Engine) CustodyAccount() string {
	return e.custody
}

// InitiatePayment pulls amount from the client's balance into escrow custody
// using the allowance the client granted the custody account beforehand, and
// creates a Pending payment.
func (e *Engine) InitiatePayment(ctx context.Context, clientID, freelancerID, jobID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("payment amount must be positive")
	}

	isClient, err := e.identity.IsClient(ctx, clientID)
	if err != nil {
		return 0, err
	}
	if !isClient {
		return 0, fmt.Errorf("%w: user %d is not a client", faults.ErrInvalidActor, clientID)
	}
	isFreelancer, err := e.identity.IsFreelancer(ctx, freelancerID)
	if err != nil {
		return 0, err
	}
	if !isFreelancer {
		return 0, fmt.Errorf("%w: user %d is not a freelancer", faults.ErrInvalidActor, freelancerID)
	}

	clientAccount, err := e.identity.OwnerOf(ctx, clientID)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Phase 1: funds leave the client's spendable balance.
	if err := e.ledger.TransferFrom(ctx, e.custody, clientAccount, e.custody, amount); err != nil {
		return 0, err
	}

	p := &models.Payment{
		ID:           e.nextID,
		ClientID:     clientID,
		FreelancerID: freelancerID,
		JobID:        jobID,
		Amount:       amount,
		Status:       models.PaymentPending,
	}
	if err := e.repo.CreatePayment(ctx, p); err != nil {
		// No payment record means no settlement path; hand the funds back.
		if rerr := e.ledger.Transfer(ctx, e.custody, clientAccount, amount); rerr != nil {
			e.logger.Error("escrow pull could not be compensated", "client_account", clientAccount, "amount", amount, "err", rerr)
		}
		return 0, fmt.Errorf("create payment: %w", err)
	}
	e.nextID++

	e.logger.Info("payment initiated", "payment_id", p.ID, "job_id", jobID, "amount", amount)
	e.events.Record(ctx, events.TypePaymentInitiated, p.ID, map[string]any{
		"payment_id":    p.ID,
		"client_id":     clientID,
		"freelancer_id": freelancerID,
		"job_id":        jobID,
		"amount":        amount,
		"status":        models.PaymentPending.String(),
	})

	return p.ID, nil
}

// CompletePayment releases escrowed funds to the freelancer. Pending only.
func (e *Engine) CompletePayment(ctx context.Context, paymentID int64) error {
	return e.settle(ctx, paymentID, models.PaymentCompleted, events.TypePaymentCompleted)
}

// RefundPayment returns escrowed funds to the client. Pending only.
func (e *Engine) RefundPayment(ctx context.Context, paymentID int64) error {
	return e.settle(ctx, paymentID, models.PaymentRefunded, events.TypePaymentRefunded)
}

// GetPayment returns the payment record.
func (e *Engine) GetPayment(ctx context.Context, paymentID int64) (*models.Payment, error) {
	p, err := e.repo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", paymentID, err)
	}
	if p == nil {
		return nil, fmt.Errorf("payment %d: %w", paymentID, faults.ErrNotFound)
	}

	return p, nil
}

// settle is phase 2 of the escrow: route the held funds to exactly one
// party and mark the payment terminal. A payment that already settled can
// never settle again.
func (e *Engine) settle(ctx context.Context, paymentID int64, target models.PaymentStatus, eventType string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.repo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("get payment %d: %w", paymentID, err)
	}
	if p == nil {
		return fmt.Errorf("payment %d: %w", paymentID, faults.ErrNotFound)
	}
	if p.Status != models.PaymentPending {
		return faults.ErrPaymentState
	}

	var recipientUser int64
	if target == models.PaymentCompleted {
		recipientUser = p.FreelancerID
	} else {
		recipientUser = p.ClientID
	}
	recipient, err := e.identity.OwnerOf(ctx, recipientUser)
	if err != nil {
		return err
	}

	if err := e.ledger.Transfer(ctx, e.custody, recipient, p.Amount); err != nil {
		return err
	}
	if err := e.repo.UpdatePaymentStatus(ctx, paymentID, target); err != nil {
		// Funds already moved; pull them back so the payment stays Pending.
		if rerr := e.ledger.Transfer(ctx, recipient, e.custody, p.Amount); rerr != nil {
			e.logger.Error("settlement could not be compensated", "payment_id", paymentID, "err", rerr)
		}
		return fmt.Errorf("update payment %d: %w", paymentID, err)
	}

	e.logger.Info("payment settled", "payment_id", paymentID, "status", target.String())
	e.events.Record(ctx, eventType, paymentID, map[string]any{
		"payment_id": paymentID,
		"amount":     p.Amount,
		"status":     target.String(),
	})

	return nil
}
