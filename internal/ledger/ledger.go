// Package ledger implements the value ledger: a balance-bearing token with
// mint, approve/allowance and transfer primitives. It is the funds-movement
// primitive underneath the payment escrow; it knows nothing about jobs or
// payments.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"log/slog"

	"github.com/workhive/workhive/internal/events"
	"github.com/workhive/workhive/internal/faults"
	"github.com/workhive/workhive/pkg/repository"
)

// Ledger serialises every balance or allowance mutation under one mutex;
// concurrent transfers touching the same account cannot lose updates.
type Ledger struct {
	repo   repository.LedgerRepo
	events *events.Recorder
	logger *slog.Logger
	owner  string

	mu sync.Mutex
}

// New creates a ledger owned by the deployer account. The owner is the only
// account allowed to authorise minters.
func New(repo repository.LedgerRepo, rec *events.Recorder, logger *slog.Logger, owner string) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{repo: repo, events: rec, logger: logger, owner: owner}
}

// AddAuthorised grants mint rights to an account. Owner only.
func (l *Ledger) AddAuthorised(ctx context.Context, caller, account string) error {
	if caller != l.owner {
		return faults.ErrNotOwner
	}
	if account == "" {
		return fmt.Errorf("account is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.repo.AddMinter(ctx, account); err != nil {
		return fmt.Errorf("add minter: %w", err)
	}

	return nil
}

// Mint credits newly issued funds to an account. Restricted to authorised
// minters.
func (l *Ledger) Mint(ctx context.Context, caller string, amount int64, to string) error {
	if amount <= 0 {
		return fmt.Errorf("mint amount must be positive")
	}
	if to == "" {
		return fmt.Errorf("recipient is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	authorised, err := l.repo.IsMinter(ctx, caller)
	if err != nil {
		return fmt.Errorf("check minter: %w", err)
	}
	if !authorised {
		return fmt.Errorf("%w: not an authorised minter", faults.ErrUnauthorized)
	}

	balance, err := l.repo.GetBalance(ctx, to)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}
	if err := l.repo.UpsertBalance(ctx, to, balance+amount); err != nil {
		return fmt.Errorf("credit mint: %w", err)
	}

	l.logger.Info("minted", "to", to, "amount", amount)
	l.events.Record(ctx, events.TypeMintToken, 0, map[string]any{"to": to, "amount": amount})

	return nil
}

// Approve sets the amount spender may move out of owner's balance.
func (l *Ledger) Approve(ctx context.Context, owner, spender string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("allowance must not be negative")
	}
	if owner == "" || spender == "" {
		return fmt.Errorf("owner and spender are required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.repo.SetAllowance(ctx, owner, spender, amount); err != nil {
		return fmt.Errorf("set allowance: %w", err)
	}

	l.events.Record(ctx, events.TypeApproval, 0, map[string]any{"owner": owner, "spender": spender, "amount": amount})

	return nil
}

func (l *Ledger) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	return l.repo.GetAllowance(ctx, owner, spender)
}

func (l *Ledger) BalanceOf(ctx context.Context, account string) (int64, error) {
	return l.repo.GetBalance(ctx, account)
}

// Transfer moves funds from the caller's own balance.
func (l *Ledger) Transfer(ctx context.Context, from, to string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.move(ctx, from, to, amount)
}

// TransferFrom moves funds out of from's balance on behalf of spender,
// consuming spender's allowance.
func (l *Ledger) TransferFrom(ctx context.Context, spender, from, to string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	allowance, err := l.repo.GetAllowance(ctx, from, spender)
	if err != nil {
		return fmt.Errorf("get allowance: %w", err)
	}
	if allowance < amount {
		return faults.ErrInsufficientAllowance
	}

	if err := l.move(ctx, from, to, amount); err != nil {
		return err
	}

	if err := l.repo.SetAllowance(ctx, from, spender, allowance-amount); err != nil {
		// The transfer already happened; put it back rather than leave a
		// half-applied spend.
		if rerr := l.repo.MoveBalance(ctx, to, from, amount); rerr != nil {
			l.logger.Error("allowance update failed and compensation failed", "err", err, "compensation_err", rerr)
		}
		return fmt.Errorf("consume allowance: %w", err)
	}

	return nil
}

// move validates and executes a balance movement. Callers must hold l.mu.
func (l *Ledger) move(ctx context.Context, from, to string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be positive")
	}
	if from == "" || to == "" {
		return fmt.Errorf("sender and recipient are required")
	}

	balance, err := l.repo.GetBalance(ctx, from)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}
	if balance < amount {
		return faults.ErrInsufficientBalance
	}

	if err := l.repo.MoveBalance(ctx, from, to, amount); err != nil {
		return fmt.Errorf("move balance: %w", err)
	}

	l.events.Record(ctx, events.TypeTransfer, 0, map[string]any{"from": from, "to": to, "amount": amount})

	return nil
}
