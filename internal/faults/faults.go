// Package faults defines the error taxonomy shared by the marketplace
// engines. The sentinel messages are part of the wire contract: existing
// callers match on the exact reason text, so they must not be reworded.
package faults

import "errors"

var (
	// ErrUnauthorized means the caller identity does not match the actor a
	// record requires.
	ErrUnauthorized = errors.New("caller is not authorized")

	// ErrNotOwner guards registry ownership transfer.
	ErrNotOwner = errors.New("Caller is not the contract owner")

	// ErrNotProfileOwner guards profile updates.
	ErrNotProfileOwner = errors.New("Only the user can update their details.")

	// ErrInvalidActor means the identity exists but has the wrong role.
	ErrInvalidActor = errors.New("actor has the wrong role")

	// ErrInvalidState means the operation is forbidden by the entity's
	// current status.
	ErrInvalidState = errors.New("operation not allowed in the current state")

	// ErrPaymentState is the InvalidState variant for escrow settlement.
	ErrPaymentState = errors.New("Payment is not in the correct status")

	// ErrNotFound means the referenced id was never assigned.
	ErrNotFound = errors.New("not found")

	ErrInsufficientBalance   = errors.New("Insufficient balance")
	ErrInsufficientAllowance = errors.New("Insufficient allowance")

	// ErrInvalidRating rejects ratings outside 1..5.
	ErrInvalidRating = errors.New("Rating must be between 1 and 5")
)

// IsInvalidState reports whether err belongs to the InvalidState class,
// which has per-engine reason strings.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState) || errors.Is(err, ErrPaymentState)
}

// IsUnauthorized reports whether err belongs to the Unauthorized class.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotOwner) || errors.Is(err, ErrNotProfileOwner)
}
