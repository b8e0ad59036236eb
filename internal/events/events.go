// Package events records the observable notifications emitted by the
// marketplace engines. Events are appended to durable storage and fanned out
// to in-process subscribers so tests and indexers can watch mutations
// without re-querying entity state.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/workhive/workhive/internal/models"
	"github.com/workhive/workhive/pkg/repository"
)

// Event type names, part of the external contract.
const (
	TypeNewUserRegistered    = "NewUserRegistered"
	TypeUserUpdated          = "UserUpdated"
	TypeOwnershipTransferred = "OwnershipTransferred"
	TypeMintToken            = "MintToken"
	TypeApproval             = "Approval"
	TypeTransfer             = "Transfer"
	TypeJobListed            = "JobListed"
	TypeJobUpdated           = "JobUpdated"
	TypeJobBid               = "JobBid"
	TypeJobCompleted         = "JobCompleted"
	TypeJobCancelled         = "JobCancelled"
	TypePaymentInitiated     = "PaymentInitiated"
	TypePaymentCompleted     = "PaymentCompleted"
	TypePaymentRefunded      = "PaymentRefunded"
	TypeWorkExperienceAdded  = "WorkExperienceAdded"
	TypeReviewAdded          = "ReviewAdded"
)

// Subscriber receives every recorded event synchronously.
type Subscriber func(e models.Event)

type Recorder struct {
	repo   repository.EventRepo
	logger *slog.Logger

	mu   sync.RWMutex
	subs []Subscriber
}

func NewRecorder(repo repository.EventRepo, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{repo: repo, logger: logger}
}

// Subscribe registers a subscriber for all future events.
func (r *Recorder) Subscribe(fn Subscriber) {
	r.mu.Lock()
	r.subs = append(r.subs, fn)
	r.mu.Unlock()
}

// Record appends an event after a committed mutation. Recording is
// best-effort: a storage failure is logged, never propagated, so it cannot
// roll back the mutation it describes.
func (r *Recorder) Record(ctx context.Context, typ string, entityID int64, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("marshal event payload", "type", typ, "err", err)
		b = []byte("{}")
	}

	e := models.Event{
		ID:       uuid.NewString(),
		Type:     typ,
		EntityID: entityID,
		Payload:  string(b),
		Created:  time.Now().UTC().UnixMilli(),
	}

	if err := r.repo.AppendEvent(ctx, &e); err != nil {
		r.logger.Error("append event", "type", typ, "entity_id", entityID, "err", err)
	}

	r.mu.RLock()
	subs := make([]Subscriber, len(r.subs))
	copy(subs, r.subs)
	r.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}
