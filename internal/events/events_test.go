package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/workhive/workhive/internal/events"
	"github.com/workhive/workhive/internal/models"
	"github.com/workhive/workhive/pkg/repository/mock"
)

func TestRecord_PersistsAndFansOut(t *testing.T) {
	ctx := context.Background()
	repo := mock.NewRepo()
	rec := events.NewRecorder(repo, nil)

	var seen []models.Event
	rec.Subscribe(func(e models.Event) { seen = append(seen, e) })

	rec.Record(ctx, events.TypeJobListed, 1, map[string]any{"job_id": 1})
	rec.Record(ctx, events.TypeJobBid, 1, map[string]any{"job_id": 1, "freelancer_id": 2})

	if len(seen) != 2 {
		t.Fatalf("subscriber saw %d events, want 2", len(seen))
	}
	if seen[0].Type != events.TypeJobListed || seen[1].Type != events.TypeJobBid {
		t.Fatalf("subscriber order wrong: %q then %q", seen[0].Type, seen[1].Type)
	}
	if seen[0].ID == "" || seen[0].ID == seen[1].ID {
		t.Fatalf("event ids not unique: %q, %q", seen[0].ID, seen[1].ID)
	}

	stored, err := repo.ListEvents(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d events, want 2", len(stored))
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(stored[1].Payload), &payload); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if payload["freelancer_id"] != float64(2) {
		t.Fatalf("payload = %v, want freelancer_id 2", payload)
	}
}

func TestRecord_StorageFailureDoesNotPropagate(t *testing.T) {
	ctx := context.Background()
	repo := mock.NewRepo()
	repo.AppendEventErr = errors.New("disk full")
	rec := events.NewRecorder(repo, nil)

	var seen int
	rec.Subscribe(func(models.Event) { seen++ })

	// must not panic or block; subscribers still see the event
	rec.Record(ctx, events.TypeTransfer, 0, map[string]any{"amount": 5})
	if seen != 1 {
		t.Fatalf("subscriber saw %d events, want 1", seen)
	}
}

func TestRecord_UnmarshalablePayloadFallsBack(t *testing.T) {
	ctx := context.Background()
	repo := mock.NewRepo()
	rec := events.NewRecorder(repo, nil)

	rec.Record(ctx, events.TypeApproval, 0, func() {})

	stored, _ := repo.ListEvents(ctx, 1, 0)
	if len(stored) != 1 || stored[0].Payload != "{}" {
		t.Fatalf("stored = %+v, want payload {}", stored)
	}
}
