// Package identity implements the user registry: registration, profile
// updates, role classification and registry ownership. User ids are
// monotonic from 0 and never reused; a user's kind is fixed at registration.
package identity

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

const metaOwnerKey = "registry_owner"

// Registry owns the UserRecord aggregate. All mutations are serialised by a
// single mutex so id allocation and ownership checks cannot interleave.
type Registry struct {
	users  repository.UserRepo
	meta   repository.MetaRepo
	events *events.Recorder
	logger *slog.Logger

	mu     sync.Mutex
	nextID int64
	owner  string
}

// NewRegistry loads the id counter and the persisted registry owner. When no
// owner has been recorded yet, deployer becomes the owner (the account that
// bootstraps the platform).
func NewRegistry(ctx context.Context, users repository.UserRepo, meta repository.MetaRepo, rec *events.Recorder, logger *slog.Logger, deployer string) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	next, err := users.NextUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user id counter: %w", err)
	}

	owner, err := meta.GetMeta(ctx, metaOwnerKey)
	if err != nil {
		return nil, fmt.Errorf("load registry owner: %w", err)
	}
	if owner == "" {
		owner = deployer
		if err := meta.SetMeta(ctx, metaOwnerKey, owner); err != nil {
			return nil, fmt.Errorf("store registry owner: %w", err)
		}
	}

	return &Registry{users: users, meta: meta, events: rec, logger: logger, nextID: next, owner: owner}, nil
}

// Register creates a user record owned by the caller account and returns the
// new user id.
func (r *Registry) Register(ctx context.Context, caller string, kind models.UserKind, username, name, email string) (int64, error) {
	if caller == "" {
		return 0, faults.ErrUnauthorized
	}
	if kind != models.KindFreelancer && kind != models.KindClient {
		return 0, fmt.Errorf("%w: unknown user kind %d", faults.ErrInvalidActor, kind)
	}
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if username == "" || name == "" || email == "" {
		return 0, fmt.Errorf("username, name and email are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u := &models.User{
		ID:       r.nextID,
		Kind:     kind,
		Username: username,
		Name:     name,
		Email:    email,
		Owner:    caller,
	}
	if err := r.users.CreateUser(ctx, u); err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	r.nextID++

	r.logger.Info("user registered", "user_id", u.ID, "kind", kind.String(), "username", username)
	r.events.Record(ctx, events.TypeNewUserRegistered, u.ID, map[string]any{
		"user_id":  u.ID,
		"kind":     kind.String(),
		"username": username,
	})

	return u.ID, nil
}

func (r *Registry) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := r.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if u == nil {
		return nil, fmt.Errorf("user %d: %w", id, faults.ErrNotFound)
	}

	return u, nil
}

// UpdateUser changes name and email. Only the owning account may update a
// profile; user id and kind are immutable.
func (r *Registry) UpdateUser(ctx context.Context, caller string, id int64, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.users.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get user %d: %w", id, err)
	}
	if u == nil {
		return fmt.Errorf("user %d: %w", id, faults.ErrNotFound)
	}
	if u.Owner != caller {
		return faults.ErrNotProfileOwner
	}

	if name = strings.TrimSpace(name); name != "" {
		u.Name = name
	}
	if email = strings.TrimSpace(email); email != "" {
		u.Email = email
	}
	if err := r.users.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}

	r.events.Record(ctx, events.TypeUserUpdated, id, map[string]any{
		"user_id": id,
		"name":    u.Name,
		"email":   u.Email,
	})

	return nil
}

func (r *Registry) IsFreelancer(ctx context.Context, id int64) (bool, error) {
	u, err := r.users.GetUserByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get user %d: %w", id, err)
	}
	if u == nil {
		return false, fmt.Errorf("user %d: %w", id, faults.ErrNotFound)
	}

	return u.Kind == models.KindFreelancer, nil
}

func (r *Registry) IsClient(ctx context.Context, id int64) (bool, error) {
	u, err := r.users.GetUserByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get user %d: %w", id, err)
	}
	if u == nil {
		return false, fmt.Errorf("user %d: %w", id, faults.ErrNotFound)
	}

	return u.Kind == models.KindClient, nil
}

// OwnerOf returns the owning account of a user record.
func (r *Registry) OwnerOf(ctx context.Context, id int64) (string, error) {
	u, err := r.users.GetUserByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get user %d: %w", id, err)
	}
	if u == nil {
		return "", fmt.Errorf("user %d: %w", id, faults.ErrNotFound)
	}

	return u.Owner, nil
}

// Owner returns the current registry owner account.
func (r *Registry) Owner() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owner
}

// TransferOwnership hands the registry to a new owner account. Restricted to
// the current owner.
func (r *Registry) TransferOwnership(ctx context.Context, caller, newOwner string) error {
	if newOwner == "" {
		return fmt.Errorf("new owner is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.owner {
		return faults.ErrNotOwner
	}
	if err := r.meta.SetMeta(ctx, metaOwnerKey, newOwner); err != nil {
		return fmt.Errorf("store registry owner: %w", err)
	}
	r.owner = newOwner

	r.logger.Info("registry ownership transferred", "new_owner", newOwner)
	r.events.Record(ctx, events.TypeOwnershipTransferred, 0, map[string]any{"new_owner": newOwner})

	return nil
}
