package repository

import (
	"context"

	"github.com/workhive/workhive/internal/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type AccountRepo interface {
	CreateAccount(ctx context.Context, a *models.Account) error
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

type UserRepo interface {
	// CreateUser stores a user under the id already assigned by the
	// registry engine.
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	// NextUserID returns the id the next registration should take.
	NextUserID(ctx context.Context) (int64, error)
}

type MetaRepo interface {
	GetMeta(ctx context.Context, key string) (string, error)
	SetMeta(ctx context.Context, key, value string) error
}

type LedgerRepo interface {
	GetBalance(ctx context.Context, account string) (int64, error)
	UpsertBalance(ctx context.Context, account string, balance int64) error
	// MoveBalance debits from and credits to inside a single transaction.
	MoveBalance(ctx context.Context, from, to string, amount int64) error
	GetAllowance(ctx context.Context, owner, spender string) (int64, error)
	SetAllowance(ctx context.Context, owner, spender string, amount int64) error
	IsMinter(ctx context.Context, account string) (bool, error)
	AddMinter(ctx context.Context, account string) error
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) error
	GetJobByID(ctx context.Context, id int64) (*models.Job, error)
	UpdateJob(ctx context.Context, j *models.Job) error
	ListJobs(ctx context.Context, limit, offset int) ([]models.Job, error)
	NextJobID(ctx context.Context) (int64, error)
}

type PaymentRepo interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	GetPaymentByID(ctx context.Context, id int64) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus) error
	NextPaymentID(ctx context.Context) (int64, error)
}

type ResumeRepo interface {
	AddWorkExperience(ctx context.Context, w *models.WorkExperience) (int64, error)
	ListWorkExperience(ctx context.Context, userID int64) ([]models.WorkExperience, error)
	AddReview(ctx context.Context, r *models.Review) (int64, error)
	ListReviews(ctx context.Context, subjectID int64) ([]models.Review, error)
	// ReviewStats returns the rating sum and review count for a subject.
	ReviewStats(ctx context.Context, subjectID int64) (sum int64, count int64, err error)
}

type EventRepo interface {
	AppendEvent(ctx context.Context, e *models.Event) error
	ListEvents(ctx context.Context, limit, offset int) ([]models.Event, error)
	CountEvents(ctx context.Context) (int64, error)
}

type SchemaRepo interface {
	UpsertPayloadSchema(ctx context.Context, name, version, schemaJSON string) (int64, error)
	GetPayloadSchema(ctx context.Context, name string) (*models.PayloadSchema, error)
	ListPayloadSchemas(ctx context.Context) ([]models.PayloadSchema, error)
}
