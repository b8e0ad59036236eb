package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// UserKind classifies a registered marketplace user. The value is fixed at
// registration and never changes afterwards.
type UserKind int

const (
	KindFreelancer UserKind = iota
	KindClient
)

func (k UserKind) String() string {
	switch k {
	case KindFreelancer:
		return "freelancer"
	case KindClient:
		return "client"
	default:
		return "unknown"
	}
}

// Account is an authentication principal. Its ID is the caller identity
// checked against record ownership everywhere else in the system.
type Account struct {
	ID           string `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Created      int64  `json:"created" db:"created"`
}

type User struct {
	ID       int64    `json:"id" db:"id"`
	Kind     UserKind `json:"kind" db:"kind"`
	Username string   `json:"username" db:"username" validate:"required"`
	Name     string   `json:"name" db:"name" validate:"required"`
	Email    string   `json:"email" db:"email" validate:"required,email"`
	Owner    string   `json:"owner" db:"owner"`
	Updated  int64    `json:"updated" db:"updated"`
}

type JobStatus int

const (
	JobOpen JobStatus = iota
	JobInProgress
	JobCompleted
	JobCancelled
)

func (s JobStatus) String() string {
	switch s {
	case JobOpen:
		return "open"
	case JobInProgress:
		return "in_progress"
	case JobCompleted:
		return "completed"
	case JobCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Job records a piece of work listed by a client. FreelancerID is nil until
// the first accepted bid; jobs are never deleted, terminal states are kept
// for audit.
type Job struct {
	ID            int64     `json:"id" db:"id"`
	ClientID      int64     `json:"client_id" db:"client_id"`
	FreelancerID  *int64    `json:"freelancer_id,omitempty" db:"freelancer_id"`
	Description   string    `json:"description" db:"description"`
	PaymentAmount int64     `json:"payment_amount" db:"payment_amount"`
	Status        JobStatus `json:"status" db:"status"`
	Created       int64     `json:"created" db:"created"`
	Updated       int64     `json:"updated" db:"updated"`
}

type PaymentStatus int

const (
	PaymentPending PaymentStatus = iota
	PaymentCompleted
	PaymentRefunded
)

func (s PaymentStatus) String() string {
	switch s {
	case PaymentPending:
		return "pending"
	case PaymentCompleted:
		return "completed"
	case PaymentRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// Payment is an escrow record. Amount is fixed at initiation; status moves
// exactly once, to Completed or Refunded.
type Payment struct {
	ID           int64         `json:"id" db:"id"`
	ClientID     int64         `json:"client_id" db:"client_id"`
	FreelancerID int64         `json:"freelancer_id" db:"freelancer_id"`
	JobID        int64         `json:"job_id" db:"job_id"`
	Amount       int64         `json:"amount" db:"amount"`
	Status       PaymentStatus `json:"status" db:"status"`
	Created      int64         `json:"created" db:"created"`
	Updated      int64         `json:"updated" db:"updated"`
}

// WorkExperience is an append-only resume entry for a freelancer.
type WorkExperience struct {
	ID          int64    `json:"id" db:"id"`
	UserID      int64    `json:"user_id" db:"user_id"`
	JobTitle    string   `json:"job_title" db:"job_title"`
	Description string   `json:"description" db:"description"`
	StartDate   int64    `json:"start_date" db:"start_date"`
	EndDate     int64    `json:"end_date" db:"end_date"`
	Skills      []string `json:"skills" db:"skills"`
	Created     int64    `json:"created" db:"created"`
}

// Review is immutable once created. Rating is constrained to 1..5.
type Review struct {
	ID         int64  `json:"id" db:"id"`
	ReviewerID int64  `json:"reviewer_id" db:"reviewer_id"`
	SubjectID  int64  `json:"subject_id" db:"subject_id"`
	Rating     int    `json:"rating" db:"rating"`
	Comment    string `json:"comment" db:"comment"`
	Created    int64  `json:"created" db:"created"`
}

// LedgerAccount is a balance row in the value ledger, keyed by account
// identity. Rows are created lazily on first credit.
type LedgerAccount struct {
	Account string `json:"account" db:"account"`
	Balance int64  `json:"balance" db:"balance"`
	Updated int64  `json:"updated" db:"updated"`
}

// Allowance authorises spender to move up to Amount out of Owner's balance.
type Allowance struct {
	Owner   string `json:"owner" db:"owner"`
	Spender string `json:"spender" db:"spender"`
	Amount  int64  `json:"amount" db:"amount"`
	Updated int64  `json:"updated" db:"updated"`
}

// Event is an observable notification appended after every committed
// mutation. It carries the affected entity id and the new status or value so
// an indexer can reconstruct state without re-querying.
type Event struct {
	ID       string `json:"id" db:"id"`
	Type     string `json:"type" db:"type"`
	EntityID int64  `json:"entity_id" db:"entity_id"`
	Payload  string `json:"payload" db:"payload"`
	Created  int64  `json:"created" db:"created"`
}

// PayloadSchema stores a JSON schema, compiled on load, used to validate
// inbound request payloads.
type PayloadSchema struct {
	ID         int64  `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Version    string `json:"version" db:"version"`
	SchemaJSON string `json:"schema_json" db:"schema_json"`
	Created    int64  `json:"created" db:"created"`
	Updated    int64  `json:"updated" db:"updated"`
}
