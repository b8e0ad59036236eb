package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/workhive/workhive/internal/models"
	"github.com/workhive/workhive/pkg/repository"
)

var (
	_ repository.AccountRepo = (*Repo)(nil)
	_ repository.UserRepo    = (*Repo)(nil)
	_ repository.MetaRepo    = (*Repo)(nil)
	_ repository.LedgerRepo  = (*Repo)(nil)
	_ repository.JobRepo     = (*Repo)(nil)
	_ repository.PaymentRepo = (*Repo)(nil)
	_ repository.ResumeRepo  = (*Repo)(nil)
	_ repository.EventRepo   = (*Repo)(nil)
	_ repository.SchemaRepo  = (*Repo)(nil)
)

// Repo is an in-memory implementation of the repository interfaces for
// tests. Lookups mirror the sqlite behavior: a missing row is (nil, nil),
// not an error.
type Repo struct {
	mu sync.Mutex

	Accounts   map[string]*models.Account
	Users      map[int64]*models.User
	Meta       map[string]string
	Balances   map[string]int64
	Allowances map[string]int64
	Minters    map[string]bool
	Jobs       map[int64]*models.Job
	Payments   map[int64]*models.Payment
	Experience []models.WorkExperience
	Reviews    []models.Review
	Events     []models.Event
	Schemas    map[string]*models.PayloadSchema

	nextExperienceID int64
	nextReviewID     int64

	// fault injection
	CreateAccountErr error
	CreateUserErr    error
	UpdateUserErr    error
	CreateJobErr     error
	UpdateJobErr     error
	CreatePaymentErr error
	UpdatePaymentErr error
	SetAllowanceErr  error
	MoveBalanceErr   error
	AppendEventErr   error
}

func NewRepo() *Repo {
	return &Repo{
		Accounts:   make(map[string]*models.Account),
		Users:      make(map[int64]*models.User),
		Meta:       make(map[string]string),
		Balances:   make(map[string]int64),
		Allowances: make(map[string]int64),
		Minters:    make(map[string]bool),
		Jobs:       make(map[int64]*models.Job),
		Payments:   make(map[int64]*models.Payment),
		Schemas:    make(map[string]*models.PayloadSchema),
	}
}

// AccountRepo

func (m *Repo) CreateAccount(ctx context.Context, a *models.Account) error {
	if m.CreateAccountErr != nil {
		return m.CreateAccountErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.Accounts[a.ID] = &cp
	return nil
}

func (m *Repo) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.Accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *Repo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

// UserRepo

func (m *Repo) CreateUser(ctx context.Context, u *models.User) error {
	if m.CreateUserErr != nil {
		return m.CreateUserErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *Repo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *Repo) UpdateUser(ctx context.Context, u *models.User) error {
	if m.UpdateUserErr != nil {
		return m.UpdateUserErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *Repo) NextUserID(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := int64(0)
	for id := range m.Users {
		if id+1 > next {
			next = id + 1
		}
	}
	return next, nil
}

// MetaRepo

func (m *Repo) GetMeta(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Meta[key], nil
}

func (m *Repo) SetMeta(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Meta[key] = value
	return nil
}

// LedgerRepo

func (m *Repo) GetBalance(ctx context.Context, account string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Balances[account], nil
}

func (m *Repo) UpsertBalance(ctx context.Context, account string, balance int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Balances[account] = balance
	return nil
}

func (m *Repo) MoveBalance(ctx context.Context, from, to string, amount int64) error {
	if m.MoveBalanceErr != nil {
		return m.MoveBalanceErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Balances[from] -= amount
	m.Balances[to] += amount
	return nil
}

func (m *Repo) GetAllowance(ctx context.Context, owner, spender string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Allowances[owner+"|"+spender], nil
}

func (m *Repo) SetAllowance(ctx context.Context, owner, spender string, amount int64) error {
	if m.SetAllowanceErr != nil {
		return m.SetAllowanceErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Allowances[owner+"|"+spender] = amount
	return nil
}

func (m *Repo) IsMinter(ctx context.Context, account string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Minters[account], nil
}

func (m *Repo) AddMinter(ctx context.Context, account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Minters[account] = true
	return nil
}

// JobRepo

func (m *Repo) CreateJob(ctx context.Context, j *models.Job) error {
	if m.CreateJobErr != nil {
		return m.CreateJobErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *j
	m.Jobs[j.ID] = &cp
	return nil
}

func (m *Repo) GetJobByID(ctx context.Context, id int64) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j, ok := m.Jobs[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, nil
}

func (m *Repo) UpdateJob(ctx context.Context, j *models.Job) error {
	if m.UpdateJobErr != nil {
		return m.UpdateJobErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *j
	m.Jobs[j.ID] = &cp
	return nil
}

func (m *Repo) ListJobs(ctx context.Context, limit, offset int) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Job, 0, len(m.Jobs))
	for _, j := range m.Jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *Repo) NextJobID(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := int64(1)
	for id := range m.Jobs {
		if id+1 > next {
			next = id + 1
		}
	}
	return next, nil
}

// PaymentRepo

func (m *Repo) CreatePayment(ctx context.Context, p *models.Payment) error {
	if m.CreatePaymentErr != nil {
		return m.CreatePaymentErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.Payments[p.ID] = &cp
	return nil
}

func (m *Repo) GetPaymentByID(ctx context.Context, id int64) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *Repo) UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus) error {
	if m.UpdatePaymentErr != nil {
		return m.UpdatePaymentErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Payments[id]; ok {
		p.Status = status
	}
	return nil
}

func (m *Repo) NextPaymentID(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := int64(0)
	for id := range m.Payments {
		if id+1 > next {
			next = id + 1
		}
	}
	return next, nil
}

// ResumeRepo

func (m *Repo) AddWorkExperience(ctx context.Context, w *models.WorkExperience) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextExperienceID++
	cp := *w
	cp.ID = m.nextExperienceID
	m.Experience = append(m.Experience, cp)
	return cp.ID, nil
}

func (m *Repo) ListWorkExperience(ctx context.Context, userID int64) ([]models.WorkExperience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WorkExperience
	for _, w := range m.Experience {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *Repo) AddReview(ctx context.Context, rv *models.Review) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextReviewID++
	cp := *rv
	cp.ID = m.nextReviewID
	m.Reviews = append(m.Reviews, cp)
	return cp.ID, nil
}

func (m *Repo) ListReviews(ctx context.Context, subjectID int64) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Review
	for _, rv := range m.Reviews {
		if rv.SubjectID == subjectID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (m *Repo) ReviewStats(ctx context.Context, subjectID int64) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum, count int64
	for _, rv := range m.Reviews {
		if rv.SubjectID == subjectID {
			sum += int64(rv.Rating)
			count++
		}
	}
	return sum, count, nil
}

// EventRepo

func (m *Repo) AppendEvent(ctx context.Context, e *models.Event) error {
	if m.AppendEventErr != nil {
		return m.AppendEventErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, *e)
	return nil
}

func (m *Repo) ListEvents(ctx context.Context, limit, offset int) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if offset >= len(m.Events) {
		return nil, nil
	}
	out := m.Events[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	res := make([]models.Event, len(out))
	copy(res, out)
	return res, nil
}

func (m *Repo) CountEvents(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.Events)), nil
}

// SchemaRepo

func (m *Repo) UpsertPayloadSchema(ctx context.Context, name, version, schemaJSON string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := int64(len(m.Schemas) + 1)
	m.Schemas[name] = &models.PayloadSchema{ID: id, Name: name, Version: version, SchemaJSON: schemaJSON}
	return id, nil
}

func (m *Repo) GetPayloadSchema(ctx context.Context, name string) (*models.PayloadSchema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Schemas[name]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *Repo) ListPayloadSchemas(ctx context.Context) ([]models.PayloadSchema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PayloadSchema
	for _, s := range m.Schemas {
		out = append(out, *s)
	}
	return out, nil
}
