package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	dbfs "github.com/workhive/workhive/db"
	dbpkg "github.com/workhive/workhive/internal/db"
	"github.com/workhive/workhive/internal/models"
	sqlite "github.com/workhive/workhive/internal/repository/sqlite"
)

func setupRepo(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	ctx := context.Background()

	d, err := dbpkg.New(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := dbpkg.Migrate(ctx, d, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	return sqlite.New(d, nil)
}

func TestAccountCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	// missing rows come back nil, nil
	got, err := repo.GetAccountByID(ctx, "nope")
	if err != nil || got != nil {
		t.Fatalf("GetAccountByID(missing) = %v, %v; want nil, nil", got, err)
	}
	got, err = repo.GetAccountByEmail(ctx, "a@a.com")
	if err != nil || got != nil {
		t.Fatalf("GetAccountByEmail(missing) = %v, %v; want nil, nil", got, err)
	}

	a := &models.Account{ID: "acct-1", Email: "alice@example.com", PasswordHash: "hash"}
	if err := repo.CreateAccount(ctx, a); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	got, err = repo.GetAccountByID(ctx, "acct-1")
	if err != nil {
		t.Fatalf("GetAccountByID: %v", err)
	}
	if got == nil || got.Email != "alice@example.com" || got.PasswordHash != "hash" {
		t.Fatalf("account round-trip mismatch: %+v", got)
	}

	got, err = repo.GetAccountByEmail(ctx, "alice@example.com")
	if err != nil || got == nil || got.ID != "acct-1" {
		t.Fatalf("GetAccountByEmail = %+v, %v", got, err)
	}
}

func TestUserCRUDAndNextID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	next, err := repo.NextUserID(ctx)
	if err != nil {
		t.Fatalf("NextUserID: %v", err)
	}
	if next != 0 {
		t.Fatalf("NextUserID on empty table = %d, want 0", next)
	}

	u := &models.User{ID: 0, Kind: models.KindClient, Username: "alice", Name: "Alice", Email: "a@example.com", Owner: "acct-1"}
	if err := repo.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	next, _ = repo.NextUserID(ctx)
	if next != 1 {
		t.Fatalf("NextUserID after one user = %d, want 1", next)
	}

	got, err := repo.GetUserByID(ctx, 0)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got == nil || got.Kind != models.KindClient || got.Username != "alice" || got.Owner != "acct-1" {
		t.Fatalf("user round-trip mismatch: %+v", got)
	}

	got.Name = "Alice B"
	got.Email = "ab@example.com"
	if err := repo.UpdateUser(ctx, got); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	got, _ = repo.GetUserByID(ctx, 0)
	if got.Name != "Alice B" || got.Email != "ab@example.com" {
		t.Fatalf("update not applied: %+v", got)
	}

	if missing, err := repo.GetUserByID(ctx, 99); err != nil || missing != nil {
		t.Fatalf("GetUserByID(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	v, err := repo.GetMeta(ctx, "registry_owner")
	if err != nil || v != "" {
		t.Fatalf("GetMeta(missing) = %q, %v; want empty", v, err)
	}

	if err := repo.SetMeta(ctx, "registry_owner", "acct-1"); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	if v, _ = repo.GetMeta(ctx, "registry_owner"); v != "acct-1" {
		t.Fatalf("GetMeta = %q, want acct-1", v)
	}

	// upsert overwrites
	if err := repo.SetMeta(ctx, "registry_owner", "acct-2"); err != nil {
		t.Fatalf("SetMeta overwrite: %v", err)
	}
	if v, _ = repo.GetMeta(ctx, "registry_owner"); v != "acct-2" {
		t.Fatalf("GetMeta after overwrite = %q, want acct-2", v)
	}
}

func TestJobCRUDAndNextID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	next, err := repo.NextJobID(ctx)
	if err != nil {
		t.Fatalf("NextJobID: %v", err)
	}
	if next != 1 {
		t.Fatalf("NextJobID on empty table = %d, want 1", next)
	}

	j := &models.Job{ID: 1, ClientID: 0, Description: "build", PaymentAmount: 500, Status: models.JobOpen}
	if err := repo.CreateJob(ctx, j); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	got, err := repo.GetJobByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetJobByID: %v", err)
	}
	if got == nil || got.Status != models.JobOpen || got.FreelancerID != nil {
		t.Fatalf("job round-trip mismatch: %+v", got)
	}

	freelancer := int64(2)
	got.FreelancerID = &freelancer
	got.Status = models.JobInProgress
	if err := repo.UpdateJob(ctx, got); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	got, _ = repo.GetJobByID(ctx, 1)
	if got.FreelancerID == nil || *got.FreelancerID != 2 || got.Status != models.JobInProgress {
		t.Fatalf("update not applied: %+v", got)
	}

	if next, _ = repo.NextJobID(ctx); next != 2 {
		t.Fatalf("NextJobID after one job = %d, want 2", next)
	}

	jobs, err := repo.ListJobs(ctx, 10, 0)
	if err != nil || len(jobs) != 1 {
		t.Fatalf("ListJobs = %v, %v; want one job", jobs, err)
	}
}

func TestPaymentCRUDAndNextID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	next, err := repo.NextPaymentID(ctx)
	if err != nil {
		t.Fatalf("NextPaymentID: %v", err)
	}
	if next != 0 {
		t.Fatalf("NextPaymentID on empty table = %d, want 0", next)
	}

	p := &models.Payment{ID: 0, ClientID: 0, FreelancerID: 1, JobID: 1, Amount: 400, Status: models.PaymentPending}
	if err := repo.CreatePayment(ctx, p); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	got, err := repo.GetPaymentByID(ctx, 0)
	if err != nil || got == nil {
		t.Fatalf("GetPaymentByID = %v, %v", got, err)
	}
	if got.Amount != 400 || got.Status != models.PaymentPending {
		t.Fatalf("payment round-trip mismatch: %+v", got)
	}

	if err := repo.UpdatePaymentStatus(ctx, 0, models.PaymentCompleted); err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}
	got, _ = repo.GetPaymentByID(ctx, 0)
	if got.Status != models.PaymentCompleted {
		t.Fatalf("status = %v, want Completed", got.Status)
	}

	if next, _ = repo.NextPaymentID(ctx); next != 1 {
		t.Fatalf("NextPaymentID after one payment = %d, want 1", next)
	}
}

func TestLedgerBalancesAndMove(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	// unknown accounts read as zero
	if b, err := repo.GetBalance(ctx, "acct-a"); err != nil || b != 0 {
		t.Fatalf("GetBalance(missing) = %d, %v; want 0", b, err)
	}

	if err := repo.UpsertBalance(ctx, "acct-a", 100); err != nil {
		t.Fatalf("UpsertBalance: %v", err)
	}
	if err := repo.MoveBalance(ctx, "acct-a", "acct-b", 40); err != nil {
		t.Fatalf("MoveBalance: %v", err)
	}
	if b, _ := repo.GetBalance(ctx, "acct-a"); b != 60 {
		t.Fatalf("acct-a balance = %d, want 60", b)
	}
	if b, _ := repo.GetBalance(ctx, "acct-b"); b != 40 {
		t.Fatalf("acct-b balance = %d, want 40", b)
	}

	// overdraft rolls back completely
	if err := repo.MoveBalance(ctx, "acct-a", "acct-b", 61); err == nil {
		t.Fatal("expected error moving more than the balance")
	}
	if b, _ := repo.GetBalance(ctx, "acct-a"); b != 60 {
		t.Fatalf("acct-a balance after failed move = %d, want 60", b)
	}
	if b, _ := repo.GetBalance(ctx, "acct-b"); b != 40 {
		t.Fatalf("acct-b balance after failed move = %d, want 40", b)
	}
}

func TestLedgerAllowancesAndMinters(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if a, err := repo.GetAllowance(ctx, "acct-a", "spender"); err != nil || a != 0 {
		t.Fatalf("GetAllowance(missing) = %d, %v; want 0", a, err)
	}
	if err := repo.SetAllowance(ctx, "acct-a", "spender", 50); err != nil {
		t.Fatalf("SetAllowance: %v", err)
	}
	if err := repo.SetAllowance(ctx, "acct-a", "spender", 20); err != nil {
		t.Fatalf("SetAllowance overwrite: %v", err)
	}
	if a, _ := repo.GetAllowance(ctx, "acct-a", "spender"); a != 20 {
		t.Fatalf("allowance = %d, want 20", a)
	}

	if ok, _ := repo.IsMinter(ctx, "acct-a"); ok {
		t.Fatal("unexpected minter")
	}
	if err := repo.AddMinter(ctx, "acct-a"); err != nil {
		t.Fatalf("AddMinter: %v", err)
	}
	// adding twice is fine
	if err := repo.AddMinter(ctx, "acct-a"); err != nil {
		t.Fatalf("AddMinter repeat: %v", err)
	}
	if ok, _ := repo.IsMinter(ctx, "acct-a"); !ok {
		t.Fatal("minter not recorded")
	}
}

func TestWorkExperienceSkillsRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	w := &models.WorkExperience{
		UserID:    1,
		JobTitle:  "Engineer",
		StartDate: 100,
		EndDate:   200,
		Skills:    []string{"go", "sql", "docker"},
	}
	id, err := repo.AddWorkExperience(ctx, w)
	if err != nil {
		t.Fatalf("AddWorkExperience: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	list, err := repo.ListWorkExperience(ctx, 1)
	if err != nil {
		t.Fatalf("ListWorkExperience: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list length = %d, want 1", len(list))
	}
	got := list[0]
	if len(got.Skills) != 3 || got.Skills[0] != "go" || got.Skills[2] != "docker" {
		t.Fatalf("skills round-trip mismatch: %v", got.Skills)
	}

	// other users see nothing
	other, _ := repo.ListWorkExperience(ctx, 2)
	if len(other) != 0 {
		t.Fatalf("unexpected entries for other user: %v", other)
	}
}

func TestReviewsAndStats(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	sum, count, err := repo.ReviewStats(ctx, 1)
	if err != nil || sum != 0 || count != 0 {
		t.Fatalf("ReviewStats(empty) = %d, %d, %v; want 0, 0", sum, count, err)
	}

	for _, rating := range []int{5, 3} {
		if _, err := repo.AddReview(ctx, &models.Review{ReviewerID: 0, SubjectID: 1, Rating: rating, Comment: "c"}); err != nil {
			t.Fatalf("AddReview: %v", err)
		}
	}

	sum, count, _ = repo.ReviewStats(ctx, 1)
	if sum != 8 || count != 2 {
		t.Fatalf("ReviewStats = %d, %d; want 8, 2", sum, count)
	}

	list, err := repo.ListReviews(ctx, 1)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListReviews = %v, %v; want 2 reviews", list, err)
	}
	if list[0].Rating != 5 || list[1].Rating != 3 {
		t.Fatalf("review order wrong: %+v", list)
	}
}

func TestEventAppendAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	e := &models.Event{ID: "evt-1", Type: "JobListed", EntityID: 1, Payload: `{"job_id":1}`, Created: 123}
	if err := repo.AppendEvent(ctx, e); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	e2 := &models.Event{ID: "evt-2", Type: "JobBid", EntityID: 1, Payload: `{}`, Created: 124}
	if err := repo.AppendEvent(ctx, e2); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	list, err := repo.ListEvents(ctx, 10, 0)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListEvents = %v, %v; want 2", list, err)
	}
	if list[0].ID != "evt-1" || list[1].ID != "evt-2" {
		t.Fatalf("event order wrong: %+v", list)
	}

	total, err := repo.CountEvents(ctx)
	if err != nil || total != 2 {
		t.Fatalf("CountEvents = %d, %v; want 2", total, err)
	}
}

func TestSeededPayloadSchemaAndUpsert(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	// migrations seed the work_experience schema
	s, err := repo.GetPayloadSchema(ctx, "work_experience")
	if err != nil {
		t.Fatalf("GetPayloadSchema: %v", err)
	}
	if s == nil || s.Version != "v1" || s.SchemaJSON == "" {
		t.Fatalf("seeded schema missing or empty: %+v", s)
	}

	if _, err := repo.UpsertPayloadSchema(ctx, "review", "v1", `{"type":"object"}`); err != nil {
		t.Fatalf("UpsertPayloadSchema: %v", err)
	}
	list, err := repo.ListPayloadSchemas(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListPayloadSchemas = %v, %v; want 2", list, err)
	}

	if missing, err := repo.GetPayloadSchema(ctx, "nope"); err != nil || missing != nil {
		t.Fatalf("GetPayloadSchema(missing) = %v, %v; want nil, nil", missing, err)
	}
}
