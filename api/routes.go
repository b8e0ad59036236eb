package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gorilla/mux"
	"github.com/workhive/workhive/internal/config"
	"github.com/workhive/workhive/internal/db"
	"github.com/workhive/workhive/internal/escrow"
	"github.com/workhive/workhive/internal/events"
	"github.com/workhive/workhive/internal/identity"
	"github.com/workhive/workhive/internal/jobs"
	"github.com/workhive/workhive/internal/ledger"
	"github.com/workhive/workhive/internal/repository/sqlite"
	"github.com/workhive/workhive/internal/resume"
)

func SetupRoutes(ctx context.Context, cfg *config.Config, version, buildTime string, d *db.DB, logger *slog.Logger) (*mux.Router, error) {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(d, logger)

	// Domain engines
	recorder := events.NewRecorder(repo, logger)
	registry, err := identity.NewRegistry(ctx, repo, repo, recorder, logger, cfg.Escrow.DeployerAccount)
	if err != nil {
		return nil, fmt.Errorf("identity registry: %w", err)
	}
	tokenLedger := ledger.New(repo, recorder, logger, registry.Owner())
	jobEngine, err := jobs.NewEngine(ctx, repo, registry, recorder, logger)
	if err != nil {
		return nil, fmt.Errorf("job engine: %w", err)
	}
	escrowEngine, err := escrow.NewEngine(ctx, repo, registry, tokenLedger, recorder, logger, cfg.Escrow.CustodyAccount)
	if err != nil {
		return nil, fmt.Errorf("escrow engine: %w", err)
	}
	resumeEngine := resume.NewEngine(repo, registry, recorder, logger)

	loader, err := NewSchemaLoader(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("schema loader: %w", err)
	}

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	usersHandler := NewUsersHandler(registry)
	ledgerHandler := NewLedgerHandler(tokenLedger)
	jobsHandler := NewJobsHandler(jobEngine)
	paymentsHandler := NewPaymentsHandler(escrowEngine)
	resumeHandler := NewResumeHandler(resumeEngine, loader)
	eventsHandler := NewEventsHandler(repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Identity endpoints
	apiV1.HandleFunc("/users", usersHandler.RegisterUser).Methods("POST")
	apiV1.HandleFunc("/users/{id:[0-9]+}", usersHandler.GetUser).Methods("GET")
	apiV1.HandleFunc("/users/{id:[0-9]+}", usersHandler.UpdateUser).Methods("PATCH")
	apiV1.HandleFunc("/users/{id:[0-9]+}/roles", usersHandler.UserRoles).Methods("GET")
	apiV1.HandleFunc("/registry/owner", usersHandler.RegistryOwner).Methods("GET")
	apiV1.HandleFunc("/registry/transfer-ownership", usersHandler.TransferOwnership).Methods("POST")

	// Ledger endpoints
	apiV1.HandleFunc("/ledger/mint", ledgerHandler.Mint).Methods("POST")
	apiV1.HandleFunc("/ledger/authorise", ledgerHandler.AddAuthorised).Methods("POST")
	apiV1.HandleFunc("/ledger/approve", ledgerHandler.Approve).Methods("POST")
	apiV1.HandleFunc("/ledger/allowance", ledgerHandler.GetAllowance).Methods("GET")
	apiV1.HandleFunc("/ledger/balance/{account}", ledgerHandler.Balance).Methods("GET")
	apiV1.HandleFunc("/ledger/transfer", ledgerHandler.Transfer).Methods("POST")
	apiV1.HandleFunc("/ledger/transfer-from", ledgerHandler.TransferFrom).Methods("POST")

	// Job endpoints
	apiV1.HandleFunc("/jobs", jobsHandler.CreateJob).Methods("POST")
	apiV1.HandleFunc("/jobs", jobsHandler.ListJobs).Methods("GET")
	apiV1.HandleFunc("/jobs/{id:[0-9]+}", jobsHandler.GetJob).Methods("GET")
	apiV1.HandleFunc("/jobs/{id:[0-9]+}", jobsHandler.UpdateJob).Methods("PATCH")
	apiV1.HandleFunc("/jobs/{id:[0-9]+}/bid", jobsHandler.BidJob).Methods("POST")
	apiV1.HandleFunc("/jobs/{id:[0-9]+}/complete", jobsHandler.CompleteJob).Methods("POST")
	apiV1.HandleFunc("/jobs/{id:[0-9]+}/cancel", jobsHandler.CancelJob).Methods("POST")

	// Payment endpoints
	apiV1.HandleFunc("/payments", paymentsHandler.InitiatePayment).Methods("POST")
	apiV1.HandleFunc("/payments/{id:[0-9]+}", paymentsHandler.GetPayment).Methods("GET")
	apiV1.HandleFunc("/payments/{id:[0-9]+}/complete", paymentsHandler.CompletePayment).Methods("POST")
	apiV1.HandleFunc("/payments/{id:[0-9]+}/refund", paymentsHandler.RefundPayment).Methods("POST")

	// Resume endpoints
	apiV1.HandleFunc("/experience", resumeHandler.AddWorkExperience).Methods("POST")
	apiV1.HandleFunc("/users/{id:[0-9]+}/experience", resumeHandler.GetWorkHistory).Methods("GET")
	apiV1.HandleFunc("/reviews", resumeHandler.AddReview).Methods("POST")
	apiV1.HandleFunc("/users/{id:[0-9]+}/reviews", resumeHandler.GetReviews).Methods("GET")
	apiV1.HandleFunc("/users/{id:[0-9]+}/reputation", resumeHandler.GetReputationScore).Methods("GET")

	// Event log
	apiV1.HandleFunc("/events", eventsHandler.ListEvents).Methods("GET")

	return r, nil
}
