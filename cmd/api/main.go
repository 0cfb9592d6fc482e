package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-board-backend/config"
	_ "job-board-backend/docs" // Important for Swagger
	v1 "job-board-backend/internal/delivery/http/v1"
	"job-board-backend/internal/domain"
	"job-board-backend/internal/repository/postgres"
	"job-board-backend/internal/usecase"
	"job-board-backend/pkg/auth"
	"job-board-backend/pkg/billing"
	"job-board-backend/pkg/broker"
	"job-board-backend/pkg/database"
	"job-board-backend/pkg/email"
	"job-board-backend/pkg/logger"
	"job-board-backend/pkg/redis"
	"job-board-backend/pkg/security"
	"job-board-backend/pkg/storage"
	"job-board-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// @title           Job Board API
// @version         1.0
// @description     Job postings with plan-based quotas, Stripe billing and candidate applications.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	task := flag.String("task", "serve", "serve | migrate | seed")
	flag.Parse()

	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting job board backend", "port", cfg.Port, "task", *task)

	// 3. Setup Database
	ctx := context.Background()
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := postgres.RunMigrations(database.SQLDB(dbPool)); err != nil {
		logger.Log.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	planRepo := postgres.NewPlanRepository(dbPool)
	switch *task {
	case "migrate":
		logger.Log.Info("Migrations applied")
		return
	case "seed":
		if err := seedPlans(ctx, planRepo, cfg); err != nil {
			logger.Log.Error("Seeding plans failed", "error", err)
			os.Exit(1)
		}
		logger.Log.Info("Plans seeded")
		return
	}

	// 4. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	companyProfileRepo := postgres.NewCompanyProfileRepository(dbPool)
	subscriptionRepo := postgres.NewSubscriptionRepository(dbPool)

	catalog, err := postgres.LoadCatalog(ctx, planRepo)
	if err != nil {
		logger.Log.Error("Failed to load plan catalog", "error", err)
		os.Exit(1)
	}
	if _, ok := catalog.Get(cfg.FreePlanID); !ok {
		logger.Log.Warn("Free plan missing from catalog - run with -task=seed", "plan_id", cfg.FreePlanID)
	}

	// 5. Setup Infrastructure
	if cfg.UpstashRedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable - rate limiting falls back to memory", "error", err)
		}
	}
	defer redis.Close()

	var publisher domain.EventPublisher = broker.Noop{}
	if cfg.RabbitMQURI != "" {
		p, err := broker.NewPublisher(cfg.RabbitMQURI, cfg.RabbitMQQueue)
		if err != nil {
			logger.Log.Warn("RabbitMQ unavailable - domain events disabled", "error", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	files, uploadsDir, err := newFileStorage(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to initialize file storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - password reset emails will fail")
	}

	stripeClient := billing.NewClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.BillingTimeout)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// 6. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)

	quota := usecase.NewQuotaEvaluator(subscriptionRepo, jobRepo, catalog, cfg.FeaturedPostingDays, nil)
	gate := usecase.NewEligibilityGate(candidateRepo)
	authUC := usecase.NewAuthUsecase(userRepo, jwtManager, emailService, usecase.AuthConfig{
		FrontendURL:    cfg.FrontendURL,
		FreePlanID:     cfg.FreePlanID,
		FreePlanPeriod: time.Duration(cfg.FreePlanPeriodDays) * 24 * time.Hour,
	}, nil)
	jobUC := usecase.NewJobUsecase(jobRepo, companyProfileRepo, quota, publisher, nil)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, companyProfileRepo, gate, publisher, nil)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, files, validate, nil)
	companyProfileUC := usecase.NewCompanyProfileUsecase(companyProfileRepo, files, nil)
	billingUC := usecase.NewBillingUsecase(stripeClient, companyProfileRepo, subscriptionRepo, catalog, cfg.FrontendURL, cfg.BillingTimeout)
	reconciler := usecase.NewBillingReconciler(stripeClient, subscriptionRepo, catalog, publisher, cfg.BillingTimeout, nil)
	healthUC := usecase.NewHealthUsecase(healthChecks(dbPool))

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:           authUC,
		JobUC:            jobUC,
		CandidateUC:      candidateUC,
		ApplicationUC:    applicationUC,
		EligibilityGate:  gate,
		CompanyProfileUC: companyProfileUC,
		BillingUC:        billingUC,
		Reconciler:       reconciler,
		HealthUC:         healthUC,
		Tokens:           jwtManager,
		LoginGuard:       security.NewLoginGuard(security.DefaultLoginGuardConfig()),
		Config:           cfg,
		UploadsDir:       uploadsDir,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// newFileStorage returns the configured backend and, for local storage, the
// directory to serve under /uploads.
func newFileStorage(ctx context.Context, cfg *config.Config) (domain.FileStorage, string, error) {
	if cfg.StorageDriver == "s3" {
		s3, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			PublicURL:       cfg.StoragePublicURL,
		})
		return s3, "", err
	}
	local, err := storage.NewLocalStorage(cfg.StorageLocalPath, cfg.StoragePublicURL)
	if err != nil {
		return nil, "", err
	}
	return local, local.BasePath(), nil
}

func healthChecks(db *pgxpool.Pool) map[string]usecase.HealthCheck {
	checks := map[string]usecase.HealthCheck{
		"database": db.Ping,
	}
	if client := redis.Client(); client != nil {
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return checks
}

// seedPlans writes the plan catalog. The paid plan's price id comes from
// STRIPE_PRICE_PROFISSIONAL when set.
func seedPlans(ctx context.Context, repo domain.PlanRepository, cfg *config.Config) error {
	proPrice := cfg.StripePriceProPlan
	if proPrice == "" {
		proPrice = "price_1RqNhLE1auyzaMj9UJIKt0i5"
	}
	plans := []domain.Plan{
		{ID: cfg.FreePlanID, Name: "Básico", Price: 0, JobQuota: 1, ProviderPriceID: "plano_gratuito"},
		{ID: "profissional", Name: "Profissional", Price: 99, JobQuota: 5, ProviderPriceID: proPrice, Featured: true},
	}
	for i := range plans {
		if err := repo.Upsert(ctx, &plans[i]); err != nil {
			return err
		}
	}
	return nil
}
