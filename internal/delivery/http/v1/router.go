package v1

import (
	"time"

	"job-board-backend/config"
	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/domain"
	"job-board-backend/internal/usecase"
	"job-board-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC           domain.AuthUsecase
	JobUC            domain.JobUsecase
	CandidateUC      domain.CandidateUsecase
	ApplicationUC    domain.ApplicationUsecase
	EligibilityGate  domain.EligibilityGate
	CompanyProfileUC domain.CompanyProfileUsecase
	BillingUC        domain.BillingUsecase
	Reconciler       domain.BillingReconciler
	HealthUC         usecase.HealthUsecase
	Tokens           middleware.TokenParser
	LoginGuard       LoginGuard
	Config           *config.Config
	// UploadsDir is served under /uploads when files are stored locally.
	UploadsDir string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	r.Use(middleware.ErrorHandler())

	if deps.UploadsDir != "" {
		r.Static("/uploads", deps.UploadsDir)
	}

	// Provider callbacks arrive in bursts from a few addresses and skip the per-IP budget
	webhooks := r.Group("/v1")

	v1 := r.Group("/v1")
	v1.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))

	NewHealthHandler(v1, deps.HealthUC)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Credential endpoints get their own, stricter budget
	authLimited := v1.Group("")
	authLimited.Use(middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig(cfg.RateLimitAuthThreshold, window)))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.AuthUC))

	company := protected.Group("")
	company.Use(middleware.RequireRole(domain.RoleCompany))
	candidate := protected.Group("")
	candidate.Use(middleware.RequireRole(domain.RoleCandidate))

	uploadLimit := middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig(window))
	companyUploads := company.Group("", uploadLimit)
	candidateUploads := candidate.Group("", uploadLimit)

	NewAuthHandler(authLimited, protected, deps.AuthUC, deps.LoginGuard, gin.Mode() == gin.ReleaseMode)
	NewJobHandler(v1, company, deps.JobUC)
	NewApplicationHandler(candidate, company, deps.ApplicationUC, deps.EligibilityGate)
	NewCandidateHandler(candidate, candidateUploads, company, deps.CandidateUC)
	NewCompanyProfileHandler(company, companyUploads, deps.CompanyProfileUC)
	NewBillingHandler(v1, webhooks, company, deps.BillingUC, deps.Reconciler, cfg.WebhookMaxBodyBytes)

	return r
}
