package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/logger"
	"job-board-backend/pkg/metrics"

	"github.com/gosimple/slug"
)

type jobUsecase struct {
	jobRepo            domain.JobRepository
	companyProfileRepo domain.CompanyProfileRepository
	quota              domain.QuotaEvaluator
	publisher          domain.EventPublisher
	now                func() time.Time
}

func NewJobUsecase(
	jobRepo domain.JobRepository,
	companyProfileRepo domain.CompanyProfileRepository,
	quota domain.QuotaEvaluator,
	publisher domain.EventPublisher,
	now func() time.Time,
) domain.JobUsecase {
	if now == nil {
		now = time.Now
	}
	return &jobUsecase{
		jobRepo:            jobRepo,
		companyProfileRepo: companyProfileRepo,
		quota:              quota,
		publisher:          publisher,
		now:                now,
	}
}

// companyOf resolves the company profile owned by userID.
func companyOf(ctx context.Context, repo domain.CompanyProfileRepository, userID int64) (*domain.CompanyProfile, error) {
	profile, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Company profile not found")
		}
		return nil, err
	}
	return profile, nil
}

func validateJobInput(input *domain.JobInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" {
		return apperror.BadRequest("Title is required")
	}
	if input.Description == "" {
		return apperror.BadRequest("Description is required")
	}
	switch input.WorkMode {
	case domain.WorkModeOnSite, domain.WorkModeRemote, domain.WorkModeHybrid:
	default:
		return apperror.BadRequest("Work mode must be ON_SITE, REMOTE or HYBRID")
	}
	return nil
}

func (u *jobUsecase) CreateJob(ctx context.Context, userID int64, input domain.JobInput) (*domain.Job, error) {
	if err := validateJobInput(&input); err != nil {
		return nil, err
	}

	company, err := companyOf(ctx, u.companyProfileRepo, userID)
	if err != nil {
		return nil, err
	}

	// Count and insert are not atomic: two concurrent requests at quota-1
	// can both pass. Accepted; the overshoot is bounded by concurrency.
	decision, err := u.quota.CanPublish(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		metrics.QuotaDenials.WithLabelValues(decision.Reason).Inc()
		logger.Log.Info("Job posting denied",
			"company_profile_id", company.ID,
			"reason", decision.Reason,
			"quota", decision.Quota,
			"used", decision.Used,
		)
		return nil, denialError(decision)
	}

	now := u.now()
	job := &domain.Job{
		CompanyID:     company.ID,
		Title:         input.Title,
		Slug:          slug.Make(input.Title),
		Description:   input.Description,
		Requirements:  input.Requirements,
		Salary:        input.Salary,
		WorkMode:      input.WorkMode,
		Location:      input.Location,
		FeaturedUntil: decision.FeaturedUntil,
		CreatedAt:     now,
		UpdatedAt:     now,
		CompanyName:   company.Name,
	}
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	metrics.JobsPublished.Inc()
	publish(ctx, u.publisher, domain.EventJobPublished, map[string]any{
		"job_id":     job.ID,
		"company_id": job.CompanyID,
		"title":      job.Title,
		"featured":   job.FeaturedUntil != nil,
	})
	return job, nil
}

func (u *jobUsecase) ListPublicJobs(ctx context.Context, filter domain.JobFilter) (*domain.JobPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = domain.DefaultJobPageSize
	}
	if filter.Limit > domain.MaxJobPageSize {
		filter.Limit = domain.MaxJobPageSize
	}
	filter.WorkMode = strings.ToUpper(strings.TrimSpace(filter.WorkMode))
	switch filter.WorkMode {
	case "", domain.WorkModeOnSite, domain.WorkModeRemote, domain.WorkModeHybrid:
	default:
		return nil, apperror.BadRequest("Invalid work mode filter")
	}

	jobs, total, err := u.jobRepo.ListPublic(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &domain.JobPage{
		Items:      jobs,
		Total:      total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (u *jobUsecase) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}
	return job, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, userID, jobID int64, input domain.JobInput) (*domain.Job, error) {
	if err := validateJobInput(&input); err != nil {
		return nil, err
	}

	company, err := companyOf(ctx, u.companyProfileRepo, userID)
	if err != nil {
		return nil, err
	}

	job, err := u.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != company.ID {
		return nil, apperror.Forbidden("You do not have permission to edit this job")
	}

	job.Title = input.Title
	job.Slug = slug.Make(input.Title)
	job.Description = input.Description
	job.Requirements = input.Requirements
	job.Salary = input.Salary
	job.WorkMode = input.WorkMode
	job.Location = input.Location
	job.UpdatedAt = u.now()

	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// DeleteJob answers 403 for both a missing and a foreign posting.
func (u *jobUsecase) DeleteJob(ctx context.Context, userID, jobID int64) error {
	company, err := companyOf(ctx, u.companyProfileRepo, userID)
	if err != nil {
		return err
	}

	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if job == nil || job.CompanyID != company.ID {
		return apperror.Forbidden("You do not have permission to delete this job")
	}

	return u.jobRepo.Delete(ctx, jobID)
}

func (u *jobUsecase) ListMyJobs(ctx context.Context, userID int64) ([]domain.Job, error) {
	company, err := companyOf(ctx, u.companyProfileRepo, userID)
	if err != nil {
		return nil, err
	}
	return u.jobRepo.ListByCompany(ctx, company.ID)
}

func (u *jobUsecase) QuotaStatus(ctx context.Context, userID int64) (*domain.QuotaDecision, error) {
	company, err := companyOf(ctx, u.companyProfileRepo, userID)
	if err != nil {
		return nil, err
	}
	return u.quota.CanPublish(ctx, company.ID)
}
