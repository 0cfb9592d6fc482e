package usecase

import (
	"context"
	"errors"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/logger"
	"job-board-backend/pkg/metrics"
)

type applicationUsecase struct {
	appRepo            domain.ApplicationRepository
	jobRepo            domain.JobRepository
	companyProfileRepo domain.CompanyProfileRepository
	gate               domain.EligibilityGate
	publisher          domain.EventPublisher
	now                func() time.Time
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	companyProfileRepo domain.CompanyProfileRepository,
	gate domain.EligibilityGate,
	publisher domain.EventPublisher,
	now func() time.Time,
) domain.ApplicationUsecase {
	if now == nil {
		now = time.Now
	}
	return &applicationUsecase{
		appRepo:            appRepo,
		jobRepo:            jobRepo,
		companyProfileRepo: companyProfileRepo,
		gate:               gate,
		publisher:          publisher,
		now:                now,
	}
}

func (u *applicationUsecase) Apply(ctx context.Context, candidateID, jobID int64) (*domain.Application, error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}

	eligibility, err := u.gate.CanApply(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Eligible {
		metrics.EligibilityRejections.Inc()
		return nil, apperror.BadRequest(eligibility.Message)
	}

	now := u.now()
	app := &domain.Application{
		JobID:       job.ID,
		CandidateID: candidateID,
		Status:      domain.ApplicationStatusReceived,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.appRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}

	metrics.ApplicationsSubmitted.Inc()
	publish(ctx, u.publisher, domain.EventApplicationSubmitted, map[string]any{
		"application_id": app.ID,
		"job_id":         app.JobID,
		"candidate_id":   app.CandidateID,
		"company_id":     job.CompanyID,
	})
	return app, nil
}

func (u *applicationUsecase) ListMyApplications(ctx context.Context, candidateID int64) ([]domain.CandidateApplication, error) {
	return u.appRepo.ListByCandidate(ctx, candidateID)
}

// ownsJob reports whether the company owned by userID posted jobID. A
// missing job is reported the same as a foreign one.
func (u *applicationUsecase) ownsJob(ctx context.Context, userID, jobID int64) (bool, error) {
	company, err := companyOf(ctx, u.companyProfileRepo, userID)
	if err != nil {
		return false, err
	}
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return job.CompanyID == company.ID, nil
}

func (u *applicationUsecase) ListApplicants(ctx context.Context, userID, jobID int64) ([]domain.Applicant, error) {
	owned, err := u.ownsJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, apperror.Forbidden("You do not have permission to view applicants for this job")
	}
	return u.appRepo.ListByJob(ctx, jobID)
}

func (u *applicationUsecase) UpdateStatus(ctx context.Context, userID, applicationID int64, status string) (*domain.Application, error) {
	if !domain.IsValidApplicationStatus(status) {
		return nil, apperror.BadRequest("Invalid application status")
	}

	app, err := u.appRepo.GetByID(ctx, applicationID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	denied := apperror.Forbidden("You do not have permission to update this application")
	if app == nil {
		return nil, denied
	}
	owned, err := u.ownsJob(ctx, userID, app.JobID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, denied
	}

	if err := u.appRepo.UpdateStatus(ctx, applicationID, status); err != nil {
		return nil, err
	}

	previous := app.Status
	app.Status = status
	app.UpdatedAt = u.now()

	logger.Log.Info("Application status changed",
		"application_id", app.ID,
		"from", previous,
		"to", status,
	)
	publish(ctx, u.publisher, domain.EventApplicationStatusChanged, map[string]any{
		"application_id": app.ID,
		"job_id":         app.JobID,
		"candidate_id":   app.CandidateID,
		"status":         status,
	})
	return app, nil
}
