package domain

import (
	"context"
	"time"
)

// Application status constants
const (
	ApplicationStatusReceived          = "RECEIVED"
	ApplicationStatusUnderReview       = "UNDER_REVIEW"
	ApplicationStatusInterviewApproved = "INTERVIEW_APPROVED"
	ApplicationStatusRejected          = "REJECTED"
	ApplicationStatusHired             = "HIRED"
)

var applicationStatuses = map[string]bool{
	ApplicationStatusReceived:          true,
	ApplicationStatusUnderReview:       true,
	ApplicationStatusInterviewApproved: true,
	ApplicationStatusRejected:          true,
	ApplicationStatusHired:             true,
}

func IsValidApplicationStatus(status string) bool {
	return applicationStatuses[status]
}

type Application struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"job_id"`
	CandidateID int64     `json:"candidate_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CandidateApplication is the candidate's view of one of their applications.
type CandidateApplication struct {
	Application
	JobTitle    string  `json:"job_title"`
	JobLocation *string `json:"job_location"`
	CompanyName string  `json:"company_name"`
}

// Applicant is the company's view of an application to one of its postings.
type Applicant struct {
	Application
	CandidateName  string  `json:"candidate_name"`
	CandidateEmail string  `json:"candidate_email"`
	Summary        *string `json:"summary"`
	ResumeURL      *string `json:"resume_url"`
}

type ApplicationRepository interface {
	// Create fails with a conflict when the candidate already applied.
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	ListByCandidate(ctx context.Context, candidateID int64) ([]CandidateApplication, error)
	ListByJob(ctx context.Context, jobID int64) ([]Applicant, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, candidateID, jobID int64) (*Application, error)
	ListMyApplications(ctx context.Context, candidateID int64) ([]CandidateApplication, error)
	ListApplicants(ctx context.Context, userID, jobID int64) ([]Applicant, error)
	UpdateStatus(ctx context.Context, userID, applicationID int64, status string) (*Application, error)
}
