package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// Work modes
const (
	WorkModeOnSite = "ON_SITE"
	WorkModeRemote = "REMOTE"
	WorkModeHybrid = "HYBRID"
)

const (
	DefaultJobPageSize = 9
	MaxJobPageSize     = 50
)

type Job struct {
	ID            int64      `json:"id"`
	CompanyID     int64      `json:"company_id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description"`
	Requirements  *string    `json:"requirements"`
	Salary        *string    `json:"salary"`
	WorkMode      string     `json:"work_mode"`
	Location      *string    `json:"location"`
	FeaturedUntil *time.Time `json:"featured_until"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Joined
	CompanyName string `json:"company_name,omitempty"`
}

// IsFeatured reports whether the posting holds promotional placement at t.
func (j *Job) IsFeatured(t time.Time) bool {
	return j.FeaturedUntil != nil && j.FeaturedUntil.After(t)
}

type JobInput struct {
	Title        string
	Description  string
	Requirements *string
	Salary       *string
	WorkMode     string
	Location     *string
}

type JobFilter struct {
	Search   string
	WorkMode string
	Page     int
	Limit    int
}

type JobPage struct {
	Items      []Job `json:"items"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}

// PostingCounter counts a company's postings created inside [from, to].
type PostingCounter interface {
	CountCreatedBetween(ctx context.Context, companyID int64, from, to time.Time) (int, error)
}

type JobRepository interface {
	PostingCounter
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	ListPublic(ctx context.Context, filter JobFilter) ([]Job, int64, error)
	ListByCompany(ctx context.Context, companyID int64) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id int64) error
}

type JobUsecase interface {
	CreateJob(ctx context.Context, userID int64, input JobInput) (*Job, error)
	ListPublicJobs(ctx context.Context, filter JobFilter) (*JobPage, error)
	GetJob(ctx context.Context, id int64) (*Job, error)
	UpdateJob(ctx context.Context, userID, jobID int64, input JobInput) (*Job, error)
	DeleteJob(ctx context.Context, userID, jobID int64) error
	ListMyJobs(ctx context.Context, userID int64) ([]Job, error)
	QuotaStatus(ctx context.Context, userID int64) (*QuotaDecision, error)
}
