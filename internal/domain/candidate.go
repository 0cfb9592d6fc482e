package domain

import (
	"context"
	"time"
)

type CandidateProfile struct {
	UserID      int64        `json:"user_id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Summary     *string      `json:"summary"`
	Phone       *string      `json:"phone"`
	LinkedIn    *string      `json:"linkedin"`
	Skills      []string     `json:"skills"`
	ResumeURL   *string      `json:"resume_url"`
	Experiences []Experience `json:"experiences"`
	Educations  []Education  `json:"educations"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Experience struct {
	ID          int64      `json:"id"`
	CandidateID int64      `json:"candidate_id"`
	Role        string     `json:"role" validate:"required,max=150"`
	Company     string     `json:"company" validate:"required,max=150"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date"`
	Description *string    `json:"description"`
}

type Education struct {
	ID          int64      `json:"id"`
	CandidateID int64      `json:"candidate_id"`
	Institution string     `json:"institution" validate:"required,max=150"`
	Degree      string     `json:"degree" validate:"required,max=100"`
	Course      string     `json:"course" validate:"required,max=150"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date"`
}

type UpdateCandidateProfileInput struct {
	Name     string
	Summary  *string
	Phone    *string
	LinkedIn *string
	Skills   []string
}

// ProfileCompleteness is the minimal projection the eligibility gate reads.
type ProfileCompleteness struct {
	CandidateID     int64
	Summary         *string
	ResumeURL       *string
	ExperienceCount int
	EducationCount  int
}

type CandidateRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*CandidateProfile, error)
	Update(ctx context.Context, profile *CandidateProfile) error
	UpdateResumeURL(ctx context.Context, userID int64, url string) error
	GetCompleteness(ctx context.Context, userID int64) (*ProfileCompleteness, error)

	ListExperiences(ctx context.Context, userID int64) ([]Experience, error)
	GetExperience(ctx context.Context, id int64) (*Experience, error)
	CreateExperience(ctx context.Context, exp *Experience) error
	UpdateExperience(ctx context.Context, exp *Experience) error
	DeleteExperience(ctx context.Context, id int64) error

	ListEducations(ctx context.Context, userID int64) ([]Education, error)
	GetEducation(ctx context.Context, id int64) (*Education, error)
	CreateEducation(ctx context.Context, edu *Education) error
	UpdateEducation(ctx context.Context, edu *Education) error
	DeleteEducation(ctx context.Context, id int64) error
}

type CandidateUsecase interface {
	GetMyProfile(ctx context.Context, userID int64) (*CandidateProfile, error)
	UpdateMyProfile(ctx context.Context, userID int64, input UpdateCandidateProfileInput) (*CandidateProfile, error)
	UploadResume(ctx context.Context, userID int64, file FileUpload) (*CandidateProfile, error)
	// GetCandidateProfile is the company-facing read of any candidate.
	GetCandidateProfile(ctx context.Context, candidateID int64) (*CandidateProfile, error)

	AddExperience(ctx context.Context, userID int64, exp *Experience) error
	UpdateExperience(ctx context.Context, userID int64, exp *Experience) error
	DeleteExperience(ctx context.Context, userID int64, id int64) error

	AddEducation(ctx context.Context, userID int64, edu *Education) error
	UpdateEducation(ctx context.Context, userID int64, edu *Education) error
	DeleteEducation(ctx context.Context, userID int64, id int64) error
}
