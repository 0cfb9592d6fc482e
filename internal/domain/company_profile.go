package domain

import (
	"context"
	"time"
)

// CompanyProfile is the employer side of a company account. Name and Email
// live on the owning user record.
type CompanyProfile struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	TaxID       string    `json:"cnpj"`
	Description *string   `json:"description"`
	Website     *string   `json:"website"`
	LogoURL     *string   `json:"logo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpdateCompanyProfileInput struct {
	Name        string
	TaxID       string
	Description *string
	Website     *string
}

type CompanyProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*CompanyProfile, error)
	GetByID(ctx context.Context, id int64) (*CompanyProfile, error)
	// Update writes the owner's name and the profile fields atomically.
	Update(ctx context.Context, profile *CompanyProfile) error
	UpdateLogo(ctx context.Context, id int64, logoURL string) error
}

type CompanyProfileUsecase interface {
	GetMyProfile(ctx context.Context, userID int64) (*CompanyProfile, error)
	UpdateMyProfile(ctx context.Context, userID int64, input UpdateCompanyProfileInput) (*CompanyProfile, error)
	UploadLogo(ctx context.Context, userID int64, file FileUpload) (*CompanyProfile, error)
}
