package domain

import (
	"context"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	ResetTokenHash      *string    `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
}

type RegisterCandidateInput struct {
	Name     string
	Email    string
	Password string
}

type RegisterCompanyInput struct {
	CompanyName string
	TaxID       string
	Email       string
	Password    string
}

// AuthResult is returned on successful login.
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*User, error)
	// CreateCandidate inserts the account and its empty candidate profile.
	CreateCandidate(ctx context.Context, user *User) error
	// CreateCompany inserts the account, the company profile and the
	// starting subscription in one transaction.
	CreateCompany(ctx context.Context, user *User, profile *CompanyProfile, sub *Subscription) error
	SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *User) (token string, expiresAt time.Time, err error)
}

// Mailer delivers transactional email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

type AuthUsecase interface {
	RegisterCandidate(ctx context.Context, input RegisterCandidateInput) (*User, error)
	RegisterCompany(ctx context.Context, input RegisterCompanyInput) (*User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetCurrentUser(ctx context.Context, id int64) (*User, error)
}
