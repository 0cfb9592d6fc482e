package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/auth"
	"job-board-backend/pkg/logger"
	"job-board-backend/pkg/validation"
)

const (
	resetTokenTTL   = time.Hour
	mailSendTimeout = 30 * time.Second
	invalidLoginMsg = "Invalid email or password"
	invalidResetMsg = "Invalid or expired reset token"
	weakPasswordMsg = "Password must be at least 8 characters and include upper and lower case letters, a number and a special character"
)

// AuthConfig carries the settings the auth usecase needs at registration time.
type AuthConfig struct {
	FrontendURL    string
	FreePlanID     string
	FreePlanPeriod time.Duration
}

type authUsecase struct {
	userRepo domain.UserRepository
	tokens   domain.TokenIssuer
	mailer   domain.Mailer
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	tokens domain.TokenIssuer,
	mailer domain.Mailer,
	cfg AuthConfig,
	now func() time.Time,
) domain.AuthUsecase {
	if now == nil {
		now = time.Now
	}
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		cfg:      cfg,
		now:      now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) RegisterCandidate(ctx context.Context, input domain.RegisterCandidateInput) (*domain.User, error) {
	if !validation.IsStrongPassword(input.Password) {
		return nil, apperror.BadRequest(weakPasswordMsg)
	}
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := u.now()
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		Role:         domain.RoleCandidate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.CreateCandidate(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterCompany creates the account, its profile and a free subscription
// so the company can publish right away.
func (u *authUsecase) RegisterCompany(ctx context.Context, input domain.RegisterCompanyInput) (*domain.User, error) {
	cnpj := validation.SanitizeCNPJ(input.TaxID)
	if !validation.ValidateCNPJ(cnpj) {
		return nil, apperror.BadRequest("Invalid CNPJ")
	}
	if !validation.IsStrongPassword(input.Password) {
		return nil, apperror.BadRequest(weakPasswordMsg)
	}
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := u.now()
	user := &domain.User{
		Name:         strings.TrimSpace(input.CompanyName),
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		Role:         domain.RoleCompany,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &domain.CompanyProfile{
		TaxID:     cnpj,
		CreatedAt: now,
		UpdatedAt: now,
	}
	periodEnd := now.Add(u.cfg.FreePlanPeriod)
	sub := &domain.Subscription{
		PlanID:      u.cfg.FreePlanID,
		Status:      domain.SubscriptionStatusActive,
		PeriodStart: now,
		PeriodEnd:   &periodEnd,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := u.userRepo.CreateCompany(ctx, user, profile, sub); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized(invalidLoginMsg)
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperror.Unauthorized(invalidLoginMsg)
	}

	token, expiresAt, err := u.tokens.Issue(user)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ForgotPassword behaves the same whether or not the email is registered.
// The email itself is sent in the background.
func (u *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	token, digest, err := auth.NewResetToken()
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.userRepo.SetResetToken(ctx, user.ID, digest, u.now().Add(resetTokenTTL)); err != nil {
		return err
	}

	resetURL := u.cfg.FrontendURL + "/reset-password/" + token
	go func(to, name string) {
		sendCtx, cancel := context.WithTimeout(context.Background(), mailSendTimeout)
		defer cancel()
		if err := u.mailer.SendPasswordReset(sendCtx, to, name, resetURL); err != nil {
			logger.Log.Error("Failed to send password reset email",
				"user_id", user.ID,
				"error", err,
			)
		}
	}(user.Email, user.Name)

	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !validation.IsStrongPassword(newPassword) {
		return apperror.BadRequest(weakPasswordMsg)
	}

	user, err := u.userRepo.GetByResetTokenHash(ctx, auth.HashResetToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.BadRequest(invalidResetMsg)
		}
		return err
	}
	if user.ResetTokenExpiresAt == nil || !user.ResetTokenExpiresAt.After(u.now()) {
		return apperror.BadRequest(invalidResetMsg)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperror.Internal(err)
	}
	return u.userRepo.UpdatePassword(ctx, user.ID, hash)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}
