package postgres

import (
	"context"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password_hash, role, reset_token_hash, reset_token_expires_at, created_at, updated_at`

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.ResetTokenHash, &u.ResetTokenExpiresAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

func (r *userRepo) GetByResetTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token_hash = $1`, hash))
}

func insertUser(ctx context.Context, tx pgx.Tx, user *domain.User) error {
	query := `INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := tx.QueryRow(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if isUniqueViolation(err, "users_email_key") {
		return apperror.Conflict("An account with this email already exists")
	}
	return err
}

func (r *userRepo) CreateCandidate(ctx context.Context, user *domain.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertUser(ctx, tx, user); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO candidate_profiles (user_id, updated_at) VALUES ($1, $2)`,
		user.ID, user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CreateCompany writes the user, its company profile and the initial
// subscription in a single transaction.
func (r *userRepo) CreateCompany(ctx context.Context, user *domain.User, profile *domain.CompanyProfile, sub *domain.Subscription) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertUser(ctx, tx, user); err != nil {
		return err
	}

	profile.UserID = user.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO company_profiles (user_id, cnpj, created_at, updated_at)
         VALUES ($1, $2, $3, $4) RETURNING id`,
		profile.UserID, profile.TaxID, profile.CreatedAt, profile.UpdatedAt,
	).Scan(&profile.ID)
	if err != nil {
		return conflictOr(err, "company_profiles_cnpj_key", "A company with this CNPJ is already registered")
	}

	sub.CompanyProfileID = profile.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO subscriptions (company_profile_id, plan_id, status, period_start, period_end, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		sub.CompanyProfileID, sub.PlanID, sub.Status, sub.PeriodStart, sub.PeriodEnd, sub.CreatedAt, sub.UpdatedAt,
	).Scan(&sub.ID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *userRepo) SetResetToken(ctx context.Context, userID int64, hash string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET reset_token_hash = $2, reset_token_expires_at = $3, updated_at = NOW() WHERE id = $1`,
		userID, hash, expiresAt,
	)
	return err
}

// UpdatePassword also clears any outstanding reset token.
func (r *userRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users
         SET password_hash = $2, reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = NOW()
         WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
