package postgres

import (
	"context"

	"job-board-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type companyProfileRepo struct {
	db *pgxpool.Pool
}

// NewCompanyProfileRepository creates a new company profile repository
func NewCompanyProfileRepository(db *pgxpool.Pool) domain.CompanyProfileRepository {
	return &companyProfileRepo{db: db}
}

const companyProfileSelect = `
		SELECT cp.id, cp.user_id, u.name, u.email, cp.cnpj, cp.description,
		       cp.website, cp.logo_url, cp.created_at, cp.updated_at
		FROM company_profiles cp
		JOIN users u ON u.id = cp.user_id`

func scanCompanyProfile(row pgx.Row) (*domain.CompanyProfile, error) {
	var p domain.CompanyProfile
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Email, &p.TaxID, &p.Description,
		&p.Website, &p.LogoURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// GetByUserID retrieves a company profile by the owning user's ID
func (r *companyProfileRepo) GetByUserID(ctx context.Context, userID int64) (*domain.CompanyProfile, error) {
	return scanCompanyProfile(r.db.QueryRow(ctx, companyProfileSelect+` WHERE cp.user_id = $1`, userID))
}

func (r *companyProfileRepo) GetByID(ctx context.Context, id int64) (*domain.CompanyProfile, error) {
	return scanCompanyProfile(r.db.QueryRow(ctx, companyProfileSelect+` WHERE cp.id = $1`, id))
}

func (r *companyProfileRepo) Update(ctx context.Context, profile *domain.CompanyProfile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE users SET name = $2, updated_at = $3 WHERE id = $1`,
		profile.UserID, profile.Name, profile.UpdatedAt,
	)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE company_profiles
         SET cnpj = $2, description = $3, website = $4, updated_at = $5
         WHERE id = $1`,
		profile.ID, profile.TaxID, profile.Description, profile.Website, profile.UpdatedAt,
	)
	if err != nil {
		return conflictOr(err, "company_profiles_cnpj_key", "A company with this CNPJ is already registered")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *companyProfileRepo) UpdateLogo(ctx context.Context, id int64, logoURL string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE company_profiles SET logo_url = $2, updated_at = NOW() WHERE id = $1`,
		id, logoURL,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
