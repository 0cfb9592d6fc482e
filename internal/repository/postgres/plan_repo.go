package postgres

import (
	"context"

	"job-board-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type planRepo struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) domain.PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) List(ctx context.Context) ([]domain.Plan, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, price::float8, job_quota, provider_price_id, featured FROM plans ORDER BY price ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []domain.Plan{}
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.JobQuota, &p.ProviderPriceID, &p.Featured); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *planRepo) Upsert(ctx context.Context, plan *domain.Plan) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO plans (id, name, price, job_quota, provider_price_id, featured)
         VALUES ($1, $2, $3, $4, $5, $6)
         ON CONFLICT (id) DO UPDATE SET
             name = EXCLUDED.name,
             price = EXCLUDED.price,
             job_quota = EXCLUDED.job_quota,
             provider_price_id = EXCLUDED.provider_price_id,
             featured = EXCLUDED.featured`,
		plan.ID, plan.Name, plan.Price, plan.JobQuota, plan.ProviderPriceID, plan.Featured,
	)
	return err
}

// LoadCatalog reads the plans table into an immutable catalog.
func LoadCatalog(ctx context.Context, repo domain.PlanRepository) (*domain.PlanCatalog, error) {
	plans, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewPlanCatalog(plans), nil
}
