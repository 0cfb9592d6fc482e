package postgres

import (
	"context"

	"job-board-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type subscriptionRepo struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) domain.SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) GetByCompanyID(ctx context.Context, companyProfileID int64) (*domain.Subscription, error) {
	query := `
		SELECT id, company_profile_id, plan_id, status, period_start, period_end,
		       provider_subscription_id, provider_customer_id, created_at, updated_at
		FROM subscriptions
		WHERE company_profile_id = $1`

	var s domain.Subscription
	err := r.db.QueryRow(ctx, query, companyProfileID).Scan(
		&s.ID, &s.CompanyProfileID, &s.PlanID, &s.Status, &s.PeriodStart, &s.PeriodEnd,
		&s.ProviderSubscriptionID, &s.ProviderCustomerID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// Upsert is a single INSERT .. ON CONFLICT so concurrent deliveries for the
// same company converge on one row. Last writer wins.
func (r *subscriptionRepo) Upsert(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (company_profile_id, plan_id, status, period_start, period_end,
		                           provider_subscription_id, provider_customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (company_profile_id) DO UPDATE SET
			plan_id = EXCLUDED.plan_id,
			status = EXCLUDED.status,
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			provider_subscription_id = COALESCE(EXCLUDED.provider_subscription_id, subscriptions.provider_subscription_id),
			provider_customer_id = COALESCE(EXCLUDED.provider_customer_id, subscriptions.provider_customer_id),
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		sub.CompanyProfileID, sub.PlanID, sub.Status, sub.PeriodStart, sub.PeriodEnd,
		sub.ProviderSubscriptionID, sub.ProviderCustomerID, sub.UpdatedAt,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}
