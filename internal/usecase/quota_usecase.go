package usecase

import (
	"context"
	"errors"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/logger"
)

type quotaEvaluator struct {
	subscriptions domain.SubscriptionRepository
	postings      domain.PostingCounter
	catalog       *domain.PlanCatalog
	featuredDays  int
	now           func() time.Time
}

// NewQuotaEvaluator decides whether a company may publish another posting in
// its current billing period. A nil clock means time.Now.
func NewQuotaEvaluator(
	subscriptions domain.SubscriptionRepository,
	postings domain.PostingCounter,
	catalog *domain.PlanCatalog,
	featuredDays int,
	now func() time.Time,
) domain.QuotaEvaluator {
	if now == nil {
		now = time.Now
	}
	return &quotaEvaluator{
		subscriptions: subscriptions,
		postings:      postings,
		catalog:       catalog,
		featuredDays:  featuredDays,
		now:           now,
	}
}

func (q *quotaEvaluator) CanPublish(ctx context.Context, companyProfileID int64) (*domain.QuotaDecision, error) {
	sub, err := q.subscriptions.GetByCompanyID(ctx, companyProfileID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if sub == nil || sub.Status != domain.SubscriptionStatusActive {
		return &domain.QuotaDecision{Reason: domain.DenialNoActiveSubscription}, nil
	}

	plan, ok := q.catalog.Get(sub.PlanID)
	if !ok {
		logger.Log.Warn("Subscription references unknown plan",
			"company_profile_id", companyProfileID,
			"plan_id", sub.PlanID,
		)
		return &domain.QuotaDecision{Reason: domain.DenialNoActiveSubscription}, nil
	}

	now := q.now()
	windowStart := sub.PeriodStart
	windowEnd := now
	if sub.PeriodEnd != nil {
		windowEnd = *sub.PeriodEnd
	}

	used, err := q.postings.CountCreatedBetween(ctx, companyProfileID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	decision := &domain.QuotaDecision{
		PlanID:      plan.ID,
		Quota:       plan.JobQuota,
		Used:        used,
		WindowStart: &windowStart,
		WindowEnd:   &windowEnd,
	}
	if used >= plan.JobQuota {
		decision.Reason = domain.DenialQuotaExceeded
		return decision, nil
	}

	decision.Allowed = true
	if plan.Featured {
		featuredUntil := now.AddDate(0, 0, q.featuredDays)
		decision.FeaturedUntil = &featuredUntil
	}
	return decision, nil
}

// denialError converts a negative decision into the error returned to callers.
func denialError(d *domain.QuotaDecision) error {
	if d.Reason == domain.DenialQuotaExceeded {
		return apperror.QuotaExceeded(d.Quota)
	}
	return apperror.NoActiveSubscription()
}
