package domain

import (
	"context"
	"time"
)

const SubscriptionStatusActive = "active"

// Subscription is the single billing record of a company. The billing
// reconciler is its only writer after creation.
type Subscription struct {
	ID                     int64      `json:"id"`
	CompanyProfileID       int64      `json:"company_profile_id"`
	PlanID                 string     `json:"plan_id"`
	Status                 string     `json:"status"`
	PeriodStart            time.Time  `json:"period_start"`
	PeriodEnd              *time.Time `json:"period_end"`
	ProviderSubscriptionID *string    `json:"provider_subscription_id,omitempty"`
	ProviderCustomerID     *string    `json:"provider_customer_id,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

type SubscriptionRepository interface {
	GetByCompanyID(ctx context.Context, companyProfileID int64) (*Subscription, error)
	// Upsert inserts or replaces the company's subscription in one statement.
	Upsert(ctx context.Context, sub *Subscription) error
}

// Quota denial reasons
const (
	DenialNoActiveSubscription = "no_active_subscription"
	DenialQuotaExceeded        = "quota_exceeded"
)

type QuotaDecision struct {
	Allowed       bool       `json:"allowed"`
	Reason        string     `json:"reason,omitempty"`
	PlanID        string     `json:"plan_id,omitempty"`
	Quota         int        `json:"quota"`
	Used          int        `json:"used"`
	WindowStart   *time.Time `json:"window_start,omitempty"`
	WindowEnd     *time.Time `json:"window_end,omitempty"`
	FeaturedUntil *time.Time `json:"featured_until,omitempty"`
}

type QuotaEvaluator interface {
	CanPublish(ctx context.Context, companyProfileID int64) (*QuotaDecision, error)
}
