package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/logger"
	"job-board-backend/pkg/metrics"
)

type billingReconciler struct {
	source        domain.BillingEventSource
	subscriptions domain.SubscriptionRepository
	catalog       *domain.PlanCatalog
	publisher     domain.EventPublisher
	timeout       time.Duration
	now           func() time.Time
}

// NewBillingReconciler applies verified provider events to the subscription
// store. Replayed and reordered deliveries converge because every handled
// event re-reads the provider's current record before writing.
func NewBillingReconciler(
	source domain.BillingEventSource,
	subscriptions domain.SubscriptionRepository,
	catalog *domain.PlanCatalog,
	publisher domain.EventPublisher,
	timeout time.Duration,
	now func() time.Time,
) domain.BillingReconciler {
	if now == nil {
		now = time.Now
	}
	return &billingReconciler{
		source:        source,
		subscriptions: subscriptions,
		catalog:       catalog,
		publisher:     publisher,
		timeout:       timeout,
		now:           now,
	}
}

func (r *billingReconciler) HandleEvent(ctx context.Context, payload []byte, signature string) (*domain.ReconcileResult, error) {
	event, err := r.source.VerifySignature(payload, signature)
	if err != nil {
		metrics.BillingEvents.WithLabelValues("unknown", "invalid_signature").Inc()
		return nil, apperror.InvalidSignature(err)
	}

	result := &domain.ReconcileResult{EventID: event.ID, EventType: event.Type}

	subscriptionID, ok := subscriptionRef(event)
	if !ok {
		metrics.BillingEvents.WithLabelValues(event.Type, "ignored").Inc()
		logger.Log.Debug("Billing event acknowledged without action",
			"event_id", event.ID,
			"event_type", event.Type,
		)
		return result, nil
	}

	sub, err := r.reconcile(ctx, subscriptionID)
	if err != nil {
		metrics.BillingEvents.WithLabelValues(event.Type, string(apperror.KindOf(err))).Inc()
		return nil, err
	}

	metrics.BillingEvents.WithLabelValues(event.Type, "handled").Inc()
	logger.Log.Info("Subscription reconciled",
		"event_id", event.ID,
		"event_type", event.Type,
		"company_profile_id", sub.CompanyProfileID,
		"plan_id", sub.PlanID,
		"status", sub.Status,
	)
	publish(ctx, r.publisher, domain.EventSubscriptionReconciled, map[string]any{
		"event_id":           event.ID,
		"company_profile_id": sub.CompanyProfileID,
		"plan_id":            sub.PlanID,
		"status":             sub.Status,
	})

	result.Handled = true
	result.Subscription = sub
	return result, nil
}

// subscriptionRef returns the provider subscription an event refers to, or
// false when the event type needs no action.
func subscriptionRef(event *domain.BillingEvent) (string, bool) {
	switch event.Type {
	case domain.EventCheckoutSessionCompleted:
		if event.Object.Mode != domain.CheckoutModeSubscription || event.Object.SubscriptionID == "" {
			return "", false
		}
		return event.Object.SubscriptionID, true
	case domain.EventSubscriptionUpdated, domain.EventSubscriptionDeleted:
		return event.Object.ID, event.Object.ID != ""
	case domain.EventInvoicePaymentSucceeded:
		return event.Object.SubscriptionID, event.Object.SubscriptionID != ""
	default:
		return "", false
	}
}

func (r *billingReconciler) reconcile(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	ps, err := r.retrieve(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	return r.upsertSubscription(ctx, ps)
}

func (r *billingReconciler) retrieve(ctx context.Context, subscriptionID string) (*domain.ProviderSubscription, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	ps, err := r.source.RetrieveSubscription(ctx, subscriptionID)
	metrics.BillingProviderDuration.WithLabelValues("retrieve_subscription").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, apperror.UpstreamUnavailable("billing provider unavailable", err)
	}
	return ps, nil
}

func (r *billingReconciler) upsertSubscription(ctx context.Context, ps *domain.ProviderSubscription) (*domain.Subscription, error) {
	rawCompanyID := strings.TrimSpace(ps.Metadata[domain.MetadataCompanyProfileID])
	planID := strings.TrimSpace(ps.Metadata[domain.MetadataPlanID])
	if rawCompanyID == "" || planID == "" {
		return nil, apperror.IncompleteMetadata(fmt.Sprintf("subscription %s is missing %s or %s metadata",
			ps.ID, domain.MetadataCompanyProfileID, domain.MetadataPlanID))
	}
	companyID, err := strconv.ParseInt(rawCompanyID, 10, 64)
	if err != nil || companyID <= 0 {
		return nil, apperror.IncompleteMetadata(fmt.Sprintf("subscription %s has invalid %s %q",
			ps.ID, domain.MetadataCompanyProfileID, rawCompanyID))
	}
	if _, ok := r.catalog.Get(planID); !ok {
		return nil, apperror.IncompleteMetadata(fmt.Sprintf("subscription %s references unknown plan %q", ps.ID, planID))
	}

	start := ps.CurrentPeriodStart
	if start == 0 {
		start = ps.Created
	}
	if start <= 0 || ps.CurrentPeriodEnd < 0 {
		return nil, apperror.InvalidPeriod(fmt.Sprintf("subscription %s has an invalid billing period", ps.ID))
	}

	sub := &domain.Subscription{
		CompanyProfileID: companyID,
		PlanID:           planID,
		Status:           ps.Status,
		PeriodStart:      time.Unix(start, 0).UTC(),
		UpdatedAt:        r.now(),
	}
	if ps.CurrentPeriodEnd > 0 {
		end := time.Unix(ps.CurrentPeriodEnd, 0).UTC()
		sub.PeriodEnd = &end
	}
	if ps.ID != "" {
		id := ps.ID
		sub.ProviderSubscriptionID = &id
	}
	if ps.CustomerID != "" {
		customer := ps.CustomerID
		sub.ProviderCustomerID = &customer
	}

	if err := r.subscriptions.Upsert(ctx, sub); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.IncompleteMetadata(fmt.Sprintf("company profile %d does not exist", companyID))
		}
		return nil, err
	}
	return sub, nil
}
