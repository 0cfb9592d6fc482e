package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/metrics"
)

const checkoutPaid = "paid"

type billingUsecase struct {
	checkout      domain.CheckoutProvider
	profileRepo   domain.CompanyProfileRepository
	subscriptions domain.SubscriptionRepository
	catalog       *domain.PlanCatalog
	frontendURL   string
	timeout       time.Duration
}

func NewBillingUsecase(
	checkout domain.CheckoutProvider,
	profileRepo domain.CompanyProfileRepository,
	subscriptions domain.SubscriptionRepository,
	catalog *domain.PlanCatalog,
	frontendURL string,
	timeout time.Duration,
) domain.BillingUsecase {
	return &billingUsecase{
		checkout:      checkout,
		profileRepo:   profileRepo,
		subscriptions: subscriptions,
		catalog:       catalog,
		frontendURL:   frontendURL,
		timeout:       timeout,
	}
}

func (u *billingUsecase) ListPlans(ctx context.Context) []domain.Plan {
	return u.catalog.All()
}

func (u *billingUsecase) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.timeout)
}

// CreateCheckoutSession tags both the session and the resulting subscription
// with the company and plan so webhook deliveries can be attributed.
func (u *billingUsecase) CreateCheckoutSession(ctx context.Context, userID int64, priceID string) (*domain.CheckoutSession, error) {
	company, err := companyOf(ctx, u.profileRepo, userID)
	if err != nil {
		return nil, err
	}
	plan, ok := u.catalog.ByProviderPrice(priceID)
	if !ok || plan.Price <= 0 {
		return nil, apperror.NotFound("Plan not found")
	}

	companyID := strconv.FormatInt(company.ID, 10)
	req := domain.CheckoutRequest{
		PriceID:           priceID,
		CustomerEmail:     company.Email,
		ClientReferenceID: companyID,
		Metadata: map[string]string{
			domain.MetadataCompanyProfileID: companyID,
			domain.MetadataPlanID:           plan.ID,
		},
		SuccessURL: u.frontendURL + "/checkout-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  u.frontendURL + "/planos",
	}

	callCtx, cancel := u.bounded(ctx)
	defer cancel()
	start := time.Now()
	session, err := u.checkout.CreateCheckoutSession(callCtx, req)
	metrics.BillingProviderDuration.WithLabelValues("create_checkout_session").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, apperror.UpstreamUnavailable("billing provider unavailable", err)
	}
	return session, nil
}

func (u *billingUsecase) VerifyPayment(ctx context.Context, userID int64, sessionID string) (*domain.PaymentVerification, error) {
	if sessionID == "" {
		return nil, apperror.BadRequest("Session ID is required")
	}
	company, err := companyOf(ctx, u.profileRepo, userID)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := u.bounded(ctx)
	defer cancel()
	start := time.Now()
	session, err := u.checkout.RetrieveCheckoutSession(callCtx, sessionID)
	metrics.BillingProviderDuration.WithLabelValues("retrieve_checkout_session").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, apperror.UpstreamUnavailable("billing provider unavailable", err)
	}

	if session.ClientReferenceID != strconv.FormatInt(company.ID, 10) {
		return nil, apperror.Forbidden("This checkout session does not belong to your company")
	}

	if session.PaymentStatus != checkoutPaid {
		return &domain.PaymentVerification{Status: domain.PaymentStatusProcessing}, nil
	}

	result := &domain.PaymentVerification{Status: domain.PaymentStatusSuccess}
	if plan, ok := u.catalog.Get(session.Metadata[domain.MetadataPlanID]); ok {
		result.Plan = &plan
	}
	return result, nil
}

// CurrentSubscription returns nil without error when the company has none.
func (u *billingUsecase) CurrentSubscription(ctx context.Context, userID int64) (*domain.SubscriptionView, error) {
	company, err := companyOf(ctx, u.profileRepo, userID)
	if err != nil {
		return nil, err
	}

	sub, err := u.subscriptions.GetByCompanyID(ctx, company.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	view := &domain.SubscriptionView{Subscription: *sub}
	if plan, ok := u.catalog.Get(sub.PlanID); ok {
		view.Plan = &plan
	}
	return view, nil
}
