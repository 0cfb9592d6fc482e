package domain

import "context"

// Billing event types acted upon by the reconciler.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventSubscriptionUpdated      = "customer.subscription.updated"
	EventSubscriptionDeleted      = "customer.subscription.deleted"
	EventInvoicePaymentSucceeded  = "invoice.payment_succeeded"

	CheckoutModeSubscription = "subscription"
)

// Metadata keys set on checkout sessions and subscriptions.
const (
	MetadataCompanyProfileID = "companyProfileId"
	MetadataPlanID           = "planId"
)

type BillingEvent struct {
	ID     string
	Type   string
	Object BillingEventObject
}

// BillingEventObject carries the fields of data.object the reconciler reads.
type BillingEventObject struct {
	ID             string
	Mode           string
	SubscriptionID string
}

// ProviderSubscription is the provider's record, times in unix seconds.
type ProviderSubscription struct {
	ID                 string
	Status             string
	CustomerID         string
	CurrentPeriodStart int64
	CurrentPeriodEnd   int64
	Created            int64
	Metadata           map[string]string
}

type CheckoutRequest struct {
	PriceID           string
	CustomerEmail     string
	ClientReferenceID string
	Metadata          map[string]string
	SuccessURL        string
	CancelURL         string
}

type CheckoutSession struct {
	ID                string            `json:"id"`
	URL               string            `json:"url"`
	ClientReferenceID string            `json:"-"`
	PaymentStatus     string            `json:"-"`
	SubscriptionID    string            `json:"-"`
	Metadata          map[string]string `json:"-"`
}

// BillingEventSource is the reconciler's view of the payment provider.
type BillingEventSource interface {
	VerifySignature(payload []byte, signature string) (*BillingEvent, error)
	RetrieveSubscription(ctx context.Context, id string) (*ProviderSubscription, error)
}

type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
}

type ReconcileResult struct {
	EventID      string
	EventType    string
	Handled      bool
	Subscription *Subscription
}

type BillingReconciler interface {
	HandleEvent(ctx context.Context, payload []byte, signature string) (*ReconcileResult, error)
}

// Payment verification statuses
const (
	PaymentStatusSuccess    = "success"
	PaymentStatusProcessing = "processing"
)

type PaymentVerification struct {
	Status string `json:"status"`
	Plan   *Plan  `json:"plan,omitempty"`
}

type SubscriptionView struct {
	Subscription
	Plan *Plan `json:"plan"`
}

type BillingUsecase interface {
	ListPlans(ctx context.Context) []Plan
	CreateCheckoutSession(ctx context.Context, userID int64, priceID string) (*CheckoutSession, error)
	VerifyPayment(ctx context.Context, userID int64, sessionID string) (*PaymentVerification, error)
	CurrentSubscription(ctx context.Context, userID int64) (*SubscriptionView, error)
}
