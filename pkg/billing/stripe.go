// Package billing adapts Stripe to the narrow billing interfaces of the domain.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"job-board-backend/internal/domain"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

var ErrWebhookNotConfigured = errors.New("stripe webhook secret not configured")

// Client implements domain.BillingEventSource and domain.CheckoutProvider.
type Client struct {
	api           *client.API
	webhookSecret string
}

func NewClient(secretKey, webhookSecret string, timeout time.Duration) *Client {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient: &http.Client{Timeout: timeout},
	})
	return &Client{
		api:           client.New(secretKey, &stripe.Backends{API: backend}),
		webhookSecret: webhookSecret,
	}
}

// VerifySignature checks the Stripe-Signature header and decodes the event.
func (c *Client) VerifySignature(payload []byte, signature string) (*domain.BillingEvent, error) {
	if c.webhookSecret == "" {
		return nil, ErrWebhookNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("stripe webhook signature verification failed: %w", err)
	}
	return toBillingEvent(event)
}

func (c *Client) RetrieveSubscription(ctx context.Context, id string) (*domain.ProviderSubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := c.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe get subscription: %w", err)
	}
	out := &domain.ProviderSubscription{
		ID:                 sub.ID,
		Status:             string(sub.Status),
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		Created:            sub.Created,
		Metadata:           sub.Metadata,
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	return out, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.ClientReferenceID),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: req.Metadata,
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.Metadata = req.Metadata
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}
	return toCheckoutSession(sess), nil
}

func (c *Client) RetrieveCheckoutSession(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := c.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe get checkout session: %w", err)
	}
	return toCheckoutSession(sess), nil
}

func toCheckoutSession(sess *stripe.CheckoutSession) *domain.CheckoutSession {
	out := &domain.CheckoutSession{
		ID:                sess.ID,
		URL:               sess.URL,
		ClientReferenceID: sess.ClientReferenceID,
		PaymentStatus:     string(sess.PaymentStatus),
		Metadata:          sess.Metadata,
	}
	if sess.Subscription != nil {
		out.SubscriptionID = sess.Subscription.ID
	}
	return out
}

// eventObject decodes the parts of data.object shared by checkout sessions,
// subscriptions and invoices.
type eventObject struct {
	ID           string          `json:"id"`
	Mode         string          `json:"mode"`
	Subscription json.RawMessage `json:"subscription"`
}

func toBillingEvent(event stripe.Event) (*domain.BillingEvent, error) {
	out := &domain.BillingEvent{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return out, nil
	}
	var obj eventObject
	if err := json.Unmarshal(event.Data.Raw, &obj); err != nil {
		return nil, fmt.Errorf("decode event object: %w", err)
	}
	out.Object = domain.BillingEventObject{
		ID:             obj.ID,
		Mode:           obj.Mode,
		SubscriptionID: expandableID(obj.Subscription),
	}
	return out, nil
}

// expandableID reads a Stripe expandable field that is either an id string
// or an expanded object.
func expandableID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.ID
	}
	return ""
}
