package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/internal/usecase"
	"job-board-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memorySubscriptions keeps one row per company, like the unique constraint.
type memorySubscriptions struct {
	mu      sync.Mutex
	rows    map[int64]domain.Subscription
	known   map[int64]bool
	upserts int
}

func newMemorySubscriptions(companies ...int64) *memorySubscriptions {
	known := make(map[int64]bool, len(companies))
	for _, id := range companies {
		known[id] = true
	}
	return &memorySubscriptions{rows: map[int64]domain.Subscription{}, known: known}
}

func (s *memorySubscriptions) GetByCompanyID(ctx context.Context, companyProfileID int64) (*domain.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[companyProfileID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (s *memorySubscriptions) Upsert(ctx context.Context, sub *domain.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.known[sub.CompanyProfileID] {
		return domain.ErrNotFound
	}
	s.upserts++
	s.rows[sub.CompanyProfileID] = *sub
	return nil
}

const (
	periodStart int64 = 1735689600 // 2025-01-01
	periodEnd   int64 = 1738368000 // 2025-02-01
)

func proSubscription(status string) *domain.ProviderSubscription {
	return &domain.ProviderSubscription{
		ID:                 "sub_123",
		Status:             status,
		CustomerID:         "cus_9",
		CurrentPeriodStart: periodStart,
		CurrentPeriodEnd:   periodEnd,
		Metadata: map[string]string{
			domain.MetadataCompanyProfileID: "42",
			domain.MetadataPlanID:           "profissional",
		},
	}
}

func newReconciler(source domain.BillingEventSource, subs domain.SubscriptionRepository) domain.BillingReconciler {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return usecase.NewBillingReconciler(source, subs, testCatalog, pub, time.Second,
		fixedClock(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)))
}

func TestBillingReconciler_HandleEvent(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{}`)

	checkout := &domain.BillingEvent{
		ID:   "evt_checkout",
		Type: domain.EventCheckoutSessionCompleted,
		Object: domain.BillingEventObject{
			ID: "cs_1", Mode: domain.CheckoutModeSubscription, SubscriptionID: "sub_123",
		},
	}

	t.Run("Checkout completion upserts the subscription", func(t *testing.T) {
		source := new(MockBillingSource)
		source.On("VerifySignature", payload, "sig").Return(checkout, nil)
		source.On("RetrieveSubscription", mock.Anything, "sub_123").Return(proSubscription("active"), nil)
		store := newMemorySubscriptions(42)

		res, err := newReconciler(source, store).HandleEvent(ctx, payload, "sig")

		require.NoError(t, err)
		assert.True(t, res.Handled)
		row, err := store.GetByCompanyID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "profissional", row.PlanID)
		assert.Equal(t, "active", row.Status)
		assert.Equal(t, time.Unix(periodStart, 0).UTC(), row.PeriodStart)
		require.NotNil(t, row.PeriodEnd)
		assert.Equal(t, time.Unix(periodEnd, 0).UTC(), *row.PeriodEnd)
		assert.Equal(t, "cus_9", *row.ProviderCustomerID)
	})

	t.Run("Replaying the same event is idempotent", func(t *testing.T) {
		source := new(MockBillingSource)
		source.On("VerifySignature", payload, "sig").Return(checkout, nil)
		source.On("RetrieveSubscription", mock.Anything, "sub_123").Return(proSubscription("active"), nil)
		store := newMemorySubscriptions(42)
		r := newReconciler(source, store)

		_, err := r.HandleEvent(ctx, payload, "sig")
		require.NoError(t, err)
		first, _ := store.GetByCompanyID(ctx, 42)

		_, err = r.HandleEvent(ctx, payload, "sig")
		require.NoError(t, err)
		second, _ := store.GetByCompanyID(ctx, 42)

		assert.Equal(t, first, second)
		assert.Len(t, store.rows, 1)
	})

	t.Run("Out of order deliveries converge on the provider state", func(t *testing.T) {
		updated := &domain.BillingEvent{
			ID: "evt_updated", Type: domain.EventSubscriptionUpdated,
			Object: domain.BillingEventObject{ID: "sub_123"},
		}
		deleted := &domain.BillingEvent{
			ID: "evt_deleted", Type: domain.EventSubscriptionDeleted,
			Object: domain.BillingEventObject{ID: "sub_123"},
		}
		source := new(MockBillingSource)
		source.On("VerifySignature", payload, "deleted").Return(deleted, nil)
		source.On("VerifySignature", payload, "updated").Return(updated, nil)
		// The provider already reports the final state for both deliveries.
		source.On("RetrieveSubscription", mock.Anything, "sub_123").Return(proSubscription("canceled"), nil)
		store := newMemorySubscriptions(42)
		r := newReconciler(source, store)

		_, err := r.HandleEvent(ctx, payload, "deleted")
		require.NoError(t, err)
		_, err = r.HandleEvent(ctx, payload, "updated")
		require.NoError(t, err)

		row, _ := store.GetByCompanyID(ctx, 42)
		assert.Equal(t, "canceled", row.Status)
	})

	t.Run("Invoice payment renews the period", func(t *testing.T) {
		invoice := &domain.BillingEvent{
			ID: "evt_invoice", Type: domain.EventInvoicePaymentSucceeded,
			Object: domain.BillingEventObject{ID: "in_1", SubscriptionID: "sub_123"},
		}
		source := new(MockBillingSource)
		source.On("VerifySignature", payload, "sig").Return(invoice, nil)
		source.On("RetrieveSubscription", mock.Anything, "sub_123").Return(proSubscription("active"), nil)
		store := newMemorySubscriptions(42)

		res, err := newReconciler(source, store).HandleEvent(ctx, payload, "sig")

		require.NoError(t, err)
		assert.True(t, res.Handled)
		assert.Equal(t, 1, store.upserts)
	})

	t.Run("Invalid signature applies nothing", func(t *testing.T) {
		source := new(MockBillingSource)
		source.On("VerifySignature", payload, "forged").Return(nil, errors.New("no valid signature"))
		store := newMemorySubscriptions(42)

		_, err := newReconciler(source, store).HandleEvent(ctx, payload, "forged")

		assert.True(t, apperror.Is(err, apperror.KindInvalidSignature))
		assert.Zero(t, store.upserts)
		source.AssertNotCalled(t, "RetrieveSubscription", mock.Anything, mock.Anything)
	})

	ignored := []struct {
		name  string
		event *domain.BillingEvent
	}{
		{"Unrelated type", &domain.BillingEvent{ID: "evt_x", Type: "customer.created"}},
		{"One-off checkout", &domain.BillingEvent{ID: "evt_p", Type: domain.EventCheckoutSessionCompleted,
			Object: domain.BillingEventObject{ID: "cs_2", Mode: "payment"}}},
		{"Invoice without subscription", &domain.BillingEvent{ID: "evt_i", Type: domain.EventInvoicePaymentSucceeded,
			Object: domain.BillingEventObject{ID: "in_2"}}},
	}
	for _, tc := range ignored {
		t.Run(tc.name+" is acknowledged without effect", func(t *testing.T) {
			source := new(MockBillingSource)
			source.On("VerifySignature", payload, "sig").Return(tc.event, nil)
			store := newMemorySubscriptions(42)

			res, err := newReconciler(source, store).HandleEvent(ctx, payload, "sig")

			require.NoError(t, err)
			assert.False(t, res.Handled)
			assert.Zero(t, store.upserts)
		})
	}

	t.Run("Metadata problems", func(t *testing.T) {
		cases := map[string]map[string]string{
			"missing company": {domain.MetadataPlanID: "profissional"},
			"missing plan":    {domain.MetadataCompanyProfileID: "42"},
			"non numeric":     {domain.MetadataCompanyProfileID: "abc", domain.MetadataPlanID: "profissional"},
			"non positive":    {domain.MetadataCompanyProfileID: "0", domain.MetadataPlanID: "profissional"},
			"unknown plan":    {domain.MetadataCompanyProfileID: "42", domain.MetadataPlanID: "enterprise"},
			"unknown company": {domain.MetadataCompanyProfileID: "77", domain.MetadataPlanID: "profissional"},
		}
		for name, md := range cases {
			t.Run(name, func(t *testing.T) {
				ps := proSubscription("active")
				ps.Metadata = md
				source := new(MockBillingSource)
				source.On("VerifySignature", payload, "sig").Return(checkout, nil)
				source.On("RetrieveSubscription", mock.Anything, "sub_123").Return(ps, nil)
				store := newMemorySubscriptions(42)

				_, err := newReconciler(source, store).HandleEvent(ctx, payload, "sig")

				assert.True(t, apperror.Is(err, apperror.KindIncompleteMetadata), "got %v", err)
				assert.Empty(t, store.rows)
			})
		}
	})

	t.Run("Period rules", func(t *testing.T) {
		t.Run("Falls back to creation time", func(t *testing.T) {
			ps := proSubscription("active")
			ps.CurrentPeriodStart = 0
			ps.CurrentPeriodEnd = 0
			ps.Created = periodStart
			source := new(MockBillingSource)
			source.On("VerifySignature", payload, "sig").Return(checkout, nil)
			source.On("RetrieveSubscription", mock.Anything, "sub_123").Return(ps, nil)
			store := newMemorySubscriptions(42)

			_, err := newReconciler(source, store).HandleEvent(ctx, payload, "sig")

			require.NoError(t, err)
			row, _ := store.GetByCompanyID(ctx, 42)
			assert.Equal(t, time.Unix(periodStart, 0).UTC(), row.PeriodStart)
			assert.Nil(t, row.PeriodEnd)
		})

		t.Run("No usable start", func(t *testing.T) {
			ps := proSubscription("active")
			ps.CurrentPeriodStart = 0
			ps.Created = 0
			source := new(MockBillingSource)
			source.On("VerifySignature", payload, "sig").Return(checkout, nil)
			source.On("RetrieveSubscription", mock.Anything, "sub_123").Return(ps, nil)

			_, err := newReconciler(source, newMemorySubscriptions(42)).HandleEvent(ctx, payload, "sig")

			assert.True(t, apperror.Is(err, apperror.KindInvalidPeriod))
		})

		t.Run("Negative end", func(t *testing.T) {
			ps := proSubscription("active")
			ps.CurrentPeriodEnd = -1
			source := new(MockBillingSource)
			source.On("VerifySignature", payload, "sig").Return(checkout, nil)
			source.On("RetrieveSubscription", mock.Anything, "sub_123").Return(ps, nil)

			_, err := newReconciler(source, newMemorySubscriptions(42)).HandleEvent(ctx, payload, "sig")

			assert.True(t, apperror.Is(err, apperror.KindInvalidPeriod))
		})
	})

	t.Run("Provider failure is upstream unavailable", func(t *testing.T) {
		source := new(MockBillingSource)
		source.On("VerifySignature", payload, "sig").Return(checkout, nil)
		source.On("RetrieveSubscription", mock.Anything, "sub_123").Return(nil, context.DeadlineExceeded)
		store := newMemorySubscriptions(42)

		_, err := newReconciler(source, store).HandleEvent(ctx, payload, "sig")

		assert.True(t, apperror.Is(err, apperror.KindUpstreamUnavailable))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Zero(t, store.upserts)
	})
}
