package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQuotaEvaluator_CanPublish(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -10)
	end := now.AddDate(0, 0, 20)

	proSub := &domain.Subscription{
		CompanyProfileID: 1,
		PlanID:           "profissional",
		Status:           domain.SubscriptionStatusActive,
		PeriodStart:      start,
		PeriodEnd:        &end,
	}

	t.Run("Allows below quota and grants featured placement", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		jobs := new(MockJobRepo)
		subs.On("GetByCompanyID", ctx, int64(1)).Return(proSub, nil)
		jobs.On("CountCreatedBetween", ctx, int64(1), start, end).Return(4, nil)

		q := usecase.NewQuotaEvaluator(subs, jobs, testCatalog, 30, fixedClock(now))
		d, err := q.CanPublish(ctx, 1)

		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 5, d.Quota)
		assert.Equal(t, 4, d.Used)
		require.NotNil(t, d.FeaturedUntil)
		assert.Equal(t, now.AddDate(0, 0, 30), *d.FeaturedUntil)
	})

	t.Run("Denies at quota", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		jobs := new(MockJobRepo)
		subs.On("GetByCompanyID", ctx, int64(1)).Return(proSub, nil)
		jobs.On("CountCreatedBetween", ctx, int64(1), start, end).Return(5, nil)

		q := usecase.NewQuotaEvaluator(subs, jobs, testCatalog, 30, fixedClock(now))
		d, err := q.CanPublish(ctx, 1)

		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, domain.DenialQuotaExceeded, d.Reason)
		assert.Nil(t, d.FeaturedUntil)
	})

	t.Run("Free plan is never featured", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		jobs := new(MockJobRepo)
		subs.On("GetByCompanyID", ctx, int64(2)).Return(&domain.Subscription{
			CompanyProfileID: 2, PlanID: "basico", Status: domain.SubscriptionStatusActive,
			PeriodStart: start, PeriodEnd: &end,
		}, nil)
		jobs.On("CountCreatedBetween", ctx, int64(2), start, end).Return(0, nil)

		q := usecase.NewQuotaEvaluator(subs, jobs, testCatalog, 30, fixedClock(now))
		d, err := q.CanPublish(ctx, 2)

		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Nil(t, d.FeaturedUntil)
	})

	t.Run("Open-ended period counts up to now", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		jobs := new(MockJobRepo)
		subs.On("GetByCompanyID", ctx, int64(3)).Return(&domain.Subscription{
			CompanyProfileID: 3, PlanID: "basico", Status: domain.SubscriptionStatusActive, PeriodStart: start,
		}, nil)
		jobs.On("CountCreatedBetween", ctx, int64(3), start, now).Return(1, nil)

		q := usecase.NewQuotaEvaluator(subs, jobs, testCatalog, 30, fixedClock(now))
		d, err := q.CanPublish(ctx, 3)

		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, now, *d.WindowEnd)
		jobs.AssertExpectations(t)
	})

	t.Run("No subscription", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		jobs := new(MockJobRepo)
		subs.On("GetByCompanyID", ctx, int64(4)).Return(nil, domain.ErrNotFound)

		q := usecase.NewQuotaEvaluator(subs, jobs, testCatalog, 30, fixedClock(now))
		d, err := q.CanPublish(ctx, 4)

		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, domain.DenialNoActiveSubscription, d.Reason)
		jobs.AssertNotCalled(t, "CountCreatedBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Inactive subscription", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		canceled := *proSub
		canceled.Status = "canceled"
		subs.On("GetByCompanyID", ctx, int64(1)).Return(&canceled, nil)

		q := usecase.NewQuotaEvaluator(subs, new(MockJobRepo), testCatalog, 30, fixedClock(now))
		d, err := q.CanPublish(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, domain.DenialNoActiveSubscription, d.Reason)
	})

	t.Run("Unknown plan counts as no active plan", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		orphan := *proSub
		orphan.PlanID = "enterprise"
		subs.On("GetByCompanyID", ctx, int64(1)).Return(&orphan, nil)

		q := usecase.NewQuotaEvaluator(subs, new(MockJobRepo), testCatalog, 30, fixedClock(now))
		d, err := q.CanPublish(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, domain.DenialNoActiveSubscription, d.Reason)
	})

	t.Run("Store failure propagates", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		boom := errors.New("connection reset")
		subs.On("GetByCompanyID", ctx, int64(1)).Return(nil, boom)

		q := usecase.NewQuotaEvaluator(subs, new(MockJobRepo), testCatalog, 30, fixedClock(now))
		_, err := q.CanPublish(ctx, 1)

		assert.ErrorIs(t, err, boom)
	})
}
