package usecase_test

import (
	"context"
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

// memoryJobs is a JobRepository backed by a slice.
type memoryJobs struct {
	mu     sync.Mutex
	jobs   []domain.Job
	nextID int64
}

func (m *memoryJobs) CountCreatedBetween(ctx context.Context, companyID int64, from, to time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, j := range m.jobs {
		if j.CompanyID == companyID && !j.CreatedAt.Before(from) && !j.CreatedAt.After(to) {
			n++
		}
	}
	return n, nil
}

func (m *memoryJobs) Create(ctx context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	job.ID = m.nextID
	m.jobs = append(m.jobs, *job)
	return nil
}

func (m *memoryJobs) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == id {
			return &j, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryJobs) ListPublic(ctx context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	return m.jobs, int64(len(m.jobs)), nil
}

func (m *memoryJobs) ListByCompany(ctx context.Context, companyID int64) ([]domain.Job, error) {
	var out []domain.Job
	for _, j := range m.jobs {
		if j.CompanyID == companyID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memoryJobs) Update(ctx context.Context, job *domain.Job) error { return nil }
func (m *memoryJobs) Delete(ctx context.Context, id int64) error         { return nil }

func quietPublisher() *MockPublisher {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return pub
}

var remoteJob = domain.JobInput{
	Title:       "Backend Engineer",
	Description: "Build and run the job board API",
	WorkMode:    domain.WorkModeRemote,
}

func TestJobUsecase_FreePlanScenario(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := t0
	now := func() time.Time { return clock }

	company := &domain.CompanyProfile{ID: 10, UserID: 100, Name: "Acme"}
	profiles := new(MockCompanyProfileRepo)
	profiles.On("GetByUserID", ctx, int64(100)).Return(company, nil)

	subs := newMemorySubscriptions(10)
	end := t0.AddDate(0, 0, 30)
	require.NoError(t, subs.Upsert(ctx, &domain.Subscription{
		CompanyProfileID: 10, PlanID: "basico", Status: domain.SubscriptionStatusActive,
		PeriodStart: t0, PeriodEnd: &end,
	}))

	jobs := &memoryJobs{}
	quota := usecase.NewQuotaEvaluator(subs, jobs, testCatalog, 30, now)
	uc := usecase.NewJobUsecase(jobs, profiles, quota, quietPublisher(), now)

	clock = t0.Add(24 * time.Hour)
	first, err := uc.CreateJob(ctx, 100, remoteJob)
	require.NoError(t, err)
	assert.Equal(t, "backend-engineer", first.Slug)
	assert.Nil(t, first.FeaturedUntil)

	clock = t0.Add(48 * time.Hour)
	_, err = uc.CreateJob(ctx, 100, remoteJob)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindQuotaExceeded))
	assert.Contains(t, err.Error(), "1")

	// Renewal moves the window forward.
	nextEnd := end.AddDate(0, 0, 30)
	require.NoError(t, subs.Upsert(ctx, &domain.Subscription{
		CompanyProfileID: 10, PlanID: "basico", Status: domain.SubscriptionStatusActive,
		PeriodStart: end, PeriodEnd: &nextEnd,
	}))
	clock = end.Add(time.Hour)
	_, err = uc.CreateJob(ctx, 100, remoteJob)
	assert.NoError(t, err)
}

func TestJobUsecase_LapsedPeriodWindow(t *testing.T) {
	// The window is the stored period. Once it lapses without a renewal,
	// new postings fall outside it and are not counted.
	ctx := context.Background()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := t0.AddDate(0, 0, 30)
	now := fixedClock(end.AddDate(0, 0, 10))

	company := &domain.CompanyProfile{ID: 10, UserID: 100}
	profiles := new(MockCompanyProfileRepo)
	profiles.On("GetByUserID", ctx, int64(100)).Return(company, nil)

	subs := newMemorySubscriptions(10)
	require.NoError(t, subs.Upsert(ctx, &domain.Subscription{
		CompanyProfileID: 10, PlanID: "basico", Status: domain.SubscriptionStatusActive,
		PeriodStart: t0, PeriodEnd: &end,
	}))

	jobs := &memoryJobs{}
	quota := usecase.NewQuotaEvaluator(subs, jobs, testCatalog, 30, now)
	uc := usecase.NewJobUsecase(jobs, profiles, quota, quietPublisher(), now)

	for i := 0; i < 5; i++ {
		_, err := uc.CreateJob(ctx, 100, remoteJob)
		require.NoError(t, err)
	}
	assert.Len(t, jobs.jobs, 5)

	d, err := quota.CanPublish(ctx, 10)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Used)
	assert.Equal(t, end, *d.WindowEnd)
}

// barrierCounter holds every CountCreatedBetween caller until all of them
// have counted, so each sees the state before any insert.
type barrierCounter struct {
	*memoryJobs
	counted sync.WaitGroup
}

func (b *barrierCounter) CountCreatedBetween(ctx context.Context, companyID int64, from, to time.Time) (int, error) {
	n, err := b.memoryJobs.CountCreatedBetween(ctx, companyID, from, to)
	b.counted.Done()
	b.counted.Wait()
	return n, err
}

func TestJobUsecase_QuotaRace(t *testing.T) {
	// Count and insert are separate steps, so two requests evaluated against
	// the same count both succeed.
	ctx := context.Background()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := fixedClock(t0.Add(24 * time.Hour))
	company := &domain.CompanyProfile{ID: 10, UserID: 100}
	profiles := new(MockCompanyProfileRepo)
	profiles.On("GetByUserID", ctx, int64(100)).Return(company, nil)

	subs := newMemorySubscriptions(10)
	end := t0.AddDate(0, 0, 30)
	require.NoError(t, subs.Upsert(ctx, &domain.Subscription{
		CompanyProfileID: 10, PlanID: "basico", Status: domain.SubscriptionStatusActive,
		PeriodStart: t0, PeriodEnd: &end,
	}))

	jobs := &memoryJobs{}
	counter := &barrierCounter{memoryJobs: jobs}
	counter.counted.Add(2)
	quota := usecase.NewQuotaEvaluator(subs, counter, testCatalog, 30, now)
	uc := usecase.NewJobUsecase(jobs, profiles, quota, quietPublisher(), now)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.CreateJob(ctx, 100, remoteJob)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := jobs.CountCreatedBetween(ctx, 10, t0, end)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	basico, _ := testCatalog.Get("basico")
	assert.Equal(t, 1, basico.JobQuota)
}

func TestJobUsecase_CreateJob(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	company := &domain.CompanyProfile{ID: 10, UserID: 100, Name: "Acme"}

	t.Run("Featured plan sets featured_until and publishes", func(t *testing.T) {
		profiles := new(MockCompanyProfileRepo)
		profiles.On("GetByUserID", ctx, int64(100)).Return(company, nil)
		featured := now.AddDate(0, 0, 30)
		quota := new(MockQuotaEvaluator)
		quota.On("CanPublish", ctx, int64(10)).Return(&domain.QuotaDecision{Allowed: true, FeaturedUntil: &featured}, nil)
		jobs := new(MockJobRepo)
		jobs.On("Create", ctx, mock.MatchedBy(func(j *domain.Job) bool {
			return j.CompanyID == 10 && j.FeaturedUntil != nil && j.FeaturedUntil.Equal(featured)
		})).Return(nil)
		pub := new(MockPublisher)
		pub.On("Publish", ctx, domain.EventJobPublished, mock.Anything).Return(nil)

		uc := usecase.NewJobUsecase(jobs, profiles, quota, pub, fixedClock(now))
		job, err := uc.CreateJob(ctx, 100, remoteJob)

		require.NoError(t, err)
		assert.True(t, job.IsFeatured(now))
		jobs.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("No active plan", func(t *testing.T) {
		profiles := new(MockCompanyProfileRepo)
		profiles.On("GetByUserID", ctx, int64(100)).Return(company, nil)
		quota := new(MockQuotaEvaluator)
		quota.On("CanPublish", ctx, int64(10)).Return(&domain.QuotaDecision{Reason: domain.DenialNoActiveSubscription}, nil)
		jobs := new(MockJobRepo)

		uc := usecase.NewJobUsecase(jobs, profiles, quota, nil, fixedClock(now))
		_, err := uc.CreateJob(ctx, 100, remoteJob)

		assert.True(t, apperror.Is(err, apperror.KindNoActiveSubscription))
		jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Invalid work mode", func(t *testing.T) {
		uc := usecase.NewJobUsecase(new(MockJobRepo), new(MockCompanyProfileRepo), new(MockQuotaEvaluator), nil, fixedClock(now))
		input := remoteJob
		input.WorkMode = "ANYWHERE"
		_, err := uc.CreateJob(ctx, 100, input)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Caller without company profile", func(t *testing.T) {
		profiles := new(MockCompanyProfileRepo)
		profiles.On("GetByUserID", ctx, int64(5)).Return(nil, domain.ErrNotFound)
		uc := usecase.NewJobUsecase(new(MockJobRepo), profiles, new(MockQuotaEvaluator), nil, fixedClock(now))
		_, err := uc.CreateJob(ctx, 5, remoteJob)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}

func TestJobUsecase_Ownership(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	owner := &domain.CompanyProfile{ID: 10, UserID: 100}
	other := &domain.CompanyProfile{ID: 20, UserID: 200}
	job := &domain.Job{ID: 7, CompanyID: 10, Title: "Old", WorkMode: domain.WorkModeHybrid}

	setup := func() (*MockJobRepo, domain.JobUsecase) {
		profiles := new(MockCompanyProfileRepo)
		profiles.On("GetByUserID", ctx, int64(100)).Return(owner, nil)
		profiles.On("GetByUserID", ctx, int64(200)).Return(other, nil)
		jobs := new(MockJobRepo)
		jobs.On("GetByID", ctx, int64(7)).Return(job, nil)
		jobs.On("GetByID", ctx, int64(8)).Return(nil, domain.ErrNotFound)
		return jobs, usecase.NewJobUsecase(jobs, profiles, new(MockQuotaEvaluator), nil, fixedClock(now))
	}

	t.Run("Update by owner", func(t *testing.T) {
		jobs, uc := setup()
		jobs.On("Update", ctx, mock.AnythingOfType("*domain.Job")).Return(nil)
		updated, err := uc.UpdateJob(ctx, 100, 7, remoteJob)
		require.NoError(t, err)
		assert.Equal(t, "Backend Engineer", updated.Title)
		assert.Equal(t, now, updated.UpdatedAt)
	})

	t.Run("Update by another company is forbidden", func(t *testing.T) {
		_, uc := setup()
		_, err := uc.UpdateJob(ctx, 200, 7, remoteJob)
		assert.True(t, apperror.Is(err, apperror.KindPermissionDenied))
	})

	t.Run("Update of a missing job is not found", func(t *testing.T) {
		_, uc := setup()
		_, err := uc.UpdateJob(ctx, 100, 8, remoteJob)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("Delete of a missing job is forbidden", func(t *testing.T) {
		_, uc := setup()
		err := uc.DeleteJob(ctx, 100, 8)
		assert.True(t, apperror.Is(err, apperror.KindPermissionDenied))
	})

	t.Run("Delete by another company is forbidden", func(t *testing.T) {
		jobs, uc := setup()
		err := uc.DeleteJob(ctx, 200, 7)
		assert.True(t, apperror.Is(err, apperror.KindPermissionDenied))
		jobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Delete by owner", func(t *testing.T) {
		jobs, uc := setup()
		jobs.On("Delete", ctx, int64(7)).Return(nil)
		assert.NoError(t, uc.DeleteJob(ctx, 100, 7))
	})
}

func TestJobUsecase_ListPublicJobs(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults and page count", func(t *testing.T) {
		jobs := new(MockJobRepo)
		jobs.On("ListPublic", ctx, domain.JobFilter{Page: 1, Limit: 9}).Return([]domain.Job{{ID: 1}}, int64(19), nil)
		uc := usecase.NewJobUsecase(jobs, nil, nil, nil, nil)

		page, err := uc.ListPublicJobs(ctx, domain.JobFilter{})

		require.NoError(t, err)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 9, page.Limit)
	})

	t.Run("Limit is capped and work mode normalized", func(t *testing.T) {
		jobs := new(MockJobRepo)
		jobs.On("ListPublic", ctx, domain.JobFilter{WorkMode: "REMOTE", Page: 2, Limit: 50}).Return([]domain.Job{}, int64(0), nil)
		uc := usecase.NewJobUsecase(jobs, nil, nil, nil, nil)

		page, err := uc.ListPublicJobs(ctx, domain.JobFilter{WorkMode: "remote", Page: 2, Limit: 500})

		require.NoError(t, err)
		assert.Equal(t, 0, page.TotalPages)
	})

	t.Run("Unknown work mode", func(t *testing.T) {
		uc := usecase.NewJobUsecase(new(MockJobRepo), nil, nil, nil, nil)
		_, err := uc.ListPublicJobs(ctx, domain.JobFilter{WorkMode: "moon"})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}
