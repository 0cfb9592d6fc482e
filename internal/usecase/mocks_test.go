package usecase_test

import (
	"context"
	"time"

	"job-board-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// ============================================================================
// REPOSITORIES
// ============================================================================

type MockSubscriptionRepo struct {
	mock.Mock
}

func (m *MockSubscriptionRepo) GetByCompanyID(ctx context.Context, companyProfileID int64) (*domain.Subscription, error) {
	args := m.Called(ctx, companyProfileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepo) Upsert(ctx context.Context, sub *domain.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) CountCreatedBetween(ctx context.Context, companyID int64, from, to time.Time) (int, error) {
	args := m.Called(ctx, companyID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepo) ListPublic(ctx context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.Job, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockCompanyProfileRepo struct {
	mock.Mock
}

func (m *MockCompanyProfileRepo) GetByUserID(ctx context.Context, userID int64) (*domain.CompanyProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyProfile), args.Error(1)
}

func (m *MockCompanyProfileRepo) GetByID(ctx context.Context, id int64) (*domain.CompanyProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyProfile), args.Error(1)
}

func (m *MockCompanyProfileRepo) Update(ctx context.Context, profile *domain.CompanyProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockCompanyProfileRepo) UpdateLogo(ctx context.Context, id int64, logoURL string) error {
	return m.Called(ctx, id, logoURL).Error(0)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListByCandidate(ctx context.Context, candidateID int64) ([]domain.CandidateApplication, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidateApplication), args.Error(1)
}

func (m *MockApplicationRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.Applicant, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Applicant), args.Error(1)
}

func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) GetByUserID(ctx context.Context, userID int64) (*domain.CandidateProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateProfile), args.Error(1)
}

func (m *MockCandidateRepo) Update(ctx context.Context, profile *domain.CandidateProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockCandidateRepo) UpdateResumeURL(ctx context.Context, userID int64, url string) error {
	return m.Called(ctx, userID, url).Error(0)
}

func (m *MockCandidateRepo) GetCompleteness(ctx context.Context, userID int64) (*domain.ProfileCompleteness, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfileCompleteness), args.Error(1)
}

func (m *MockCandidateRepo) ListExperiences(ctx context.Context, userID int64) ([]domain.Experience, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Experience), args.Error(1)
}

func (m *MockCandidateRepo) GetExperience(ctx context.Context, id int64) (*domain.Experience, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Experience), args.Error(1)
}

func (m *MockCandidateRepo) CreateExperience(ctx context.Context, exp *domain.Experience) error {
	return m.Called(ctx, exp).Error(0)
}

func (m *MockCandidateRepo) UpdateExperience(ctx context.Context, exp *domain.Experience) error {
	return m.Called(ctx, exp).Error(0)
}

func (m *MockCandidateRepo) DeleteExperience(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCandidateRepo) ListEducations(ctx context.Context, userID int64) ([]domain.Education, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Education), args.Error(1)
}

func (m *MockCandidateRepo) GetEducation(ctx context.Context, id int64) (*domain.Education, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Education), args.Error(1)
}

func (m *MockCandidateRepo) CreateEducation(ctx context.Context, edu *domain.Education) error {
	return m.Called(ctx, edu).Error(0)
}

func (m *MockCandidateRepo) UpdateEducation(ctx context.Context, edu *domain.Education) error {
	return m.Called(ctx, edu).Error(0)
}

func (m *MockCandidateRepo) DeleteEducation(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByResetTokenHash(ctx context.Context, tokenHash string) (*domain.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) CreateCandidate(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) CreateCompany(ctx context.Context, user *domain.User, profile *domain.CompanyProfile, sub *domain.Subscription) error {
	return m.Called(ctx, user, profile, sub).Error(0)
}

func (m *MockUserRepo) SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	return m.Called(ctx, userID, tokenHash, expiresAt).Error(0)
}

func (m *MockUserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

// ============================================================================
// PORTS
// ============================================================================

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(user *domain.User) (string, time.Time, error) {
	args := m.Called(user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	return m.Called(ctx, to, name, resetURL).Error(0)
}

type MockBillingSource struct {
	mock.Mock
}

func (m *MockBillingSource) VerifySignature(payload []byte, signature string) (*domain.BillingEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingEvent), args.Error(1)
}

func (m *MockBillingSource) RetrieveSubscription(ctx context.Context, id string) (*domain.ProviderSubscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderSubscription), args.Error(1)
}

type MockCheckoutProvider struct {
	mock.Mock
}

func (m *MockCheckoutProvider) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutProvider) RetrieveCheckoutSession(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	return m.Called(ctx, eventType, payload).Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

type MockEligibilityGate struct {
	mock.Mock
}

func (m *MockEligibilityGate) CanApply(ctx context.Context, candidateID int64) (*domain.Eligibility, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Eligibility), args.Error(1)
}

type MockQuotaEvaluator struct {
	mock.Mock
}

func (m *MockQuotaEvaluator) CanPublish(ctx context.Context, companyProfileID int64) (*domain.QuotaDecision, error) {
	args := m.Called(ctx, companyProfileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuotaDecision), args.Error(1)
}

// ============================================================================
// FIXTURES
// ============================================================================

var testCatalog = domain.NewPlanCatalog([]domain.Plan{
	{ID: "basico", Name: "Básico", Price: 0, JobQuota: 1, ProviderPriceID: "plano_gratuito"},
	{ID: "profissional", Name: "Profissional", Price: 99, JobQuota: 5, ProviderPriceID: "price_pro", Featured: true},
})

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T {
	return &v
}
