package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/internal/usecase"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func TestCandidateUsecase_UpdateMyProfile(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	repo := new(MockCandidateRepo)
	repo.On("GetByUserID", ctx, int64(3)).Return(&domain.CandidateProfile{UserID: 3, Name: "Ana"}, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.CandidateProfile")).Return(nil)

	uc := usecase.NewCandidateUsecase(repo, nil, newValidator(), fixedClock(now))
	profile, err := uc.UpdateMyProfile(ctx, 3, domain.UpdateCandidateProfileInput{
		Summary: ptr("Backend developer"),
		Skills:  []string{" Go ", "go", "", "PostgreSQL"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.Name)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, profile.Skills)
	assert.Equal(t, now, profile.UpdatedAt)
}

func TestCandidateUsecase_GetMyProfileMissing(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCandidateRepo)
	repo.On("GetByUserID", ctx, int64(3)).Return(nil, domain.ErrNotFound)

	uc := usecase.NewCandidateUsecase(repo, nil, newValidator(), nil)
	_, err := uc.GetMyProfile(ctx, 3)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCandidateUsecase_UploadResume(t *testing.T) {
	ctx := context.Background()
	pdf := []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n")

	t.Run("Stores the file and records its URL", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		files := new(MockFileStorage)
		files.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "resumes/3/") && strings.HasSuffix(key, ".pdf")
		}), pdf, "application/pdf").Return("https://cdn.example.com/resumes/3/cv.pdf", nil)
		repo.On("UpdateResumeURL", ctx, int64(3), "https://cdn.example.com/resumes/3/cv.pdf").Return(nil)
		repo.On("GetByUserID", ctx, int64(3)).Return(&domain.CandidateProfile{
			UserID: 3, ResumeURL: ptr("https://cdn.example.com/resumes/3/cv.pdf"),
		}, nil)

		uc := usecase.NewCandidateUsecase(repo, files, newValidator(), nil)
		profile, err := uc.UploadResume(ctx, 3, domain.FileUpload{Filename: "CV.PDF", Data: pdf})

		require.NoError(t, err)
		require.NotNil(t, profile.ResumeURL)
		files.AssertExpectations(t)
	})

	t.Run("Rejects content that does not match the extension", func(t *testing.T) {
		files := new(MockFileStorage)
		uc := usecase.NewCandidateUsecase(new(MockCandidateRepo), files, newValidator(), nil)
		_, err := uc.UploadResume(ctx, 3, domain.FileUpload{Filename: "cv.pdf", Data: []byte("MZ\x90\x00 not a pdf")})

		assert.True(t, apperror.Is(err, apperror.KindValidation))
		files.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCandidateUsecase_Experiences(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Add stamps the owner", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		repo.On("CreateExperience", ctx, mock.MatchedBy(func(e *domain.Experience) bool {
			return e.CandidateID == 3
		})).Return(nil)

		uc := usecase.NewCandidateUsecase(repo, nil, newValidator(), nil)
		err := uc.AddExperience(ctx, 3, &domain.Experience{Role: "Engineer", Company: "Acme", StartDate: start})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Missing required fields", func(t *testing.T) {
		uc := usecase.NewCandidateUsecase(new(MockCandidateRepo), nil, newValidator(), nil)
		err := uc.AddExperience(ctx, 3, &domain.Experience{Company: "Acme"})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("End before start", func(t *testing.T) {
		uc := usecase.NewCandidateUsecase(new(MockCandidateRepo), nil, newValidator(), nil)
		err := uc.AddExperience(ctx, 3, &domain.Experience{
			Role: "Engineer", Company: "Acme", StartDate: start, EndDate: ptr(start.AddDate(-1, 0, 0)),
		})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Another candidate's entry cannot be changed", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		repo.On("GetExperience", ctx, int64(10)).Return(&domain.Experience{ID: 10, CandidateID: 4}, nil)
		repo.On("GetExperience", ctx, int64(11)).Return(nil, domain.ErrNotFound)

		uc := usecase.NewCandidateUsecase(repo, nil, newValidator(), nil)
		assert.True(t, apperror.Is(uc.DeleteExperience(ctx, 3, 10), apperror.KindPermissionDenied))
		assert.True(t, apperror.Is(uc.DeleteExperience(ctx, 3, 11), apperror.KindPermissionDenied))
		repo.AssertNotCalled(t, "DeleteExperience", mock.Anything, mock.Anything)
	})
}

func TestCandidateUsecase_Educations(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC)
	edu := &domain.Education{ID: 5, Institution: "USP", Degree: "Bachelor", Course: "Computer Science", StartDate: start}

	repo := new(MockCandidateRepo)
	repo.On("GetEducation", ctx, int64(5)).Return(&domain.Education{ID: 5, CandidateID: 3}, nil)
	repo.On("UpdateEducation", ctx, edu).Return(nil)
	repo.On("DeleteEducation", ctx, int64(5)).Return(nil)

	uc := usecase.NewCandidateUsecase(repo, nil, newValidator(), nil)
	require.NoError(t, uc.UpdateEducation(ctx, 3, edu))
	assert.Equal(t, int64(3), edu.CandidateID)
	require.NoError(t, uc.DeleteEducation(ctx, 3, 5))

	err := uc.UpdateEducation(ctx, 9, &domain.Education{ID: 5, Institution: "USP", Degree: "BSc", Course: "CS", StartDate: start})
	assert.True(t, apperror.Is(err, apperror.KindPermissionDenied))
}
