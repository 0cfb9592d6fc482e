package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/storage"
	"job-board-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type candidateUsecase struct {
	repo     domain.CandidateRepository
	files    domain.FileStorage
	validate *validator.Validate
	now      func() time.Time
}

func NewCandidateUsecase(
	repo domain.CandidateRepository,
	files domain.FileStorage,
	validate *validator.Validate,
	now func() time.Time,
) domain.CandidateUsecase {
	if now == nil {
		now = time.Now
	}
	return &candidateUsecase{
		repo:     repo,
		files:    files,
		validate: validate,
		now:      now,
	}
}

func (u *candidateUsecase) GetMyProfile(ctx context.Context, userID int64) (*domain.CandidateProfile, error) {
	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate profile not found")
		}
		return nil, err
	}
	return profile, nil
}

func (u *candidateUsecase) GetCandidateProfile(ctx context.Context, candidateID int64) (*domain.CandidateProfile, error) {
	return u.GetMyProfile(ctx, candidateID)
}

func (u *candidateUsecase) UpdateMyProfile(ctx context.Context, userID int64, input domain.UpdateCandidateProfileInput) (*domain.CandidateProfile, error) {
	profile, err := u.GetMyProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		profile.Name = name
	}
	profile.Summary = input.Summary
	profile.Phone = input.Phone
	profile.LinkedIn = input.LinkedIn
	profile.Skills = cleanSkills(input.Skills)
	profile.UpdatedAt = u.now()

	if err := u.repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// cleanSkills trims entries and drops blanks and case-insensitive duplicates.
func cleanSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func (u *candidateUsecase) UploadResume(ctx context.Context, userID int64, file domain.FileUpload) (*domain.CandidateProfile, error) {
	validated, err := storage.ResumePolicy.Validate(file.Filename, file.Data)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	key := storage.NewKey(fmt.Sprintf("resumes/%d", userID), validated.Extension)
	url, err := u.files.Put(ctx, key, file.Data, validated.ContentType)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := u.repo.UpdateResumeURL(ctx, userID, url); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate profile not found")
		}
		return nil, err
	}
	return u.GetMyProfile(ctx, userID)
}

func (u *candidateUsecase) validateStruct(s interface{}) error {
	if err := u.validate.Struct(s); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}
	return nil
}

func checkDates(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return apperror.BadRequest("End date must be after start date")
	}
	return nil
}

// ============================================================================
// EXPERIENCES
// ============================================================================

func (u *candidateUsecase) AddExperience(ctx context.Context, userID int64, exp *domain.Experience) error {
	if err := u.validateStruct(exp); err != nil {
		return err
	}
	if err := checkDates(exp.StartDate, exp.EndDate); err != nil {
		return err
	}
	exp.CandidateID = userID
	return u.repo.CreateExperience(ctx, exp)
}

func (u *candidateUsecase) ownExperience(ctx context.Context, userID, id int64) error {
	existing, err := u.repo.GetExperience(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if existing == nil || existing.CandidateID != userID {
		return apperror.Forbidden("You do not have permission to modify this experience")
	}
	return nil
}

func (u *candidateUsecase) UpdateExperience(ctx context.Context, userID int64, exp *domain.Experience) error {
	if err := u.validateStruct(exp); err != nil {
		return err
	}
	if err := checkDates(exp.StartDate, exp.EndDate); err != nil {
		return err
	}
	if err := u.ownExperience(ctx, userID, exp.ID); err != nil {
		return err
	}
	exp.CandidateID = userID
	return u.repo.UpdateExperience(ctx, exp)
}

func (u *candidateUsecase) DeleteExperience(ctx context.Context, userID int64, id int64) error {
	if err := u.ownExperience(ctx, userID, id); err != nil {
		return err
	}
	return u.repo.DeleteExperience(ctx, id)
}

// ============================================================================
// EDUCATIONS
// ============================================================================

func (u *candidateUsecase) AddEducation(ctx context.Context, userID int64, edu *domain.Education) error {
	if err := u.validateStruct(edu); err != nil {
		return err
	}
	if err := checkDates(edu.StartDate, edu.EndDate); err != nil {
		return err
	}
	edu.CandidateID = userID
	return u.repo.CreateEducation(ctx, edu)
}

func (u *candidateUsecase) ownEducation(ctx context.Context, userID, id int64) error {
	existing, err := u.repo.GetEducation(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if existing == nil || existing.CandidateID != userID {
		return apperror.Forbidden("You do not have permission to modify this education")
	}
	return nil
}

func (u *candidateUsecase) UpdateEducation(ctx context.Context, userID int64, edu *domain.Education) error {
	if err := u.validateStruct(edu); err != nil {
		return err
	}
	if err := checkDates(edu.StartDate, edu.EndDate); err != nil {
		return err
	}
	if err := u.ownEducation(ctx, userID, edu.ID); err != nil {
		return err
	}
	edu.CandidateID = userID
	return u.repo.UpdateEducation(ctx, edu)
}

func (u *candidateUsecase) DeleteEducation(ctx context.Context, userID int64, id int64) error {
	if err := u.ownEducation(ctx, userID, id); err != nil {
		return err
	}
	return u.repo.DeleteEducation(ctx, id)
}
