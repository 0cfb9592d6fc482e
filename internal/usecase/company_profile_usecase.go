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
)

// Logos are scaled down so neither side exceeds this many pixels.
const logoMaxDimension = 512

type companyProfileUsecase struct {
	profileRepo domain.CompanyProfileRepository
	files       domain.FileStorage
	now         func() time.Time
}

// NewCompanyProfileUsecase creates a new company profile usecase
func NewCompanyProfileUsecase(
	profileRepo domain.CompanyProfileRepository,
	files domain.FileStorage,
	now func() time.Time,
) domain.CompanyProfileUsecase {
	if now == nil {
		now = time.Now
	}
	return &companyProfileUsecase{
		profileRepo: profileRepo,
		files:       files,
		now:         now,
	}
}

func (uc *companyProfileUsecase) GetMyProfile(ctx context.Context, userID int64) (*domain.CompanyProfile, error) {
	return companyOf(ctx, uc.profileRepo, userID)
}

// UpdateMyProfile writes the account name and the profile together.
func (uc *companyProfileUsecase) UpdateMyProfile(ctx context.Context, userID int64, input domain.UpdateCompanyProfileInput) (*domain.CompanyProfile, error) {
	profile, err := companyOf(ctx, uc.profileRepo, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		profile.Name = name
	}
	if input.TaxID != "" {
		cnpj := validation.SanitizeCNPJ(input.TaxID)
		if !validation.ValidateCNPJ(cnpj) {
			return nil, apperror.BadRequest("Invalid CNPJ")
		}
		profile.TaxID = cnpj
	}
	profile.Description = input.Description
	profile.Website = input.Website
	profile.UpdatedAt = uc.now()

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (uc *companyProfileUsecase) UploadLogo(ctx context.Context, userID int64, file domain.FileUpload) (*domain.CompanyProfile, error) {
	if _, err := storage.LogoPolicy.Validate(file.Filename, file.Data); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	profile, err := companyOf(ctx, uc.profileRepo, userID)
	if err != nil {
		return nil, err
	}

	data, format, err := storage.ResizeImage(file.Data, logoMaxDimension)
	if err != nil {
		return nil, apperror.BadRequest("Logo could not be processed")
	}

	key := storage.NewKey(fmt.Sprintf("logos/%d", profile.ID), "."+format)
	url, err := uc.files.Put(ctx, key, data, "image/"+format)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := uc.profileRepo.UpdateLogo(ctx, profile.ID, url); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Company profile not found")
		}
		return nil, err
	}
	profile.LogoURL = &url
	return profile, nil
}
