package usecase

import (
	"context"
	"errors"
	"strings"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
)

type eligibilityGate struct {
	candidateRepo domain.CandidateRepository
}

func NewEligibilityGate(candidateRepo domain.CandidateRepository) domain.EligibilityGate {
	return &eligibilityGate{candidateRepo: candidateRepo}
}

// CanApply requires a summary, a résumé, one experience and one education.
func (g *eligibilityGate) CanApply(ctx context.Context, candidateID int64) (*domain.Eligibility, error) {
	c, err := g.candidateRepo.GetCompleteness(ctx, candidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate profile not found")
		}
		return nil, err
	}

	missing := []string{}
	if c.Summary == nil || strings.TrimSpace(*c.Summary) == "" {
		missing = append(missing, domain.RequirementSummary)
	}
	if c.ResumeURL == nil || strings.TrimSpace(*c.ResumeURL) == "" {
		missing = append(missing, domain.RequirementResume)
	}
	if c.ExperienceCount < 1 {
		missing = append(missing, domain.RequirementExperience)
	}
	if c.EducationCount < 1 {
		missing = append(missing, domain.RequirementEducation)
	}

	if len(missing) > 0 {
		return &domain.Eligibility{
			Eligible: false,
			Missing:  missing,
			Message:  "Complete your profile before applying. Missing: " + strings.Join(missing, ", "),
		}, nil
	}
	return &domain.Eligibility{Eligible: true, Missing: missing}, nil
}
