package domain

import "context"

// Profile sections required before a candidate may apply.
const (
	RequirementSummary    = "summary"
	RequirementResume     = "resume"
	RequirementExperience = "experience"
	RequirementEducation  = "education"
)

type Eligibility struct {
	Eligible bool     `json:"eligible"`
	Missing  []string `json:"missing"`
	Message  string   `json:"message,omitempty"`
}

type EligibilityGate interface {
	CanApply(ctx context.Context, candidateID int64) (*Eligibility, error)
}
