package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	"Name":            "Name",
	"CompanyName":     "Company name",
	"TaxID":           "CNPJ",
	"Email":           "Email",
	"Password":        "Password",
	"Summary":         "Summary",
	"Phone":           "Phone",
	"LinkedIn":        "LinkedIn",
	"Skills":          "Skills",
	"Title":           "Title",
	"Description":     "Description",
	"Requirements":    "Requirements",
	"Salary":          "Salary",
	"WorkMode":        "Work mode",
	"Location":        "Location",
	"Website":         "Website",
	"Role":            "Role",
	"Company":         "Company",
	"Institution":     "Institution",
	"Degree":          "Degree",
	"Course":          "Course",
	"StartDate":       "Start date",
	"EndDate":         "End date",
	"Status":          "Status",
	"PriceID":         "Price",
	"SessionID":       "Session",
	"ConfirmPassword": "Password confirmation",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins the formatted errors into one sentence.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s: invalid email format", label)
	case "url":
		return fmt.Sprintf("%s: invalid URL format", label)
	case "valid_name":
		return fmt.Sprintf("%s: only letters, spaces and common punctuation are allowed", label)
	case "valid_phone":
		return fmt.Sprintf("%s: invalid phone number", label)
	case "no_emoji":
		return fmt.Sprintf("%s: must not contain emoji or symbols", label)
	case "strong_password":
		return fmt.Sprintf("%s: must have at least 8 characters with an uppercase letter, a lowercase letter, a digit and one of %s", label, passwordSpecials)
	case "cnpj":
		return fmt.Sprintf("%s: invalid CNPJ", label)
	case "work_mode":
		return fmt.Sprintf("%s: must be one of ON_SITE, REMOTE, HYBRID", label)
	case "application_status":
		return fmt.Sprintf("%s: invalid application status", label)
	case "eqfield":
		return fmt.Sprintf("%s: must match %s", label, getFieldLabel(param))
	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return field
}
