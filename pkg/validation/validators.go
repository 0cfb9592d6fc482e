package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Letters, digits, spaces and common punctuation: . ' - / & ( ) ,
	nameRegex = regexp.MustCompile(`^[\p{L}0-9 .'/&(),-]+$`)

	// Optional +, then 10-15 digits after formatting is stripped
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

	phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

const passwordSpecials = "@$!%*?&"

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("strong_password", StrongPassword)
	_ = v.RegisterValidation("cnpj", CNPJ)
	_ = v.RegisterValidation("work_mode", WorkMode)
	_ = v.RegisterValidation("application_status", ApplicationStatus)
}

func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return nameRegex.MatchString(val)
}

func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(phoneStripper.Replace(val))
}

// NoEmoji rejects supplementary-plane runes and symbol categories
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r > 0x1F000 || unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

func StrongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword requires at least 8 characters drawn from letters, digits
// and @$!%*?&, with one of each: lowercase, uppercase, digit, special.
func IsStrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

func CNPJ(fl validator.FieldLevel) bool {
	return ValidateCNPJ(SanitizeCNPJ(fl.Field().String()))
}

func WorkMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "ON_SITE", "REMOTE", "HYBRID":
		return true
	}
	return false
}

func ApplicationStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "RECEIVED", "UNDER_REVIEW", "INTERVIEW_APPROVED", "REJECTED", "HIRED":
		return true
	}
	return false
}
