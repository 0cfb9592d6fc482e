package validation_test

import (
	"testing"

	"job-board-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Senha@123": true,
		"Abcdef1!":  true,
		"abcdef1@":  false,
		"ABCDEF1@":  false,
		"Abcdefg@":  false,
		"Abcdefg1":  false,
		"Ab1@":      false,
		"Abc def1@": false,
		"Abcdef1#":  false,
	}

	for pw, want := range cases {
		assert.Equal(t, want, validation.IsStrongPassword(pw), pw)
	}
}

func TestValidateCNPJ(t *testing.T) {
	t.Run("Valid with punctuation", func(t *testing.T) {
		assert.True(t, validation.ValidateCNPJ(validation.SanitizeCNPJ("11.222.333/0001-81")))
	})
	t.Run("Wrong check digit", func(t *testing.T) {
		assert.False(t, validation.ValidateCNPJ("11222333000182"))
	})
	t.Run("Repeated digits", func(t *testing.T) {
		assert.False(t, validation.ValidateCNPJ("11111111111111"))
	})
	t.Run("Wrong length", func(t *testing.T) {
		assert.False(t, validation.ValidateCNPJ("1122233300018"))
	})
}

type registerForm struct {
	TaxID    string `validate:"required,cnpj"`
	Password string `validate:"required,strong_password"`
	WorkMode string `validate:"omitempty,work_mode"`
}

func TestRegisteredValidators(t *testing.T) {
	v := validator.New()
	validation.RegisterValidators(v)

	require.NoError(t, v.Struct(registerForm{TaxID: "11.222.333/0001-81", Password: "Senha@123", WorkMode: "REMOTE"}))

	err := v.Struct(registerForm{TaxID: "123", Password: "weak", WorkMode: "OFFICE"})
	require.Error(t, err)
	msgs := validation.FormatValidationErrors(err)
	assert.Len(t, msgs, 3)
	assert.Contains(t, validation.Message(err), "invalid CNPJ")
}
