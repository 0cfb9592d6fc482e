package validation

import "unicode"

// SanitizeCNPJ strips everything that is not a digit.
func SanitizeCNPJ(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidateCNPJ checks length, repeated digits and both check digits of a
// sanitized CNPJ.
func ValidateCNPJ(cnpj string) bool {
	if len(cnpj) != 14 {
		return false
	}
	allEq := true
	for i := 1; i < 14; i++ {
		if cnpj[i] != cnpj[0] {
			allEq = false
			break
		}
	}
	if allEq {
		return false
	}
	digits := make([]int, 14)
	for i := 0; i < 14; i++ {
		if cnpj[i] < '0' || cnpj[i] > '9' {
			return false
		}
		digits[i] = int(cnpj[i] - '0')
	}
	return digits[12] == cnpjCheckDigit(digits[:12], cnpjWeights1) &&
		digits[13] == cnpjCheckDigit(digits[:13], cnpjWeights2)
}

func cnpjCheckDigit(digits, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}
	if rem := sum % 11; rem >= 2 {
		return 11 - rem
	}
	return 0
}
