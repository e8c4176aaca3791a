// Package cnpj canonicalizes the 14-digit Brazilian company identifier:
// cleaning, length validation, check-digit computation, headquarters
// derivation and display formatting.
package cnpj

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Length is the digit count of a full identifier.
const Length = 14

// ErrInvalidInput is returned when a check-digit base is not exactly 12 digits.
var ErrInvalidInput = eris.New("cnpj: base must be exactly 12 digits")

// Check-digit weight sequences. The first digit is computed over the 12-digit
// base, the second over the base plus the first digit.
var (
	weights12 = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	weights13 = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Clean strips every non-digit character from raw. Empty input yields an
// empty string; there is no failure mode.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValid reports whether digits is exactly 14 digits long. Check digits are
// not re-verified here: the registry provider is the authority on whether an
// identifier exists, and a checksum pass would not change that.
func IsValid(digits string) bool {
	if len(digits) != Length {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CheckDigits computes the two check digits for a 12-digit base. Each digit
// is a weighted sum mod 11: remainder below 2 yields '0', anything else
// yields 11 minus the remainder.
func CheckDigits(base12 string) (string, error) {
	if len(base12) != 12 || !allDigits(base12) {
		return "", ErrInvalidInput
	}

	first := checkDigit(base12, weights12[:])
	second := checkDigit(base12+first, weights13[:])
	return first + second, nil
}

func checkDigit(base string, weights []int) string {
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return "0"
	}
	return string(rune('0' + 11 - r))
}

// IsHeadquarters reports whether the branch-sequence segment (digits 9-12)
// is "0001". Anything that is not a 14-digit string is not a headquarters.
func IsHeadquarters(id string) bool {
	return len(id) == Length && id[8:12] == "0001"
}

// ToHeadquarters derives the headquarters identifier from a branch
// identifier by replacing the branch-sequence segment with "0001" and
// recomputing both check digits. Headquarters identifiers and inputs that
// are not exactly 14 digits pass through unchanged, which makes the
// function idempotent.
func ToHeadquarters(id string) string {
	if len(id) != Length || !allDigits(id) {
		return id
	}
	if id[8:12] == "0001" {
		return id
	}
	base12 := id[:8] + "0001"
	dv, err := CheckDigits(base12)
	if err != nil {
		return id
	}
	return base12 + dv
}

// FormatMask renders a 14-digit identifier with the conventional punctuation
// (NN.NNN.NNN/NNNN-NN). Anything else is returned unchanged; formatting is
// cosmetic and never fatal.
func FormatMask(id string) string {
	c := Clean(id)
	if len(c) != Length {
		return id
	}
	return c[0:2] + "." + c[2:5] + "." + c[5:8] + "/" + c[8:12] + "-" + c[12:14]
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
