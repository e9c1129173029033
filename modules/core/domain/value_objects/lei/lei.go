// Package lei validates ISO 17442 Legal Entity Identifiers.
package lei

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/dora-register/pkg/constants"
)

const Length = 20

// Normalize upper-cases and trims v.
func Normalize(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// Valid reports whether v is 20 upper-case alphanumerics whose mod-97
// remainder is 1.
func Valid(v string) bool {
	if len(v) != Length {
		return false
	}
	for _, r := range v {
		if !isUpperAlnum(r) {
			return false
		}
	}
	return mod97(v) == 1
}

// CheckDigits returns the two check digits completing an 18 character prefix.
func CheckDigits(prefix string) (string, error) {
	if len(prefix) != Length-2 {
		return "", fmt.Errorf("lei prefix must be %d characters", Length-2)
	}
	for _, r := range prefix {
		if !isUpperAlnum(r) {
			return "", fmt.Errorf("lei prefix contains %q", r)
		}
	}
	return fmt.Sprintf("%02d", 98-mod97(prefix+"00")), nil
}

func isUpperAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z')
}

// mod97 folds the ISO 7064 digit expansion without building a big integer.
func mod97(v string) int {
	rem := 0
	for _, r := range v {
		if r >= 'A' {
			n := int(r-'A') + 10
			rem = (rem*100 + n) % 97
			continue
		}
		rem = (rem*10 + int(r-'0')) % 97
	}
	return rem
}

func init() {
	if err := constants.Validate.RegisterValidation("lei", func(fl validator.FieldLevel) bool {
		return Valid(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}
