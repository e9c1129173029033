// Package country holds ISO 3166-1 alpha-2 helpers.
package country

import (
	"strings"

	"github.com/iota-uz/dora-register/pkg/constants"
)

// Normalize upper-cases and trims code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code is an assigned ISO 3166-1 alpha-2 code in
// upper case.
func Valid(code string) bool {
	if len(code) != 2 || code != strings.ToUpper(code) {
		return false
	}
	return constants.Validate.Var(code, "iso3166_1_alpha2") == nil
}

var eea = map[string]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "HR": {}, "CY": {}, "CZ": {}, "DK": {}, "EE": {},
	"FI": {}, "FR": {}, "DE": {}, "GR": {}, "HU": {}, "IE": {}, "IT": {}, "LV": {},
	"LT": {}, "LU": {}, "MT": {}, "NL": {}, "PL": {}, "PT": {}, "RO": {}, "SK": {},
	"SI": {}, "ES": {}, "SE": {}, "IS": {}, "LI": {}, "NO": {},
}

// InEEA reports whether code is a European Economic Area member state.
func InEEA(code string) bool {
	_, ok := eea[Normalize(code)]
	return ok
}
