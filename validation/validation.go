package validation

import "strings"

// Violations maps field names to violation codes. Codes are translated at
// the presentation layer, never here.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

func NonNegativeInt(field string, val int, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

// RateFloat checks a fractional rate such as a VAT or discount rate (0..1).
func RateFloat(field string, val float64, v Violations) {
	if val < 0 || val > 1 {
		v[field] = "out_of_range"
	}
}

// OneOf checks membership in a closed set of allowed values.
func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "invalid_value"
}
