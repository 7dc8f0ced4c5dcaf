// Package validation collects field violations of request bodies.
package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/diewo77/go-salesagent/i18n"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Translate returns the violations with their messages in lang.
func (v Violations) Translate(lang string) map[string]string {
	out := make(map[string]string, len(v))
	for field, code := range v {
		out[field] = i18n.T(lang, code)
	}
	return out
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func NonNegativeDecimal(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v[field] = "must_not_be_negative"
	}
}
