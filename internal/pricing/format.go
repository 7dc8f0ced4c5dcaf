package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatLempiras formats an amount like "L. 12,500.00" (es-HN grouping,
// two fraction digits).
func FormatLempiras(amount decimal.Decimal) string {
	s := Display(amount).StringFixed(DisplayPlaces)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.Grow(len(intPart) + len(intPart)/3 + len(frac) + 5)
	if neg {
		b.WriteString("-")
	}
	b.WriteString("L. ")

	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
