package model

import (
	"fmt"
	"strings"
)

// Money renders a currency amount as "$1,234.56" with thousands grouping.
// Negative amounts render as "$-1,234.56" to keep the sign adjacent to digits.
func Money(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if neg {
		return "$-" + b.String() + frac
	}
	return "$" + b.String() + frac
}

// MoneyOrUnknown renders a nullable amount, falling back to a plain-language
// marker for missing values so explanations never hide a gap.
func MoneyOrUnknown(v *float64) string {
	if v == nil {
		return "an unknown amount"
	}
	return Money(*v)
}
