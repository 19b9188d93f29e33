package cli

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatNaira renders an amount rounded to whole naira with thousands
// separators, e.g. 1250000.4 -> "₦1,250,000" and -2500 -> "-₦2,500".
func FormatNaira(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(0)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + NairaIcon + groupThousands(d.String())
}

// FormatNairaExact keeps kobo, e.g. 1250.5 -> "₦1,250.50".
func FormatNairaExact(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + NairaIcon + groupThousands(whole) + "." + frac
}

// FormatPercent renders a ratio given in percent with one decimal place.
func FormatPercent(pct float64) string {
	return decimal.NewFromFloat(pct).StringFixed(1) + "%"
}

// FormatRate renders a 0..1 fraction as a percentage.
func FormatRate(rate float64) string {
	return FormatPercent(rate * 100)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
