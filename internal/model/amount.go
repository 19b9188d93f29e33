package model

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseCurrencyInput converts user-typed amount text into a non-negative
// amount. It is the single place where free text becomes a stored amount.
//
// Every character other than a digit or '.' is dropped, so thousands
// separators, currency symbols and spaces are ignored:
//
//	"150,000"     -> 150000
//	"₦ 1,250.50"  -> 1250.5
//	""            -> 0
//	"abc"         -> 0
//	"1.2.3"       -> 0 (more than one decimal point)
//	"-500"        -> 0 (negative amounts are not valid input)
//	"9999...9"    -> 0 (too large for a float64)
func ParseCurrencyInput(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "-") {
		return 0
	}

	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" || strings.Count(cleaned, ".") > 1 {
		return 0
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return 0
	}
	amount := d.InexactFloat64()
	if !IsFiniteAmount(amount) {
		return 0
	}
	return amount
}

// FormatAmount renders an amount with the shortest exact decimal text,
// e.g. 850000 -> "850000" and 12.5 -> "12.5".
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).String()
}

// IsFiniteAmount reports whether amount can be stored and exported.
func IsFiniteAmount(amount float64) bool {
	return !math.IsInf(amount, 0) && !math.IsNaN(amount)
}
