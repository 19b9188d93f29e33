package model

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCurrencyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain integer", input: "150000", want: 150000},
		{name: "thousands separators", input: "150,000", want: 150000},
		{name: "currency symbol and spaces", input: "₦ 1,250.50", want: 1250.5},
		{name: "surrounding whitespace", input: "  42  ", want: 42},
		{name: "empty", input: "", want: 0},
		{name: "whitespace only", input: "   ", want: 0},
		{name: "letters only", input: "abc", want: 0},
		{name: "lone decimal point", input: ".", want: 0},
		{name: "two decimal points", input: "1.2.3", want: 0},
		{name: "negative", input: "-500", want: 0},
		{name: "leading zeros", input: "000123", want: 123},
		{name: "fraction only", input: ".75", want: 0.75},
		{name: "mixed letters and digits", input: "12abc34", want: 1234},
		{name: "too many digits for a float", input: strings.Repeat("9", 400), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseCurrencyInput(tt.input), 1e-9)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "850000", FormatAmount(850000))
	assert.Equal(t, "12.5", FormatAmount(12.5))
	assert.Equal(t, "0", FormatAmount(0))
}

func TestIsFiniteAmount(t *testing.T) {
	assert.True(t, IsFiniteAmount(0))
	assert.True(t, IsFiniteAmount(1e300))
	assert.False(t, IsFiniteAmount(math.Inf(1)))
	assert.False(t, IsFiniteAmount(math.Inf(-1)))
	assert.False(t, IsFiniteAmount(math.NaN()))
}
