package analysis

import (
	"math"

	"github.com/Veraticus/transit-budget/internal/model"
)

const (
	progressCap = 150
	barCap      = 100
)

// VarianceRow compares planned and actual amounts for one category.
type VarianceRow struct {
	Category model.Category
	Type     model.TransactionType
	Planned  float64
	Actual   float64
	// Variance is planned-actual for expenses and actual-planned for
	// income, so a positive value is always favorable.
	Variance float64
	// Progress is actual as a percentage of planned, capped at 150.
	Progress float64
	// BarPercent is Progress capped at 100 for drawing.
	BarPercent float64
	// Over is set on expense rows that exceeded a non-zero plan.
	Over bool
	// Under is set on income rows that fell short of a non-zero plan.
	Under bool
}

// Favorable reports whether the row should be rendered as on track.
func (r VarianceRow) Favorable() bool {
	return !r.Over && !r.Under
}

// ExpenseVariance builds an expense row. Spending with no plan counts as
// 100% progress.
func ExpenseVariance(category model.Category, planned, actual float64) VarianceRow {
	return VarianceRow{
		Category:   category,
		Type:       model.TypeExpense,
		Planned:    planned,
		Actual:     actual,
		Variance:   planned - actual,
		Progress:   progress(planned, actual),
		BarPercent: math.Min(progress(planned, actual), barCap),
		Over:       actual > planned && planned > 0,
	}
}

// IncomeVariance builds an income row. Meeting or beating the plan is
// favorable.
func IncomeVariance(category model.Category, planned, actual float64) VarianceRow {
	return VarianceRow{
		Category:   category,
		Type:       model.TypeIncome,
		Planned:    planned,
		Actual:     actual,
		Variance:   actual - planned,
		Progress:   progress(planned, actual),
		BarPercent: math.Min(progress(planned, actual), barCap),
		Under:      actual < planned && planned > 0,
	}
}

func progress(planned, actual float64) float64 {
	switch {
	case planned > 0:
		return math.Min(actual/planned*100, progressCap)
	case actual > 0:
		return 100
	default:
		return 0
	}
}

// varianceRows returns one row per category with a non-zero planned or
// actual amount, presets first.
func varianceRows(t model.TransactionType, planned, actual model.CategoryAmounts) []VarianceRow {
	keys := make(model.CategoryAmounts, len(planned)+len(actual))
	for c := range planned {
		keys[c] = 0
	}
	for c := range actual {
		keys[c] = 0
	}

	var rows []VarianceRow
	for _, c := range keys.Keys(t) {
		p, a := planned[c], actual[c]
		if p <= 0 && a <= 0 {
			continue
		}
		if t == model.TypeIncome {
			rows = append(rows, IncomeVariance(c, p, a))
		} else {
			rows = append(rows, ExpenseVariance(c, p, a))
		}
	}
	return rows
}
