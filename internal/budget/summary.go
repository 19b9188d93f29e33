package budget

import "github.com/Veraticus/transit-budget/internal/model"

// Summary is the planner's view of a single month.
type Summary struct {
	PlannedIncome  float64
	PlannedExpense float64
	ExtrasIncome   float64
	ExtrasExpense  float64
}

// Surplus is everything planned to come in minus everything planned to go out.
func (s Summary) Surplus() float64 {
	return s.PlannedIncome + s.ExtrasIncome - s.PlannedExpense - s.ExtrasExpense
}

// Summarize totals a plan's categories and extras.
func Summarize(plan model.MonthBudgetPlan) Summary {
	s := Summary{
		PlannedIncome:  plan.Income.Total(),
		PlannedExpense: plan.Expense.Total(),
	}
	for _, e := range plan.Extras {
		switch e.Type {
		case model.TypeIncome:
			s.ExtrasIncome += e.Amount
		default:
			s.ExtrasExpense += e.Amount
		}
	}
	return s
}
