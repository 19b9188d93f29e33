package analysis

import (
	"github.com/Veraticus/transit-budget/internal/model"
)

// Request selects what Aggregate computes.
type Request struct {
	Today  model.Date
	Scope  Scope
	Anchor model.MonthKey
	// TopN bounds the pie breakdown; zero means DefaultTopN.
	TopN int
}

// Result is the scoped actual-versus-planned view.
type Result struct {
	ActualIncome   model.CategoryAmounts
	ActualExpense  model.CategoryAmounts
	PlannedIncome  model.CategoryAmounts
	PlannedExpense model.CategoryAmounts
	Scope          Scope
	Label          string
	Months         []model.MonthKey
	Pie            []Slice
	ExpenseRows    []VarianceRow
	IncomeRows     []VarianceRow

	TotalActualIncome   float64
	TotalActualExpense  float64
	TotalPlannedIncome  float64
	TotalPlannedExpense float64
	NetActual           float64
	PlannedNet          float64
	TransactionCount    int
	HasPlan             bool
}

// Aggregate sums transactions and plans over the requested scope. Planned
// totals include extra-budgetary entries; the per-category planned maps do
// not. Under ytd, transactions dated after today are ignored.
func Aggregate(transactions []model.Transaction, plans model.BudgetPlans, req Request) Result {
	if req.Scope == "" {
		req.Scope = ScopeMonthly
	}
	if req.Today.IsZero() {
		req.Today = model.Today()
	}
	if req.TopN == 0 {
		req.TopN = DefaultTopN
	}

	months := ScopeMonths(req.Scope, req.Anchor, req.Today)
	inScope := make(map[model.MonthKey]bool, len(months))
	for _, m := range months {
		inScope[m] = true
	}

	res := Result{
		Scope:          req.Scope,
		Label:          req.Scope.Label(req.Anchor),
		Months:         months,
		ActualIncome:   model.NewCategoryAmounts(model.TypeIncome),
		ActualExpense:  model.NewCategoryAmounts(model.TypeExpense),
		PlannedIncome:  model.NewCategoryAmounts(model.TypeIncome),
		PlannedExpense: model.NewCategoryAmounts(model.TypeExpense),
	}

	for _, t := range transactions {
		if !inScope[t.MonthKey()] {
			continue
		}
		if req.Scope == ScopeYTD && t.Date.After(req.Today) {
			continue
		}
		switch t.Type {
		case model.TypeIncome:
			res.ActualIncome.Add(t.Category, t.Amount)
		case model.TypeExpense:
			res.ActualExpense.Add(t.Category, t.Amount)
		default:
			continue
		}
		res.TransactionCount++
	}

	var extrasIncome, extrasExpense float64
	for _, m := range months {
		plan, ok := plans[m]
		if !ok {
			continue
		}
		res.HasPlan = true
		for c, v := range plan.Income {
			res.PlannedIncome.Add(c, v)
		}
		for c, v := range plan.Expense {
			res.PlannedExpense.Add(c, v)
		}
		for _, e := range plan.Extras {
			if e.Type == model.TypeIncome {
				extrasIncome += e.Amount
			} else {
				extrasExpense += e.Amount
			}
		}
	}

	res.TotalActualIncome = res.ActualIncome.Total()
	res.TotalActualExpense = res.ActualExpense.Total()
	res.TotalPlannedIncome = res.PlannedIncome.Total() + extrasIncome
	res.TotalPlannedExpense = res.PlannedExpense.Total() + extrasExpense
	res.NetActual = res.TotalActualIncome - res.TotalActualExpense
	res.PlannedNet = res.TotalPlannedIncome - res.TotalPlannedExpense

	res.Pie = BucketTopN(res.ActualExpense, req.TopN)
	res.ExpenseRows = varianceRows(model.TypeExpense, res.PlannedExpense, res.ActualExpense)
	res.IncomeRows = varianceRows(model.TypeIncome, res.PlannedIncome, res.ActualIncome)

	return res
}
