package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(id string, date model.Date, typ model.TransactionType, cat model.Category, amount float64) model.Transaction {
	return model.Transaction{
		ID:          id,
		Date:        date,
		Type:        typ,
		Category:    cat,
		Amount:      amount,
		Description: typ.DefaultDescription(),
	}
}

// yearOfExpenses returns one 1000 Food expense on the 10th of every month.
func yearOfExpenses(year int) []model.Transaction {
	var out []model.Transaction
	for m := time.January; m <= time.December; m++ {
		out = append(out, txn(fmt.Sprintf("t%d", m), model.NewDate(year, m, 10), model.TypeExpense, model.CategoryFood, 1000))
	}
	return out
}

func TestScopeMonths(t *testing.T) {
	today := model.NewDate(2024, time.August, 15)

	tests := []struct {
		name   string
		scope  Scope
		anchor model.MonthKey
		today  model.Date
		want   []model.MonthKey
	}{
		{name: "monthly", scope: ScopeMonthly, anchor: "2024-05", today: today, want: []model.MonthKey{"2024-05"}},
		{name: "quarterly Q2", scope: ScopeQuarterly, anchor: "2024-05", today: today, want: []model.MonthKey{"2024-04", "2024-05", "2024-06"}},
		{name: "quarterly Q4", scope: ScopeQuarterly, anchor: "2024-12", today: today, want: []model.MonthKey{"2024-10", "2024-11", "2024-12"}},
		{name: "quarterly Q1", scope: ScopeQuarterly, anchor: "2024-01", today: today, want: []model.MonthKey{"2024-01", "2024-02", "2024-03"}},
		{
			name: "ytd current year", scope: ScopeYTD, anchor: "2024-02", today: today,
			want: []model.MonthKey{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06", "2024-07", "2024-08"},
		},
		{name: "ytd past year", scope: ScopeYTD, anchor: "2023-02", today: today, want: monthRange(2023, 1, 12)},
		{name: "yearly", scope: ScopeYearly, anchor: "2024-05", today: today, want: monthRange(2024, 1, 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScopeMonths(tt.scope, tt.anchor, tt.today))
		})
	}
}

func TestAggregate_QuarterlyScopeFilter(t *testing.T) {
	res := Aggregate(yearOfExpenses(2024), nil, Request{
		Scope:  ScopeQuarterly,
		Anchor: "2024-05",
		Today:  model.NewDate(2024, time.December, 31),
	})

	assert.Equal(t, []model.MonthKey{"2024-04", "2024-05", "2024-06"}, res.Months)
	assert.Equal(t, 3, res.TransactionCount)
	assert.InDelta(t, 3000, res.TotalActualExpense, 1e-9)
	assert.InDelta(t, 3000, res.ActualExpense[model.CategoryFood], 1e-9)
	assert.Equal(t, "Q2 2024", res.Label)
	assert.False(t, res.HasPlan)
}

func TestAggregate_YTDExcludesFutureTransactions(t *testing.T) {
	today := model.NewDate(2024, time.June, 15)
	txns := []model.Transaction{
		txn("past", model.NewDate(2024, time.June, 1), model.TypeExpense, model.CategoryFood, 100),
		txn("today", today, model.TypeExpense, model.CategoryFood, 10),
		txn("future", model.NewDate(2024, time.June, 20), model.TypeExpense, model.CategoryFood, 1000),
	}

	ytd := Aggregate(txns, nil, Request{Scope: ScopeYTD, Anchor: "2024-06", Today: today})
	assert.InDelta(t, 110, ytd.TotalActualExpense, 1e-9)
	assert.Equal(t, 2, ytd.TransactionCount)

	yearly := Aggregate(txns, nil, Request{Scope: ScopeYearly, Anchor: "2024-06", Today: today})
	assert.InDelta(t, 1110, yearly.TotalActualExpense, 1e-9)
}

func TestAggregate_PlansAndExtras(t *testing.T) {
	jan := model.MonthBudgetPlan{
		Income:  model.CategoryAmounts{model.CategorySalary: 500000},
		Expense: model.CategoryAmounts{model.CategoryHousing: 150000, model.CategoryFood: 80000},
		Extras: []model.ExtraEntry{
			{ID: "x1", Type: model.TypeIncome, Amount: 20000},
			{ID: "x2", Type: model.TypeExpense, Category: model.CategoryHealth, Amount: 5000},
		},
		Locked: true,
	}
	feb := model.MonthBudgetPlan{
		Income:  model.CategoryAmounts{model.CategorySalary: 500000},
		Expense: model.CategoryAmounts{model.CategoryHousing: 150000},
	}
	plans := model.BudgetPlans{"2024-01": jan, "2024-02": feb}

	txns := []model.Transaction{
		txn("a", model.NewDate(2024, time.January, 25), model.TypeIncome, model.CategorySalary, 500000),
		txn("b", model.NewDate(2024, time.January, 2), model.TypeExpense, model.CategoryHousing, 180000),
		txn("c", model.NewDate(2024, time.February, 3), model.TypeExpense, "Pets", 7000),
	}

	res := Aggregate(txns, plans, Request{Scope: ScopeQuarterly, Anchor: "2024-02", Today: model.NewDate(2024, time.March, 31)})

	require.True(t, res.HasPlan)
	assert.InDelta(t, 1000000, res.PlannedIncome[model.CategorySalary], 1e-9)
	assert.InDelta(t, 300000, res.PlannedExpense[model.CategoryHousing], 1e-9)
	assert.Zero(t, res.PlannedExpense[model.CategoryHealth], "extras never land in category maps")
	assert.InDelta(t, 1020000, res.TotalPlannedIncome, 1e-9)
	assert.InDelta(t, 385000, res.TotalPlannedExpense, 1e-9)
	assert.InDelta(t, 635000, res.PlannedNet, 1e-9)

	assert.InDelta(t, 500000, res.TotalActualIncome, 1e-9)
	assert.InDelta(t, 187000, res.TotalActualExpense, 1e-9)
	assert.InDelta(t, 313000, res.NetActual, 1e-9)
	assert.InDelta(t, 7000, res.ActualExpense["Pets"], 1e-9)

	for _, c := range model.PresetCategories(model.TypeExpense) {
		_, ok := res.ActualExpense[c]
		assert.True(t, ok, "preset %s missing from actuals", c)
	}

	var housing VarianceRow
	for _, r := range res.ExpenseRows {
		if r.Category == model.CategoryHousing {
			housing = r
		}
	}
	assert.InDelta(t, 120000, housing.Variance, 1e-9)
	assert.False(t, housing.Over)

	last := res.ExpenseRows[len(res.ExpenseRows)-1]
	assert.Equal(t, model.Category("Pets"), last.Category, "custom categories follow presets")
}

func TestAggregate_HasPlanWithZeroPlan(t *testing.T) {
	plans := model.BudgetPlans{"2024-03": model.MonthBudgetPlan{}}

	res := Aggregate(nil, plans, Request{Scope: ScopeMonthly, Anchor: "2024-03", Today: model.NewDate(2024, time.March, 1)})
	assert.True(t, res.HasPlan)
	assert.Zero(t, res.TotalPlannedExpense)
	assert.Empty(t, res.ExpenseRows)
	assert.Empty(t, res.Pie)

	res = Aggregate(nil, plans, Request{Scope: ScopeMonthly, Anchor: "2024-04", Today: model.NewDate(2024, time.March, 1)})
	assert.False(t, res.HasPlan)
}

func TestAggregate_DoesNotMutateInputs(t *testing.T) {
	plan := model.MonthBudgetPlan{Expense: model.CategoryAmounts{model.CategoryFood: 100}}
	plans := model.BudgetPlans{"2024-01": plan}
	txns := []model.Transaction{
		txn("a", model.NewDate(2024, time.January, 5), model.TypeExpense, model.CategoryFood, 50),
	}

	_ = Aggregate(txns, plans, Request{Scope: ScopeMonthly, Anchor: "2024-01", Today: model.NewDate(2024, time.January, 31)})

	assert.Len(t, plans["2024-01"].Expense, 1)
	assert.InDelta(t, 100, plans["2024-01"].Expense[model.CategoryFood], 1e-9)
	assert.InDelta(t, 50, txns[0].Amount, 1e-9)
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{in: "monthly", want: ScopeMonthly},
		{in: "Quarterly", want: ScopeQuarterly},
		{in: "YTD", want: ScopeYTD},
		{in: "year-to-date", want: ScopeYTD},
		{in: " yearly ", want: ScopeYearly},
		{in: "weekly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScope(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScope_LabelAndNext(t *testing.T) {
	anchor := model.MonthKey("2024-05")
	assert.Equal(t, "May 2024", ScopeMonthly.Label(anchor))
	assert.Equal(t, "Q2 2024", ScopeQuarterly.Label(anchor))
	assert.Equal(t, "YTD 2024", ScopeYTD.Label(anchor))
	assert.Equal(t, "Year 2024", ScopeYearly.Label(anchor))

	assert.Equal(t, ScopeQuarterly, ScopeMonthly.Next())
	assert.Equal(t, ScopeMonthly, ScopeYearly.Next())
}
