package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/transit-budget/internal/analysis"
	"github.com/Veraticus/transit-budget/internal/budget"
	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	n := 0
	return NewWithConfig(nil, Config{NewID: func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}})
}

var today = model.NewDate(2024, time.May, 15)

func TestLedger_AddTransaction(t *testing.T) {
	l := newTestLedger(t)

	tx, err := l.AddTransaction(model.TransactionDraft{
		Type:     model.TypeExpense,
		Category: model.CategoryFood,
		Amount:   2500,
		Date:     model.NewDate(2024, time.May, 2),
	}, today)
	require.NoError(t, err)
	assert.Equal(t, "id-1", tx.ID)
	assert.Equal(t, "Expense", tx.Description)

	undated, err := l.AddTransaction(model.TransactionDraft{
		Type:        model.TypeIncome,
		Category:    model.CategorySalary,
		Amount:      500000,
		Description: "May pay",
	}, today)
	require.NoError(t, err)
	assert.Equal(t, today, undated.Date)

	txns := l.Transactions()
	require.Len(t, txns, 2)
	assert.Equal(t, "id-2", txns[0].ID, "newest first")
}

func TestLedger_AddTransaction_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		draft model.TransactionDraft
		want  error
	}{
		{
			name:  "zero amount",
			draft: model.TransactionDraft{Type: model.TypeExpense, Category: model.CategoryFood},
			want:  model.ErrInvalidAmount,
		},
		{
			name:  "negative amount",
			draft: model.TransactionDraft{Type: model.TypeExpense, Category: model.CategoryFood, Amount: -5},
			want:  model.ErrInvalidAmount,
		},
		{
			name:  "income category on expense",
			draft: model.TransactionDraft{Type: model.TypeExpense, Category: model.CategorySalary, Amount: 5},
			want:  model.ErrUnknownCat,
		},
		{
			name:  "bad type",
			draft: model.TransactionDraft{Type: "transfer", Category: model.CategoryFood, Amount: 5},
			want:  model.ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t)
			_, err := l.AddTransaction(tt.draft, today)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, l.Transactions())
		})
	}
}

func TestLedger_DeleteAndClearTransactions(t *testing.T) {
	l := newTestLedger(t)
	l.SeedDemo(today)
	require.Len(t, l.Transactions(), 10)

	first := l.Transactions()[0]
	require.NoError(t, l.DeleteTransaction(first.ID))
	assert.Len(t, l.Transactions(), 9)
	assert.ErrorIs(t, l.DeleteTransaction(first.ID), common.ErrNotFound)

	assert.Equal(t, 9, l.ClearTransactions())
	assert.Empty(t, l.Transactions())
}

func TestLedger_CustomCategories(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.AddCustomCategory("Pets", model.TypeExpense)
	require.NoError(t, err)

	_, err = l.AddCustomCategory("  pets ", model.TypeExpense)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	_, err = l.AddCustomCategory("FOOD", model.TypeExpense)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry, "presets count as duplicates")

	_, err = l.AddCustomCategory("Pets", model.TypeIncome)
	assert.NoError(t, err, "uniqueness is per type")

	_, err = l.AddCustomCategory("   ", model.TypeIncome)
	assert.Error(t, err)

	cats := l.Categories(model.TypeExpense)
	assert.Equal(t, model.Category("Pets"), cats[len(cats)-1])
	assert.Len(t, cats, len(model.PresetCategories(model.TypeExpense))+1)
}

func TestLedger_CategoryDeletionGuard(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.AddCustomCategory("Pets", model.TypeExpense)
	require.NoError(t, err)
	_, err = l.AddCustomCategory("Garden", model.TypeExpense)
	require.NoError(t, err)

	tx, err := l.AddTransaction(model.TransactionDraft{
		Type: model.TypeExpense, Category: "Pets", Amount: 7000, Date: today,
	}, today)
	require.NoError(t, err)

	assert.False(t, l.CanDeleteCategory("Pets"))
	assert.ErrorIs(t, l.DeleteCustomCategory("Pets", model.TypeExpense), common.ErrCategoryInUse)
	assert.Contains(t, l.Categories(model.TypeExpense), model.Category("Pets"))

	assert.True(t, l.CanDeleteCategory("Garden"))
	require.NoError(t, l.DeleteCustomCategory("Garden", model.TypeExpense))
	assert.NotContains(t, l.Categories(model.TypeExpense), model.Category("Garden"))

	require.NoError(t, l.DeleteTransaction(tx.ID))
	require.NoError(t, l.DeleteCustomCategory("Pets", model.TypeExpense))
	assert.NotContains(t, l.Categories(model.TypeExpense), model.Category("Pets"))

	assert.ErrorIs(t, l.DeleteCustomCategory("Pets", model.TypeExpense), common.ErrNotFound)
}

func TestLedger_PlansAreCreatedLazily(t *testing.T) {
	l := newTestLedger(t)
	assert.False(t, l.HasPlan("2024-05"))

	plan := l.Plan("2024-05")
	assert.True(t, l.HasPlan("2024-05"))
	assert.False(t, plan.Locked)
	assert.Len(t, plan.Expense, len(model.PresetCategories(model.TypeExpense)))

	updated, applied := l.UpdatePlan("2024-05", func(p model.MonthBudgetPlan) (model.MonthBudgetPlan, bool) {
		return budget.SetCategoryAmount(p, model.TypeExpense, model.CategoryFood, "80,000")
	})
	require.True(t, applied)
	assert.InDelta(t, 80000, updated.Expense[model.CategoryFood], 1e-9)
	assert.InDelta(t, 80000, l.Plan("2024-05").Expense[model.CategoryFood], 1e-9)

	l.UpdatePlan("2024-05", func(p model.MonthBudgetPlan) (model.MonthBudgetPlan, bool) {
		return budget.ToggleLock(p), true
	})
	_, applied = l.UpdatePlan("2024-05", func(p model.MonthBudgetPlan) (model.MonthBudgetPlan, bool) {
		return budget.SetCategoryAmount(p, model.TypeExpense, model.CategoryFood, "1")
	})
	assert.False(t, applied)
	assert.InDelta(t, 80000, l.Plan("2024-05").Expense[model.CategoryFood], 1e-9)

	assert.Equal(t, []model.MonthKey{"2024-05"}, l.PlanMonths())
	l.ResetPlans()
	assert.Empty(t, l.PlanMonths())
}

func TestLedger_EnsureDefaultPlans(t *testing.T) {
	l := newTestLedger(t)
	require.True(t, l.EnsureDefaultPlans(2024))
	assert.Equal(t, []model.MonthKey{"2024-01", "2024-02", "2024-03"}, l.PlanMonths())
	assert.False(t, l.EnsureDefaultPlans(2025))
}

func TestLedger_MergeDocument(t *testing.T) {
	l := newTestLedger(t)
	l.SeedDemo(today)
	l.Plan("2024-01")
	l.UpdatePlan("2024-02", func(p model.MonthBudgetPlan) (model.MonthBudgetPlan, bool) {
		return budget.SetCategoryAmount(p, model.TypeIncome, model.CategorySalary, "1000")
	})
	_, err := l.AddCustomCategory("Pets", model.TypeExpense)
	require.NoError(t, err)

	imported := &model.Document{
		Transactions: []model.Transaction{
			{ID: "old", Date: model.NewDate(2024, time.January, 1), Type: model.TypeExpense, Category: model.CategoryFood, Amount: 10},
			{ID: "new", Date: model.NewDate(2024, time.March, 1), Type: model.TypeExpense, Category: model.CategoryFood, Amount: 20},
		},
		BudgetPlans: model.BudgetPlans{
			"2024-02": {Income: model.CategoryAmounts{model.CategorySalary: 5000}},
		},
		CustomCategories: []model.CustomCategory{
			{Name: "pets", Type: model.TypeExpense},
			{Name: "Side hustle", Type: model.TypeIncome},
		},
	}

	stats := l.MergeDocument(imported)
	assert.True(t, stats.ReplacedTxns)
	assert.Equal(t, 2, stats.Transactions)
	assert.Equal(t, 1, stats.Plans)
	assert.Equal(t, 1, stats.CustomCategories)

	txns := l.Transactions()
	require.Len(t, txns, 2)
	assert.Equal(t, "new", txns[0].ID)

	assert.True(t, l.HasPlan("2024-01"), "months absent from the import survive")
	assert.InDelta(t, 5000, l.Plan("2024-02").Income[model.CategorySalary], 1e-9)
	assert.Len(t, l.Plan("2024-02").Expense, len(model.PresetCategories(model.TypeExpense)))

	stats = l.MergeDocument(&model.Document{BudgetPlans: model.BudgetPlans{}})
	assert.False(t, stats.ReplacedTxns)
	assert.Len(t, l.Transactions(), 2, "missing transactions key keeps existing ones")
}

func TestLedger_ImportTransactions(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.AddTransaction(model.TransactionDraft{
		Type:     model.TypeExpense,
		Category: model.CategoryFood,
		Amount:   2500,
		Date:     model.NewDate(2024, time.May, 2),
	}, today)
	require.NoError(t, err)

	statement := []model.Transaction{
		{ID: "ofx-1", Date: model.NewDate(2024, time.May, 1), Type: model.TypeIncome, Category: model.CategorySalary, Amount: 850000, Description: "Salary"},
		{ID: "ofx-2", Date: model.NewDate(2024, time.May, 9), Type: model.TypeExpense, Category: model.CategoryMisc, Amount: 4200, Description: "POS"},
		{ID: "ofx-1", Date: model.NewDate(2024, time.May, 1), Type: model.TypeIncome, Category: model.CategorySalary, Amount: 850000, Description: "Salary"},
		{ID: "id-1", Date: model.NewDate(2024, time.May, 2), Type: model.TypeExpense, Category: model.CategoryFood, Amount: 2500},
		{ID: "ofx-3", Date: model.NewDate(2024, time.May, 3), Type: model.TypeExpense, Category: "Unknown", Amount: 100},
	}

	stats := l.ImportTransactions(statement)
	assert.Equal(t, ImportStats{Added: 2, Duplicates: 2, Invalid: 1}, stats)

	txns := l.Transactions()
	require.Len(t, txns, 3)
	assert.Equal(t, "ofx-2", txns[0].ID, "newest first")
	assert.Equal(t, "ofx-1", txns[2].ID)

	again := l.ImportTransactions(statement)
	assert.Equal(t, 0, again.Added)
	assert.Len(t, l.Transactions(), 3)
}

func TestLedger_SeedDemo(t *testing.T) {
	l := newTestLedger(t)
	txns := l.SeedDemo(today)
	require.Len(t, txns, 10)

	for _, tx := range txns {
		assert.Equal(t, model.MonthKey("2024-05"), tx.MonthKey())
		assert.NoError(t, tx.Validate(l.Categories(tx.Type)))
	}
	assert.Equal(t, 24, txns[0].Date.Day())

	view := l.View(Request{Today: today, Scope: analysis.ScopeMonthly})
	assert.InDelta(t, 970000, view.Aggregate.TotalActualIncome, 1e-9)
	assert.InDelta(t, 407000, view.Aggregate.TotalActualExpense, 1e-9)
}

func TestLedger_TaxInput(t *testing.T) {
	l := newTestLedger(t)
	assert.Equal(t, model.DefaultTaxInput(), l.TaxInput())

	in := model.DefaultTaxInput()
	in.MonthlyGross = 400000
	l.SetTaxInput(in)
	assert.InDelta(t, 400000, l.TaxInput().MonthlyGross, 1e-9)
}

func TestRecompute(t *testing.T) {
	l := newTestLedger(t)
	l.SeedDemo(today)
	l.UpdatePlan("2024-05", func(p model.MonthBudgetPlan) (model.MonthBudgetPlan, bool) {
		return budget.ApplyDefaultBudgets(p)
	})
	before := len(l.Document().BudgetPlans)

	view := Recompute(l.Document(), Request{
		Today:  today,
		Scope:  analysis.ScopeMonthly,
		Anchor: "2024-05",
		Filter: analysis.Filter{Type: model.TypeIncome},
	})
	assert.True(t, view.HasPlan)
	assert.True(t, view.Aggregate.HasPlan)
	assert.Len(t, view.Transactions, 2)
	assert.InDelta(t, 150000, view.Plan.Expense[model.CategoryHousing], 1e-9)
	assert.InDelta(t, 0, view.PlanSummary.PlannedIncome, 1e-9)

	var housing analysis.VarianceRow
	for _, r := range view.Aggregate.ExpenseRows {
		if r.Category == model.CategoryHousing {
			housing = r
		}
	}
	assert.True(t, housing.Over)

	empty := Recompute(l.Document(), Request{Today: today, Anchor: "2024-09"})
	assert.False(t, empty.HasPlan)
	assert.Equal(t, before, len(l.Document().BudgetPlans), "recompute never creates plans")
}
