package sheets

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/transit-budget/internal/analysis"
	"github.com/Veraticus/transit-budget/internal/model"
)

var raw = excelize.Options{RawCellValue: true}

func sampleResult(t *testing.T) ([]model.Transaction, analysis.Result) {
	t.Helper()

	txns := []model.Transaction{
		{ID: "1", Date: model.NewDate(2024, time.May, 20), Type: model.TypeExpense, Category: model.CategoryFood, Description: "Market run", Amount: 12500.5},
		{ID: "2", Date: model.NewDate(2024, time.May, 1), Type: model.TypeIncome, Category: model.CategorySalary, Description: "Salary", Amount: 850000, Recurring: true},
		{ID: "3", Date: model.NewDate(2024, time.April, 30), Type: model.TypeExpense, Category: model.CategoryFood, Description: "April", Amount: 9999},
	}

	plan := model.MonthBudgetPlan{
		Income:  model.NewCategoryAmounts(model.TypeIncome),
		Expense: model.NewCategoryAmounts(model.TypeExpense),
		Extras:  []model.ExtraEntry{},
	}
	plan.Income[model.CategorySalary] = 800000
	plan.Expense[model.CategoryFood] = 10000

	res := analysis.Aggregate(txns, model.BudgetPlans{"2024-05": plan}, analysis.Request{
		Today:  model.NewDate(2024, time.May, 31),
		Scope:  analysis.ScopeMonthly,
		Anchor: "2024-05",
	})
	return txns, res
}

func TestBuildReport(t *testing.T) {
	txns, res := sampleResult(t)
	report := BuildReport(txns, res)

	assert.Equal(t, "May 2024", report.Label)
	require.Len(t, report.Transactions, 2, "April falls outside the period")
	assert.Equal(t, "2024-05-20", report.Transactions[0].Date)
	assert.True(t, report.Transactions[0].Amount.Equal(decimal.RequireFromString("12500.5")))

	require.Len(t, report.Budget, 2)
	assert.Equal(t, "income", report.Budget[0].Section)
	assert.Equal(t, "On track", report.Budget[0].Status)
	assert.Equal(t, "Food", report.Budget[1].Category)
	assert.Equal(t, "Over", report.Budget[1].Status)
	assert.True(t, report.Budget[1].Variance.Equal(decimal.RequireFromString("-2500.5")))

	require.Len(t, report.Summary, 7)
	assert.Equal(t, "Net", report.Summary[2].Label)
	assert.True(t, report.Summary[2].Value.Equal(decimal.RequireFromString("837499.5")))
}

func TestWriter_WriteTo(t *testing.T) {
	txns, res := sampleResult(t)

	w := NewWriter(DefaultConfig(), nil)
	defer func() { _ = w.Close() }()
	require.NoError(t, w.Write(BuildReport(txns, res)))

	var buf bytes.Buffer
	_, err := w.WriteTo(&buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SummarySheet, BudgetSheet, TransactionsSheet}, f.GetSheetList())

	tests := []struct {
		sheet string
		cell  string
		want  string
	}{
		{SummarySheet, "A1", "Budget Report"},
		{SummarySheet, "B2", "May 2024"},
		{SummarySheet, "A4", "Actual income"},
		{SummarySheet, "B4", "850000"},
		{SummarySheet, "B5", "12500.5"},
		{BudgetSheet, "A1", "Section"},
		{BudgetSheet, "B3", "Food"},
		{BudgetSheet, "C3", "10000"},
		{BudgetSheet, "G3", "Over"},
		{TransactionsSheet, "D1", "Description"},
		{TransactionsSheet, "C2", "Food"},
		{TransactionsSheet, "E3", "850000"},
		{TransactionsSheet, "A4", ""},
	}
	for _, tt := range tests {
		t.Run(tt.sheet+"!"+tt.cell, func(t *testing.T) {
			got, err := f.GetCellValue(tt.sheet, tt.cell, raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriter_SaveAs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	w := NewWriter(Config{}, nil)
	require.NoError(t, w.Write(Report{Title: "Empty", Label: "Q1 2024"}))
	require.NoError(t, w.SaveAs(path))
	require.NoError(t, w.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(TransactionsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
