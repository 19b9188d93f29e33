package sheets

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/transit-budget/internal/analysis"
	"github.com/Veraticus/transit-budget/internal/model"
)

// Tab names in the generated workbook.
const (
	TransactionsSheet = "Transactions"
	BudgetSheet       = "Budget"
	SummarySheet      = "Summary"
)

// TransactionRow represents a single row in the Transactions tab.
type TransactionRow struct {
	Date        string
	Type        string
	Category    string
	Description string
	Notes       string
	Amount      decimal.Decimal
	Recurring   bool
}

// BudgetRow represents a single row in the Budget tab.
type BudgetRow struct {
	Section  string
	Category string
	Status   string
	Planned  decimal.Decimal
	Actual   decimal.Decimal
	Variance decimal.Decimal
	Progress decimal.Decimal
}

// SummaryRow represents a single label/value pair in the Summary tab.
type SummaryRow struct {
	Label string
	Value decimal.Decimal
}

// Report is the data written to one workbook.
type Report struct {
	Title        string
	Label        string
	Transactions []TransactionRow
	Budget       []BudgetRow
	Summary      []SummaryRow
}

// BuildReport collects the rows for the period described by res. Only
// transactions in res.Months are listed, newest first as stored.
func BuildReport(transactions []model.Transaction, res analysis.Result) Report {
	inScope := make(map[model.MonthKey]bool, len(res.Months))
	for _, m := range res.Months {
		inScope[m] = true
	}

	report := Report{
		Title: "Budget Report",
		Label: res.Label,
	}

	for _, t := range transactions {
		if !inScope[t.MonthKey()] {
			continue
		}
		report.Transactions = append(report.Transactions, TransactionRow{
			Date:        t.Date.String(),
			Type:        string(t.Type),
			Category:    string(t.Category),
			Description: t.Description,
			Notes:       t.Notes,
			Amount:      money(t.Amount),
			Recurring:   t.Recurring,
		})
	}

	for _, rows := range [][]analysis.VarianceRow{res.IncomeRows, res.ExpenseRows} {
		for _, r := range rows {
			report.Budget = append(report.Budget, BudgetRow{
				Section:  string(r.Type),
				Category: string(r.Category),
				Status:   status(r),
				Planned:  money(r.Planned),
				Actual:   money(r.Actual),
				Variance: money(r.Variance),
				Progress: decimal.NewFromFloat(r.Progress).Round(1),
			})
		}
	}

	report.Summary = []SummaryRow{
		{Label: "Actual income", Value: money(res.TotalActualIncome)},
		{Label: "Actual expenses", Value: money(res.TotalActualExpense)},
		{Label: "Net", Value: money(res.NetActual)},
		{Label: "Planned income", Value: money(res.TotalPlannedIncome)},
		{Label: "Planned expenses", Value: money(res.TotalPlannedExpense)},
		{Label: "Planned net", Value: money(res.PlannedNet)},
		{Label: "Transactions", Value: decimal.NewFromInt(int64(res.TransactionCount))},
	}

	return report
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func status(r analysis.VarianceRow) string {
	switch {
	case r.Over:
		return "Over"
	case r.Under:
		return "Under"
	default:
		return "On track"
	}
}
