package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/transit-budget/internal/analysis"
	"github.com/Veraticus/transit-budget/internal/budget"
	"github.com/Veraticus/transit-budget/internal/engine"
	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/Veraticus/transit-budget/internal/tax"
)

const barWidth = 20

// RenderReport renders the scoped summary, category breakdown and variance
// tables for a view.
func RenderReport(view engine.View) string {
	agg := view.Aggregate

	var b strings.Builder
	b.WriteString(FormatTitle(agg.Label))
	b.WriteString("\n")

	totals := strings.Join([]string{
		row("Income", FormatNaira(agg.TotalActualIncome), "planned "+FormatNaira(agg.TotalPlannedIncome)),
		row("Expenses", FormatNaira(agg.TotalActualExpense), "planned "+FormatNaira(agg.TotalPlannedExpense)),
		row("Net", signed(agg.NetActual), "planned "+FormatNaira(agg.PlannedNet)),
		row("Transactions", fmt.Sprintf("%d", agg.TransactionCount), ""),
	}, "\n")
	b.WriteString(RenderBox("Summary", totals))
	b.WriteString("\n\n")

	if len(agg.Pie) > 0 {
		b.WriteString(BoldStyle.Render("Spending by category"))
		b.WriteString("\n")
		for _, s := range agg.Pie {
			share := 0.0
			if agg.TotalActualExpense > 0 {
				share = s.Amount / agg.TotalActualExpense * 100
			}
			fmt.Fprintf(&b, "  %-22s %14s  %6s\n", label(s.Category), FormatNaira(s.Amount), FormatPercent(share))
		}
		b.WriteString("\n")
	}

	if !agg.HasPlan {
		b.WriteString(SubtleStyle.Render("No budget plan for this period."))
		b.WriteString("\n")
	}

	b.WriteString(renderVariance("Expenses", agg.ExpenseRows))
	b.WriteString(renderVariance("Income", agg.IncomeRows))

	return b.String()
}

func renderVariance(title string, rows []analysis.VarianceRow) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-22s %14s %14s %14s  %s", title, "Planned", "Actual", "Variance", "Progress")))
	b.WriteString("\n")
	for _, r := range rows {
		variance := FormatNaira(r.Variance)
		bar := renderBar(r.BarPercent) + " " + FormatPercent(r.Progress)
		tone := Tone(r.Favorable())
		variance = tone.Render(fmt.Sprintf("%14s", variance))
		if !r.Favorable() {
			bar = tone.Render(bar)
		}
		fmt.Fprintf(&b, "%-22s %14s %14s %s  %s\n",
			label(r.Category), FormatNaira(r.Planned), FormatNaira(r.Actual), variance, bar)
	}
	b.WriteString("\n")
	return b.String()
}

// RenderTransactions lists transactions one per line.
func RenderTransactions(txns []model.Transaction) string {
	if len(txns) == 0 {
		return SubtleStyle.Render("No transactions.") + "\n"
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-10s  %-8s %-22s %14s  %s", "Date", "Type", "Category", "Amount", "Description")))
	b.WriteString("\n")
	for _, t := range txns {
		amount := FormatNairaExact(t.Amount)
		if t.Type == model.TypeIncome {
			amount = IncomeStyle.Render(fmt.Sprintf("%14s", "+"+amount))
		} else {
			amount = fmt.Sprintf("%14s", "-"+amount)
		}
		desc := t.Description
		if t.Recurring {
			desc += SubtleStyle.Render(" (recurring)")
		}
		fmt.Fprintf(&b, "%-10s  %-8s %-22s %s  %s\n", t.Date.String(), t.Type, label(t.Category), amount, desc)
		fmt.Fprintf(&b, "%s\n", SubtleStyle.Render("  id "+t.ID))
	}
	return b.String()
}

// RenderPlan shows one month's planned amounts, extras and totals.
func RenderPlan(month model.MonthKey, plan model.MonthBudgetPlan) string {
	var b strings.Builder

	status := UnlockIcon + " editable"
	if plan.Locked {
		status = LockIcon + " locked"
	}
	b.WriteString(FormatTitle(month.Label() + "  " + status))
	b.WriteString("\n")

	for _, section := range []model.TransactionType{model.TypeIncome, model.TypeExpense} {
		amounts := plan.Section(section)
		b.WriteString(BoldStyle.Render(sectionTitle(section)))
		b.WriteString("\n")
		for _, c := range amounts.Keys(section) {
			v, ok := amounts[c]
			if !ok {
				continue
			}
			line := fmt.Sprintf("  %-22s %14s", label(c), FormatNaira(v))
			if v == 0 {
				line = SubtleStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(plan.Extras) > 0 {
		b.WriteString(BoldStyle.Render("Extras"))
		b.WriteString("\n")
		for _, e := range plan.Extras {
			sign := "-"
			if e.Type == model.TypeIncome {
				sign = "+"
			}
			fmt.Fprintf(&b, "  %-22s %14s  %s %s\n",
				e.Description, sign+FormatNaira(e.Amount), e.Category, SubtleStyle.Render("["+e.ID+"]"))
		}
		b.WriteString("\n")
	}

	s := budget.Summarize(plan)
	summary := strings.Join([]string{
		row("Planned income", FormatNaira(s.PlannedIncome+s.ExtrasIncome), ""),
		row("Planned expenses", FormatNaira(s.PlannedExpense+s.ExtrasExpense), ""),
		row("Surplus", signed(s.Surplus()), ""),
	}, "\n")
	b.WriteString(RenderBox("Plan totals", summary))
	b.WriteString("\n")

	return b.String()
}

// RenderTax shows the selected regime's breakdown and a comparison with
// every other regime.
func RenderTax(selected tax.Regime, results map[tax.Regime]tax.Result) string {
	res, ok := results[selected]
	if !ok {
		return FormatError("no result for regime "+string(selected)) + "\n"
	}

	var b strings.Builder
	b.WriteString(FormatTitle("PAYE estimate (" + string(res.Regime) + " rules)"))
	b.WriteString("\n")

	lines := []string{
		row("Annual gross", FormatNaira(res.Gross), ""),
		row("Pension", FormatNaira(res.Pension), ""),
		row("NHF", FormatNaira(res.NHF), ""),
	}
	if res.Regime == tax.RegimeLegacy {
		lines = append(lines, row("Consolidated relief", FormatNaira(res.CRA), ""))
	} else {
		lines = append(lines, row("Rent relief", FormatNaira(res.RentRelief), "on "+FormatNaira(res.RentPaid)+" rent"))
	}
	lines = append(lines,
		row("Total deductions", FormatNaira(res.Deductions()), ""),
		row("Taxable income", FormatNaira(res.TaxableIncome), ""),
		row("Annual tax", FormatNaira(res.Tax), "effective "+FormatRate(res.EffectiveRate)),
		row("Monthly tax", FormatNaira(res.MonthlyTax), ""),
		row("Net monthly", FormatNaira(res.NetMonthly), ""),
	)
	b.WriteString(RenderBox("Breakdown", strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-16s %8s %14s %14s", "Band", "Rate", "Taxed", "Tax")))
	b.WriteString("\n")
	for _, charge := range res.Bands {
		width := "remainder"
		if !math.IsInf(charge.Limit, 1) {
			width = "next " + FormatNaira(charge.Limit)
		}
		fmt.Fprintf(&b, "%-16s %8s %14s %14s\n", width, FormatRate(charge.Rate), FormatNaira(charge.Taxed), FormatNaira(charge.Tax))
	}
	b.WriteString("\n")

	for _, r := range tax.Regimes() {
		other, ok := results[r]
		if !ok || r == res.Regime {
			continue
		}
		diff := other.Tax - res.Tax
		verdict := "same tax"
		switch {
		case diff > 0:
			verdict = FormatNaira(diff) + " more per year"
		case diff < 0:
			verdict = FormatNaira(-diff) + " less per year"
		}
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("Under %s rules: %s (%s)", r, FormatNaira(other.Tax), verdict)))
		b.WriteString("\n")
	}

	return b.String()
}

func row(name, value, note string) string {
	line := fmt.Sprintf("%-20s %16s", name, value)
	if note != "" {
		line += "  " + SubtleStyle.Render(note)
	}
	return line
}

func signed(v float64) string {
	return Tone(v >= 0).Render(FormatNaira(v))
}

func label(c model.Category) string {
	if icon := c.Icon(); icon != "" {
		return icon + " " + string(c)
	}
	return string(c)
}

func sectionTitle(t model.TransactionType) string {
	if t == model.TypeIncome {
		return "Income"
	}
	return "Expenses"
}

func renderBar(percent float64) string {
	filled := int(math.Round(percent / 100 * barWidth))
	filled = max(0, min(filled, barWidth))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}
