package engine

import (
	"github.com/Veraticus/transit-budget/internal/analysis"
	"github.com/Veraticus/transit-budget/internal/budget"
	"github.com/Veraticus/transit-budget/internal/model"
)

// Request describes what the presentation layer wants to show.
type Request struct {
	Today  model.Date
	Scope  analysis.Scope
	Anchor model.MonthKey
	Filter analysis.Filter
	TopN   int
}

// View is everything a report or dashboard renders for one request.
type View struct {
	Plan         model.MonthBudgetPlan
	Transactions []model.Transaction
	Aggregate    analysis.Result
	PlanSummary  budget.Summary
	Anchor       model.MonthKey
	HasPlan      bool
}

// Recompute derives the view for req from doc. It never modifies doc and
// never creates plans.
func Recompute(doc *model.Document, req Request) View {
	if doc == nil {
		doc = model.NewDocument()
	}
	if req.Today.IsZero() {
		req.Today = model.Today()
	}
	if req.Anchor == "" {
		req.Anchor = req.Today.MonthKey()
	}

	view := View{
		Anchor: req.Anchor,
		Aggregate: analysis.Aggregate(doc.Transactions, doc.BudgetPlans, analysis.Request{
			Scope:  req.Scope,
			Anchor: req.Anchor,
			Today:  req.Today,
			TopN:   req.TopN,
		}),
		Transactions: analysis.FilterTransactions(doc.Transactions, req.Anchor, req.Filter),
	}

	if plan, ok := doc.BudgetPlans[req.Anchor]; ok {
		view.HasPlan = true
		view.Plan = plan.Normalize()
	} else {
		view.Plan = budget.EmptyPlan()
	}
	view.PlanSummary = budget.Summarize(view.Plan)

	return view
}

// View recomputes over the ledger's current document.
func (l *Ledger) View(req Request) View {
	return Recompute(l.doc, req)
}
