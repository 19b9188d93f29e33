package testutil

import (
	"fmt"
	"testing"

	"github.com/Veraticus/transit-budget/internal/budget"
	"github.com/Veraticus/transit-budget/internal/model"
)

// DocumentBuilder assembles documents for tests with predictable ids.
type DocumentBuilder struct {
	t   *testing.T
	doc *model.Document
	seq int
}

// NewDocument starts an empty document.
func NewDocument(t *testing.T) *DocumentBuilder {
	t.Helper()
	return &DocumentBuilder{t: t, doc: model.NewDocument()}
}

// WithIncome adds an income transaction dated on the ISO date.
func (b *DocumentBuilder) WithIncome(date string, category model.Category, amount float64) *DocumentBuilder {
	return b.with(date, model.TypeIncome, category, amount)
}

// WithExpense adds an expense transaction dated on the ISO date.
func (b *DocumentBuilder) WithExpense(date string, category model.Category, amount float64) *DocumentBuilder {
	return b.with(date, model.TypeExpense, category, amount)
}

func (b *DocumentBuilder) with(date string, typ model.TransactionType, category model.Category, amount float64) *DocumentBuilder {
	b.t.Helper()
	d, err := model.ParseDate(date)
	if err != nil {
		b.t.Fatalf("bad fixture date %q: %v", date, err)
	}
	b.seq++
	b.doc.Transactions = append(b.doc.Transactions, model.Transaction{
		ID:          fmt.Sprintf("txn-%03d", b.seq),
		Date:        d,
		Type:        typ,
		Category:    category,
		Amount:      amount,
		Description: typ.DefaultDescription(),
	})
	return b
}

// WithPlan stores a plan for month. Expense amounts are set per category;
// the plan starts from every preset at zero.
func (b *DocumentBuilder) WithPlan(month model.MonthKey, expense map[model.Category]float64, locked bool) *DocumentBuilder {
	plan := budget.EmptyPlan()
	for c, v := range expense {
		plan.Expense[c] = v
	}
	plan.Locked = locked
	b.doc.BudgetPlans[month] = plan
	return b
}

// WithCustomCategory registers a user-defined category.
func (b *DocumentBuilder) WithCustomCategory(name model.Category, typ model.TransactionType) *DocumentBuilder {
	b.doc.CustomCategories = append(b.doc.CustomCategories, model.CustomCategory{Name: name, Type: typ})
	return b
}

// Build returns the document.
func (b *DocumentBuilder) Build() *model.Document {
	return b.doc
}
