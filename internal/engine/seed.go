package engine

import (
	"github.com/Veraticus/transit-budget/internal/model"
)

type demoEntry struct {
	description string
	category    model.Category
	typ         model.TransactionType
	amount      float64
	day         int
	recurring   bool
}

var demoEntries = []demoEntry{
	{day: 1, typ: model.TypeIncome, amount: 850000, category: model.CategorySalary, description: "Monthly salary", recurring: true},
	{day: 3, typ: model.TypeExpense, amount: 180000, category: model.CategoryHousing, description: "Rent contribution", recurring: true},
	{day: 5, typ: model.TypeExpense, amount: 55000, category: model.CategoryFood, description: "Groceries"},
	{day: 7, typ: model.TypeExpense, amount: 25000, category: model.CategoryTransport, description: "Fuel and ride-hailing"},
	{day: 10, typ: model.TypeIncome, amount: 120000, category: model.CategoryFreelance, description: "Design project"},
	{day: 12, typ: model.TypeExpense, amount: 18000, category: model.CategorySubscriptions, description: "Software tools", recurring: true},
	{day: 15, typ: model.TypeExpense, amount: 32000, category: model.CategoryUtilities, description: "Power and internet", recurring: true},
	{day: 18, typ: model.TypeExpense, amount: 45000, category: model.CategorySavings, description: "Mutual fund", recurring: true},
	{day: 21, typ: model.TypeExpense, amount: 22000, category: model.CategoryEntertainment, description: "Outing"},
	{day: 24, typ: model.TypeExpense, amount: 30000, category: model.CategoryFamily, description: "Support"},
}

// SeedDemo replaces all transactions with a month of sample activity dated in
// today's month.
func (l *Ledger) SeedDemo(today model.Date) []model.Transaction {
	txns := make([]model.Transaction, 0, len(demoEntries))
	for _, e := range demoEntries {
		txns = append(txns, model.Transaction{
			ID:          l.newID(),
			Date:        model.NewDate(today.Year(), today.Month(), e.day),
			Type:        e.typ,
			Amount:      e.amount,
			Category:    e.category,
			Description: e.description,
			Recurring:   e.recurring,
		})
	}

	sortNewestFirst(txns)
	l.doc.Transactions = txns
	return l.Transactions()
}
