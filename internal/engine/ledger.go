// Package engine holds the application state object that every command and
// the dashboard operate on. The Ledger owns a document in memory; loading and
// saving it is the caller's concern.
package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/transit-budget/internal/budget"
	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/google/uuid"
)

// IDGenerator produces identifiers for new records.
type IDGenerator func() string

// Config holds configuration options for a Ledger.
type Config struct {
	NewID IDGenerator
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{NewID: uuid.NewString}
}

// Ledger is the explicit application state: transactions, plans, custom
// categories and the saved tax form. It is not safe for concurrent use.
type Ledger struct {
	doc   *model.Document
	newID IDGenerator
}

// New wraps doc in a Ledger. A nil doc starts empty.
func New(doc *model.Document) *Ledger {
	return NewWithConfig(doc, DefaultConfig())
}

// NewWithConfig wraps doc with a custom configuration.
func NewWithConfig(doc *model.Document, cfg Config) *Ledger {
	if doc == nil {
		doc = model.NewDocument()
	}
	if doc.Transactions == nil {
		doc.Transactions = []model.Transaction{}
	}
	if doc.BudgetPlans == nil {
		doc.BudgetPlans = model.BudgetPlans{}
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	sortNewestFirst(doc.Transactions)
	return &Ledger{doc: doc, newID: cfg.NewID}
}

// Document returns the underlying document.
func (l *Ledger) Document() *model.Document {
	return l.doc
}

// Transactions returns a copy of every transaction, newest first.
func (l *Ledger) Transactions() []model.Transaction {
	out := make([]model.Transaction, len(l.doc.Transactions))
	copy(out, l.doc.Transactions)
	return out
}

// AddTransaction validates a draft and records it. A draft without a date is
// dated today.
func (l *Ledger) AddTransaction(draft model.TransactionDraft, today model.Date) (model.Transaction, error) {
	if draft.Date.IsZero() {
		draft.Date = today
	}

	t, err := model.NewTransaction(l.newID(), draft)
	if err != nil {
		return model.Transaction{}, err
	}
	if err := t.Validate(l.Categories(t.Type)); err != nil {
		return model.Transaction{}, err
	}

	l.doc.Transactions = append(l.doc.Transactions, t)
	sortNewestFirst(l.doc.Transactions)
	return t, nil
}

// DeleteTransaction removes the transaction with the given id.
func (l *Ledger) DeleteTransaction(id string) error {
	for i, t := range l.doc.Transactions {
		if t.ID == id {
			l.doc.Transactions = append(l.doc.Transactions[:i], l.doc.Transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %q: %w", id, common.ErrNotFound)
}

// ClearTransactions removes every transaction and reports how many were dropped.
func (l *Ledger) ClearTransactions() int {
	n := len(l.doc.Transactions)
	l.doc.Transactions = []model.Transaction{}
	return n
}

// Categories lists the presets of t followed by its custom categories in the
// order they were added.
func (l *Ledger) Categories(t model.TransactionType) []model.Category {
	out := model.PresetCategories(t)
	for _, c := range l.doc.CustomCategories {
		if c.Type == t {
			out = append(out, c.Name)
		}
	}
	return out
}

// CustomCategories returns a copy of the user-defined categories.
func (l *Ledger) CustomCategories() []model.CustomCategory {
	out := make([]model.CustomCategory, len(l.doc.CustomCategories))
	copy(out, l.doc.CustomCategories)
	return out
}

// AddCustomCategory defines a new category. Names are compared
// case-insensitively against the presets and existing custom categories of
// the same type.
func (l *Ledger) AddCustomCategory(name string, t model.TransactionType) (model.CustomCategory, error) {
	if !t.Valid() {
		return model.CustomCategory{}, fmt.Errorf("%w: %q", model.ErrInvalidType, t)
	}
	cat := model.Category(strings.TrimSpace(name))
	if cat == "" {
		return model.CustomCategory{}, fmt.Errorf("category name is required")
	}
	for _, existing := range l.Categories(t) {
		if model.SameName(existing, cat) {
			return model.CustomCategory{}, fmt.Errorf("category %q: %w", cat, common.ErrDuplicateEntry)
		}
	}

	custom := model.CustomCategory{Name: cat, Type: t}
	l.doc.CustomCategories = append(l.doc.CustomCategories, custom)
	return custom, nil
}

// CanDeleteCategory reports whether no transaction references the category.
func (l *Ledger) CanDeleteCategory(name model.Category) bool {
	for _, t := range l.doc.Transactions {
		if t.Category == name {
			return false
		}
	}
	return true
}

// DeleteCustomCategory removes a custom category that no transaction uses.
func (l *Ledger) DeleteCustomCategory(name model.Category, t model.TransactionType) error {
	idx := -1
	for i, c := range l.doc.CustomCategories {
		if c.Name == name && c.Type == t {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("custom %s category %q: %w", t, name, common.ErrNotFound)
	}
	if !l.CanDeleteCategory(name) {
		return fmt.Errorf("category %q: %w", name, common.ErrCategoryInUse)
	}

	l.doc.CustomCategories = append(l.doc.CustomCategories[:idx], l.doc.CustomCategories[idx+1:]...)
	return nil
}

// HasPlan reports whether a plan exists for month without creating one.
func (l *Ledger) HasPlan(month model.MonthKey) bool {
	_, ok := l.doc.BudgetPlans[month]
	return ok
}

// Plan returns the plan for month, creating an empty one on first use.
func (l *Ledger) Plan(month model.MonthKey) model.MonthBudgetPlan {
	plan, ok := l.doc.BudgetPlans[month]
	if !ok {
		plan = budget.EmptyPlan()
		l.doc.BudgetPlans[month] = plan
	}
	return plan.Normalize()
}

// PlanMonths returns every month with a plan, oldest first.
func (l *Ledger) PlanMonths() []model.MonthKey {
	months := make([]model.MonthKey, 0, len(l.doc.BudgetPlans))
	for m := range l.doc.BudgetPlans {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months
}

// UpdatePlan applies fn to the plan for month and stores the result when fn
// reports a change. The stored plan is returned either way.
func (l *Ledger) UpdatePlan(month model.MonthKey, fn func(model.MonthBudgetPlan) (model.MonthBudgetPlan, bool)) (model.MonthBudgetPlan, bool) {
	plan := l.Plan(month)
	updated, applied := fn(plan)
	if !applied {
		return plan, false
	}
	l.doc.BudgetPlans[month] = updated
	return updated, true
}

// ResetPlans drops every budget plan.
func (l *Ledger) ResetPlans() {
	l.doc.BudgetPlans = model.BudgetPlans{}
}

// EnsureDefaultPlans creates empty plans for January through March of year
// when no plan exists at all.
func (l *Ledger) EnsureDefaultPlans(year int) bool {
	if len(l.doc.BudgetPlans) > 0 {
		return false
	}
	for m := time.January; m <= time.March; m++ {
		l.doc.BudgetPlans[model.NewMonthKey(year, m)] = budget.EmptyPlan()
	}
	return true
}

// TaxInput returns the saved calculator form, or the defaults.
func (l *Ledger) TaxInput() model.TaxInput {
	if l.doc.TaxInput == nil {
		return model.DefaultTaxInput()
	}
	return *l.doc.TaxInput
}

// SetTaxInput replaces the saved calculator form.
func (l *Ledger) SetTaxInput(in model.TaxInput) {
	l.doc.TaxInput = &in
}

// MergeStats reports what MergeDocument changed.
type MergeStats struct {
	Transactions     int
	Plans            int
	CustomCategories int
	ReplacedTxns     bool
}

// MergeDocument imports doc. A non-nil transaction list replaces the current
// one; plans are merged by month with imported months winning; custom
// categories are added unless an equivalent one exists.
func (l *Ledger) MergeDocument(doc *model.Document) MergeStats {
	var stats MergeStats
	if doc == nil {
		return stats
	}

	if doc.Transactions != nil {
		l.doc.Transactions = make([]model.Transaction, len(doc.Transactions))
		copy(l.doc.Transactions, doc.Transactions)
		sortNewestFirst(l.doc.Transactions)
		stats.Transactions = len(doc.Transactions)
		stats.ReplacedTxns = true
	}

	for month, plan := range doc.BudgetPlans {
		l.doc.BudgetPlans[month] = plan.Normalize()
		stats.Plans++
	}

	for _, c := range doc.CustomCategories {
		if _, err := l.AddCustomCategory(string(c.Name), c.Type); err == nil {
			stats.CustomCategories++
		}
	}

	if doc.TaxInput != nil {
		l.SetTaxInput(*doc.TaxInput)
	}

	return stats
}

// ImportStats reports what ImportTransactions did.
type ImportStats struct {
	Added      int
	Duplicates int
	Invalid    int
}

// ImportTransactions appends statement lines whose id is not already
// recorded. Lines that fail validation are counted and skipped.
func (l *Ledger) ImportTransactions(txns []model.Transaction) ImportStats {
	var stats ImportStats

	seen := make(map[string]bool, len(l.doc.Transactions)+len(txns))
	for _, t := range l.doc.Transactions {
		seen[t.ID] = true
	}

	for _, t := range txns {
		if seen[t.ID] {
			stats.Duplicates++
			continue
		}
		if err := t.Validate(l.Categories(t.Type)); err != nil {
			stats.Invalid++
			continue
		}
		seen[t.ID] = true
		l.doc.Transactions = append(l.doc.Transactions, t)
		stats.Added++
	}

	if stats.Added > 0 {
		sortNewestFirst(l.doc.Transactions)
	}
	return stats
}

func sortNewestFirst(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})
}
