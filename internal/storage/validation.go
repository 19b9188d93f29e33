// Package storage provides the SQLite persistence layer for transactions,
// budget plans, custom categories and settings.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/transit-budget/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidPlan        = errors.New("invalid budget plan")
	ErrInvalidCategory    = errors.New("invalid category")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateMonth ensures a month key is well formed.
func validateMonth(month model.MonthKey) error {
	if _, err := model.ParseMonthKey(string(month)); err != nil {
		return fmt.Errorf("%w: month %q", ErrInvalidPlan, month)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction checks the invariants the schema relies on. Category
// membership is the ledger's concern.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: type %q", ErrInvalidTransaction, txn.Type)
	}
	if !(txn.Amount > 0) || !model.IsFiniteAmount(txn.Amount) {
		return fmt.Errorf("%w: amount %v", ErrInvalidTransaction, txn.Amount)
	}
	if strings.TrimSpace(string(txn.Category)) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidTransaction)
	}
	return nil
}

// validatePlan checks a plan's amounts and extras before they are written.
func validatePlan(plan *model.MonthBudgetPlan) error {
	if plan == nil {
		return fmt.Errorf("%w: plan", ErrNilParameter)
	}
	for _, section := range []model.CategoryAmounts{plan.Income, plan.Expense} {
		for c, amount := range section {
			if amount < 0 || !model.IsFiniteAmount(amount) {
				return fmt.Errorf("%w: %s has amount %v", ErrInvalidPlan, c, amount)
			}
		}
	}
	for i, e := range plan.Extras {
		if e.ID == "" {
			return fmt.Errorf("%w: extra at index %d has no id", ErrInvalidPlan, i)
		}
		if !e.Type.Valid() {
			return fmt.Errorf("%w: extra %s has type %q", ErrInvalidPlan, e.ID, e.Type)
		}
		if !(e.Amount > 0) || !model.IsFiniteAmount(e.Amount) {
			return fmt.Errorf("%w: extra %s has amount %v", ErrInvalidPlan, e.ID, e.Amount)
		}
	}
	return nil
}

// validateCustomCategory validates a user-defined category.
func validateCustomCategory(c model.CustomCategory) error {
	if strings.TrimSpace(string(c.Name)) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: type %q", ErrInvalidCategory, c.Type)
	}
	return nil
}
