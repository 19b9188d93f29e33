package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/Veraticus/transit-budget/internal/service"
)

// LoadDocument reads the complete application state.
func (s *SQLiteStorage) LoadDocument(ctx context.Context) (*model.Document, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	doc := model.NewDocument()

	txns, err := s.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	doc.Transactions = txns

	plans, err := s.GetPlans(ctx)
	if err != nil {
		return nil, err
	}
	doc.BudgetPlans = plans

	custom, err := s.GetCustomCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(custom) > 0 {
		doc.CustomCategories = custom
	}

	taxInput, err := s.GetTaxInput(ctx)
	switch {
	case errors.Is(err, common.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		doc.TaxInput = taxInput
	}

	return doc, nil
}

// ReplaceDocument overwrites all stored state with doc in one transaction.
// The last write wins.
func (s *SQLiteStorage) ReplaceDocument(ctx context.Context, doc *model.Document) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%w: document", ErrNilParameter)
	}
	for i := range doc.Transactions {
		if err := validateTransaction(&doc.Transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	for month, plan := range doc.BudgetPlans {
		if err := validateMonth(month); err != nil {
			return err
		}
		if err := validatePlan(&plan); err != nil {
			return fmt.Errorf("plan %s: %w", month, err)
		}
	}
	for _, c := range doc.CustomCategories {
		if err := validateCustomCategory(c); err != nil {
			return err
		}
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return fmt.Errorf("failed to clear transactions: %w", err)
		}
		if len(doc.Transactions) > 0 {
			if err := s.insertTransactionsTx(ctx, tx, doc.Transactions, 0); err != nil {
				return err
			}
		}

		if err := deleteAllPlansTx(ctx)(tx); err != nil {
			return err
		}
		for month, plan := range doc.BudgetPlans {
			if err := s.savePlanTx(ctx, tx, month, plan); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM custom_categories`); err != nil {
			return fmt.Errorf("failed to clear custom categories: %w", err)
		}
		for _, c := range doc.CustomCategories {
			if err := s.saveCustomCategoryTx(ctx, tx, c); err != nil {
				return err
			}
		}

		if doc.TaxInput != nil {
			return saveSettingTx(ctx, tx, taxInputKey, doc.TaxInput)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, taxInputKey); err != nil {
			return fmt.Errorf("failed to clear tax input: %w", err)
		}
		return nil
	})
}
