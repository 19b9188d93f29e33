package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/model"
)

// SavePlan writes a month's plan, replacing whatever was stored for it.
func (s *SQLiteStorage) SavePlan(ctx context.Context, month model.MonthKey, plan model.MonthBudgetPlan) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMonth(month); err != nil {
		return err
	}
	if err := validatePlan(&plan); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.savePlanTx(ctx, tx, month, plan)
	})
}

func (s *SQLiteStorage) savePlanTx(ctx context.Context, tx *sql.Tx, month model.MonthKey, plan model.MonthBudgetPlan) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO budget_plans (month, locked, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(month) DO UPDATE SET locked = excluded.locked, updated_at = CURRENT_TIMESTAMP
	`, string(month), boolToInt(plan.Locked))
	if err != nil {
		return fmt.Errorf("failed to save plan %s: %w", month, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM plan_amounts WHERE month = ?`, string(month)); err != nil {
		return fmt.Errorf("failed to clear plan amounts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM plan_extras WHERE month = ?`, string(month)); err != nil {
		return fmt.Errorf("failed to clear plan extras: %w", err)
	}

	amountStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO plan_amounts (month, section, category, amount) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = amountStmt.Close() }()

	for _, section := range []model.TransactionType{model.TypeIncome, model.TypeExpense} {
		for category, amount := range plan.Section(section) {
			if _, err := amountStmt.ExecContext(ctx, string(month), string(section), string(category), amount); err != nil {
				return fmt.Errorf("failed to save %s amount for %s: %w", section, category, err)
			}
		}
	}

	extraStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO plan_extras (id, month, position, type, category, description, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = extraStmt.Close() }()

	for i, e := range plan.Extras {
		_, err := extraStmt.ExecContext(ctx, e.ID, string(month), i, string(e.Type), string(e.Category), e.Description, e.Amount)
		if err != nil {
			return fmt.Errorf("failed to save extra %s: %w", e.ID, err)
		}
	}
	return nil
}

// GetPlan returns the stored plan for month.
func (s *SQLiteStorage) GetPlan(ctx context.Context, month model.MonthKey) (*model.MonthBudgetPlan, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	var locked int
	err := s.db.QueryRowContext(ctx, `SELECT locked FROM budget_plans WHERE month = ?`, string(month)).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", month, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	plans := model.BudgetPlans{month: {
		Locked:  locked != 0,
		Income:  model.CategoryAmounts{},
		Expense: model.CategoryAmounts{},
		Extras:  []model.ExtraEntry{},
	}}
	if err := s.loadPlanDetails(ctx, plans, "WHERE month = ?", string(month)); err != nil {
		return nil, err
	}

	plan := plans[month]
	return &plan, nil
}

// GetPlans returns every stored plan keyed by month.
func (s *SQLiteStorage) GetPlans(ctx context.Context) (model.BudgetPlans, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT month, locked FROM budget_plans ORDER BY month`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	plans := model.BudgetPlans{}
	for rows.Next() {
		var (
			month  string
			locked int
		)
		if err := rows.Scan(&month, &locked); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans[model.MonthKey(month)] = model.MonthBudgetPlan{
			Locked:  locked != 0,
			Income:  model.CategoryAmounts{},
			Expense: model.CategoryAmounts{},
			Extras:  []model.ExtraEntry{},
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	_ = rows.Close()

	if err := s.loadPlanDetails(ctx, plans, ""); err != nil {
		return nil, err
	}
	return plans, nil
}

// loadPlanDetails fills amounts and extras into plans that already exist in
// the map. where restricts both queries.
func (s *SQLiteStorage) loadPlanDetails(ctx context.Context, plans model.BudgetPlans, where string, args ...any) error {
	amountRows, err := s.db.QueryContext(ctx, `SELECT month, section, category, amount FROM plan_amounts `+where, args...)
	if err != nil {
		return fmt.Errorf("failed to query plan amounts: %w", err)
	}
	for amountRows.Next() {
		var (
			month, section, category string
			amount                   float64
		)
		if err := amountRows.Scan(&month, &section, &category, &amount); err != nil {
			_ = amountRows.Close()
			return fmt.Errorf("failed to scan plan amount: %w", err)
		}
		plan, ok := plans[model.MonthKey(month)]
		if !ok {
			continue
		}
		plan.Section(model.TransactionType(section))[model.Category(category)] = amount
	}
	if err := amountRows.Err(); err != nil {
		_ = amountRows.Close()
		return err
	}
	_ = amountRows.Close()

	extraRows, err := s.db.QueryContext(ctx, `
		SELECT month, id, type, category, description, amount FROM plan_extras `+where+` ORDER BY month, position`, args...)
	if err != nil {
		return fmt.Errorf("failed to query plan extras: %w", err)
	}
	defer func() { _ = extraRows.Close() }()

	for extraRows.Next() {
		var (
			month, typ, category string
			e                    model.ExtraEntry
		)
		if err := extraRows.Scan(&month, &e.ID, &typ, &category, &e.Description, &e.Amount); err != nil {
			return fmt.Errorf("failed to scan plan extra: %w", err)
		}
		key := model.MonthKey(month)
		plan, ok := plans[key]
		if !ok {
			continue
		}
		e.Type = model.TransactionType(typ)
		e.Category = model.Category(category)
		plan.Extras = append(plan.Extras, e)
		plans[key] = plan
	}
	return extraRows.Err()
}

// DeleteAllPlans removes every budget plan.
func (s *SQLiteStorage) DeleteAllPlans(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.withTx(ctx, deleteAllPlansTx(ctx))
}

func deleteAllPlansTx(ctx context.Context) func(*sql.Tx) error {
	return func(tx *sql.Tx) error {
		for _, table := range []string{"plan_extras", "plan_amounts", "budget_plans"} {
			// #nosec G202 - table names are constants
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	}
}
