package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/model"
)

// SaveCustomCategory stores a user-defined category. Names are unique per
// type regardless of case.
func (s *SQLiteStorage) SaveCustomCategory(ctx context.Context, category model.CustomCategory) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCustomCategory(category); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveCustomCategoryTx(ctx, tx, category)
	})
}

func (s *SQLiteStorage) saveCustomCategoryTx(ctx context.Context, tx *sql.Tx, category model.CustomCategory) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO custom_categories (name, type, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM custom_categories))
	`, strings.TrimSpace(string(category.Name)), string(category.Type))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("category %q: %w", category.Name, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to save custom category: %w", err)
	}
	return nil
}

// GetCustomCategories returns custom categories in the order they were added.
func (s *SQLiteStorage) GetCustomCategories(ctx context.Context) ([]model.CustomCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, type FROM custom_categories ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	categories := []model.CustomCategory{}
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan custom category: %w", err)
		}
		categories = append(categories, model.CustomCategory{
			Name: model.Category(name),
			Type: model.TransactionType(typ),
		})
	}
	return categories, rows.Err()
}

// DeleteCustomCategory removes a custom category. It refuses while any
// transaction still references the name.
func (s *SQLiteStorage) DeleteCustomCategory(ctx context.Context, name model.Category, categoryType model.TransactionType) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCustomCategory(model.CustomCategory{Name: name, Type: categoryType}); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var inUse int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE category = ?`, string(name)).Scan(&inUse)
		if err != nil {
			return fmt.Errorf("failed to check category usage: %w", err)
		}
		if inUse > 0 {
			return fmt.Errorf("category %q: %w", name, common.ErrCategoryInUse)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM custom_categories WHERE name = ? AND type = ?`, string(name), string(categoryType))
		if err != nil {
			return fmt.Errorf("failed to delete custom category: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("custom %s category %q: %w", categoryType, name, common.ErrNotFound)
		}
		return nil
	})
}
