package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/model"
)

const taxInputKey = "tax_input"

// SaveTaxInput stores the tax calculator form.
func (s *SQLiteStorage) SaveTaxInput(ctx context.Context, input model.TaxInput) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return saveSettingTx(ctx, tx, taxInputKey, input)
	})
}

// GetTaxInput returns the stored tax calculator form.
func (s *SQLiteStorage) GetTaxInput(ctx context.Context) (*model.TaxInput, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, taxInputKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tax input: %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tax input: %w", err)
	}

	var input model.TaxInput
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return nil, fmt.Errorf("%w: tax input: %w", common.ErrDatabaseCorrupted, err)
	}
	return &input, nil
}

func saveSettingTx(ctx context.Context, tx *sql.Tx, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", key, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, string(data))
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}
