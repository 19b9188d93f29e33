package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/transit-budget/internal/cli"
	"github.com/Veraticus/transit-budget/internal/config"
	"github.com/Veraticus/transit-budget/internal/engine"
	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/Veraticus/transit-budget/internal/storage"
)

// today is replaced in tests to pin the calendar.
var today = model.Today

// loadSettings returns the validated settings for the current viper state.
func loadSettings() (*config.Settings, error) {
	config.SetDefaults(viper.GetViper())
	return config.Load(viper.GetViper())
}

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// session is an open database plus the ledger loaded from it.
type session struct {
	store  *storage.SQLiteStorage
	ledger *engine.Ledger
}

// openSession opens storage and loads the full ledger.
func openSession(ctx context.Context) (*session, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := store.LoadDocument(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	return &session{store: store, ledger: engine.New(doc)}, nil
}

// save persists the ledger in one transaction.
func (s *session) save(ctx context.Context) error {
	if err := s.store.ReplaceDocument(ctx, s.ledger.Document()); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// autoCheckpoint snapshots the database before a destructive command. A
// failure is logged and does not stop the command.
func (s *session) autoCheckpoint(ctx context.Context, prefix string) {
	manager, err := s.store.NewCheckpointManager()
	if err != nil {
		slog.Debug("Skipping auto-checkpoint", "reason", err)
		return
	}
	info, err := manager.AutoCheckpoint(ctx, prefix)
	if err != nil {
		slog.Warn("Failed to create auto-checkpoint", "error", err)
		return
	}
	slog.Info("Created auto-checkpoint", "id", info.ID)
}

// confirm asks before a destructive action unless --yes was given.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	return prompter.Confirm(contextOf(cmd), question)
}

// monthFlag parses the --month flag, defaulting to the current month.
func monthFlag(cmd *cobra.Command) (model.MonthKey, error) {
	raw, _ := cmd.Flags().GetString("month")
	if raw == "" {
		return today().MonthKey(), nil
	}
	month, err := model.ParseMonthKey(raw)
	if err != nil {
		return "", fmt.Errorf("invalid --month: %w", err)
	}
	return month, nil
}

// typeArg parses an income/expense argument.
func typeArg(raw string) (model.TransactionType, error) {
	t, err := model.ParseTransactionType(raw)
	if err != nil {
		return "", fmt.Errorf("invalid type: %w", err)
	}
	return t, nil
}

// contextOf returns the command's context, falling back to Background when
// the command runs outside Execute.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
