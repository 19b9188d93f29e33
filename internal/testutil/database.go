// Package testutil provides test helpers shared across packages: an
// in-memory database with cleanup and builders for ledger fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/Veraticus/transit-budget/internal/storage"
)

// TestDB is a migrated in-memory database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database and optionally loads doc
// into it. The database is closed when the test finishes.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.NewDocument(t).
//		WithExpense("2024-05-03", model.CategoryFood, 2500).
//		Build())
func SetupTestDB(t *testing.T, doc *model.Document) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	if doc != nil {
		if err := store.ReplaceDocument(ctx, doc); err != nil {
			_ = store.Close()
			t.Fatalf("failed to seed document: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// MustLoad returns the stored document or fails the test.
func (db *TestDB) MustLoad() *model.Document {
	db.t.Helper()
	doc, err := db.Storage.LoadDocument(context.Background())
	if err != nil {
		db.t.Fatalf("failed to load document: %v", err)
	}
	return doc
}
