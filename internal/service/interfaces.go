// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/transit-budget/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
// Zero values match everything.
type TransactionFilter struct {
	Month    model.MonthKey
	Type     model.TransactionType
	Category model.Category
	Limit    int
	Offset   int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	ClearTransactions(ctx context.Context) (int, error)
	GetTransactionCount(ctx context.Context) (int, error)
	GetTransactionCountByCategory(ctx context.Context, category model.Category) (int, error)

	// Budget plan operations
	SavePlan(ctx context.Context, month model.MonthKey, plan model.MonthBudgetPlan) error
	GetPlan(ctx context.Context, month model.MonthKey) (*model.MonthBudgetPlan, error)
	GetPlans(ctx context.Context) (model.BudgetPlans, error)
	DeleteAllPlans(ctx context.Context) error

	// Custom category operations
	SaveCustomCategory(ctx context.Context, category model.CustomCategory) error
	GetCustomCategories(ctx context.Context) ([]model.CustomCategory, error)
	DeleteCustomCategory(ctx context.Context, name model.Category, categoryType model.TransactionType) error

	// Settings
	SaveTaxInput(ctx context.Context, input model.TaxInput) error
	GetTaxInput(ctx context.Context) (*model.TaxInput, error)

	// Whole-document operations
	LoadDocument(ctx context.Context) (*model.Document, error)
	ReplaceDocument(ctx context.Context, doc *model.Document) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
