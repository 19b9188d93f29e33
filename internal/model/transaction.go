package model

import (
	"errors"
	"fmt"
	"strings"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

// Transaction types.
const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Transaction validation errors.
var (
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidType   = errors.New("type must be income or expense")
	ErrMissingDate   = errors.New("date is required")
	ErrMissingID     = errors.New("id is required")
	ErrUnknownCat    = errors.New("category is not valid for this type")
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ParseTransactionType accepts "income" or "expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// DefaultDescription is used when a transaction is created without one.
func (t TransactionType) DefaultDescription() string {
	if t == TypeIncome {
		return "Income"
	}
	return "Expense"
}

// Transaction is a single logged income or expense. Transactions are
// immutable once created; they can only be deleted.
type Transaction struct {
	Date        Date            `json:"date"`
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Notes       string          `json:"notes"`
	Amount      float64         `json:"amount"`
	Recurring   bool            `json:"recurring"`
}

// TransactionDraft carries user input for a new transaction.
type TransactionDraft struct {
	Date        Date
	Type        TransactionType
	Category    Category
	Description string
	Notes       string
	Amount      float64
	Recurring   bool
}

// NewTransaction builds a transaction from a draft, applying the default
// description and rejecting non-positive amounts.
func NewTransaction(id string, draft TransactionDraft) (Transaction, error) {
	if id == "" {
		return Transaction{}, ErrMissingID
	}
	if !draft.Type.Valid() {
		return Transaction{}, fmt.Errorf("%w: %q", ErrInvalidType, draft.Type)
	}
	if !(draft.Amount > 0) || !IsFiniteAmount(draft.Amount) {
		return Transaction{}, fmt.Errorf("%w: %v", ErrInvalidAmount, draft.Amount)
	}
	if draft.Date.IsZero() {
		return Transaction{}, ErrMissingDate
	}

	description := strings.TrimSpace(draft.Description)
	if description == "" {
		description = draft.Type.DefaultDescription()
	}

	return Transaction{
		ID:          id,
		Date:        draft.Date,
		Type:        draft.Type,
		Amount:      draft.Amount,
		Category:    Category(strings.TrimSpace(string(draft.Category))),
		Description: description,
		Recurring:   draft.Recurring,
		Notes:       strings.TrimSpace(draft.Notes),
	}, nil
}

// MonthKey returns the month the transaction is dated in.
func (t Transaction) MonthKey() MonthKey {
	return t.Date.MonthKey()
}

// Validate checks the transaction invariants against the set of categories
// valid for its type.
func (t Transaction) Validate(valid []Category) error {
	if t.ID == "" {
		return ErrMissingID
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if !(t.Amount > 0) || !IsFiniteAmount(t.Amount) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, t.Amount)
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	for _, c := range valid {
		if c == t.Category {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (%s)", ErrUnknownCat, t.Category, t.Type)
}
