package model

// Document is the complete persisted state of the application and the
// canonical export/import layout.
type Document struct {
	BudgetPlans      BudgetPlans      `json:"budgetPlans"`
	TaxInput         *TaxInput        `json:"taxInput,omitempty"`
	Transactions     []Transaction    `json:"transactions"`
	CustomCategories []CustomCategory `json:"customCategories,omitempty"`
}

// NewDocument returns an empty document with non-nil collections.
func NewDocument() *Document {
	return &Document{
		Transactions: []Transaction{},
		BudgetPlans:  BudgetPlans{},
	}
}
