package model

// MonthBudgetPlan holds the planned amounts for one month. Once locked the
// category amounts are frozen and deviations are recorded as extras.
type MonthBudgetPlan struct {
	Income  CategoryAmounts `json:"income"`
	Expense CategoryAmounts `json:"expense"`
	Extras  []ExtraEntry    `json:"extras"`
	Locked  bool            `json:"locked"`
}

// ExtraEntry is an unplanned amount recorded against a locked plan.
type ExtraEntry struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
}

// Section returns the category map for the given type.
func (p MonthBudgetPlan) Section(t TransactionType) CategoryAmounts {
	if t == TypeIncome {
		return p.Income
	}
	return p.Expense
}

// Clone returns a deep copy of the plan.
func (p MonthBudgetPlan) Clone() MonthBudgetPlan {
	out := MonthBudgetPlan{
		Locked:  p.Locked,
		Income:  p.Income.Clone(),
		Expense: p.Expense.Clone(),
	}
	if p.Extras != nil {
		out.Extras = make([]ExtraEntry, len(p.Extras))
		copy(out.Extras, p.Extras)
	}
	return out
}

// Normalize fills in missing presets and nil collections so plans loaded
// from partial documents satisfy the model invariants.
func (p MonthBudgetPlan) Normalize() MonthBudgetPlan {
	out := p.Clone()
	out.Income = withPresets(out.Income, TypeIncome)
	out.Expense = withPresets(out.Expense, TypeExpense)
	if out.Extras == nil {
		out.Extras = []ExtraEntry{}
	}
	return out
}

func withPresets(m CategoryAmounts, t TransactionType) CategoryAmounts {
	if m == nil {
		return NewCategoryAmounts(t)
	}
	for _, c := range PresetCategories(t) {
		if _, ok := m[c]; !ok {
			m[c] = 0
		}
	}
	return m
}

// BudgetPlans maps month keys to their plans.
type BudgetPlans map[MonthKey]MonthBudgetPlan
