// Package budget creates and edits monthly budget plans. Every function
// returns a new plan and leaves its argument untouched.
package budget

import (
	"strings"

	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/google/uuid"
)

// DefaultExtraDescription labels extras entered without a description.
const DefaultExtraDescription = "Extra entry"

// IDGenerator produces identifiers for new extra entries.
type IDGenerator func() string

// NewID is the default generator.
var NewID IDGenerator = uuid.NewString

// EmptyPlan returns an unlocked plan with every preset category at zero.
func EmptyPlan() model.MonthBudgetPlan {
	return model.MonthBudgetPlan{
		Income:  model.NewCategoryAmounts(model.TypeIncome),
		Expense: model.NewCategoryAmounts(model.TypeExpense),
		Extras:  []model.ExtraEntry{},
	}
}

// SetCategoryAmount sets one category of one section from user-entered text.
// Locked plans are returned unchanged with applied=false.
func SetCategoryAmount(plan model.MonthBudgetPlan, section model.TransactionType, category model.Category, text string) (model.MonthBudgetPlan, bool) {
	category = model.Category(strings.TrimSpace(string(category)))
	if plan.Locked || !section.Valid() || category == "" {
		return plan, false
	}

	out := plan.Normalize()
	out.Section(section)[category] = model.ParseCurrencyInput(text)
	return out, true
}

// ToggleLock flips the lock flag and nothing else.
func ToggleLock(plan model.MonthBudgetPlan) model.MonthBudgetPlan {
	out := plan.Clone()
	out.Locked = !out.Locked
	return out
}

// AddExtra appends an extra-budgetary entry with a generated id. Entries with
// a non-positive amount, an invalid type, or against an unlocked plan are
// rejected.
func AddExtra(plan model.MonthBudgetPlan, entry model.ExtraEntry) (model.MonthBudgetPlan, bool) {
	return addExtra(plan, entry, NewID)
}

func addExtra(plan model.MonthBudgetPlan, entry model.ExtraEntry, newID IDGenerator) (model.MonthBudgetPlan, bool) {
	if !plan.Locked || !(entry.Amount > 0) || !entry.Type.Valid() {
		return plan, false
	}

	entry.ID = newID()
	entry.Description = strings.TrimSpace(entry.Description)
	if entry.Description == "" {
		entry.Description = DefaultExtraDescription
	}

	out := plan.Clone()
	out.Extras = append(out.Extras, entry)
	return out, true
}

// RemoveExtra drops the extra with the given id, if present.
func RemoveExtra(plan model.MonthBudgetPlan, id string) (model.MonthBudgetPlan, bool) {
	out := plan.Clone()
	kept := make([]model.ExtraEntry, 0, len(plan.Extras))
	for _, e := range plan.Extras {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(plan.Extras) {
		return plan, false
	}
	out.Extras = kept
	return out, true
}

// ApplyDefaultBudgets fills every zero expense preset with its suggested
// amount. Locked plans are left unchanged.
func ApplyDefaultBudgets(plan model.MonthBudgetPlan) (model.MonthBudgetPlan, bool) {
	if plan.Locked {
		return plan, false
	}
	out := plan.Normalize()
	changed := false
	for cat, amount := range model.DefaultBudgets {
		if out.Expense[cat] == 0 {
			out.Expense[cat] = amount
			changed = true
		}
	}
	return out, changed
}
