package model

import (
	"sort"
	"strings"
)

// Category names a bucket that transactions and budget amounts roll up into.
// Preset categories are declared below; user-defined categories are plain
// Category values created at runtime.
type Category string

// Expense presets, in display order.
const (
	CategoryHousing       Category = "Housing"
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryUtilities     Category = "Utilities"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryEntertainment Category = "Entertainment"
	CategoryFamily        Category = "Family"
	CategorySavings       Category = "Savings/Investment"
	CategoryDebt          Category = "Debt Repayment"
	CategorySubscriptions Category = "Subscriptions"
	CategoryMisc          Category = "Misc"
)

// Income presets, in display order.
const (
	CategorySalary    Category = "Salary"
	CategoryFreelance Category = "Freelance"
	CategoryBusiness  Category = "Business"
	CategoryBonus     Category = "Bonus"
	CategoryInterest  Category = "Interest"
	CategoryGift      Category = "Gift"
	CategoryOther     Category = "Other"
)

// CategoryOthers is the synthetic bucket used when small categories are folded together.
const CategoryOthers Category = "Others"

var (
	expensePresets = []Category{
		CategoryHousing, CategoryFood, CategoryTransport, CategoryUtilities,
		CategoryHealth, CategoryEducation, CategoryEntertainment, CategoryFamily,
		CategorySavings, CategoryDebt, CategorySubscriptions, CategoryMisc,
	}
	incomePresets = []Category{
		CategorySalary, CategoryFreelance, CategoryBusiness, CategoryBonus,
		CategoryInterest, CategoryGift, CategoryOther,
	}
)

// DefaultBudgets are suggested monthly expense amounts in naira.
var DefaultBudgets = map[Category]float64{
	CategoryHousing:       150000,
	CategoryFood:          80000,
	CategoryTransport:     40000,
	CategoryUtilities:     35000,
	CategoryHealth:        25000,
	CategoryEducation:     30000,
	CategoryEntertainment: 20000,
	CategoryFamily:        30000,
	CategorySavings:       50000,
	CategoryDebt:          30000,
	CategorySubscriptions: 10000,
	CategoryMisc:          25000,
}

// CategoryIcons are short glyphs shown next to preset categories.
var CategoryIcons = map[Category]string{
	CategoryHousing:       "🏠",
	CategoryFood:          "🍔",
	CategoryTransport:     "🚗",
	CategoryUtilities:     "💡",
	CategoryHealth:        "🏥",
	CategoryEducation:     "📚",
	CategoryEntertainment: "🎬",
	CategoryFamily:        "👪",
	CategorySavings:       "💰",
	CategoryDebt:          "💳",
	CategorySubscriptions: "📱",
	CategoryMisc:          "📦",
	CategorySalary:        "💼",
	CategoryFreelance:     "💻",
	CategoryBusiness:      "🏢",
	CategoryBonus:         "🎁",
	CategoryInterest:      "📈",
	CategoryGift:          "🎉",
	CategoryOther:         "📝",
}

// PresetCategories returns a copy of the preset list for the given type.
func PresetCategories(t TransactionType) []Category {
	var src []Category
	switch t {
	case TypeIncome:
		src = incomePresets
	case TypeExpense:
		src = expensePresets
	default:
		return nil
	}
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

// IsPreset reports whether c is one of the preset categories for t.
func IsPreset(t TransactionType, c Category) bool {
	for _, p := range PresetCategories(t) {
		if p == c {
			return true
		}
	}
	return false
}

// Icon returns the category glyph, or a generic tag for custom categories.
func (c Category) Icon() string {
	if icon, ok := CategoryIcons[c]; ok {
		return icon
	}
	return "🏷️"
}

// CustomCategory is a user-defined category, unique per (name, type).
type CustomCategory struct {
	Name Category        `json:"name"`
	Type TransactionType `json:"type"`
}

// SameName compares category names case-insensitively.
func SameName(a, b Category) bool {
	return strings.EqualFold(strings.TrimSpace(string(a)), strings.TrimSpace(string(b)))
}

// CategoryAmounts maps categories to amounts. Presets are always present
// once created through NewCategoryAmounts; custom keys may be added freely.
type CategoryAmounts map[Category]float64

// NewCategoryAmounts returns a map holding every preset of t at zero.
func NewCategoryAmounts(t TransactionType) CategoryAmounts {
	presets := PresetCategories(t)
	m := make(CategoryAmounts, len(presets))
	for _, c := range presets {
		m[c] = 0
	}
	return m
}

// Add accumulates amount under c.
func (m CategoryAmounts) Add(c Category, amount float64) {
	m[c] += amount
}

// Total sums every value in the map.
func (m CategoryAmounts) Total() float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// Clone returns an independent copy.
func (m CategoryAmounts) Clone() CategoryAmounts {
	if m == nil {
		return nil
	}
	out := make(CategoryAmounts, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Keys returns the presets of t in canonical order followed by every other
// key in the map, sorted by name.
func (m CategoryAmounts) Keys(t TransactionType) []Category {
	keys := PresetCategories(t)
	var custom []Category
	for k := range m {
		if !IsPreset(t, k) {
			custom = append(custom, k)
		}
	}
	sort.Slice(custom, func(i, j int) bool { return custom[i] < custom[j] })
	return append(keys, custom...)
}
