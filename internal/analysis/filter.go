package analysis

import (
	"sort"
	"strings"

	"github.com/Veraticus/transit-budget/internal/model"
)

// Filter narrows a month's transaction list.
type Filter struct {
	Type   model.TransactionType
	Search string
}

// FilterTransactions returns the transactions of one month matching the
// filter, newest first. An empty Type matches both types and Search matches
// description or category case-insensitively.
func FilterTransactions(transactions []model.Transaction, month model.MonthKey, f Filter) []model.Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]model.Transaction, 0)
	for _, t := range transactions {
		if t.MonthKey() != month {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Description), search) &&
			!strings.Contains(strings.ToLower(string(t.Category)), search) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
