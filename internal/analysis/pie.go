package analysis

import (
	"sort"

	"github.com/Veraticus/transit-budget/internal/model"
)

// DefaultTopN is the largest number of slices a category chart shows.
const DefaultTopN = 5

// Slice is one segment of a category breakdown chart.
type Slice struct {
	Category model.Category
	Amount   float64
}

// BucketTopN sorts the positive amounts in descending order. When there are
// at most n of them they are returned unchanged; otherwise the first n-1 are
// kept and the rest are summed into a final "Others" slice. Ties are broken
// by category name.
func BucketTopN(amounts model.CategoryAmounts, n int) []Slice {
	if n < 2 {
		n = DefaultTopN
	}

	slices := make([]Slice, 0, len(amounts))
	for c, v := range amounts {
		if v > 0 {
			slices = append(slices, Slice{Category: c, Amount: v})
		}
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Amount != slices[j].Amount {
			return slices[i].Amount > slices[j].Amount
		}
		return slices[i].Category < slices[j].Category
	})

	if len(slices) <= n {
		return slices
	}

	others := Slice{Category: model.CategoryOthers}
	for _, s := range slices[n-1:] {
		others.Amount += s.Amount
	}
	return append(slices[:n-1:n-1], others)
}
