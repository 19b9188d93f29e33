// Package analysis rolls transactions and budget plans up into scoped
// actual-versus-planned views. Every function is pure: inputs are never
// mutated and no state is kept between calls.
package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/transit-budget/internal/model"
)

// Scope selects the set of months an aggregation covers.
type Scope string

const (
	// ScopeMonthly covers only the anchor month.
	ScopeMonthly Scope = "monthly"
	// ScopeQuarterly covers the calendar quarter containing the anchor.
	ScopeQuarterly Scope = "quarterly"
	// ScopeYTD covers January through the current month of the anchor's year.
	ScopeYTD Scope = "ytd"
	// ScopeYearly covers all twelve months of the anchor's year.
	ScopeYearly Scope = "yearly"
)

// Scopes lists every scope in the order the dashboard cycles through them.
func Scopes() []Scope {
	return []Scope{ScopeMonthly, ScopeQuarterly, ScopeYTD, ScopeYearly}
}

// ParseScope accepts a scope name in any case. "year-to-date" is accepted as
// an alias for ytd.
func ParseScope(s string) (Scope, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "year-to-date" {
		v = string(ScopeYTD)
	}
	for _, scope := range Scopes() {
		if string(scope) == v {
			return scope, nil
		}
	}
	return "", fmt.Errorf("unknown scope %q (expected monthly, quarterly, ytd or yearly)", s)
}

// Next returns the scope after s, wrapping around.
func (s Scope) Next() Scope {
	all := Scopes()
	for i, scope := range all {
		if scope == s {
			return all[(i+1)%len(all)]
		}
	}
	return ScopeMonthly
}

// Label describes the scope anchored at the given month.
func (s Scope) Label(anchor model.MonthKey) string {
	switch s {
	case ScopeQuarterly:
		return fmt.Sprintf("Q%d %d", anchor.Quarter(), anchor.Year())
	case ScopeYTD:
		return fmt.Sprintf("YTD %d", anchor.Year())
	case ScopeYearly:
		return fmt.Sprintf("Year %d", anchor.Year())
	default:
		return anchor.Label()
	}
}

// ScopeMonths resolves a scope to its month keys in calendar order. today is
// only consulted for ytd, where the range ends at today's month when the
// anchor is in the current year.
func ScopeMonths(scope Scope, anchor model.MonthKey, today model.Date) []model.MonthKey {
	year := anchor.Year()

	switch scope {
	case ScopeQuarterly:
		first := (anchor.Quarter()-1)*3 + 1
		return monthRange(year, first, first+2)
	case ScopeYTD:
		last := 12
		if today.Year() == year {
			last = int(today.Month())
		}
		return monthRange(year, 1, last)
	case ScopeYearly:
		return monthRange(year, 1, 12)
	default:
		return []model.MonthKey{anchor}
	}
}

func monthRange(year, from, to int) []model.MonthKey {
	months := make([]model.MonthKey, 0, to-from+1)
	for m := from; m <= to; m++ {
		months = append(months, model.NewMonthKey(year, time.Month(m)))
	}
	return months
}
