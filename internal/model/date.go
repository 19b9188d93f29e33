package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for storage and export.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component. It is always stored
// as midnight UTC so that two dates for the same day compare equal.
type Date struct {
	time.Time
}

// NewDate returns the date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string. Longer ISO timestamps are accepted
// and truncated to their date part.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MonthKey returns the year-month the date falls in.
func (d Date) MonthKey() MonthKey {
	return NewMonthKey(d.Year(), d.Month())
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthKey identifies a calendar month as "YYYY-MM".
type MonthKey string

var monthLabels = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// NewMonthKey builds a month key from a year and month.
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", year, int(month)))
}

// ParseMonthKey validates a "YYYY-MM" string.
func ParseMonthKey(s string) (MonthKey, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return "", fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("invalid month %q: %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("invalid month %q: month must be 01-12", s)
	}
	return NewMonthKey(year, time.Month(month)), nil
}

// Year returns the key's year, or 0 for a malformed key.
func (k MonthKey) Year() int {
	if len(k) < 4 {
		return 0
	}
	y, _ := strconv.Atoi(string(k[:4]))
	return y
}

// Month returns the key's month, or 0 for a malformed key.
func (k MonthKey) Month() time.Month {
	if len(k) < 7 {
		return 0
	}
	m, _ := strconv.Atoi(string(k[5:7]))
	return time.Month(m)
}

// Quarter returns the 1-based calendar quarter.
func (k MonthKey) Quarter() int {
	return (int(k.Month())-1)/3 + 1
}

// Shift moves the key by delta months, rolling over year boundaries.
func (k MonthKey) Shift(delta int) MonthKey {
	t := time.Date(k.Year(), k.Month()+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return NewMonthKey(t.Year(), t.Month())
}

// Label renders the key as "May 2024".
func (k MonthKey) Label() string {
	m := k.Month()
	if m < time.January || m > time.December {
		return string(k)
	}
	return fmt.Sprintf("%s %d", monthLabels[m-1], k.Year())
}

// FirstDay returns the first date of the month.
func (k MonthKey) FirstDay() Date {
	return NewDate(k.Year(), k.Month(), 1)
}

// LastDay returns the last date of the month.
func (k MonthKey) LastDay() Date {
	return Date{time.Date(k.Year(), k.Month()+1, 0, 0, 0, 0, 0, time.UTC)}
}
