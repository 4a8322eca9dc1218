// Package core holds the pure domain model and the expense-analytics
// engines: item validation, date-window resolution, aggregation,
// budget alerts, and cost optimization. Everything here is a
// deterministic function over its inputs; persistence and transport
// live elsewhere.
package core

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the wire format for all dates in the system.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate = errors.New("invalid date")

	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Window is an inclusive date range used to scope aggregation.
// Start and End are zero-padded ISO dates, so string comparison
// orders them correctly.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether date falls inside the window. An empty
// date never matches, which is what excludes unpurchased items.
func (w Window) Contains(date string) bool {
	return date >= w.Start && date <= w.End
}

// ParseDate validates an ISO YYYY-MM-DD string and returns the
// calendar date it names. The shape check rejects formats that
// time.Parse would accept loosely (e.g. "2024-1-5").
func ParseDate(s string) (time.Time, error) {
	if !isoDatePattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t in the wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekStart returns the Monday of the week containing date.
func WeekStart(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	// Monday = 0 convention; Go's Weekday has Sunday = 0.
	offset := (int(t.Weekday()) + 6) % 7
	return FormatDate(t.AddDate(0, 0, -offset)), nil
}

// WeekWindow returns the Monday-to-Sunday window containing date.
func WeekWindow(date string) (Window, error) {
	start, err := WeekStart(date)
	if err != nil {
		return Window{}, err
	}
	t, _ := ParseDate(start)
	return Window{Start: start, End: FormatDate(t.AddDate(0, 0, 6))}, nil
}

// MonthWindow returns the first-to-last-day window of date's month.
// The end is computed as the first day of the next month minus one
// day, which handles variable month lengths and the December to
// January rollover without a lookup table.
func MonthWindow(date string) (Window, error) {
	t, err := ParseDate(date)
	if err != nil {
		return Window{}, err
	}
	year, month := t.Year(), t.Month()
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
	return Window{Start: FormatDate(start), End: FormatDate(end)}, nil
}

// MonthEnd returns the last calendar day of date's month.
func MonthEnd(date string) (string, error) {
	w, err := MonthWindow(date)
	if err != nil {
		return "", err
	}
	return w.End, nil
}
