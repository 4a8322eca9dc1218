package core

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-15", true},
		{"2024-02-29", true}, // leap day
		{"2023-02-29", false},
		{"2024-13-01", false},
		{"2024-00-10", false},
		{"2024-1-5", false}, // not zero-padded
		{"15-01-2024", false},
		{"2024/01/15", false},
		{"", false},
		{"not-a-date", false},
	}
	for _, tc := range cases {
		_, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseDate(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDate(%q) expected error", tc.in)
		}
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-01-15", "2024-01-15"}, // a Monday maps to itself
		{"2024-01-16", "2024-01-15"},
		{"2024-01-21", "2024-01-15"}, // Sunday still belongs to Monday's week
		{"2024-01-01", "2024-01-01"},
		{"2024-03-03", "2024-02-26"}, // week start crosses a month boundary
		{"2024-01-02", "2024-01-01"},
	}
	for _, tc := range cases {
		got, err := WeekStart(tc.in)
		if err != nil {
			t.Fatalf("WeekStart(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("WeekStart(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWeekWindowSpansSevenDays(t *testing.T) {
	// Every day of a Monday-to-Sunday span resolves to the same window
	// and is contained in it.
	days := []string{
		"2024-01-15", "2024-01-16", "2024-01-17", "2024-01-18",
		"2024-01-19", "2024-01-20", "2024-01-21",
	}
	for _, d := range days {
		w, err := WeekWindow(d)
		if err != nil {
			t.Fatalf("WeekWindow(%q) error: %v", d, err)
		}
		if w.Start != "2024-01-15" || w.End != "2024-01-21" {
			t.Fatalf("WeekWindow(%q) = %+v, want 2024-01-15..2024-01-21", d, w)
		}
		if !w.Contains(d) {
			t.Fatalf("window %+v should contain %q", w, d)
		}
	}
}

func TestMonthWindow(t *testing.T) {
	cases := []struct {
		in         string
		start, end string
	}{
		{"2024-01-20", "2024-01-01", "2024-01-31"},
		{"2024-02-01", "2024-02-01", "2024-02-29"}, // leap year
		{"2023-02-01", "2023-02-01", "2023-02-28"},
		{"2024-12-25", "2024-12-01", "2024-12-31"}, // December rolls into next year
		{"2024-04-30", "2024-04-01", "2024-04-30"},
	}
	for _, tc := range cases {
		w, err := MonthWindow(tc.in)
		if err != nil {
			t.Fatalf("MonthWindow(%q) error: %v", tc.in, err)
		}
		if w.Start != tc.start || w.End != tc.end {
			t.Fatalf("MonthWindow(%q) = %+v, want %s..%s", tc.in, w, tc.start, tc.end)
		}
	}

	if _, err := MonthWindow("2024-01-32"); err == nil {
		t.Fatalf("expected error for impossible day")
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: "2024-01-01", End: "2024-01-31"}
	cases := []struct {
		date string
		want bool
	}{
		{"2024-01-01", true},
		{"2024-01-31", true},
		{"2024-01-15", true},
		{"2023-12-31", false},
		{"2024-02-01", false},
		{"", false}, // unpurchased sentinel
	}
	for _, tc := range cases {
		if got := w.Contains(tc.date); got != tc.want {
			t.Fatalf("Contains(%q) = %v, want %v", tc.date, got, tc.want)
		}
	}
}
