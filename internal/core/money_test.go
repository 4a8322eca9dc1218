package core

import "testing"

func TestFormatDollars(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{2.5, "$2.50"},
		{12.5, "$12.50"},
		{999.99, "$999.99"},
		{1234.5, "$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{-2.5, "$-2.50"},
		{-1234.5, "$-1,234.50"},
		{100, "$100.00"},
		{1000, "$1,000.00"},
	}
	for i, tc := range cases {
		if got := FormatDollars(tc.in); got != tc.want {
			t.Fatalf("case %d: FormatDollars(%v) = %q, want %q", i, tc.in, got, tc.want)
		}
	}
}
