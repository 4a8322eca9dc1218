package core

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatDollars renders an amount as a dollar string with thousands
// separators, e.g. 1234.5 -> "$1,234.50". The sign follows the dollar
// sign ("$-2.50") to match the report and alert message format.
func FormatDollars(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}
	if neg {
		return fmt.Sprintf("$-%s.%s", intPart, fracPart)
	}
	return fmt.Sprintf("$%s.%s", intPart, fracPart)
}
