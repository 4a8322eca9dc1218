// Package report renders the plain-text grocery and expense summary.
// It consumes pre-computed analytics and never touches storage itself.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"dispensa/internal/core"
)

// Data is everything a rendered report needs, gathered by the caller.
type Data struct {
	GeneratedAt     time.Time
	Stats           core.Stats
	Budget          core.BudgetSettings
	WeeklySpending  float64
	MonthlySpending float64
	Summary         core.ExpenseSummary
	Alerts          []core.Alert
	Categories      []core.CategorySummary
	Stores          []core.StoreSummary
	Suggestions     core.Suggestions
	Comparisons     []core.StoreComparison
	Unpurchased     []core.Item
}

const (
	bannerWidth = 60

	// Caps keep the report readable on a terminal.
	unpurchasedLimit = 10
	comparisonLimit  = 5
)

// Render produces the full text report. Sections with nothing to say
// are omitted entirely rather than rendered empty.
func Render(d Data) string {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)

	fmt.Fprintln(&b, banner)
	fmt.Fprintln(&b, "GROCERY LIST & EXPENSE SUMMARY")
	fmt.Fprintln(&b, banner)
	fmt.Fprintf(&b, "Generated on: %s\n", d.GeneratedAt.Format("January 2, 2006 at 3:04 PM"))
	fmt.Fprintln(&b)

	writeOverallSummary(&b, d)
	writeBudgetInformation(&b, d)
	writeAlerts(&b, d.Alerts)
	writeCategories(&b, d.Categories)
	writeStores(&b, d.Stores)
	writeExtremes(&b, d.Summary)
	writeUnpurchased(&b, d.Unpurchased)
	writeSuggestions(&b, d.Suggestions)
	writeComparisons(&b, d.Comparisons)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func section(b *strings.Builder, title string, width int) {
	fmt.Fprintln(b, title)
	fmt.Fprintln(b, strings.Repeat("-", width))
}

func writeOverallSummary(b *strings.Builder, d Data) {
	section(b, "OVERALL SUMMARY", 20)
	fmt.Fprintf(b, "Total Items: %d\n", d.Stats.TotalItems)
	fmt.Fprintf(b, "Purchased Items: %d\n", d.Stats.PurchasedItems)
	fmt.Fprintf(b, "Unpurchased Items: %d\n", d.Stats.UnpurchasedItems)
	fmt.Fprintf(b, "Total Cost: %s\n", core.FormatDollars(d.Summary.TotalSpent))
	fmt.Fprintf(b, "Average Item Cost: %s\n", core.FormatDollars(d.Summary.AverageItemCost))
	fmt.Fprintln(b)
}

func writeBudgetInformation(b *strings.Builder, d Data) {
	if d.Budget.WeeklyBudget <= 0 && d.Budget.MonthlyBudget <= 0 {
		return
	}
	section(b, "BUDGET INFORMATION", 20)
	if d.Budget.WeeklyBudget > 0 {
		pct := d.WeeklySpending / d.Budget.WeeklyBudget * 100
		fmt.Fprintf(b, "Weekly Budget: %s\n", core.FormatDollars(d.Budget.WeeklyBudget))
		fmt.Fprintf(b, "Weekly Spending: %s (%.1f%%)\n", core.FormatDollars(d.WeeklySpending), pct)
		fmt.Fprintf(b, "Weekly Remaining: %s\n", core.FormatDollars(d.Budget.WeeklyBudget-d.WeeklySpending))
	}
	if d.Budget.MonthlyBudget > 0 {
		pct := d.MonthlySpending / d.Budget.MonthlyBudget * 100
		fmt.Fprintf(b, "Monthly Budget: %s\n", core.FormatDollars(d.Budget.MonthlyBudget))
		fmt.Fprintf(b, "Monthly Spending: %s (%.1f%%)\n", core.FormatDollars(d.MonthlySpending), pct)
		fmt.Fprintf(b, "Monthly Remaining: %s\n", core.FormatDollars(d.Budget.MonthlyBudget-d.MonthlySpending))
	}
	fmt.Fprintln(b)
}

func writeAlerts(b *strings.Builder, alerts []core.Alert) {
	if len(alerts) == 0 {
		return
	}
	section(b, "BUDGET ALERTS", 15)
	for _, a := range alerts {
		fmt.Fprintf(b, "%s %s\n", alertMarker(a.Type), a.Message)
	}
	fmt.Fprintln(b)
}

func alertMarker(t core.AlertType) string {
	switch t {
	case core.AlertExceeded:
		return "[!]"
	case core.AlertWarning:
		return "[~]"
	default:
		return "[*]"
	}
}

func writeCategories(b *strings.Builder, categories []core.CategorySummary) {
	if len(categories) == 0 {
		return
	}
	section(b, "SPENDING BY CATEGORY", 25)
	for _, c := range categories {
		fmt.Fprintf(b, "%s: %s (%d items, %.1f%%)\n",
			c.Category, core.FormatDollars(c.TotalSpent), c.ItemCount, c.PercentageOfTotal)
	}
	fmt.Fprintln(b)
}

func writeStores(b *strings.Builder, stores []core.StoreSummary) {
	if len(stores) == 0 {
		return
	}
	section(b, "SPENDING BY STORE", 20)
	for _, s := range stores {
		fmt.Fprintf(b, "%s: %s (%d items, %.1f%%)\n",
			s.StoreName, core.FormatDollars(s.TotalSpent), s.ItemCount, s.PercentageOfTotal)
	}
	fmt.Fprintln(b)
}

func writeExtremes(b *strings.Builder, s core.ExpenseSummary) {
	if s.MostExpensiveItem != "" {
		section(b, "MOST EXPENSIVE ITEM", 25)
		fmt.Fprintf(b, "%s: %s\n", s.MostExpensiveItem, core.FormatDollars(s.MostExpensiveCost))
		fmt.Fprintln(b)
	}
	if s.CheapestItem != "" {
		section(b, "CHEAPEST ITEM", 15)
		fmt.Fprintf(b, "%s: %s\n", s.CheapestItem, core.FormatDollars(s.CheapestCost))
		fmt.Fprintln(b)
	}
}

func writeUnpurchased(b *strings.Builder, items []core.Item) {
	if len(items) == 0 {
		return
	}
	section(b, "UNPURCHASED ITEMS", 20)
	var total float64
	for _, it := range items {
		total += it.TotalCost()
	}
	fmt.Fprintf(b, "Total Unpurchased Cost: %s\n", core.FormatDollars(total))
	fmt.Fprintln(b, "Items:")
	shown := items
	if len(shown) > unpurchasedLimit {
		shown = shown[:unpurchasedLimit]
	}
	for _, it := range shown {
		fmt.Fprintf(b, "  - %s - %s\n", it.Name, core.FormatDollars(it.TotalCost()))
	}
	if rest := len(items) - unpurchasedLimit; rest > 0 {
		fmt.Fprintf(b, "  ... and %d more items\n", rest)
	}
	fmt.Fprintln(b)
}

func writeSuggestions(b *strings.Builder, s core.Suggestions) {
	if len(s.ExpensiveItems) == 0 && len(s.HighSpendCategories) == 0 {
		return
	}
	section(b, "COST OPTIMIZATION SUGGESTIONS", 30)
	for _, it := range s.ExpensiveItems {
		fmt.Fprintf(b, "[*] %s\n", it.Suggestion)
	}
	for _, c := range s.HighSpendCategories {
		fmt.Fprintf(b, "[*] %s\n", c.Suggestion)
	}
	fmt.Fprintln(b)
}

// writeComparisons shows the biggest cross-store price spreads, best
// savings first.
func writeComparisons(b *strings.Builder, comparisons []core.StoreComparison) {
	if len(comparisons) == 0 {
		return
	}
	ranked := make([]core.StoreComparison, len(comparisons))
	copy(ranked, comparisons)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PotentialSavings > ranked[j].PotentialSavings
	})
	if len(ranked) > comparisonLimit {
		ranked = ranked[:comparisonLimit]
	}

	section(b, "STORE COMPARISONS", 20)
	for _, c := range ranked {
		fmt.Fprintf(b, "%s: %s at %s vs %s at %s (save %s, %.1f%%)\n",
			c.Item,
			core.FormatDollars(c.CheapestPrice), c.CheapestStore,
			core.FormatDollars(c.MostExpensivePrice), c.MostExpensiveStore,
			core.FormatDollars(c.PotentialSavings), c.SavingsPercentage)
	}
	fmt.Fprintln(b)
}
