package core

import "sort"

type (
	// CategorySummary is the per-category slice of a window's spending.
	CategorySummary struct {
		Category          string  `json:"category"`
		TotalSpent        float64 `json:"total_spent"`
		ItemCount         int     `json:"item_count"`
		AverageCost       float64 `json:"average_cost"`
		PercentageOfTotal float64 `json:"percentage_of_total"`
	}

	// StoreSummary is the per-store slice of a window's spending.
	StoreSummary struct {
		StoreName         string  `json:"store_name"`
		TotalSpent        float64 `json:"total_spent"`
		ItemCount         int     `json:"item_count"`
		AverageCost       float64 `json:"average_cost"`
		PercentageOfTotal float64 `json:"percentage_of_total"`
	}

	// ExpenseSummary is the window-level rollup.
	ExpenseSummary struct {
		TotalSpent           float64 `json:"total_spent"`
		TotalItems           int     `json:"total_items"`
		AverageItemCost      float64 `json:"average_item_cost"`
		MostExpensiveItem    string  `json:"most_expensive_item"`
		MostExpensiveCost    float64 `json:"most_expensive_cost"`
		CheapestItem         string  `json:"cheapest_item"`
		CheapestCost         float64 `json:"cheapest_cost"`
		BudgetRemaining      float64 `json:"budget_remaining"`
		BudgetUsedPercentage float64 `json:"budget_used_percentage"`
	}

	// TrendPoint is one day of a spending trend, zero-filled when
	// nothing was purchased that day.
	TrendPoint struct {
		Date      string  `json:"date"`
		Spending  float64 `json:"spending"`
		DayOfWeek string  `json:"day_of_week"`
	}
)

// purchasedIn selects the items counted by the aggregation engine:
// purchased, with a purchase date inside the window. The empty-date
// sentinel on pending items fails Contains on its own, but the
// explicit Purchased check keeps the filter honest about intent.
func purchasedIn(items []Item, w Window) []Item {
	var out []Item
	for _, it := range items {
		if it.Purchased && w.Contains(it.PurchaseDate) {
			out = append(out, it)
		}
	}
	return out
}

// SpendingInWindow sums the total cost of purchased items inside the
// window. Returns 0.0 for an empty window, never a missing value.
func SpendingInWindow(items []Item, w Window) float64 {
	var total float64
	for _, it := range purchasedIn(items, w) {
		total += it.TotalCost()
	}
	return total
}

// SpendingByCategory groups window spending by category, descending by
// total spent. Ties keep first-encountered input order.
func SpendingByCategory(items []Item, w Window) []CategorySummary {
	keys, totals, counts := groupTotals(items, w, func(it Item) string { return it.Category })

	var grand float64
	for _, k := range keys {
		grand += totals[k]
	}

	out := make([]CategorySummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, CategorySummary{
			Category:          k,
			TotalSpent:        totals[k],
			ItemCount:         counts[k],
			AverageCost:       totals[k] / float64(counts[k]),
			PercentageOfTotal: percentage(totals[k], grand),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalSpent > out[j].TotalSpent })
	return out
}

// SpendingByStore groups window spending by store name, descending by
// total spent. Ties keep first-encountered input order.
func SpendingByStore(items []Item, w Window) []StoreSummary {
	keys, totals, counts := groupTotals(items, w, func(it Item) string { return it.StoreName })

	var grand float64
	for _, k := range keys {
		grand += totals[k]
	}

	out := make([]StoreSummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, StoreSummary{
			StoreName:         k,
			TotalSpent:        totals[k],
			ItemCount:         counts[k],
			AverageCost:       totals[k] / float64(counts[k]),
			PercentageOfTotal: percentage(totals[k], grand),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalSpent > out[j].TotalSpent })
	return out
}

func groupTotals(items []Item, w Window, key func(Item) string) (keys []string, totals map[string]float64, counts map[string]int) {
	totals = make(map[string]float64)
	counts = make(map[string]int)
	for _, it := range purchasedIn(items, w) {
		k := key(it)
		if _, seen := totals[k]; !seen {
			keys = append(keys, k)
		}
		totals[k] += it.TotalCost()
		counts[k]++
	}
	return keys, totals, counts
}

func percentage(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// Summarize computes the window rollup plus the budget position
// against the monthly budget. Extrema ties go to the first item in
// input order.
func Summarize(items []Item, w Window, budget BudgetSettings) ExpenseSummary {
	in := purchasedIn(items, w)

	s := ExpenseSummary{TotalItems: len(in)}
	for i, it := range in {
		cost := it.TotalCost()
		s.TotalSpent += cost
		if i == 0 || cost > s.MostExpensiveCost {
			s.MostExpensiveItem, s.MostExpensiveCost = it.Name, cost
		}
		if i == 0 || cost < s.CheapestCost {
			s.CheapestItem, s.CheapestCost = it.Name, cost
		}
	}
	if s.TotalItems > 0 {
		s.AverageItemCost = s.TotalSpent / float64(s.TotalItems)
	}

	s.BudgetRemaining = budget.MonthlyBudget - s.TotalSpent
	s.BudgetUsedPercentage = percentage(s.TotalSpent, budget.MonthlyBudget)
	return s
}

// SpendingTrend returns one point per day for the days-long stretch
// ending the day before end, oldest first. Days with no purchases
// appear with zero spending.
func SpendingTrend(items []Item, end string, days int) ([]TrendPoint, error) {
	endT, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	if days < 1 {
		days = 1
	}

	byDay := make(map[string]float64)
	for _, it := range items {
		if it.Purchased && it.PurchaseDate != "" {
			byDay[it.PurchaseDate] += it.TotalCost()
		}
	}

	start := endT.AddDate(0, 0, -days)
	out := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		ds := FormatDate(day)
		out = append(out, TrendPoint{
			Date:      ds,
			Spending:  byDay[ds],
			DayOfWeek: day.Weekday().String(),
		})
	}
	return out, nil
}
