package core

import (
	"math"
	"testing"
)

func purchased(name, category string, qty, price float64, store, date string) Item {
	return Item{
		Name:         name,
		Category:     category,
		Quantity:     qty,
		Unit:         "unit",
		PricePerUnit: price,
		StoreName:    store,
		Purchased:    true,
		PurchaseDate: date,
	}
}

func january() Window {
	return Window{Start: "2024-01-01", End: "2024-01-31"}
}

func TestSpendingInWindow(t *testing.T) {
	items := []Item{
		purchased("Organic Apples", "Produce", 2, 4.50, "Whole Foods", "2024-01-15"),
		purchased("Whole Milk", "Dairy", 1, 3.50, "Walmart", "2024-01-16"),
		purchased("Old Bread", "Bakery", 1, 2.00, "Walmart", "2023-12-31"), // outside window
		{Name: "Bananas", Category: "Produce", Quantity: 1, Unit: "bunch", PricePerUnit: 1.99, StoreName: "Walmart"},
	}

	if got := SpendingInWindow(items, january()); got != 12.50 {
		t.Fatalf("SpendingInWindow = %v, want 12.50", got)
	}
	if got := SpendingInWindow(nil, january()); got != 0 {
		t.Fatalf("empty input: got %v, want 0", got)
	}
	if got := SpendingInWindow(items, Window{Start: "2024-06-01", End: "2024-06-30"}); got != 0 {
		t.Fatalf("empty window: got %v, want 0", got)
	}
}

func TestSpendingInWindowBoundariesInclusive(t *testing.T) {
	items := []Item{
		purchased("First", "A", 1, 1.00, "S", "2024-01-01"),
		purchased("Last", "A", 1, 2.00, "S", "2024-01-31"),
	}
	if got := SpendingInWindow(items, january()); got != 3.00 {
		t.Fatalf("boundary dates must count: got %v, want 3.00", got)
	}
}

func TestSpendingByCategory(t *testing.T) {
	items := []Item{
		purchased("Apples", "Produce", 2, 4.50, "Whole Foods", "2024-01-15"), // 9.00
		purchased("Milk", "Dairy", 1, 3.50, "Walmart", "2024-01-16"),         // 3.50
		purchased("Bananas", "Produce", 1, 1.50, "Walmart", "2024-01-17"),    // 1.50
	}
	got := SpendingByCategory(items, january())

	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].Category != "Produce" || got[1].Category != "Dairy" {
		t.Fatalf("expected descending order Produce, Dairy; got %s, %s", got[0].Category, got[1].Category)
	}
	if got[0].TotalSpent != 10.50 || got[0].ItemCount != 2 {
		t.Fatalf("Produce: got total %v count %d, want 10.50 and 2", got[0].TotalSpent, got[0].ItemCount)
	}
	if got[0].AverageCost != 5.25 {
		t.Fatalf("Produce average: got %v, want 5.25", got[0].AverageCost)
	}

	var sum float64
	for _, c := range got {
		sum += c.PercentageOfTotal
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percentages should sum to 100, got %v", sum)
	}
}

func TestSpendingByCategoryZeroTotal(t *testing.T) {
	// Free items produce groups with zero spending; every percentage
	// must be 0, never NaN.
	items := []Item{
		purchased("Sample A", "Promo", 1, 0, "Walmart", "2024-01-10"),
		purchased("Sample B", "Freebies", 2, 0, "Target", "2024-01-11"),
	}
	got := SpendingByCategory(items, january())
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	for _, c := range got {
		if c.PercentageOfTotal != 0 {
			t.Fatalf("%s: percentage = %v, want 0", c.Category, c.PercentageOfTotal)
		}
	}
}

func TestSpendingByCategoryStableTies(t *testing.T) {
	items := []Item{
		purchased("A", "Snacks", 1, 5.00, "S", "2024-01-10"),
		purchased("B", "Drinks", 1, 5.00, "S", "2024-01-11"),
		purchased("C", "Bakery", 1, 5.00, "S", "2024-01-12"),
	}
	got := SpendingByCategory(items, january())
	want := []string{"Snacks", "Drinks", "Bakery"}
	for i, c := range got {
		if c.Category != want[i] {
			t.Fatalf("tie order: position %d = %s, want %s", i, c.Category, want[i])
		}
	}
}

func TestSpendingByStore(t *testing.T) {
	items := []Item{
		purchased("Milk", "Dairy", 1, 3.50, "Walmart", "2024-01-16"),
		purchased("Bread", "Bakery", 2, 2.50, "Walmart", "2024-01-17"),
		purchased("Apples", "Produce", 2, 4.50, "Whole Foods", "2024-01-15"),
	}
	got := SpendingByStore(items, january())

	if len(got) != 2 {
		t.Fatalf("expected 2 stores, got %d", len(got))
	}
	if got[0].StoreName != "Whole Foods" || got[0].TotalSpent != 9.00 {
		t.Fatalf("top store: got %s %v, want Whole Foods 9.00", got[0].StoreName, got[0].TotalSpent)
	}
	if got[1].StoreName != "Walmart" || got[1].TotalSpent != 8.50 || got[1].ItemCount != 2 {
		t.Fatalf("Walmart: got %+v, want total 8.50 count 2", got[1])
	}
}

func TestSummarize(t *testing.T) {
	items := []Item{
		purchased("Apples", "Produce", 2, 4.50, "Whole Foods", "2024-01-15"), // 9.00
		purchased("Milk", "Dairy", 1, 3.50, "Walmart", "2024-01-16"),         // 3.50
		purchased("Chips", "Snacks", 3, 2.00, "Target", "2024-01-17"),        // 6.00
	}
	budget := BudgetSettings{MonthlyBudget: 100}

	s := Summarize(items, january(), budget)
	if s.TotalSpent != 18.50 || s.TotalItems != 3 {
		t.Fatalf("totals: got %v / %d, want 18.50 / 3", s.TotalSpent, s.TotalItems)
	}
	if math.Abs(s.AverageItemCost-18.50/3) > 1e-9 {
		t.Fatalf("average: got %v", s.AverageItemCost)
	}
	if s.MostExpensiveItem != "Apples" || s.MostExpensiveCost != 9.00 {
		t.Fatalf("most expensive: got %s %v", s.MostExpensiveItem, s.MostExpensiveCost)
	}
	if s.CheapestItem != "Milk" || s.CheapestCost != 3.50 {
		t.Fatalf("cheapest: got %s %v", s.CheapestItem, s.CheapestCost)
	}
	if s.BudgetRemaining != 81.50 {
		t.Fatalf("budget remaining: got %v, want 81.50", s.BudgetRemaining)
	}
	if math.Abs(s.BudgetUsedPercentage-18.50) > 1e-9 {
		t.Fatalf("budget used: got %v, want 18.50", s.BudgetUsedPercentage)
	}
}

func TestSummarizeEmptyWindow(t *testing.T) {
	s := Summarize(nil, january(), BudgetSettings{MonthlyBudget: 50})
	if s.TotalSpent != 0 || s.TotalItems != 0 || s.AverageItemCost != 0 {
		t.Fatalf("empty window should zero the rollup: %+v", s)
	}
	if s.MostExpensiveItem != "" || s.CheapestItem != "" {
		t.Fatalf("no extrema expected: %+v", s)
	}
	if s.BudgetRemaining != 50 || s.BudgetUsedPercentage != 0 {
		t.Fatalf("budget position: got %v / %v, want 50 / 0", s.BudgetRemaining, s.BudgetUsedPercentage)
	}
}

func TestSummarizeZeroBudget(t *testing.T) {
	items := []Item{purchased("Milk", "Dairy", 1, 3.50, "Walmart", "2024-01-16")}
	s := Summarize(items, january(), BudgetSettings{})
	if s.BudgetUsedPercentage != 0 {
		t.Fatalf("unset budget must report 0%% used, got %v", s.BudgetUsedPercentage)
	}
	if s.BudgetRemaining != -3.50 {
		t.Fatalf("budget remaining: got %v, want -3.50", s.BudgetRemaining)
	}
}

func TestSpendingTrend(t *testing.T) {
	items := []Item{
		purchased("Milk", "Dairy", 1, 3.50, "Walmart", "2024-01-18"),
		purchased("Bread", "Bakery", 2, 2.50, "Walmart", "2024-01-18"),
		purchased("Apples", "Produce", 2, 4.50, "Whole Foods", "2024-01-15"),
		purchased("Too Late", "Snacks", 1, 9.99, "Target", "2024-01-20"), // end date itself is excluded
	}

	trend, err := SpendingTrend(items, "2024-01-20", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trend) != 7 {
		t.Fatalf("expected 7 points, got %d", len(trend))
	}
	if trend[0].Date != "2024-01-13" || trend[6].Date != "2024-01-19" {
		t.Fatalf("range: got %s..%s, want 2024-01-13..2024-01-19", trend[0].Date, trend[6].Date)
	}

	byDate := make(map[string]TrendPoint, len(trend))
	for _, p := range trend {
		byDate[p.Date] = p
	}
	if got := byDate["2024-01-18"].Spending; got != 8.50 {
		t.Fatalf("2024-01-18 spending: got %v, want 8.50", got)
	}
	if got := byDate["2024-01-15"].Spending; got != 9.00 {
		t.Fatalf("2024-01-15 spending: got %v, want 9.00", got)
	}
	if got := byDate["2024-01-14"].Spending; got != 0 {
		t.Fatalf("quiet day should be zero-filled, got %v", got)
	}
	if byDate["2024-01-15"].DayOfWeek != "Monday" || byDate["2024-01-19"].DayOfWeek != "Friday" {
		t.Fatalf("weekday names: got %s / %s", byDate["2024-01-15"].DayOfWeek, byDate["2024-01-19"].DayOfWeek)
	}
}

func TestSpendingTrendBadDate(t *testing.T) {
	if _, err := SpendingTrend(nil, "2024-1-5", 7); err == nil {
		t.Fatalf("expected error for malformed end date")
	}
}
