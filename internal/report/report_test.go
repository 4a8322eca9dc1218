package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"dispensa/internal/core"
)

func sampleData() Data {
	return Data{
		GeneratedAt: time.Date(2024, 1, 20, 15, 4, 0, 0, time.UTC),
		Stats: core.Stats{
			TotalItems:       12,
			PurchasedItems:   10,
			UnpurchasedItems: 2,
		},
		Budget:          core.BudgetSettings{WeeklyBudget: 100, MonthlyBudget: 400},
		WeeklySpending:  55,
		MonthlySpending: 123.45,
		Summary: core.ExpenseSummary{
			TotalSpent:        123.45,
			TotalItems:        10,
			AverageItemCost:   12.35,
			MostExpensiveItem: "Shampoo",
			MostExpensiveCost: 12.99,
			CheapestItem:      "Bread",
			CheapestCost:      2.50,
		},
		Alerts: []core.Alert{
			{Type: core.AlertExceeded, Message: "Weekly budget exceeded by $5.00"},
			{Type: core.AlertSuggestion, Message: "Consider cheaper alternatives for: Shampoo ($12.99/Household)"},
		},
		Categories: []core.CategorySummary{
			{Category: "Produce", TotalSpent: 50, ItemCount: 4, PercentageOfTotal: 40.5},
		},
		Stores: []core.StoreSummary{
			{StoreName: "Walmart", TotalSpent: 70, ItemCount: 6, PercentageOfTotal: 56.7},
		},
		Suggestions: core.Suggestions{
			ExpensiveItems: []core.ExpensiveItem{
				{Name: "Shampoo", Suggestion: "Consider buying Shampoo from a different store or look for sales"},
			},
		},
		Comparisons: []core.StoreComparison{
			{Item: "Whole Milk", CheapestStore: "Walmart", CheapestPrice: 3.50,
				MostExpensiveStore: "Whole Foods", MostExpensivePrice: 4.25,
				PotentialSavings: 0.75, SavingsPercentage: 17.6},
		},
		Unpurchased: []core.Item{
			{Name: "Salmon Fillet", Quantity: 1, PricePerUnit: 15.99},
			{Name: "Coffee Beans", Quantity: 1, PricePerUnit: 9.99},
		},
	}
}

func TestRenderFullReport(t *testing.T) {
	out := Render(sampleData())

	for _, want := range []string{
		"GROCERY LIST & EXPENSE SUMMARY",
		"Generated on: January 20, 2024 at 3:04 PM",
		"Total Items: 12",
		"Purchased Items: 10",
		"Total Cost: $123.45",
		"Weekly Budget: $100.00",
		"Weekly Spending: $55.00 (55.0%)",
		"Monthly Remaining: $276.55",
		"[!] Weekly budget exceeded by $5.00",
		"Produce: $50.00 (4 items, 40.5%)",
		"Walmart: $70.00 (6 items, 56.7%)",
		"Shampoo: $12.99",
		"Bread: $2.50",
		"Total Unpurchased Cost: $25.98",
		"  - Salmon Fillet - $15.99",
		"[*] Consider buying Shampoo from a different store or look for sales",
		"Whole Milk: $3.50 at Walmart vs $4.25 at Whole Foods (save $0.75, 17.6%)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	out := Render(Data{GeneratedAt: time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)})

	for _, absent := range []string{
		"BUDGET INFORMATION",
		"BUDGET ALERTS",
		"SPENDING BY CATEGORY",
		"SPENDING BY STORE",
		"MOST EXPENSIVE ITEM",
		"CHEAPEST ITEM",
		"UNPURCHASED ITEMS",
		"COST OPTIMIZATION SUGGESTIONS",
		"STORE COMPARISONS",
	} {
		if strings.Contains(out, absent) {
			t.Errorf("empty report should omit %q\n%s", absent, out)
		}
	}
	if !strings.Contains(out, "OVERALL SUMMARY") {
		t.Error("overall summary should always render")
	}
}

func TestRenderTruncatesUnpurchasedList(t *testing.T) {
	d := Data{GeneratedAt: time.Now()}
	for i := 0; i < 13; i++ {
		d.Unpurchased = append(d.Unpurchased, core.Item{
			Name:         fmt.Sprintf("Item %02d", i),
			Quantity:     1,
			PricePerUnit: 1,
		})
	}

	out := Render(d)
	if !strings.Contains(out, "Item 09") {
		t.Error("expected the tenth item to render")
	}
	if strings.Contains(out, "Item 10") {
		t.Error("expected the eleventh item to be cut")
	}
	if !strings.Contains(out, "... and 3 more items") {
		t.Errorf("expected overflow note\n%s", out)
	}
}

func TestRenderRanksComparisonsBySavings(t *testing.T) {
	d := Data{GeneratedAt: time.Now()}
	for i := 0; i < 7; i++ {
		d.Comparisons = append(d.Comparisons, core.StoreComparison{
			Item:               fmt.Sprintf("Item %d", i),
			CheapestStore:      "A",
			MostExpensiveStore: "B",
			PotentialSavings:   float64(i),
		})
	}

	out := Render(d)
	if !strings.Contains(out, "Item 6") {
		t.Error("expected the biggest saving to render")
	}
	if strings.Contains(out, "Item 1:") {
		t.Error("expected small savings beyond the cap to be cut")
	}
	first := strings.Index(out, "Item 6")
	second := strings.Index(out, "Item 5")
	if first == -1 || second == -1 || first > second {
		t.Error("expected comparisons ordered by savings, best first")
	}
}
