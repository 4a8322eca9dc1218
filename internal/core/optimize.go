package core

import (
	"fmt"
	"sort"
)

type (
	// ExpensiveItem flags a purchased item priced well above the mean.
	ExpensiveItem struct {
		Name       string  `json:"name"`
		Price      float64 `json:"price"`
		Category   string  `json:"category"`
		StoreName  string  `json:"store_name"`
		Suggestion string  `json:"suggestion"`
	}

	// CategorySpend flags a category whose total spend is well above
	// the mean category total.
	CategorySpend struct {
		Category   string  `json:"category"`
		TotalSpent float64 `json:"total_spent"`
		Suggestion string  `json:"suggestion"`
	}

	// Suggestions bundles both optimization detections.
	Suggestions struct {
		ExpensiveItems      []ExpensiveItem `json:"expensive_items"`
		HighSpendCategories []CategorySpend `json:"high_spending_categories"`
	}

	// StoreComparison reports the price spread for one (name, category)
	// pair observed in at least two distinct stores.
	StoreComparison struct {
		Item               string  `json:"item"`
		Category           string  `json:"category"`
		CheapestStore      string  `json:"cheapest_store"`
		CheapestPrice      float64 `json:"cheapest_price"`
		MostExpensiveStore string  `json:"most_expensive_store"`
		MostExpensivePrice float64 `json:"most_expensive_price"`
		PotentialSavings   float64 `json:"potential_savings"`
		SavingsPercentage  float64 `json:"savings_percentage"`
	}
)

const (
	expensiveItemFactor = 1.5
	highCategoryFactor  = 1.2
	expensiveItemLimit  = 5
)

// ExpensiveItems flags purchased items priced above 1.5x the mean
// price per unit, most expensive first, capped at five.
func ExpensiveItems(items []Item) []ExpensiveItem {
	var purchased []Item
	var sum float64
	for _, it := range items {
		if it.Purchased {
			purchased = append(purchased, it)
			sum += it.PricePerUnit
		}
	}
	if len(purchased) == 0 {
		return nil
	}
	bar := sum / float64(len(purchased)) * expensiveItemFactor

	var flagged []Item
	for _, it := range purchased {
		if it.PricePerUnit > bar {
			flagged = append(flagged, it)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool { return flagged[i].PricePerUnit > flagged[j].PricePerUnit })
	if len(flagged) > expensiveItemLimit {
		flagged = flagged[:expensiveItemLimit]
	}

	out := make([]ExpensiveItem, 0, len(flagged))
	for _, it := range flagged {
		out = append(out, ExpensiveItem{
			Name:       it.Name,
			Price:      it.PricePerUnit,
			Category:   it.Category,
			StoreName:  it.StoreName,
			Suggestion: fmt.Sprintf("Consider buying %s from a different store or look for sales", it.Name),
		})
	}
	return out
}

// HighSpendCategories flags categories whose purchased total exceeds
// 1.2x the mean of all category totals, biggest spender first.
func HighSpendCategories(items []Item) []CategorySpend {
	totals := make(map[string]float64)
	var order []string
	for _, it := range items {
		if !it.Purchased {
			continue
		}
		if _, seen := totals[it.Category]; !seen {
			order = append(order, it.Category)
		}
		totals[it.Category] += it.TotalCost()
	}
	if len(order) == 0 {
		return nil
	}

	var sum float64
	for _, t := range totals {
		sum += t
	}
	bar := sum / float64(len(order)) * highCategoryFactor

	var out []CategorySpend
	for _, cat := range order {
		if totals[cat] > bar {
			out = append(out, CategorySpend{
				Category:   cat,
				TotalSpent: totals[cat],
				Suggestion: fmt.Sprintf("Consider reducing spending in %s category or look for bulk discounts", cat),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalSpent > out[j].TotalSpent })
	return out
}

// OptimizationSuggestions runs both detections over the same snapshot.
func OptimizationSuggestions(items []Item) Suggestions {
	return Suggestions{
		ExpensiveItems:      ExpensiveItems(items),
		HighSpendCategories: HighSpendCategories(items),
	}
}

// CompareStores finds (name, category) pairs purchased from at least
// two distinct stores and reports the cheapest and most expensive
// price seen for each. Results keep the first-encounter group order;
// callers sort by PotentialSavings when presenting a top-N.
func CompareStores(items []Item) []StoreComparison {
	type pairKey struct{ name, category string }
	type priced struct {
		store string
		price float64
	}

	groups := make(map[pairKey][]priced)
	var order []pairKey
	for _, it := range items {
		if !it.Purchased {
			continue
		}
		k := pairKey{it.Name, it.Category}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], priced{store: it.StoreName, price: it.PricePerUnit})
	}

	var out []StoreComparison
	for _, k := range order {
		entries := groups[k]

		distinct := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			distinct[e.store] = struct{}{}
		}
		if len(distinct) < 2 {
			continue
		}

		cheapest, dearest := entries[0], entries[0]
		for _, e := range entries[1:] {
			if e.price < cheapest.price {
				cheapest = e
			}
			if e.price > dearest.price {
				dearest = e
			}
		}

		savings := dearest.price - cheapest.price
		out = append(out, StoreComparison{
			Item:               k.name,
			Category:           k.category,
			CheapestStore:      cheapest.store,
			CheapestPrice:      cheapest.price,
			MostExpensiveStore: dearest.store,
			MostExpensivePrice: dearest.price,
			PotentialSavings:   savings,
			SavingsPercentage:  percentage(savings, dearest.price),
		})
	}
	return out
}
