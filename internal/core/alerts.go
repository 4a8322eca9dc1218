package core

import (
	"fmt"
	"sort"
	"strings"
)

// AlertType tags a budget alert.
type AlertType string

const (
	AlertExceeded   AlertType = "exceeded"
	AlertWarning    AlertType = "warning"
	AlertSuggestion AlertType = "suggestion"
)

// Alert is an informational budget notice. It carries no side
// effects: nothing is persisted and no purchase is blocked.
type Alert struct {
	Type       AlertType `json:"alert_type"`
	Message    string    `json:"message"`
	Amount     float64   `json:"amount"`
	Percentage float64   `json:"percentage"`
}

const (
	warningThresholdPercent  = 80
	exceededThresholdPercent = 100

	// Fixed price bar for the cheaper-alternatives suggestion,
	// deliberately not derived from the dataset.
	suggestionPriceThreshold = 10.0
	suggestionItemLimit      = 3
)

// BudgetAlerts evaluates the configured budgets against spending and
// appends the high-price suggestion. Monthly is checked first, then
// weekly; the two periods are independent, and a period with a zero
// budget is skipped entirely.
func BudgetAlerts(monthlySpending, weeklySpending float64, budget BudgetSettings, items []Item) []Alert {
	var alerts []Alert

	if a, ok := periodAlert("Monthly", monthlySpending, budget.MonthlyBudget, " Consider reducing spending."); ok {
		alerts = append(alerts, a)
	}
	if a, ok := periodAlert("Weekly", weeklySpending, budget.WeeklyBudget, ""); ok {
		alerts = append(alerts, a)
	}
	if a, ok := priceSuggestion(items); ok {
		alerts = append(alerts, a)
	}
	return alerts
}

func periodAlert(period string, spending, budget float64, warningSuffix string) (Alert, bool) {
	if budget <= 0 {
		return Alert{}, false
	}
	used := spending / budget * 100

	switch {
	case used >= exceededThresholdPercent:
		overage := spending - budget
		return Alert{
			Type:       AlertExceeded,
			Message:    fmt.Sprintf("%s budget exceeded by %s", period, FormatDollars(overage)),
			Amount:     overage,
			Percentage: used,
		}, true
	case used >= warningThresholdPercent:
		return Alert{
			Type:       AlertWarning,
			Message:    fmt.Sprintf("%s budget %.1f%% used.%s", period, used, warningSuffix),
			Amount:     spending,
			Percentage: used,
		}, true
	}
	return Alert{}, false
}

// priceSuggestion lists up to three purchased items above the fixed
// price threshold, most expensive first.
func priceSuggestion(items []Item) (Alert, bool) {
	var pricey []Item
	for _, it := range items {
		if it.Purchased && it.PricePerUnit > suggestionPriceThreshold {
			pricey = append(pricey, it)
		}
	}
	if len(pricey) == 0 {
		return Alert{}, false
	}
	sort.SliceStable(pricey, func(i, j int) bool { return pricey[i].PricePerUnit > pricey[j].PricePerUnit })
	if len(pricey) > suggestionItemLimit {
		pricey = pricey[:suggestionItemLimit]
	}

	parts := make([]string, len(pricey))
	for i, it := range pricey {
		parts[i] = fmt.Sprintf("%s ($%.2f/%s)", it.Name, it.PricePerUnit, it.Category)
	}
	return Alert{
		Type:    AlertSuggestion,
		Message: "Consider cheaper alternatives for: " + strings.Join(parts, ", "),
	}, true
}
