package services

import (
	"context"
	"fmt"
	"time"

	"dispensa/internal/core"
	"dispensa/internal/storage"
)

// AnalyticsService answers spending questions by loading a snapshot of
// items from storage and delegating to the pure aggregation functions
// in core. Storage failures surface as ErrStoreUnavailable rather than
// empty aggregates, so callers can distinguish "no spending" from "no
// answer".
type AnalyticsService struct {
	storage *storage.Repository
}

func NewAnalyticsService(storage *storage.Repository) *AnalyticsService {
	return &AnalyticsService{storage: storage}
}

// snapshot loads every item. Aggregations filter by purchase state and
// window themselves, so one unfiltered read serves them all.
func (s *AnalyticsService) snapshot(ctx context.Context) ([]core.Item, error) {
	items, err := s.storage.ListItems(ctx, storage.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return items, nil
}

func (s *AnalyticsService) budget(ctx context.Context) (core.BudgetSettings, error) {
	settings, err := s.storage.BudgetSettings(ctx)
	if err != nil {
		return core.BudgetSettings{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return settings, nil
}

// resolveDate defaults an empty reference date to today and rejects
// anything that is not an ISO calendar date.
func resolveDate(date string) (string, error) {
	if date == "" {
		return core.FormatDate(time.Now()), nil
	}
	if _, err := core.ParseDate(date); err != nil {
		return "", err
	}
	return date, nil
}

// WeeklySpending returns the total spent in the Monday-based week
// containing date, along with the resolved window.
func (s *AnalyticsService) WeeklySpending(ctx context.Context, date string) (float64, core.Window, error) {
	date, err := resolveDate(date)
	if err != nil {
		return 0, core.Window{}, err
	}
	window, err := core.WeekWindow(date)
	if err != nil {
		return 0, core.Window{}, err
	}
	items, err := s.snapshot(ctx)
	if err != nil {
		return 0, core.Window{}, err
	}
	return core.SpendingInWindow(items, window), window, nil
}

// MonthlySpending returns the total spent in the calendar month
// containing date, along with the resolved window.
func (s *AnalyticsService) MonthlySpending(ctx context.Context, date string) (float64, core.Window, error) {
	date, err := resolveDate(date)
	if err != nil {
		return 0, core.Window{}, err
	}
	window, err := core.MonthWindow(date)
	if err != nil {
		return 0, core.Window{}, err
	}
	items, err := s.snapshot(ctx)
	if err != nil {
		return 0, core.Window{}, err
	}
	return core.SpendingInWindow(items, window), window, nil
}

// SpendingByCategory breaks the month containing date down by category.
func (s *AnalyticsService) SpendingByCategory(ctx context.Context, date string) ([]core.CategorySummary, core.Window, error) {
	date, err := resolveDate(date)
	if err != nil {
		return nil, core.Window{}, err
	}
	window, err := core.MonthWindow(date)
	if err != nil {
		return nil, core.Window{}, err
	}
	items, err := s.snapshot(ctx)
	if err != nil {
		return nil, core.Window{}, err
	}
	return core.SpendingByCategory(items, window), window, nil
}

// SpendingByStore breaks the month containing date down by store.
func (s *AnalyticsService) SpendingByStore(ctx context.Context, date string) ([]core.StoreSummary, core.Window, error) {
	date, err := resolveDate(date)
	if err != nil {
		return nil, core.Window{}, err
	}
	window, err := core.MonthWindow(date)
	if err != nil {
		return nil, core.Window{}, err
	}
	items, err := s.snapshot(ctx)
	if err != nil {
		return nil, core.Window{}, err
	}
	return core.SpendingByStore(items, window), window, nil
}

// Summary rolls up the month containing date, including the budget
// position against the monthly budget.
func (s *AnalyticsService) Summary(ctx context.Context, date string) (core.ExpenseSummary, core.Window, error) {
	date, err := resolveDate(date)
	if err != nil {
		return core.ExpenseSummary{}, core.Window{}, err
	}
	window, err := core.MonthWindow(date)
	if err != nil {
		return core.ExpenseSummary{}, core.Window{}, err
	}
	items, err := s.snapshot(ctx)
	if err != nil {
		return core.ExpenseSummary{}, core.Window{}, err
	}
	budget, err := s.budget(ctx)
	if err != nil {
		return core.ExpenseSummary{}, core.Window{}, err
	}
	return core.Summarize(items, window, budget), window, nil
}

// Alerts evaluates the weekly and monthly budgets for the periods
// containing date and appends the price-drop suggestion when it fires.
func (s *AnalyticsService) Alerts(ctx context.Context, date string) ([]core.Alert, error) {
	date, err := resolveDate(date)
	if err != nil {
		return nil, err
	}
	weekWindow, err := core.WeekWindow(date)
	if err != nil {
		return nil, err
	}
	monthWindow, err := core.MonthWindow(date)
	if err != nil {
		return nil, err
	}
	items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	budget, err := s.budget(ctx)
	if err != nil {
		return nil, err
	}

	weekly := core.SpendingInWindow(items, weekWindow)
	monthly := core.SpendingInWindow(items, monthWindow)
	return core.BudgetAlerts(monthly, weekly, budget, items), nil
}

// Suggestions returns the all-time cost optimization report.
func (s *AnalyticsService) Suggestions(ctx context.Context) (core.Suggestions, error) {
	items, err := s.snapshot(ctx)
	if err != nil {
		return core.Suggestions{}, err
	}
	return core.OptimizationSuggestions(items), nil
}

// StoreComparisons returns per-item price differences across stores,
// all-time.
func (s *AnalyticsService) StoreComparisons(ctx context.Context) ([]core.StoreComparison, error) {
	items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return core.CompareStores(items), nil
}

// Trend returns one point per day for the days-long stretch ending
// yesterday, oldest first.
func (s *AnalyticsService) Trend(ctx context.Context, days int) ([]core.TrendPoint, error) {
	items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return core.SpendingTrend(items, core.FormatDate(time.Now()), days)
}
