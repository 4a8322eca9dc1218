package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"dispensa/internal/report"
	"dispensa/internal/storage"
)

// ReportService assembles the full text-report dataset. The queries
// are independent reads, so they fan out concurrently; any failure
// aborts the whole report rather than rendering partial numbers.
type ReportService struct {
	items     *ItemService
	analytics *AnalyticsService
}

func NewReportService(items *ItemService, analytics *AnalyticsService) *ReportService {
	return &ReportService{
		items:     items,
		analytics: analytics,
	}
}

// Assemble gathers every report section as of now.
func (s *ReportService) Assemble(ctx context.Context) (report.Data, error) {
	data := report.Data{GeneratedAt: time.Now()}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.items.Stats(ctx)
		if err != nil {
			return err
		}
		data.Stats = stats
		return nil
	})
	g.Go(func() error {
		budget, err := s.items.BudgetSettings(ctx)
		if err != nil {
			return err
		}
		data.Budget = budget
		return nil
	})
	g.Go(func() error {
		total, _, err := s.analytics.WeeklySpending(ctx, "")
		if err != nil {
			return err
		}
		data.WeeklySpending = total
		return nil
	})
	g.Go(func() error {
		total, _, err := s.analytics.MonthlySpending(ctx, "")
		if err != nil {
			return err
		}
		data.MonthlySpending = total
		return nil
	})
	g.Go(func() error {
		summary, _, err := s.analytics.Summary(ctx, "")
		if err != nil {
			return err
		}
		data.Summary = summary
		return nil
	})
	g.Go(func() error {
		alerts, err := s.analytics.Alerts(ctx, "")
		if err != nil {
			return err
		}
		data.Alerts = alerts
		return nil
	})
	g.Go(func() error {
		categories, _, err := s.analytics.SpendingByCategory(ctx, "")
		if err != nil {
			return err
		}
		data.Categories = categories
		return nil
	})
	g.Go(func() error {
		stores, _, err := s.analytics.SpendingByStore(ctx, "")
		if err != nil {
			return err
		}
		data.Stores = stores
		return nil
	})
	g.Go(func() error {
		suggestions, err := s.analytics.Suggestions(ctx)
		if err != nil {
			return err
		}
		data.Suggestions = suggestions
		return nil
	})
	g.Go(func() error {
		comparisons, err := s.analytics.StoreComparisons(ctx)
		if err != nil {
			return err
		}
		data.Comparisons = comparisons
		return nil
	})
	g.Go(func() error {
		unpurchased := false
		items, err := s.items.ListItems(ctx, storage.ListFilter{Purchased: &unpurchased})
		if err != nil {
			return err
		}
		data.Unpurchased = items
		return nil
	})

	if err := g.Wait(); err != nil {
		return report.Data{}, fmt.Errorf("assemble report: %w", err)
	}
	return data, nil
}

// Render assembles and renders the plain-text report.
func (s *ReportService) Render(ctx context.Context) (string, error) {
	data, err := s.Assemble(ctx)
	if err != nil {
		return "", err
	}
	return report.Render(data), nil
}
