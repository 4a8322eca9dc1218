package http

import (
	"errors"
	"net/http"

	"dispensa/internal/core"
	"dispensa/internal/log"
	"dispensa/internal/services"
)

func (s *Server) handleWeeklySpending(w http.ResponseWriter, r *http.Request) {
	total, window, err := s.analytics.WeeklySpending(r.Context(), parseDateQuery(r.URL.Query()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_spent": total,
		"window":      window,
	})
}

func (s *Server) handleMonthlySpending(w http.ResponseWriter, r *http.Request) {
	total, window, err := s.analytics.MonthlySpending(r.Context(), parseDateQuery(r.URL.Query()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_spent": total,
		"window":      window,
	})
}

func (s *Server) handleSpendingByCategory(w http.ResponseWriter, r *http.Request) {
	categories, window, err := s.analytics.SpendingByCategory(r.Context(), parseDateQuery(r.URL.Query()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if categories == nil {
		categories = []core.CategorySummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"window":     window,
		"categories": categories,
	})
}

func (s *Server) handleSpendingByStore(w http.ResponseWriter, r *http.Request) {
	stores, window, err := s.analytics.SpendingByStore(r.Context(), parseDateQuery(r.URL.Query()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if stores == nil {
		stores = []core.StoreSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"window": window,
		"stores": stores,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, window, err := s.analytics.Summary(r.Context(), parseDateQuery(r.URL.Query()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"window":  window,
		"summary": summary,
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.analytics.Alerts(r.Context(), parseDateQuery(r.URL.Query()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if alerts == nil {
		alerts = []core.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.analytics.Suggestions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if suggestions.ExpensiveItems == nil {
		suggestions.ExpensiveItems = []core.ExpensiveItem{}
	}
	if suggestions.HighSpendCategories == nil {
		suggestions.HighSpendCategories = []core.CategorySpend{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) handleComparisons(w http.ResponseWriter, r *http.Request) {
	comparisons, err := s.analytics.StoreComparisons(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if comparisons == nil {
		comparisons = []core.StoreComparison{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"comparisons": comparisons,
		"count":       len(comparisons),
	})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	days := parseDays(r.URL.Query())
	points, err := s.analytics.Trend(r.Context(), days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if points == nil {
		points = []core.TrendPoint{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"days":   days,
		"points": points,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.items.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleReport serves the rendered plain-text report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	text, err := s.reports.Render(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrStoreUnavailable) {
			http.Error(w, "record store unavailable", http.StatusServiceUnavailable)
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Report rendering failed",
			log.FieldError, err.Error(),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
