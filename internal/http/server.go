// Package http exposes the grocery list and expense analytics as a
// JSON API over net/http, with a plain-text report endpoint on the
// side. Read-heavy analytics answers come from an LRU+TTL response
// cache that every mutation purges.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"dispensa/internal/cache"
	"dispensa/internal/config"
	"dispensa/internal/log"
	"dispensa/internal/services"
	"dispensa/internal/storage"
)

// serverMetrics tracks request and cache counters for /metrics.
type serverMetrics struct {
	totalRequests      int64
	itemWrites         int64
	cacheHits          int64
	cacheMisses        int64
	suspiciousRequests int64
	startedAt          time.Time
}

// Server wraps http.Server with the services, response cache, and
// middleware state the handlers need.
type Server struct {
	http.Server

	items     *services.ItemService
	analytics *services.AnalyticsService
	reports   *services.ReportService
	store     *storage.Repository

	logger      *log.Logger
	rateLimiter *rateLimiter

	respCache    *cache.LRUCache[[]byte]
	cacheManager *cache.Manager

	metrics      serverMetrics
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a server ready
// for ListenAndServe.
func NewServer(cfg *config.Config, logger *log.Logger, items *services.ItemService, analytics *services.AnalyticsService, reports *services.ReportService, store *storage.Repository) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		items:        items,
		analytics:    analytics,
		reports:      reports,
		store:        store,
		logger:       logger.WithComponent(log.ComponentHTTP),
		rateLimiter:  newRateLimiter(cfg.RateLimitPerMinute),
		respCache:    cache.NewLRUCache[[]byte](200, cfg.CacheTTL),
		cacheManager: cache.NewManager(),
		metrics:      serverMetrics{startedAt: time.Now()},
	}

	s.cacheManager.Register(s.respCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Items
	mux.HandleFunc("POST /api/items", s.with(s.handleCreateItem))
	mux.HandleFunc("GET /api/items", s.with(s.handleListItems))
	mux.HandleFunc("GET /api/items/{id}", s.with(s.handleGetItem))
	mux.HandleFunc("PUT /api/items/{id}", s.with(s.handleUpdateItem))
	mux.HandleFunc("DELETE /api/items/{id}", s.with(s.handleDeleteItem))
	mux.HandleFunc("POST /api/items/{id}/purchase", s.with(s.handleMarkPurchased))
	mux.HandleFunc("POST /api/items/{id}/unpurchase", s.with(s.handleMarkUnpurchased))

	// Budget
	mux.HandleFunc("GET /api/budget", s.with(s.handleGetBudget))
	mux.HandleFunc("PUT /api/budget/weekly", s.with(s.handleSetWeeklyBudget))
	mux.HandleFunc("PUT /api/budget/monthly", s.with(s.handleSetMonthlyBudget))

	// Analytics (cached reads)
	mux.HandleFunc("GET /api/spending/weekly", s.with(s.cached(s.handleWeeklySpending)))
	mux.HandleFunc("GET /api/spending/monthly", s.with(s.cached(s.handleMonthlySpending)))
	mux.HandleFunc("GET /api/spending/categories", s.with(s.cached(s.handleSpendingByCategory)))
	mux.HandleFunc("GET /api/spending/stores", s.with(s.cached(s.handleSpendingByStore)))
	mux.HandleFunc("GET /api/summary", s.with(s.cached(s.handleSummary)))
	mux.HandleFunc("GET /api/alerts", s.with(s.cached(s.handleAlerts)))
	mux.HandleFunc("GET /api/suggestions", s.with(s.cached(s.handleSuggestions)))
	mux.HandleFunc("GET /api/comparisons", s.with(s.cached(s.handleComparisons)))
	mux.HandleFunc("GET /api/trend", s.with(s.cached(s.handleTrend)))
	mux.HandleFunc("GET /api/stats", s.with(s.cached(s.handleStats)))

	// Report is assembled fresh each time; the timestamp in the header
	// would make cached copies lie about their age.
	mux.HandleFunc("GET /api/report", s.with(s.handleReport))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	return s
}

// Shutdown stops the background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady checks the dependencies a working deployment needs. The
// database check is the one that matters; the rest report state.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		checks["database"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	checks["cache"] = map[string]any{
		"entries": s.respCache.Size(),
		"status":  "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics exposes counters in Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", atomic.LoadInt64(&s.metrics.totalRequests))

	fmt.Fprintf(w, "# HELP item_writes_total Total item and budget mutations\n")
	fmt.Fprintf(w, "# TYPE item_writes_total counter\n")
	fmt.Fprintf(w, "item_writes_total %d\n\n", atomic.LoadInt64(&s.metrics.itemWrites))

	fmt.Fprintf(w, "# HELP cache_hits_total Total response cache hits\n")
	fmt.Fprintf(w, "# TYPE cache_hits_total counter\n")
	fmt.Fprintf(w, "cache_hits_total %d\n\n", atomic.LoadInt64(&s.metrics.cacheHits))

	fmt.Fprintf(w, "# HELP cache_misses_total Total response cache misses\n")
	fmt.Fprintf(w, "# TYPE cache_misses_total counter\n")
	fmt.Fprintf(w, "cache_misses_total %d\n\n", atomic.LoadInt64(&s.metrics.cacheMisses))

	fmt.Fprintf(w, "# HELP cache_entries Current response cache entries\n")
	fmt.Fprintf(w, "# TYPE cache_entries gauge\n")
	fmt.Fprintf(w, "cache_entries %d\n\n", s.respCache.Size())

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total requests rejected by the rate limiter\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", s.rateLimiter.Hits())

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", s.rateLimiter.ActiveClients())

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", atomic.LoadInt64(&s.metrics.suspiciousRequests))

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.metrics.startedAt).Seconds())
}
