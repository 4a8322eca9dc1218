package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dispensa/internal/config"
	"dispensa/internal/core"
	"dispensa/internal/log"
	"dispensa/internal/services"
	"dispensa/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	return newTestServerWithLimit(t, 60)
}

func newTestServerWithLimit(t *testing.T, perMinute int) *Server {
	t.Helper()

	repo, err := storage.NewRepository(":memory:")
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	items := services.NewItemService(repo, nil)
	analytics := services.NewAnalyticsService(repo)
	reports := services.NewReportService(items, analytics)

	cfg := &config.Config{
		Port:               "0",
		CacheTTL:           time.Minute,
		RateLimitPerMinute: perMinute,
	}
	logger := log.New(log.Config{
		Component: log.ComponentApp,
		Handler:   slog.NewTextHandler(io.Discard, nil),
	})

	srv := NewServer(cfg, logger, items, analytics, reports, repo)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = "203.0.113.10:51234"
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return v
}

func groceryBody() map[string]any {
	return map[string]any{
		"name":           "Organic Apples",
		"category":       "Produce",
		"quantity":       2.0,
		"unit":           "kg",
		"price_per_unit": 4.50,
		"store_name":     "Whole Foods",
	}
}

func createItem(t *testing.T, srv *Server, body map[string]any) core.Item {
	t.Helper()

	rec := do(t, srv, http.MethodPost, "/api/items", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create item status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decodeBody[core.Item](t, rec)
}

func TestCreateAndGetItem(t *testing.T) {
	srv := newTestServer(t)

	created := createItem(t, srv, groceryBody())
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if created.Name != "Organic Apples" {
		t.Errorf("Name = %q", created.Name)
	}

	rec := do(t, srv, http.MethodGet, fmt.Sprintf("/api/items/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	got := decodeBody[core.Item](t, rec)
	if got.Category != "Produce" || got.StoreName != "Whole Foods" {
		t.Errorf("got %+v", got)
	}
}

func TestCreateItemRejectsMissingName(t *testing.T) {
	srv := newTestServer(t)

	body := groceryBody()
	body["name"] = "   "
	rec := do(t, srv, http.MethodPost, "/api/items", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestCreateItemRejectsOverlongName(t *testing.T) {
	srv := newTestServer(t)

	body := groceryBody()
	body["name"] = strings.Repeat("a", core.MaxNameLength+1)
	rec := do(t, srv, http.MethodPost, "/api/items", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	errBody := decodeBody[map[string]string](t, rec)
	if !strings.Contains(errBody["error"], "at most 100") {
		t.Errorf("error = %q", errBody["error"])
	}
}

func TestCreateItemRejectsMalformedJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader("{not json"))
	req.RemoteAddr = "203.0.113.10:51234"
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetItemNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/items/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetItemRejectsMalformedID(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/items/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateItem(t *testing.T) {
	srv := newTestServer(t)
	created := createItem(t, srv, groceryBody())

	body := groceryBody()
	body["price_per_unit"] = 3.99
	body["store_name"] = "Walmart"
	rec := do(t, srv, http.MethodPut, fmt.Sprintf("/api/items/%d", created.ID), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[core.Item](t, rec)
	if updated.PricePerUnit != 3.99 || updated.StoreName != "Walmart" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/api/items/999", groceryBody())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteItem(t *testing.T) {
	srv := newTestServer(t)
	created := createItem(t, srv, groceryBody())

	rec := do(t, srv, http.MethodDelete, fmt.Sprintf("/api/items/%d", created.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = do(t, srv, http.MethodGet, fmt.Sprintf("/api/items/%d", created.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestMarkPurchasedDefaultsToToday(t *testing.T) {
	srv := newTestServer(t)
	created := createItem(t, srv, groceryBody())

	rec := do(t, srv, http.MethodPost, fmt.Sprintf("/api/items/%d/purchase", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	item := decodeBody[core.Item](t, rec)
	if !item.Purchased {
		t.Fatal("expected item purchased")
	}
	if item.PurchaseDate != core.FormatDate(time.Now()) {
		t.Errorf("PurchaseDate = %q", item.PurchaseDate)
	}
}

func TestMarkPurchasedRejectsMalformedDate(t *testing.T) {
	srv := newTestServer(t)
	created := createItem(t, srv, groceryBody())

	rec := do(t, srv, http.MethodPost, fmt.Sprintf("/api/items/%d/purchase", created.ID),
		map[string]string{"purchase_date": "01/15/2024"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestMarkUnpurchased(t *testing.T) {
	srv := newTestServer(t)

	body := groceryBody()
	body["is_purchased"] = true
	body["purchase_date"] = "2024-01-15"
	created := createItem(t, srv, body)

	rec := do(t, srv, http.MethodPost, fmt.Sprintf("/api/items/%d/unpurchase", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	item := decodeBody[core.Item](t, rec)
	if item.Purchased || item.PurchaseDate != "" {
		t.Errorf("item = %+v", item)
	}
}

func TestListItemsFilters(t *testing.T) {
	srv := newTestServer(t)

	milk := groceryBody()
	milk["name"] = "Whole Milk"
	milk["category"] = "Dairy"
	milk["store_name"] = "Walmart"
	milk["is_purchased"] = true
	milk["purchase_date"] = "2024-01-15"
	createItem(t, srv, milk)

	salmon := groceryBody()
	salmon["name"] = "Salmon Fillet"
	salmon["category"] = "Seafood"
	createItem(t, srv, salmon)

	rec := do(t, srv, http.MethodGet, "/api/items?purchased=false", nil)
	items := decodeBody[[]core.Item](t, rec)
	if len(items) != 1 || items[0].Name != "Salmon Fillet" {
		t.Errorf("purchased=false: %+v", items)
	}

	rec = do(t, srv, http.MethodGet, "/api/items?store=Walmart", nil)
	items = decodeBody[[]core.Item](t, rec)
	if len(items) != 1 || items[0].Name != "Whole Milk" {
		t.Errorf("store=Walmart: %+v", items)
	}

	rec = do(t, srv, http.MethodGet, "/api/items?q=milk", nil)
	items = decodeBody[[]core.Item](t, rec)
	if len(items) != 1 || items[0].Name != "Whole Milk" {
		t.Errorf("q=milk: %+v", items)
	}
}

func TestBudgetRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/budget", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get budget status = %d", rec.Code)
	}
	budget := decodeBody[core.BudgetSettings](t, rec)
	if budget.WeeklyBudget != 0 || budget.MonthlyBudget != 0 {
		t.Errorf("initial budget = %+v", budget)
	}

	rec = do(t, srv, http.MethodPut, "/api/budget/weekly", map[string]float64{"amount": 100})
	if rec.Code != http.StatusOK {
		t.Fatalf("set weekly status = %d", rec.Code)
	}
	budget = decodeBody[core.BudgetSettings](t, rec)
	if budget.WeeklyBudget != 100 {
		t.Errorf("WeeklyBudget = %v", budget.WeeklyBudget)
	}

	rec = do(t, srv, http.MethodPut, "/api/budget/monthly", map[string]float64{"amount": 400})
	budget = decodeBody[core.BudgetSettings](t, rec)
	if budget.MonthlyBudget != 400 {
		t.Errorf("MonthlyBudget = %v", budget.MonthlyBudget)
	}
}

func TestBudgetRejectsNegativeAmount(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/api/budget/weekly", map[string]float64{"amount": -5})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

type spendingResponse struct {
	TotalSpent float64     `json:"total_spent"`
	Window     core.Window `json:"window"`
}

func TestWeeklySpendingEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body := groceryBody()
	body["quantity"] = 2.0
	body["price_per_unit"] = 5.0
	body["is_purchased"] = true
	body["purchase_date"] = "2024-01-17"
	createItem(t, srv, body)

	rec := do(t, srv, http.MethodGet, "/api/spending/weekly?date=2024-01-15", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[spendingResponse](t, rec)
	if resp.TotalSpent != 10.0 {
		t.Errorf("TotalSpent = %v", resp.TotalSpent)
	}
	if resp.Window.Start != "2024-01-15" || resp.Window.End != "2024-01-21" {
		t.Errorf("window = %+v", resp.Window)
	}
}

func TestSpendingRejectsMalformedDate(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/spending/weekly?date=Jan-15", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestAlertsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPut, "/api/budget/weekly", map[string]float64{"amount": 50})

	body := groceryBody()
	body["name"] = "Ribeye Steak"
	body["quantity"] = 2.0
	body["price_per_unit"] = 30.0
	body["is_purchased"] = true
	body["purchase_date"] = "2024-01-15"
	createItem(t, srv, body)

	rec := do(t, srv, http.MethodGet, "/api/alerts?date=2024-01-15", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeBody[struct {
		Alerts []core.Alert `json:"alerts"`
		Count  int          `json:"count"`
	}](t, rec)
	if resp.Count == 0 {
		t.Fatal("expected alerts for exceeded weekly budget")
	}
	if resp.Alerts[0].Type != core.AlertExceeded {
		t.Errorf("first alert = %+v", resp.Alerts[0])
	}
}

func TestTrendClampsDays(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/trend?days=9999", nil)
	resp := decodeBody[struct {
		Days   int              `json:"days"`
		Points []core.TrendPoint `json:"points"`
	}](t, rec)
	if resp.Days != 365 {
		t.Errorf("days = %d, want 365", resp.Days)
	}
	if len(resp.Points) != 365 {
		t.Errorf("points = %d", len(resp.Points))
	}

	rec = do(t, srv, http.MethodGet, "/api/trend?days=abc", nil)
	resp = decodeBody[struct {
		Days   int              `json:"days"`
		Points []core.TrendPoint `json:"points"`
	}](t, rec)
	if resp.Days != 30 {
		t.Errorf("days = %d, want 30", resp.Days)
	}
}

func TestReportEndpoint(t *testing.T) {
	srv := newTestServer(t)
	createItem(t, srv, groceryBody())

	rec := do(t, srv, http.MethodGet, "/api/report", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "GROCERY LIST & EXPENSE SUMMARY") {
		t.Error("report header missing")
	}
}

func TestResponseCacheServesAndInvalidates(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/stats", nil)
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("first X-Cache = %q", got)
	}

	rec = do(t, srv, http.MethodGet, "/api/stats", nil)
	if got := rec.Header().Get("X-Cache"); got != "HIT" {
		t.Fatalf("second X-Cache = %q", got)
	}

	createItem(t, srv, groceryBody())

	rec = do(t, srv, http.MethodGet, "/api/stats", nil)
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("X-Cache after write = %q", got)
	}
	stats := decodeBody[core.Stats](t, rec)
	if stats.TotalItems != 1 {
		t.Errorf("TotalItems = %d, want 1", stats.TotalItems)
	}
}

func TestRateLimitOnMutations(t *testing.T) {
	srv := newTestServerWithLimit(t, 2)

	for i := 0; i < 2; i++ {
		rec := do(t, srv, http.MethodPut, "/api/budget/weekly", map[string]float64{"amount": 10})
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, rec.Code)
		}
	}

	rec := do(t, srv, http.MethodPut, "/api/budget/weekly", map[string]float64{"amount": 10})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}

	// Reads are not limited.
	rec = do(t, srv, http.MethodGet, "/api/budget", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("read after limit status = %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/budget", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("missing Content-Security-Policy")
	}
	if id := rec.Header().Get("X-Request-ID"); !strings.HasPrefix(id, "req_") {
		t.Errorf("X-Request-ID = %q", id)
	}
}

func TestHealthAndReadiness(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d", rec.Code)
	}
	ready := decodeBody[struct {
		Status string         `json:"status"`
		Checks map[string]any `json:"checks"`
	}](t, rec)
	if ready.Status != "ready" {
		t.Errorf("status = %q", ready.Status)
	}
	if ready.Checks["database"] != "ok" {
		t.Errorf("database check = %v", ready.Checks["database"])
	}
}

func TestReadinessFailsWhenStoreDown(t *testing.T) {
	srv := newTestServer(t)
	_ = srv.store.Close()

	rec := do(t, srv, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodGet, "/api/budget", nil)
	do(t, srv, http.MethodGet, "/api/items?q=../etc/passwd", nil)

	rec := do(t, srv, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"http_requests_total",
		"cache_hits_total",
		"suspicious_requests_total 1",
		"uptime_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestStoreFailureMapsTo503(t *testing.T) {
	srv := newTestServer(t)
	_ = srv.store.Close()

	rec := do(t, srv, http.MethodGet, "/api/summary", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
