package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dispensa/internal/core"
	"dispensa/internal/storage"
)

const maxBodyBytes = 1 << 20 // 1 MB

// sanitizeInput removes control characters from user input, keeping
// tab, newline, and carriage return.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		if r == 127 {
			return -1
		}
		return r
	}, s)
}

// decodeJSON reads a bounded JSON body into v. An empty body decodes
// to the zero value so optional-body endpoints stay tolerant.
func decodeJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// parseItemID extracts the {id} path segment.
func parseItemID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid item id")
	}
	return id, nil
}

// itemRequest is the wire form of an item create or update.
type itemRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	PricePerUnit float64 `json:"price_per_unit"`
	StoreName    string  `json:"store_name"`
	Purchased    bool    `json:"is_purchased"`
	PurchaseDate string  `json:"purchase_date"`
	Notes        string  `json:"notes"`
}

// check enforces the boundary length caps and reports the first
// violation as a client-facing message.
func (req *itemRequest) check() string {
	limits := []struct {
		field string
		value string
		max   int
	}{
		{"name", req.Name, core.MaxNameLength},
		{"category", req.Category, core.MaxCategoryLength},
		{"store_name", req.StoreName, core.MaxStoreNameLength},
		{"unit", req.Unit, core.MaxUnitLength},
		{"notes", req.Notes, core.MaxNotesLength},
	}
	for _, l := range limits {
		if len(l.value) > l.max {
			return fmt.Sprintf("%s must be at most %d characters", l.field, l.max)
		}
	}
	return ""
}

// toItem builds the domain item, sanitizing and trimming every string
// field.
func (req *itemRequest) toItem() core.Item {
	clean := func(s string) string {
		return strings.TrimSpace(sanitizeInput(s))
	}
	return core.Item{
		Name:         clean(req.Name),
		Category:     clean(req.Category),
		Quantity:     req.Quantity,
		Unit:         clean(req.Unit),
		PricePerUnit: req.PricePerUnit,
		StoreName:    clean(req.StoreName),
		Purchased:    req.Purchased,
		PurchaseDate: clean(req.PurchaseDate),
		Notes:        clean(req.Notes),
	}
}

// purchaseRequest carries the optional purchase date. An absent body
// or field means "today".
type purchaseRequest struct {
	PurchaseDate string `json:"purchase_date"`
}

// budgetRequest carries a budget amount update.
type budgetRequest struct {
	Amount float64 `json:"amount"`
}

// parseListFilter maps query parameters onto the storage filter.
// Values the store cannot use, like an unknown sort key or a
// malformed number, are ignored rather than rejected.
func parseListFilter(query url.Values) storage.ListFilter {
	clean := func(s string) string {
		return strings.TrimSpace(sanitizeInput(s))
	}

	filter := storage.ListFilter{
		Category:  clean(query.Get("category")),
		StoreName: clean(query.Get("store")),
		Search:    clean(query.Get("q")),
		Sort:      clean(query.Get("sort")),
	}

	if v := query.Get("purchased"); v != "" {
		if purchased, err := strconv.ParseBool(v); err == nil {
			filter.Purchased = &purchased
		}
	}
	if v := query.Get("min_price"); v != "" {
		if min, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &min
		}
	}
	if v := query.Get("max_price"); v != "" {
		if max, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &max
		}
	}

	return filter
}

// parseDateQuery returns the optional date parameter. Validation is
// left to the analytics layer, which resolves "" to today.
func parseDateQuery(query url.Values) string {
	return strings.TrimSpace(query.Get("date"))
}

// trend bounds
const (
	defaultTrendDays = 30
	maxTrendDays     = 365
)

// parseDays returns the trend length, defaulting and clamping rather
// than rejecting.
func parseDays(query url.Values) int {
	v := strings.TrimSpace(query.Get("days"))
	if v == "" {
		return defaultTrendDays
	}
	days, err := strconv.Atoi(v)
	if err != nil {
		return defaultTrendDays
	}
	if days < 1 {
		return 1
	}
	if days > maxTrendDays {
		return maxTrendDays
	}
	return days
}
