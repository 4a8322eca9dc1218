package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Input-boundary length caps. Enforced where items enter the system
// (request parsing, seed loading), not by Validate.
const (
	MaxNameLength      = 100
	MaxCategoryLength  = 50
	MaxStoreNameLength = 50
	MaxUnitLength      = 20
	MaxNotesLength     = 500
)

type (
	// Item is a purchasable grocery entry. ID is zero until the store
	// assigns one on insert. TotalCost is always derived from quantity
	// and price, never stored.
	Item struct {
		ID           int64     `json:"id"`
		Name         string    `json:"name"`
		Category     string    `json:"category"`
		Quantity     float64   `json:"quantity"`
		Unit         string    `json:"unit"`
		PricePerUnit float64   `json:"price_per_unit"`
		StoreName    string    `json:"store_name"`
		Purchased    bool      `json:"is_purchased"`
		PurchaseDate string    `json:"purchase_date"` // ISO YYYY-MM-DD, "" when not purchased
		Notes        string    `json:"notes"`
		CreatedAt    time.Time `json:"created_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	}

	// BudgetSettings is the single process-wide budget record.
	// Zero means unset: no alerting for that period.
	BudgetSettings struct {
		WeeklyBudget  float64 `json:"weekly_budget"`
		MonthlyBudget float64 `json:"monthly_budget"`
	}
)

var (
	ErrEmptyField          = errors.New("field cannot be empty")
	ErrNonPositiveQuantity = errors.New("quantity must be positive")
	ErrNegativePrice       = errors.New("price per unit cannot be negative")
	ErrNegativeBudget      = errors.New("budget cannot be negative")
)

// TotalCost returns quantity × price per unit, computed on demand.
func (it Item) TotalCost() float64 {
	return it.Quantity * it.PricePerUnit
}

// Validate checks the item invariants. No partially valid item may be
// persisted; callers validate before every insert or update.
func (it Item) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("%w: name", ErrEmptyField)
	}
	if strings.TrimSpace(it.Category) == "" {
		return fmt.Errorf("%w: category", ErrEmptyField)
	}
	if strings.TrimSpace(it.Unit) == "" {
		return fmt.Errorf("%w: unit", ErrEmptyField)
	}
	if strings.TrimSpace(it.StoreName) == "" {
		return fmt.Errorf("%w: store name", ErrEmptyField)
	}
	if it.Quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	if it.PricePerUnit < 0 {
		return ErrNegativePrice
	}
	if it.Purchased {
		if it.PurchaseDate == "" {
			return fmt.Errorf("%w: purchase date", ErrEmptyField)
		}
		if _, err := ParseDate(it.PurchaseDate); err != nil {
			return err
		}
	}
	return nil
}

func (b BudgetSettings) Validate() error {
	if b.WeeklyBudget < 0 || b.MonthlyBudget < 0 {
		return ErrNegativeBudget
	}
	return nil
}
