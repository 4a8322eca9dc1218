// Command dispensa-seed fills an empty database with a demo grocery
// list, sets the budgets, and prints the resulting report. Purchase
// dates are spread over the past week so the spending windows and
// alerts have something to show.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"dispensa/internal/cli"
	"dispensa/internal/core"
	"dispensa/internal/log"
	"dispensa/internal/services"
)

type seedItem struct {
	name      string
	category  string
	quantity  float64
	unit      string
	price     float64
	store     string
	purchased bool
	daysAgo   int
	notes     string
}

func catalogue() []seedItem {
	return []seedItem{
		{"Organic Apples", "Produce", 2, "kg", 4.50, "Whole Foods", true, 1, ""},
		{"Whole Milk", "Dairy", 1, "gallon", 3.50, "Walmart", true, 1, ""},
		{"Whole Milk", "Dairy", 1, "gallon", 4.25, "Whole Foods", true, 2, ""},
		{"Chicken Breast", "Meat", 1.5, "kg", 8.99, "Costco", true, 2, ""},
		{"Sourdough Bread", "Bakery", 2, "loaf", 2.50, "Walmart", true, 2, ""},
		{"Jasmine Rice", "Pantry", 5, "kg", 3.99, "Target", true, 3, ""},
		{"Orange Juice", "Beverages", 1, "bottle", 4.25, "Walmart", true, 3, ""},
		{"Potato Chips", "Snacks", 3, "bag", 3.99, "Target", true, 4, ""},
		{"Frozen Pizza", "Frozen", 2, "each", 6.50, "Costco", true, 4, "family size"},
		{"Shampoo", "Personal Care", 1, "bottle", 12.99, "Target", true, 5, ""},
		{"Paper Towels", "Household", 1, "pack", 8.99, "Walmart", true, 5, ""},
		{"Salmon Fillet", "Seafood", 1, "kg", 15.99, "Whole Foods", false, 0, ""},
		{"Coffee Beans", "Beverages", 1, "kg", 9.99, "Whole Foods", false, 0, "medium roast"},
		{"Olive Oil", "Pantry", 1, "bottle", 11.50, "Costco", false, 0, ""},
		{"Greek Yogurt", "Dairy", 4, "each", 1.25, "Walmart", false, 0, ""},
		{"Avocados", "Produce", 3, "each", 1.50, "Whole Foods", false, 0, ""},
	}
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.OpenStore(logger, cfg.SQLiteDBPath)

	items := services.NewItemService(repo, nil)
	defer items.Close()
	analytics := services.NewAnalyticsService(repo)
	reports := services.NewReportService(items, analytics)

	ctx := context.Background()

	stats, err := items.Stats(ctx)
	if err != nil {
		logger.Error("Failed to read store", log.FieldError, err.Error())
		os.Exit(1)
	}
	if stats.TotalItems > 0 {
		logger.Error("Database already contains items, refusing to seed",
			"items", stats.TotalItems, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	now := time.Now()
	for _, seed := range catalogue() {
		item := core.Item{
			Name:         seed.name,
			Category:     seed.category,
			Quantity:     seed.quantity,
			Unit:         seed.unit,
			PricePerUnit: seed.price,
			StoreName:    seed.store,
			Purchased:    seed.purchased,
			Notes:        seed.notes,
		}
		if seed.purchased {
			item.PurchaseDate = core.FormatDate(now.AddDate(0, 0, -seed.daysAgo))
		}
		if _, err := items.CreateItem(ctx, item); err != nil {
			logger.Error("Failed to seed item", "name", seed.name, log.FieldError, err.Error())
			os.Exit(1)
		}
	}

	if err := items.SetWeeklyBudget(ctx, 100); err != nil {
		logger.Error("Failed to set weekly budget", log.FieldError, err.Error())
		os.Exit(1)
	}
	if err := items.SetMonthlyBudget(ctx, 400); err != nil {
		logger.Error("Failed to set monthly budget", log.FieldError, err.Error())
		os.Exit(1)
	}

	logger.Info("Seeded demo data", "items", len(catalogue()), "path", cfg.SQLiteDBPath)

	text, err := reports.Render(ctx)
	if err != nil {
		logger.Error("Report rendering failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	fmt.Println(text)
}
