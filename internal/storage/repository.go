package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dispensa/internal/core"

	_ "modernc.org/sqlite"
)

// Item sync states for the purchase export pipeline.
const (
	SyncNone    = "none"
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

// Sort orders accepted by ListFilter.
const (
	SortNewest    = "newest"
	SortName      = "name"
	SortPrice     = "price"
	SortTotalCost = "total_cost"
	SortCategory  = "category"
	SortStore     = "store"
)

// ListFilter narrows and orders ListItems results. Zero values apply
// no constraint.
type ListFilter struct {
	Category  string
	StoreName string
	Purchased *bool
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	Sort      string
}

// PendingItem identifies a purchased row awaiting export.
type PendingItem struct {
	ID        int64
	CreatedAt time.Time
}

// Repository is the SQLite record store. All item and budget state
// lives here; the analytics layer only ever sees snapshots read
// through it.
type Repository struct {
	db *sql.DB
}

// NewRepository opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite takes one writer at a time; a single pooled connection
	// serializes access and keeps :memory: databases on one handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the store is reachable. The readiness endpoint
// depends on it.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const itemCols = `id, name, category, quantity, unit, price_per_unit, store_name, is_purchased, purchase_date, notes, created_at, updated_at`

func scanItem(scanner interface{ Scan(...any) error }) (*core.Item, error) {
	var it core.Item
	var purchased int
	err := scanner.Scan(
		&it.ID, &it.Name, &it.Category, &it.Quantity, &it.Unit,
		&it.PricePerUnit, &it.StoreName, &purchased, &it.PurchaseDate,
		&it.Notes, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.Purchased = purchased != 0
	return &it, nil
}

// InsertItem stores a new item and returns its assigned id. An item
// inserted already purchased goes straight to the pending export
// state so the sync check picks it up.
func (r *Repository) InsertItem(ctx context.Context, it core.Item) (int64, error) {
	syncStatus := SyncNone
	if it.Purchased {
		syncStatus = SyncPending
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO grocery_items (name, category, quantity, unit, price_per_unit, store_name, is_purchased, purchase_date, notes, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.Name, it.Category, it.Quantity, it.Unit, it.PricePerUnit,
		it.StoreName, it.Purchased, it.PurchaseDate, it.Notes, syncStatus,
	)
	if err != nil {
		return 0, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Item saved",
		"id", id,
		"name", it.Name,
		"category", it.Category,
		"store", it.StoreName)

	return id, nil
}

// GetItem returns the item with the given id, or (nil, nil) when no
// such row exists.
func (r *Repository) GetItem(ctx context.Context, id int64) (*core.Item, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+itemCols+` FROM grocery_items WHERE id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return it, nil
}

// UpdateItem replaces every user-editable field of the row identified
// by it.ID. Returns false when the id does not exist.
func (r *Repository) UpdateItem(ctx context.Context, it core.Item) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE grocery_items
		 SET name = ?, category = ?, quantity = ?, unit = ?, price_per_unit = ?, store_name = ?, is_purchased = ?, purchase_date = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		it.Name, it.Category, it.Quantity, it.Unit, it.PricePerUnit,
		it.StoreName, it.Purchased, it.PurchaseDate, it.Notes, it.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update item %d: %w", it.ID, err)
	}
	return oneRowChanged(res)
}

// DeleteItem removes the row immediately. Returns false when the id
// does not exist. Already exported rows are not retracted.
func (r *Repository) DeleteItem(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM grocery_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item %d: %w", id, err)
	}
	return oneRowChanged(res)
}

// ListItems returns the items matching the filter in the requested
// order.
func (r *Repository) ListItems(ctx context.Context, f ListFilter) ([]core.Item, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.StoreName != "" {
		where = append(where, "store_name = ?")
		args = append(args, f.StoreName)
	}
	if f.Purchased != nil {
		where = append(where, "is_purchased = ?")
		args = append(args, *f.Purchased)
	}
	if f.Search != "" {
		where = append(where, "(name LIKE ? OR category LIKE ? OR store_name LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if f.MinPrice != nil {
		where = append(where, "price_per_unit >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "price_per_unit <= ?")
		args = append(args, *f.MaxPrice)
	}

	q := `SELECT ` + itemCols + ` FROM grocery_items`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + orderClause(f.Sort)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []core.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func orderClause(sortBy string) string {
	switch sortBy {
	case SortName:
		return "name COLLATE NOCASE ASC"
	case SortPrice:
		return "price_per_unit DESC"
	case SortTotalCost:
		return "quantity * price_per_unit DESC"
	case SortCategory:
		return "category ASC, name COLLATE NOCASE ASC"
	case SortStore:
		return "store_name ASC, name COLLATE NOCASE ASC"
	default:
		// Newest first; id breaks ties between same-second inserts.
		return "created_at DESC, id DESC"
	}
}

// MarkPurchased flags the item as bought on the given ISO date and
// queues it for export. Returns false when the id does not exist.
func (r *Repository) MarkPurchased(ctx context.Context, id int64, date string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE grocery_items
		 SET is_purchased = 1, purchase_date = ?, sync_status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		date, SyncPending, id,
	)
	if err != nil {
		return false, fmt.Errorf("mark item %d purchased: %w", id, err)
	}
	return oneRowChanged(res)
}

// MarkUnpurchased puts the item back on the shopping list. Rows
// already exported stay exported; only the local state is reset.
func (r *Repository) MarkUnpurchased(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE grocery_items
		 SET is_purchased = 0, purchase_date = '', sync_status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		SyncNone, id,
	)
	if err != nil {
		return false, fmt.Errorf("mark item %d unpurchased: %w", id, err)
	}
	return oneRowChanged(res)
}

func oneRowChanged(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// BudgetSettings returns the single budget row.
func (r *Repository) BudgetSettings(ctx context.Context) (core.BudgetSettings, error) {
	var b core.BudgetSettings
	err := r.db.QueryRowContext(ctx,
		`SELECT weekly_budget, monthly_budget FROM budget_settings WHERE id = 1`,
	).Scan(&b.WeeklyBudget, &b.MonthlyBudget)
	if err != nil {
		return core.BudgetSettings{}, fmt.Errorf("get budget settings: %w", err)
	}
	return b, nil
}

// SetWeeklyBudget updates the weekly budget. Negative amounts are
// rejected at this boundary regardless of caller validation.
func (r *Repository) SetWeeklyBudget(ctx context.Context, amount float64) error {
	if amount < 0 {
		return core.ErrNegativeBudget
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE budget_settings SET weekly_budget = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1`,
		amount,
	); err != nil {
		return fmt.Errorf("set weekly budget: %w", err)
	}
	return nil
}

// SetMonthlyBudget updates the monthly budget. Negative amounts are
// rejected at this boundary regardless of caller validation.
func (r *Repository) SetMonthlyBudget(ctx context.Context, amount float64) error {
	if amount < 0 {
		return core.ErrNegativeBudget
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE budget_settings SET monthly_budget = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1`,
		amount,
	); err != nil {
		return fmt.Errorf("set monthly budget: %w", err)
	}
	return nil
}

// Stats computes the whole-list overview: counts and cost sums split
// by purchase state, plus the distinct categories and stores in use.
// Costs are derived in the query; they are never stored.
func (r *Repository) Stats(ctx context.Context) (core.Stats, error) {
	var s core.Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(quantity * price_per_unit), 0),
		       COALESCE(SUM(is_purchased), 0),
		       COALESCE(SUM(CASE WHEN is_purchased = 1 THEN quantity * price_per_unit ELSE 0 END), 0)
		FROM grocery_items`,
	).Scan(&s.TotalItems, &s.TotalCost, &s.PurchasedItems, &s.PurchasedCost)
	if err != nil {
		return core.Stats{}, fmt.Errorf("get item stats: %w", err)
	}
	s.UnpurchasedItems = s.TotalItems - s.PurchasedItems
	s.UnpurchasedCost = s.TotalCost - s.PurchasedCost

	if s.Categories, err = r.distinct(ctx, "category"); err != nil {
		return core.Stats{}, err
	}
	if s.Stores, err = r.distinct(ctx, "store_name"); err != nil {
		return core.Stats{}, err
	}
	return s, nil
}

func (r *Repository) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT `+column+` FROM grocery_items ORDER BY `+column)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// PendingSyncItems returns up to limit rows still waiting for export,
// oldest first.
func (r *Repository) PendingSyncItems(ctx context.Context, limit int) ([]PendingItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM grocery_items WHERE sync_status = ? ORDER BY id LIMIT ?`,
		SyncPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get pending sync items: %w", err)
	}
	defer rows.Close()

	var pending []PendingItem
	for rows.Next() {
		var p PendingItem
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending item: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced records a successful export of the item.
func (r *Repository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE grocery_items SET sync_status = ? WHERE id = ?`, SyncSynced, id,
	); err != nil {
		return fmt.Errorf("mark item synced: %w", err)
	}
	slog.InfoContext(ctx, "Item marked as synced", "id", id)
	return nil
}

// MarkSyncError records a failed export; the periodic sync check will
// not retry rows in this state, operators requeue them explicitly.
func (r *Repository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE grocery_items SET sync_status = ? WHERE id = ?`, SyncError, id,
	); err != nil {
		return fmt.Errorf("mark item sync error: %w", err)
	}
	slog.WarnContext(ctx, "Item marked with sync error", "id", id)
	return nil
}
