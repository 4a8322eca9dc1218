package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispensa/internal/amqp"
	"dispensa/internal/core"
	"dispensa/internal/storage"
)

// ItemService orchestrates grocery item operations across SQLite and AMQP
type ItemService struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

func NewItemService(storage *storage.Repository, amqpClient *amqp.Client) *ItemService {
	return &ItemService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateItem validates and saves a new item, returning its assigned ID.
// Items created as already purchased default their purchase date to today
// and are queued for export.
func (s *ItemService) CreateItem(ctx context.Context, item core.Item) (int64, error) {
	if item.Purchased && item.PurchaseDate == "" {
		item.PurchaseDate = core.FormatDate(time.Now())
	}
	if err := item.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.InsertItem(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("save item: %w", err)
	}

	if item.Purchased {
		s.publishPurchaseSync(ctx, id)
	}

	return id, nil
}

func (s *ItemService) GetItem(ctx context.Context, id int64) (*core.Item, error) {
	item, err := s.storage.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// UpdateItem replaces every field of an existing item.
func (s *ItemService) UpdateItem(ctx context.Context, item core.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	ok, err := s.storage.UpdateItem(ctx, item)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// DeleteItem removes an item immediately; there is no soft delete.
func (s *ItemService) DeleteItem(ctx context.Context, id int64) error {
	ok, err := s.storage.DeleteItem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *ItemService) ListItems(ctx context.Context, filter storage.ListFilter) ([]core.Item, error) {
	items, err := s.storage.ListItems(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// MarkPurchased flags an item as purchased and queues it for export. An
// empty date defaults to today; anything else must be an ISO calendar date.
func (s *ItemService) MarkPurchased(ctx context.Context, id int64, date string) error {
	if date == "" {
		date = core.FormatDate(time.Now())
	}
	if _, err := core.ParseDate(date); err != nil {
		return err
	}

	ok, err := s.storage.MarkPurchased(ctx, id, date)
	if err != nil {
		return fmt.Errorf("mark purchased: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	s.publishPurchaseSync(ctx, id)
	return nil
}

// MarkUnpurchased clears the purchase state and dequeues any pending export.
func (s *ItemService) MarkUnpurchased(ctx context.Context, id int64) error {
	ok, err := s.storage.MarkUnpurchased(ctx, id)
	if err != nil {
		return fmt.Errorf("mark unpurchased: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *ItemService) BudgetSettings(ctx context.Context) (core.BudgetSettings, error) {
	settings, err := s.storage.BudgetSettings(ctx)
	if err != nil {
		return core.BudgetSettings{}, fmt.Errorf("load budget settings: %w", err)
	}
	return settings, nil
}

func (s *ItemService) SetWeeklyBudget(ctx context.Context, amount float64) error {
	if err := s.storage.SetWeeklyBudget(ctx, amount); err != nil {
		return fmt.Errorf("update weekly budget: %w", err)
	}
	return nil
}

func (s *ItemService) SetMonthlyBudget(ctx context.Context, amount float64) error {
	if err := s.storage.SetMonthlyBudget(ctx, amount); err != nil {
		return fmt.Errorf("update monthly budget: %w", err)
	}
	return nil
}

func (s *ItemService) Stats(ctx context.Context) (core.Stats, error) {
	stats, err := s.storage.Stats(ctx)
	if err != nil {
		return core.Stats{}, fmt.Errorf("load stats: %w", err)
	}
	return stats, nil
}

// publishPurchaseSync notifies the worker that an item needs exporting.
// Publishing is best-effort: the purchase is already stored locally and the
// worker's pending scan recovers lost messages.
func (s *ItemService) publishPurchaseSync(ctx context.Context, id int64) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishPurchaseSync(ctx, id); err != nil {
		if errors.Is(err, amqp.ErrCircuitOpen) {
			slog.WarnContext(ctx, "Purchase sync publish suppressed", "id", id)
			return
		}
		slog.ErrorContext(ctx, "Failed to publish purchase sync message",
			"id", id, "error", err)
	}
}

// Close closes both storage and AMQP connections
func (s *ItemService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close item service: %v", errs)
	}

	return nil
}
