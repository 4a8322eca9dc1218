package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dispensa/internal/amqp"
	"dispensa/internal/core"
	"dispensa/internal/sheets"
	"dispensa/internal/storage"
)

// SyncWorker exports purchased grocery items from SQLite to the configured
// purchase writer (Google Sheets in production).
type SyncWorker struct {
	storage   *storage.Repository
	writer    sheets.PurchaseWriter
	batchSize int
}

func NewSyncWorker(storage *storage.Repository, writer sheets.PurchaseWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandlePurchaseMessage processes a single purchase sync message from AMQP.
// Items that were deleted or unpurchased since the message was published are
// acknowledged without exporting.
func (w *SyncWorker) HandlePurchaseMessage(ctx context.Context, msg *amqp.PurchaseSyncMessage) error {
	slog.InfoContext(ctx, "Processing purchase sync message", "id", msg.ID)

	item, err := w.storage.GetItem(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get item from storage: %w", err)
	}
	if item == nil {
		slog.WarnContext(ctx, "Item no longer exists, skipping export", "id", msg.ID)
		return nil
	}
	if !item.Purchased {
		slog.InfoContext(ctx, "Item was unpurchased, skipping export", "id", msg.ID)
		return nil
	}

	if err := w.exportItem(ctx, msg.ID, *item); err != nil {
		return fmt.Errorf("export item: %w", err)
	}

	return nil
}

// ProcessPendingPurchases exports any purchases that haven't been synced yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingPurchases(ctx context.Context) error {
	pending, err := w.storage.PendingSyncItems(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending items: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending purchases", "count", len(pending))

	for _, p := range pending {
		item, err := w.storage.GetItem(ctx, p.ID)
		if err != nil || item == nil {
			slog.ErrorContext(ctx, "Failed to load pending item", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}

		if err := w.exportItem(ctx, p.ID, *item); err != nil {
			slog.ErrorContext(ctx, "Failed to export item", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck exports any pending purchases at worker startup. This is
// useful to recover from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	// Get a larger batch for startup check
	pending, err := w.storage.PendingSyncItems(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending items for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending purchases found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending purchases on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		item, err := w.storage.GetItem(ctx, p.ID)
		if err != nil || item == nil {
			slog.ErrorContext(ctx, "Failed to load item for startup sync",
				"id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}

		if err := w.exportItem(ctx, p.ID, *item); err != nil {
			slog.ErrorContext(ctx, "Failed to export item during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}

		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) exportItem(ctx context.Context, id int64, item core.Item) error {
	if w.writer == nil {
		return errors.New("no purchase writer configured")
	}

	ref, err := w.writer.Append(ctx, item)
	if err != nil {
		// Mark as sync error
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to export backend: %w", err)
	}

	// Mark as successfully synced
	if err := w.storage.MarkSynced(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
		// Don't return error here - the export actually worked
	}

	slog.InfoContext(ctx, "Successfully exported purchase",
		"id", id,
		"row_ref", ref,
		"item_name", item.Name,
		"store", item.StoreName)

	return nil
}
