package backend

import (
	"context"
	"fmt"
	"log/slog"

	"dispensa/internal/sheets"
	"dispensa/internal/sheets/google"
	"dispensa/internal/sheets/memory"
)

// Factory creates purchase writers from backend configuration.
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateWriter builds the purchase writer selected by the configuration.
// The none backend yields a nil writer and no error; callers skip exporting
// in that case.
func (f *Factory) CreateWriter(ctx context.Context, cfg Config) (sheets.PurchaseWriter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case NoneBackend:
		f.logger.Info("Purchase export disabled")
		return nil, nil
	case GoogleBackend:
		cli, err := google.New(ctx, google.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.GoogleSheetName,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets export backend",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
		return cli, nil
	case MemoryBackend:
		f.logger.Info("Initialized in-memory export backend")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
