package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dispensa/internal/core"
	"dispensa/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config carries the settings needed to reach one spreadsheet tab.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountFile string
	ServiceAccountJSON string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ sheets.PurchaseWriter = (*Client)(nil)

// New creates a Sheets client for appending purchased items. Credentials
// resolve in order: inline service account JSON, service account file,
// application default credentials.
func New(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}

	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Purchases"
	}

	opts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		slog.InfoContext(ctx, "Using inline service account credentials")
		opts = append(opts, goption.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		slog.InfoContext(ctx, "Using service account credentials file", "path", cfg.ServiceAccountFile)
		opts = append(opts, goption.WithCredentialsFile(cfg.ServiceAccountFile))
	default:
		slog.InfoContext(ctx, "Using application default credentials")
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created",
		"spreadsheet_id", spreadsheetID,
		"sheet", sheetName)

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Append writes one purchased item as a row: purchase date, name, category,
// quantity, unit, price per unit, total cost, store, notes.
func (c *Client) Append(ctx context.Context, item core.Item) (string, error) {
	if err := item.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:I", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{{
		item.PurchaseDate,
		item.Name,
		item.Category,
		item.Quantity,
		item.Unit,
		item.PricePerUnit,
		item.TotalCost(),
		item.StoreName,
		item.Notes,
	}}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	// The append response names the exact range that was written; fall back
	// to the target range when the API omits it.
	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}

	return ref, nil
}
