package sheets

import (
	"context"

	"dispensa/internal/core"
)

// PurchaseWriter is the outbound port for exporting purchased items to an
// external spreadsheet. Append returns an opaque row reference usable in
// logs.
type PurchaseWriter interface {
	Append(ctx context.Context, item core.Item) (rowRef string, err error)
}
