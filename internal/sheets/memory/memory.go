package memory

import (
	"context"
	"fmt"
	"sync"

	"dispensa/internal/core"
	"dispensa/internal/sheets"
)

// Store is an in-memory purchase writer. It stands in for the Google Sheets
// backend in tests and in deployments that want sync bookkeeping without an
// external spreadsheet.
type Store struct {
	mu    sync.Mutex
	items []core.Item
}

var _ sheets.PurchaseWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the item and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, item core.Item) (string, error) {
	if err := item.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Items returns a snapshot of everything appended so far.
func (s *Store) Items() []core.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Item, len(s.items))
	copy(out, s.items)
	return out
}
