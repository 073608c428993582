package memory

import (
	"context"
	"sync"
	"time"

	"github.com/streamlens/streamlens/internal/core/domain"
	"github.com/streamlens/streamlens/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore keeps search records in memory, newest last.
type HistoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	records []domain.SearchRecord
}

// NewHistoryStore creates an empty in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{nextID: 1}
}

func (h *HistoryStore) Append(_ context.Context, record domain.SearchRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	record.ID = h.nextID
	h.nextID++
	h.records = append(h.records, record)
	return nil
}

func (h *HistoryStore) List(_ context.Context, limit int) ([]domain.SearchRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	out := make([]domain.SearchRecord, 0, limit)
	for i := len(h.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.records[i])
	}
	return out, nil
}

func (h *HistoryStore) Clear(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = nil
	return nil
}
