package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/streamlens/streamlens/internal/core/domain"
	"github.com/streamlens/streamlens/internal/core/ports/driven"
)

// Ensure historyStore implements the interface.
var _ driven.HistoryStore = (*historyStore)(nil)

type historyStore struct {
	store *Store
}

func (h *historyStore) Append(ctx context.Context, record domain.SearchRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := h.store.db.ExecContext(ctx, `
		INSERT INTO search_history (query, source_count, result_count, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		record.Query, record.SourceCount, record.ResultCount,
		record.Duration.Milliseconds(), createdAt,
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (h *historyStore) List(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := h.store.db.QueryContext(ctx, `
		SELECT id, query, source_count, result_count, duration_ms, created_at
		FROM search_history ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var records []domain.SearchRecord
	for rows.Next() {
		var rec domain.SearchRecord
		var durationMS int64
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.SourceCount, &rec.ResultCount, &durationMS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

func (h *historyStore) Clear(ctx context.Context) error {
	if _, err := h.store.db.ExecContext(ctx, "DELETE FROM search_history"); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
