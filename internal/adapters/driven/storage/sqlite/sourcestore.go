package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/streamlens/streamlens/internal/core/domain"
	"github.com/streamlens/streamlens/internal/core/ports/driven"
)

// Ensure sourceStore implements the interface.
var _ driven.SourceStore = (*sourceStore)(nil)

type sourceStore struct {
	store *Store
}

func (s *sourceStore) Get(ctx context.Context, id string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, base_url, detail_url, timeout_ms, retry_count, enabled, created_at, updated_at
		FROM sources WHERE id = ?`, id)

	src, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("source %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	return src, nil
}

func (s *sourceStore) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, base_url, detail_url, timeout_ms, retry_count, enabled, created_at, updated_at
		FROM sources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, *src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return sources, nil
}

func (s *sourceStore) Save(ctx context.Context, source domain.Source) error {
	if err := source.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sources (id, name, base_url, detail_url, timeout_ms, retry_count, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			base_url = excluded.base_url,
			detail_url = excluded.detail_url,
			timeout_ms = excluded.timeout_ms,
			retry_count = excluded.retry_count,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at`,
		source.ID, source.Name, source.BaseURL, source.DetailURL,
		source.Timeout.Milliseconds(), source.RetryCount, boolToInt(source.Enabled),
		source.CreatedAt, source.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save source: %w", err)
	}
	return nil
}

func (s *sourceStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("source %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *sourceStore) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE sources SET enabled = ?, updated_at = ? WHERE id = ?",
		boolToInt(enabled), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set enabled: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set enabled: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("source %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*domain.Source, error) {
	var src domain.Source
	var timeoutMS int64
	var enabled int

	err := row.Scan(&src.ID, &src.Name, &src.BaseURL, &src.DetailURL,
		&timeoutMS, &src.RetryCount, &enabled, &src.CreatedAt, &src.UpdatedAt)
	if err != nil {
		return nil, err
	}

	src.Timeout = time.Duration(timeoutMS) * time.Millisecond
	src.Enabled = enabled != 0
	return &src, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
