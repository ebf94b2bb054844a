package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/chamabot/internal/models"
)

// GetDueDate returns the configured contribution due date, or nil if none is set.
func (s *SQLiteStore) GetDueDate(ctx context.Context) (*time.Time, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT due_date FROM settings WHERE id = 1").Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !raw.Valid) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get due date: %w", err)
	}

	due, err := time.Parse(models.DateLayout, raw.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored due date %q: %w", raw.String, err)
	}
	return &due, nil
}

// SetDueDate stores the contribution due date. Only the calendar date is kept.
func (s *SQLiteStore) SetDueDate(ctx context.Context, due time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, due_date) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET due_date = excluded.due_date
	`, due.Format(models.DateLayout))
	if err != nil {
		return fmt.Errorf("failed to set due date: %w", err)
	}
	return nil
}
