package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/outlay-app/outlay/internal/model"
)

// GetLastSession returns the most recent session record, or nil when the
// application has never run.
func (s *SQLiteStorage) GetLastSession(ctx context.Context) (*model.SessionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var rec model.SessionRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, ran_at, generated, reminders, alert_count
		FROM session_log
		ORDER BY ran_at DESC, id DESC
		LIMIT 1`).Scan(&rec.ID, &rec.RanAt, &rec.Generated, &rec.Reminders, &rec.AlertCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last session: %w", err)
	}

	return &rec, nil
}

// SaveSession appends a session record to the log.
func (s *SQLiteStorage) SaveSession(ctx context.Context, record *model.SessionRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("session record cannot be nil")
	}
	if record.RanAt.IsZero() {
		return fmt.Errorf("session ran_at is required")
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO session_log (ran_at, generated, reminders, alert_count)
		VALUES (?, ?, ?, ?)`,
		record.RanAt, record.Generated, record.Reminders, record.AlertCount)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read session id: %w", err)
	}
	record.ID = id

	return nil
}
