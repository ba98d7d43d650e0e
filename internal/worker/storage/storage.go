package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobly-be/internal/worker/domain"
	"github.com/jmoiron/sqlx"
)

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// RecordEvent appends event to the audit table. A redelivered event is
// recognised by its id and reported with recorded=false.
func (s *Storage) RecordEvent(ctx context.Context, event *domain.JobEvent) (bool, error) {
	query := `
		INSERT INTO job_events (event_id, event_type, job_id, occurred_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query, event.EventID, event.Type, event.JobID, event.OccurredAt)
	if err != nil {
		return false, fmt.Errorf("failed to record job event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		s.logger.Info("Job event already recorded",
			slog.String("event_id", event.EventID),
			slog.Int("job_id", event.JobID),
		)
		return false, nil
	}

	return true, nil
}
