package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlaurent/horizon-backend/internal/domain"
)

// historyArchive implements domain.HistoryArchive
type historyArchive struct {
	db *DB
}

// NewHistoryArchive creates a new history archive backed by postgres
func NewHistoryArchive(db *DB) domain.HistoryArchive {
	return &historyArchive{db: db}
}

// EnsureSchema creates the history table when it does not exist yet.
// Unlike the in-snapshot series the archive is append-only and untrimmed.
func EnsureSchema(ctx context.Context, db *DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS history_points (
			id UUID PRIMARY KEY,
			category TEXT NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL,
			value DECIMAL(20, 8) NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_history_points_category_recorded_at
			ON history_points (category, recorded_at)
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// Append inserts one observed category value
func (r *historyArchive) Append(ctx context.Context, category string, ts time.Time, value decimal.Decimal) error {
	query := `
		INSERT INTO history_points (id, category, recorded_at, value)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(),
		category,
		ts,
		value.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history point: %w", err)
	}

	return nil
}
