package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotRepository defines the interface for durable snapshot persistence.
// The snapshot is the sole durable state; implementations must resolve a
// missing or corrupt store by re-seeding from the default snapshot rather
// than failing.
type SnapshotRepository interface {
	// Load retrieves the persisted snapshot, seeding a default one when the
	// store is absent or unreadable.
	Load(ctx context.Context) (*Snapshot, error)

	// Save persists the snapshot.
	Save(ctx context.Context, snapshot *Snapshot) error
}

// HistoryArchive defines the interface for an optional external append-only
// mirror of the history series, e.g. for charting tools querying SQL.
type HistoryArchive interface {
	// Append records one value for a category at a point in time.
	Append(ctx context.Context, category string, ts time.Time, value decimal.Decimal) error
}
