// Package lifecycle declares components that manage the statistics
// database.
package lifecycle

import (
	"context"

	"github.com/mrds-es/minedist/pkg/export"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate, so it is safe to run multiple times.
type SchemaManager interface {
	// Migrate creates or updates the 'zone_year_stats' table.
	Migrate(ctx context.Context) error
}

// Sink receives exported rows of a run.
type Sink interface {
	// Write stores rows of the run with the given id and returns the
	// number of stored rows.
	Write(ctx context.Context, runID string, rows []export.Row) (int, error)
}

// Optimizer maintains the statistics table between runs.
type Optimizer interface {
	// Optimize keeps only the latest row of every zone-year, updates
	// planner statistics and returns the number of removed rows.
	Optimize(ctx context.Context) (int64, error)

	// DropRun removes all rows of a run and returns their number.
	DropRun(ctx context.Context, runID string) (int64, error)
}
