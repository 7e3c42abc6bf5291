// Package iooptimize implements Optimizer interface for maintenance of
// the statistics table. Every run appends its rows, so repeated runs
// leave older rows of the same zone-years behind.
package iooptimize

import (
	"context"
	"log/slog"
	"time"

	"github.com/mrds-es/minedist/pkg/db"
	"github.com/mrds-es/minedist/pkg/lifecycle"
	"github.com/mrds-es/minedist/pkg/schema"
)

// optimizer implements the Optimizer interface.
type optimizer struct {
	operator db.Operator
	table    string
}

// NewOptimizer creates a new Optimizer.
func NewOptimizer(op db.Operator) lifecycle.Optimizer {
	return &optimizer{
		operator: op,
		table:    schema.ZoneYearStat{}.TableName(),
	}
}

// Optimize executes 2 sequential steps:
//  1. Remove rows superseded by a later run of the same zone-year
//  2. Run VACUUM ANALYZE on the table
func (o *optimizer) Optimize(ctx context.Context) (int64, error) {
	pool := o.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}

	slog.Info("Step 1/2: Removing superseded rows")
	removed, err := dedup(ctx, o)
	if err != nil {
		return 0, err
	}
	slog.Info("Step 1/2: Complete", "removed", removed)

	slog.Info("Step 2/2: Updating statistics")
	if err = vacuumAnalyze(ctx, o); err != nil {
		return removed, err
	}
	slog.Info("Step 2/2: Complete")

	return removed, nil
}

// DropRun deletes rows of one run.
func (o *optimizer) DropRun(ctx context.Context, runID string) (int64, error) {
	pool := o.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}
	tag, err := pool.Exec(ctx,
		"DELETE FROM "+o.table+" WHERE run_id = $1", runID)
	if err != nil {
		return 0, DropRunError(runID, err)
	}
	slog.Info("Run removed", "run_id", runID, "rows", tag.RowsAffected())
	return tag.RowsAffected(), nil
}

// dedup keeps the newest row for every site buffer and year. Rows of
// one run share created_at, id breaks ties.
func dedup(ctx context.Context, o *optimizer) (int64, error) {
	q := `
DELETE FROM ` + o.table + ` a
  USING ` + o.table + ` b
  WHERE a.site_buffer_key = b.site_buffer_key
    AND a.year = b.year
    AND (a.created_at < b.created_at
      OR (a.created_at = b.created_at AND a.id < b.id))`
	tag, err := o.operator.Pool().Exec(ctx, q)
	if err != nil {
		return 0, DedupError(err)
	}
	return tag.RowsAffected(), nil
}

// vacuumAnalyze reclaims space of deleted rows and updates statistics
// used by the query planner. It cannot run inside a transaction block.
func vacuumAnalyze(ctx context.Context, o *optimizer) error {
	timeStart := time.Now()
	_, err := o.operator.Pool().Exec(ctx, "VACUUM ANALYZE "+o.table)
	if err != nil {
		return VacuumError(err)
	}
	slog.Info("VACUUM ANALYZE completed", "duration", time.Since(timeStart).String())
	return nil
}
