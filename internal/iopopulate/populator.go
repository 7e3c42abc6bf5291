// Package iopopulate copies exported statistics into PostgreSQL.
package iopopulate

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jackc/pgx/v5"
	"github.com/mrds-es/minedist/pkg/db"
	"github.com/mrds-es/minedist/pkg/export"
	"github.com/mrds-es/minedist/pkg/lifecycle"
	"github.com/mrds-es/minedist/pkg/schema"
)

// DefaultBatchSize is used when batch size is not positive.
const DefaultBatchSize = 5_000

// populator implements the lifecycle.Sink interface.
type populator struct {
	operator  db.Operator
	batchSize int
}

// New creates a sink that writes rows with COPY in batches.
func New(op db.Operator, batchSize int) lifecycle.Sink {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &populator{operator: op, batchSize: batchSize}
}

// Write copies rows to the 'zone_year_stats' table.
func (p *populator) Write(
	ctx context.Context,
	runID string,
	rows []export.Row,
) (int, error) {
	pool := p.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}

	created := time.Now().UTC()
	var count int
	for _, batch := range Batches(rows, p.batchSize) {
		records := make([][]any, len(batch))
		for i, r := range batch {
			records[i] = schema.NewZoneYearStat(runID, created, r).Values()
		}
		n, err := insertStats(ctx, p, records)
		if err != nil {
			return count, CopyError(len(records), err)
		}
		count += int(n)
		slog.Debug("Copied statistics", "rows", humanize.Comma(int64(count)))
	}

	slog.Info("Statistics saved to database",
		"run_id", runID, "rows", humanize.Comma(int64(count)))
	return count, nil
}

// insertStats performs bulk insert using pgx CopyFrom.
func insertStats(ctx context.Context, p *populator, records [][]any) (int64, error) {
	columns := schema.Columns(schema.ZoneYearStat{}, "id")
	return p.operator.Pool().CopyFrom(
		ctx,
		pgx.Identifier{schema.ZoneYearStat{}.TableName()},
		columns,
		pgx.CopyFromRows(records),
	)
}

// Batches splits rows into chunks of at most size elements.
func Batches[T any](rows []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var res [][]T
	for len(rows) > 0 {
		n := min(size, len(rows))
		res = append(res, rows[:n])
		rows = rows[n:]
	}
	return res
}
