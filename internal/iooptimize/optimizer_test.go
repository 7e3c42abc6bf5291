package iooptimize_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mrds-es/minedist/internal/iodb"
	"github.com/mrds-es/minedist/internal/iooptimize"
	"github.com/mrds-es/minedist/internal/iopopulate"
	"github.com/mrds-es/minedist/internal/ioschema"
	"github.com/mrds-es/minedist/internal/iotesting"
	"github.com/mrds-es/minedist/pkg/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeNotConnected(t *testing.T) {
	opt := iooptimize.NewOptimizer(iodb.NewPgxOperator())
	_, err := opt.Optimize(context.Background())
	assert.Error(t, err)
	_, err = opt.DropRun(context.Background(), "run")
	assert.Error(t, err)
}

func testRows(siteID string, ndvi float64) []export.Row {
	var res []export.Row
	for _, y := range []int{2020, 2021} {
		res = append(res, export.Row{
			SiteID: siteID, SiteName: "Test", Year: y, BufferM: 1000,
			SiteBufferKey: siteID + "_1000",
			MeanNDVI:      &ndvi,
			StartDate:     "2019-11-01", EndDate: "2020-05-01",
			QAFlag: "ok",
		})
	}
	return res
}

func TestOptimize(t *testing.T) {
	assert := assert.New(t)
	op := iodb.NewPgxOperator()
	iotesting.ConnectOrSkip(t, op)
	ctx := context.Background()
	require.NoError(t, ioschema.NewManager(op).Migrate(ctx))

	siteID := "optimize_" + uuid.NewString()
	sink := iopopulate.New(op, 10)
	oldRun, newRun := uuid.NewString(), uuid.NewString()
	_, err := sink.Write(ctx, oldRun, testRows(siteID, 0.1))
	require.NoError(t, err)
	// created_at of the second run is later
	time.Sleep(10 * time.Millisecond)
	_, err = sink.Write(ctx, newRun, testRows(siteID, 0.2))
	require.NoError(t, err)

	opt := iooptimize.NewOptimizer(op)
	removed, err := opt.Optimize(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(removed, int64(2))

	var count int
	var run string
	err = op.Pool().QueryRow(ctx,
		`SELECT count(*), min(run_id::text) FROM zone_year_stats WHERE site_id = $1`,
		siteID,
	).Scan(&count, &run)
	require.NoError(t, err)
	assert.Equal(2, count)
	assert.Equal(newRun, run)

	n, err := opt.DropRun(ctx, newRun)
	require.NoError(t, err)
	assert.Equal(int64(2), n)
}
