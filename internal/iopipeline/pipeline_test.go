package iopipeline_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mrds-es/minedist/internal/iopipeline"
	"github.com/mrds-es/minedist/pkg/catalog"
	"github.com/mrds-es/minedist/pkg/config"
	"github.com/mrds-es/minedist/pkg/export"
	"github.com/mrds-es/minedist/pkg/raster"
	"github.com/mrds-es/minedist/pkg/reflectance"
	"github.com/mrds-es/minedist/pkg/site"
	"github.com/mrds-es/minedist/pkg/terrain"
	"github.com/mrds-es/minedist/pkg/zonal"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sceneGrid = raster.Grid{
	West:     -89.2,
	North:    13.8,
	PixelDeg: 0.001,
	Width:    200,
	Height:   200,
}

func dn(refl float64) uint16 {
	return uint16(math.Round((refl - reflectance.ScaleAdd) / reflectance.ScaleMult))
}

func fill(n int, v uint16) []uint16 {
	res := make([]uint16, n)
	for i := range res {
		res[i] = v
	}
	return res
}

// uniformScene creates an L8 scene where every pixel has the given NDVI.
func uniformScene(id string, acquired time.Time, ndvi float64) reflectance.RawScene {
	n := sceneGrid.Len()
	red := 0.1
	nir := red * (1 + ndvi) / (1 - ndvi)
	return reflectance.RawScene{
		ID:         id,
		Sensor:     reflectance.L8,
		Acquired:   acquired,
		CloudCover: 10,
		Grid:       sceneGrid,
		Bands: map[string][]uint16{
			"SR_B2": fill(n, dn(0.05)),
			"SR_B3": fill(n, dn(0.08)),
			"SR_B4": fill(n, dn(red)),
			"SR_B5": fill(n, dn(nir)),
			"SR_B6": fill(n, dn(0.2)),
			"SR_B7": fill(n, dn(0.15)),
		},
		QAPixel:  make([]uint16, n),
		QARadsat: make([]uint16, n),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 16, 0, 0, 0, time.UTC)
}

func testCatalog() *catalog.Memory {
	return &catalog.Memory{
		SiteRecords: []site.Record{
			{
				RecordID:  "10001",
				Name:      "Mina Vieja",
				X:         "-89.1",
				Y:         "13.7",
				Commodity: "Gold",
				ProdStage: "Producer",
			},
			{RecordID: "10002", Name: "Broken", X: "1e3", Y: "13.7"},
		},
		SceneList: []reflectance.RawScene{
			uniformScene("LC08_1", date(2020, time.December, 5), 0.05),
			uniformScene("LC08_2", date(2021, time.January, 10), 0.25),
			uniformScene("LC08_3", date(2021, time.February, 20), 0.15),
			// outside of the season
			uniformScene("LC08_4", date(2021, time.June, 1), 0.8),
		},
	}
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.New()
	cfg.Analysis.StartYear = 2020
	cfg.Analysis.EndYear = 2021
	cfg.Analysis.ExportStartYear = 2020
	cfg.Analysis.ExportEndYear = 2021
	cfg.Sites.BuffersM = []int{1000}
	cfg.JobsNumber = 2
	cfg.Export.Folder = t.TempDir()
	return cfg
}

func TestCompute(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig(t)
	cfg.Analysis.IncludeYearsWithNoImages = true
	cat := testCatalog()

	p := iopipeline.New(cfg, cat, cat)
	res, err := p.Compute(context.Background())
	require.NoError(t, err)

	rep := res.Report
	assert.Equal("all_sites", rep.ScopeTag)
	assert.Equal(2, rep.SiteRecords)
	assert.Equal(1, rep.ValidSites)
	assert.Equal(1, rep.ScopedSites)
	assert.Equal(1, rep.Zones)
	assert.Equal([]int{2020, 2021}, rep.Years)
	assert.Equal(2, rep.UnitsTotal)
	assert.Equal(2, rep.UnitsSucceeded)
	assert.Equal(0, rep.UnitsSkipped)
	assert.NotEmpty(rep.RunID)
	assert.NotEmpty(rep.Version)

	require.Len(t, res.Rows, 2)
	r := res.Rows[0]
	assert.Equal(2020, r.Year)
	assert.Equal("Mina Vieja_10001", r.SiteID)
	assert.Equal("Mina Vieja_10001_1000", r.SiteBufferKey)
	assert.Equal(1000, r.BufferM)
	assert.Equal(3, r.ImageCount)
	assert.Equal("2020-11-01", r.StartDate)
	assert.Equal("2021-05-01", r.EndDate)
	require.NotNil(t, r.MedianNDVI)
	assert.InDelta(0.15, *r.MedianNDVI, 1e-3)
	require.NotNil(t, r.MeanNDVI)
	assert.InDelta(0.15, *r.MeanNDVI, 1e-3)
	assert.Greater(r.ValidPxPct, 90.0)
	assert.InDelta(0, r.BarePct, 1e-9)
	assert.InDelta(r.AreaValidHa, r.AreaSparseHa, 1e-6)
	assert.Equal(zonal.FlagOK, r.QAFlag)
	assert.False(r.TopoCorrectionApplied)

	empty := res.Rows[1]
	assert.Equal(2021, empty.Year)
	assert.Equal(0, empty.ImageCount)
	assert.InDelta(0, empty.ValidPxPct, 1e-9)
	assert.Nil(empty.MeanNDVI)
	assert.Equal(zonal.FlagLowValidPixels, empty.QAFlag)
}

func TestComputeOmitsEmptyYears(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig(t)
	cat := testCatalog()

	res, err := iopipeline.New(cfg, cat, cat).Compute(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(2020, res.Rows[0].Year)
	assert.Equal(1, res.Report.UnitsSucceeded)
	assert.Equal(1, res.Report.UnitsOmitted)
}

func TestComputeNoSites(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scope.SiteName = "Nowhere"
	cat := testCatalog()

	_, err := iopipeline.New(cfg, cat, cat).Compute(context.Background())
	assert.Error(t, err)
}

func TestComputeInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.EndYear = 2000
	cat := testCatalog()

	_, err := iopipeline.New(cfg, cat, cat).Compute(context.Background())
	assert.Error(t, err)
}

func TestComputeCanceled(t *testing.T) {
	cfg := testConfig(t)
	cat := testCatalog()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := iopipeline.New(cfg, cat, cat).Compute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type brokenScenes struct{}

func (brokenScenes) Scenes(context.Context, catalog.Query) ([]reflectance.RawScene, error) {
	return nil, errors.New("catalog is gone")
}

func TestComputeSkipsFailedUnits(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig(t)
	cfg.Sites.BuffersM = []int{1000, 2000}
	cat := testCatalog()

	res, err := iopipeline.New(cfg, cat, brokenScenes{}).Compute(context.Background())
	require.NoError(t, err)
	assert.Empty(res.Rows)
	assert.Equal(4, res.Report.UnitsTotal)
	assert.Equal(4, res.Report.UnitsSkipped)
	require.Len(t, res.Report.Skipped, 4)
	assert.Contains(res.Report.Skipped[0].Reason, "catalog is gone")
}

func TestComputeDuplicateSites(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig(t)
	cat := testCatalog()
	rec := site.Record{Name: "Mina Vieja", X: "-89.1", Y: "13.7"}
	cat.SiteRecords = []site.Record{rec, rec}

	res, err := iopipeline.New(cfg, cat, cat).Compute(context.Background())
	require.NoError(t, err)
	assert.Equal(2, res.Report.SiteRecords)
	assert.Equal(1, res.Report.ValidSites)
	assert.Equal(1, res.Report.Zones)
	assert.Equal(2, res.Report.UnitsTotal)
	require.Len(t, res.Rows, 1)
	assert.Equal(2020, res.Rows[0].Year)
}

// flatDEM has constant elevation, so correction does not change
// reflectance.
func flatDEM() terrain.DEM {
	el := raster.NewBand("elevation", sceneGrid.Len())
	for i := range el.Data {
		el.Set(i, 100)
	}
	return terrain.DEM{Grid: sceneGrid, Elevation: el}
}

func TestComputeTopo(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig(t)
	cfg.Topo.Enabled = true
	cat := testCatalog()
	dem := flatDEM()
	cat.Elevation = &dem

	p := iopipeline.New(cfg, cat, cat, iopipeline.OptTerrain(cat))
	res, err := p.Compute(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	r := res.Rows[0]
	assert.True(r.TopoCorrectionApplied)
	require.NotNil(t, r.MedianNDVI)
	assert.InDelta(0.15, *r.MedianNDVI, 1e-3)
}

func TestComputeTopoNoTerrain(t *testing.T) {
	cfg := testConfig(t)
	cfg.Topo.Enabled = true
	cat := testCatalog()

	p := iopipeline.New(cfg, cat, cat, iopipeline.OptTerrain(cat))
	res, err := p.Compute(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.False(t, res.Rows[0].TopoCorrectionApplied)
}

// stallingTerrain blocks the first request until its context is done.
type stallingTerrain struct {
	mu    sync.Mutex
	calls int
	dem   terrain.DEM
}

func (s *stallingTerrain) DEM(ctx context.Context, _ orb.Bound) (terrain.DEM, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()
	if first {
		<-ctx.Done()
		return terrain.DEM{}, ctx.Err()
	}
	return s.dem, nil
}

func TestComputeTopoRetriesAfterTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow test in short mode")
	}
	assert := assert.New(t)
	cfg := testConfig(t)
	cfg.Topo.Enabled = true
	cfg.UnitTimeoutSec = 1
	cfg.JobsNumber = 1
	cat := testCatalog()
	cat.SceneList = append(cat.SceneList,
		uniformScene("LC08_5", date(2021, time.December, 3), 0.3),
		uniformScene("LC08_6", date(2022, time.January, 15), 0.3),
	)
	ts := &stallingTerrain{dem: flatDEM()}

	p := iopipeline.New(cfg, cat, cat, iopipeline.OptTerrain(ts))
	res, err := p.Compute(context.Background())
	require.NoError(t, err)
	assert.Equal(2, ts.calls)
	assert.Equal(1, res.Report.UnitsSkipped)
	require.Len(t, res.Rows, 1)
	assert.True(res.Rows[0].TopoCorrectionApplied)
}

type memorySink struct {
	runID string
	rows  []export.Row
}

func (s *memorySink) Write(_ context.Context, runID string, rows []export.Row) (int, error) {
	s.runID = runID
	s.rows = append(s.rows, rows...)
	return len(rows), nil
}

func TestExport(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig(t)
	cfg.Analysis.IncludeYearsWithNoImages = true
	cfg.Export.PerYear = true
	cfg.Export.ZonesGeoJSON = true
	cfg.Export.Prefix = "test"
	cat := testCatalog()

	p := iopipeline.New(cfg, cat, cat)
	res, err := p.Compute(context.Background())
	require.NoError(t, err)

	sink := &memorySink{}
	err = p.Export(context.Background(), res, sink)
	require.NoError(t, err)

	assert.Equal(res.Report.RunID, sink.runID)
	assert.Len(sink.rows, 2)
	assert.Equal(2, res.Report.DatabaseRows)

	dir := cfg.Export.Folder
	for _, v := range []string{
		"test_all_sites_2020_2021.csv",
		"test_all_sites_2020.csv",
		"test_all_sites_2021.csv",
		"test_all_sites_zones.geojson",
		"test_all_sites_report.json",
	} {
		_, err := os.Stat(filepath.Join(dir, v))
		assert.NoError(err, v)
	}
	assert.Len(res.Report.Files, 4)
}

func TestExportSeriesName(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig(t)
	cfg.Analysis.ExportStartYear = 2015
	cfg.Analysis.ExportEndYear = 2030
	cfg.Export.Prefix = "test"
	cat := testCatalog()

	p := iopipeline.New(cfg, cat, cat)
	res, err := p.Compute(context.Background())
	require.NoError(t, err)
	assert.Equal([]int{2020, 2021}, res.Report.Years)
	require.NoError(t, p.Export(context.Background(), res, nil))

	series := filepath.Join(cfg.Export.Folder, "test_all_sites_2015_2030.csv")
	_, err = os.Stat(series)
	assert.NoError(err)
	assert.Contains(res.Report.Files, series)
}
