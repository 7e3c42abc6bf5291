package iocatalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/mrds-es/minedist/internal/iocatalog"
	"github.com/mrds-es/minedist/pkg/catalog"
	"github.com/mrds-es/minedist/pkg/errcode"
	"github.com/mrds-es/minedist/pkg/raster"
	"github.com/mrds-es/minedist/pkg/reflectance"
	"github.com/mrds-es/minedist/pkg/site"
	"github.com/mrds-es/minedist/pkg/terrain"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCatalog(t *testing.T) *iocatalog.SQLite {
	path := filepath.Join(t.TempDir(), "scenes.sqlite")
	c, err := iocatalog.Create(context.Background(), path, iocatalog.Fields{})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func testScene(id string, acq time.Time, cloud float64) reflectance.RawScene {
	g := raster.Grid{West: -89.2, North: 13.8, PixelDeg: 0.001, Width: 2, Height: 2}
	az := 130.5
	sc := reflectance.RawScene{
		ID:         id,
		Sensor:     reflectance.L8,
		Acquired:   acq,
		CloudCover: cloud,
		SunAzimuth: &az,
		Grid:       g,
		Bands:      make(map[string][]uint16),
		QAPixel:    []uint16{0, 8, 0, 0},
		QARadsat:   []uint16{0, 0, 1, 0},
	}
	for _, b := range reflectance.L8.SourceBands() {
		sc.Bands[b] = []uint16{7273, 8000, 9000, 65535}
	}
	return sc
}

func TestSQLiteSites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping filesystem test in short mode")
	}
	assert := assert.New(t)
	ctx := context.Background()
	c := openTestCatalog(t)

	recs := []site.Record{
		{RecordID: "1", Name: "Mina A", X: "-89.1", Y: "13.7", Commodity: "Gold"},
		{RecordID: "2", Name: "Mina B", X: "", Y: "13.7"},
	}
	require.NoError(t, c.PutSites(ctx, recs))

	res, err := c.Sites(ctx, orb.Bound{})
	require.NoError(t, err)
	assert.Equal(recs, res)

	b := orb.Bound{Min: orb.Point{-90, 13}, Max: orb.Point{-89, 14}}
	res, err = c.Sites(ctx, b)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal("Mina A", res[0].Name)
}

func TestSQLiteBadField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.sqlite")
	_, err := iocatalog.Create(context.Background(), path, iocatalog.Fields{X: "x; DROP"})
	assert.Error(t, err)
}

func TestSQLiteOpen(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping filesystem test in short mode")
	}
	assert := assert.New(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scenes.sqlite")

	_, err := iocatalog.Open(ctx, path, iocatalog.Fields{})
	assert.Error(err)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(errcode.CatalogOpenError, gnErr.Code)
	_, err = os.Stat(path)
	assert.True(os.IsNotExist(err), "missing catalog must not be created")

	c, err := iocatalog.Create(ctx, path, iocatalog.Fields{})
	require.NoError(t, err)
	acq := time.Date(2020, 12, 10, 16, 0, 0, 0, time.UTC)
	require.NoError(t, c.PutScene(ctx, testScene("s1", acq, 10)))
	require.NoError(t, c.Close())

	c, err = iocatalog.Open(ctx, path, iocatalog.Fields{})
	require.NoError(t, err)
	defer c.Close()
	res, err := c.Scenes(ctx, catalog.Query{})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal("s1", res[0].ID)
}

func TestSQLiteScenes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping filesystem test in short mode")
	}
	assert := assert.New(t)
	ctx := context.Background()
	c := openTestCatalog(t)

	d := func(y, m int) time.Time {
		return time.Date(y, time.Month(m), 10, 16, 0, 0, 0, time.UTC)
	}
	require.NoError(t, c.PutScene(ctx, testScene("s1", d(2020, 12), 10)))
	require.NoError(t, c.PutScene(ctx, testScene("s2", d(2021, 2), 75)))
	require.NoError(t, c.PutScene(ctx, testScene("s3", d(2021, 6), 5)))

	res, err := c.Scenes(ctx, catalog.Query{})
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal("s1", res[0].ID)
	assert.Equal(reflectance.L8, res[0].Sensor)
	assert.True(d(2020, 12).Equal(res[0].Acquired))
	require.NotNil(t, res[0].SunAzimuth)
	assert.InDelta(130.5, *res[0].SunAzimuth, 1e-9)
	assert.Nil(res[0].SunElevation)
	assert.Equal([]uint16{0, 8, 0, 0}, res[0].QAPixel)
	assert.Equal([]uint16{0, 0, 1, 0}, res[0].QARadsat)
	assert.Equal([]uint16{7273, 8000, 9000, 65535}, res[0].Bands["SR_B4"])
	assert.Len(res[0].Bands, 6)
	assert.Equal(2, res[0].Grid.Width)

	q := catalog.Query{
		Start:    time.Date(2020, 11, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC),
		MaxCloud: 70,
	}
	res, err = c.Scenes(ctx, q)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal("s1", res[0].ID)

	q = catalog.Query{Bound: orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{11, 11}}}
	res, err = c.Scenes(ctx, q)
	require.NoError(t, err)
	assert.Empty(res)

	q = catalog.Query{Bound: orb.Bound{Min: orb.Point{-89.3, 13.7}, Max: orb.Point{-89.1999, 13.9}}}
	res, err = c.Scenes(ctx, q)
	require.NoError(t, err)
	assert.Len(res, 3)
}

func TestSQLiteDEM(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping filesystem test in short mode")
	}
	assert := assert.New(t)
	ctx := context.Background()
	c := openTestCatalog(t)

	_, err := c.DEM(ctx, orb.Bound{})
	assert.ErrorIs(err, catalog.ErrNoTerrain)

	g := raster.Grid{West: -89.2, North: 13.8, PixelDeg: 0.001, Width: 3, Height: 1}
	el := raster.NewBand("elevation", g.Len())
	el.Set(0, 100)
	el.Set(2, 250.5)
	require.NoError(t, c.PutDEM(ctx, terrain.DEM{Grid: g, Elevation: el}))

	dem, err := c.DEM(ctx, g.Bound())
	require.NoError(t, err)
	assert.Equal(g, dem.Grid)
	v, ok := dem.Elevation.At(0)
	assert.True(ok)
	assert.InDelta(100, v, 1e-6)
	_, ok = dem.Elevation.At(1)
	assert.False(ok)
	v, ok = dem.Elevation.At(2)
	assert.True(ok)
	assert.InDelta(250.5, v, 1e-6)

	far := orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{11, 11}}
	_, err = c.DEM(ctx, far)
	assert.ErrorIs(err, catalog.ErrNoTerrain)
}
