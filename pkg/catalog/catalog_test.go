package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/mrds-es/minedist/pkg/catalog"
	"github.com/mrds-es/minedist/pkg/raster"
	"github.com/mrds-es/minedist/pkg/reflectance"
	"github.com/mrds-es/minedist/pkg/site"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scene(id string, t time.Time, cloud float64, west float64) reflectance.RawScene {
	return reflectance.RawScene{
		ID:         id,
		Acquired:   t,
		CloudCover: cloud,
		Grid:       raster.Grid{West: west, North: 14, PixelDeg: 0.01, Width: 10, Height: 10},
	}
}

func TestMemoryScenes(t *testing.T) {
	assert := assert.New(t)
	d := func(m int) time.Time { return time.Date(2021, time.Month(m), 1, 0, 0, 0, 0, time.UTC) }
	m := &catalog.Memory{SceneList: []reflectance.RawScene{
		scene("a", d(1), 10, -89),
		scene("b", d(2), 80, -89),
		scene("c", d(3), 10, -80),
		scene("d", d(6), 10, -89),
	}}

	q := catalog.Query{
		Bound:    orb.Bound{Min: orb.Point{-88.95, 13.9}, Max: orb.Point{-88.9, 13.95}},
		Start:    d(1),
		End:      d(6),
		MaxCloud: 70,
	}
	res, err := m.Scenes(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal("a", res[0].ID)

	res, err = m.Scenes(context.Background(), catalog.Query{})
	require.NoError(t, err)
	assert.Len(res, 4)
}

func TestMemorySites(t *testing.T) {
	assert := assert.New(t)
	m := &catalog.Memory{SiteRecords: []site.Record{
		{RecordID: "1", X: "-89", Y: "13.5"},
		{RecordID: "2", X: "10", Y: "10"},
		{RecordID: "3", X: "bad", Y: "13.5"},
	}}
	res, err := m.Sites(context.Background(), orb.Bound{})
	require.NoError(t, err)
	assert.Len(res, 3)

	b := orb.Bound{Min: orb.Point{-90, 13}, Max: orb.Point{-88, 14}}
	res, err = m.Sites(context.Background(), b)
	require.NoError(t, err)
	assert.Len(res, 1)

	_, err = m.DEM(context.Background(), b)
	assert.ErrorIs(err, catalog.ErrNoTerrain)
}
