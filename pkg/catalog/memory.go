package catalog

import (
	"context"
	"errors"

	"github.com/mrds-es/minedist/pkg/reflectance"
	"github.com/mrds-es/minedist/pkg/site"
	"github.com/mrds-es/minedist/pkg/terrain"
	"github.com/paulmach/orb"
)

// ErrNoTerrain is returned when a catalog has no elevation data.
var ErrNoTerrain = errors.New("no elevation data")

// Memory keeps sites, scenes and elevation in memory. It is useful for
// tests and small runs.
type Memory struct {
	SiteRecords []site.Record
	SceneList   []reflectance.RawScene
	Elevation   *terrain.DEM
}

// Sites implements SiteCatalog.
func (m *Memory) Sites(ctx context.Context, bound orb.Bound) ([]site.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bound.IsZero() {
		return m.SiteRecords, nil
	}
	var res []site.Record
	for _, v := range m.SiteRecords {
		x, okX := site.ParseCoord(v.X)
		y, okY := site.ParseCoord(v.Y)
		if okX && okY && bound.Contains(orb.Point{x, y}) {
			res = append(res, v)
		}
	}
	return res, nil
}

// Scenes implements SceneCatalog.
func (m *Memory) Scenes(ctx context.Context, q Query) ([]reflectance.RawScene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var res []reflectance.RawScene
	for _, v := range m.SceneList {
		if q.Match(v) {
			res = append(res, v)
		}
	}
	return res, nil
}

// DEM implements TerrainSource.
func (m *Memory) DEM(ctx context.Context, _ orb.Bound) (terrain.DEM, error) {
	if err := ctx.Err(); err != nil {
		return terrain.DEM{}, err
	}
	if m.Elevation == nil {
		return terrain.DEM{}, ErrNoTerrain
	}
	return *m.Elevation, nil
}
