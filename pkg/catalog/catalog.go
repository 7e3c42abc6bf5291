// Package catalog declares sources of sites, scenes and terrain used by
// the pipeline.
package catalog

import (
	"context"
	"time"

	"github.com/mrds-es/minedist/pkg/reflectance"
	"github.com/mrds-es/minedist/pkg/site"
	"github.com/mrds-es/minedist/pkg/terrain"
	"github.com/paulmach/orb"
)

// SiteCatalog provides raw site records.
type SiteCatalog interface {
	// Sites returns records with coordinates inside the bound. A zero
	// bound returns all records, including ones with unparsable
	// coordinates.
	Sites(ctx context.Context, bound orb.Bound) ([]site.Record, error)
}

// Query selects scenes for a season.
type Query struct {
	Bound orb.Bound
	// Start is inclusive, End is exclusive.
	Start time.Time
	End   time.Time
	// MaxCloud keeps scenes with cloud cover below it, 0 means no limit.
	MaxCloud float64
}

// SceneCatalog provides surface reflectance scenes.
type SceneCatalog interface {
	// Scenes returns scenes that intersect the bound and are acquired
	// inside the time range, in catalog order.
	Scenes(ctx context.Context, q Query) ([]reflectance.RawScene, error)
}

// TerrainSource provides elevation for the illumination correction.
type TerrainSource interface {
	// DEM returns elevation covering the bound.
	DEM(ctx context.Context, bound orb.Bound) (terrain.DEM, error)
}

// Match returns true if the scene satisfies the query.
func (q Query) Match(sc reflectance.RawScene) bool {
	if !q.Start.IsZero() && sc.Acquired.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && !sc.Acquired.Before(q.End) {
		return false
	}
	if q.MaxCloud > 0 && sc.CloudCover >= q.MaxCloud {
		return false
	}
	if !q.Bound.IsZero() && !q.Bound.Intersects(sc.Grid.Bound()) {
		return false
	}
	return true
}
