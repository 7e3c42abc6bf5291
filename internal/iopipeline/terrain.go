package iopipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mrds-es/minedist/pkg/catalog"
	"github.com/mrds-es/minedist/pkg/terrain"
	"github.com/paulmach/orb"
)

// terrainCache keeps slope and aspect of every site, so elevation is
// read once per site and not once per year.
type terrainCache struct {
	mu  sync.Mutex
	res map[string]*terrainEntry
}

// terrainEntry is settled after elevation is read, or after the source
// reports that it has none for the site.
type terrainEntry struct {
	mu       sync.Mutex
	settled  bool
	products terrain.Products
	ok       bool
}

func newTerrainCache() *terrainCache {
	return &terrainCache{res: make(map[string]*terrainEntry)}
}

// products returns terrain of a site. The second value is false when
// elevation is not available, in that case scenes are not corrected.
func (p *Pipeline) products(ctx context.Context, siteID string, b orb.Bound) (terrain.Products, bool) {
	if p.terrain == nil {
		return terrain.Products{}, false
	}
	c := p.terrains
	c.mu.Lock()
	e, ok := c.res[siteID]
	if !ok {
		e = &terrainEntry{}
		c.res[siteID] = e
	}
	c.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.settled {
		return e.products, e.ok
	}

	dem, err := p.terrain.DEM(ctx, b)
	switch {
	case err == nil:
		e.products = terrain.Derive(dem)
		e.ok = true
		e.settled = true
	case errors.Is(err, catalog.ErrNoTerrain):
		slog.Warn("No terrain, scenes stay uncorrected", "site_id", siteID)
		e.settled = true
	default:
		// a timeout or a failed read belongs to this unit only,
		// the next year of the site asks again
		slog.Warn("Cannot read terrain, scenes stay uncorrected",
			"site_id", siteID, "error", err)
	}
	return e.products, e.ok
}
