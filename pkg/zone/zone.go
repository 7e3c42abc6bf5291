// Package zone builds circular analysis zones around sites.
package zone

import (
	"strconv"

	"github.com/mrds-es/minedist/pkg/site"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// DefaultSegments is the number of vertices of a buffer polygon.
const DefaultSegments = 64

// Zone is a buffer of a given radius around one site.
type Zone struct {
	Site    site.Site
	RadiusM int
	Polygon orb.Polygon
}

// Key returns a join key of the site and the radius.
func (z Zone) Key() string {
	return z.Site.ID + "_" + strconv.Itoa(z.RadiusM)
}

// Bound returns the bounding box of the zone.
func (z Zone) Bound() orb.Bound {
	return z.Polygon.Bound()
}

// AreaHa returns the geodesic area of the zone in hectares.
func (z Zone) AreaHa() float64 {
	return geo.Area(z.Polygon) / 10_000
}

// Contains returns true if the point is inside the zone.
func (z Zone) Contains(p orb.Point) bool {
	return planar.PolygonContains(z.Polygon, p)
}

// Buffer creates a geodesic circle around the site.
func Buffer(s site.Site, radiusM, segments int) Zone {
	if segments < 3 {
		segments = DefaultSegments
	}
	ring := make(orb.Ring, 0, segments+1)
	step := 360.0 / float64(segments)
	for i := range segments {
		p := geo.PointAtBearingAndDistance(s.Point, float64(i)*step, float64(radiusM))
		ring = append(ring, p)
	}
	ring = append(ring, ring[0])
	// keep counter-clockwise orientation
	if ring.Orientation() == orb.CW {
		ring.Reverse()
	}
	return Zone{Site: s, RadiusM: radiusM, Polygon: orb.Polygon{ring}}
}

// Build creates one zone per site and radius. Zones of the same radius
// are grouped together, in the order of radii.
func Build(sites []site.Site, radii []int, segments int) []Zone {
	res := make([]Zone, 0, len(sites)*len(radii))
	for _, r := range radii {
		for _, s := range sites {
			res = append(res, Buffer(s, r, segments))
		}
	}
	return res
}

// Bound returns the union of bounds of all zones.
func Bound(zones []Zone) orb.Bound {
	if len(zones) == 0 {
		return orb.Bound{}
	}
	res := zones[0].Bound()
	for _, z := range zones[1:] {
		res = res.Union(z.Bound())
	}
	return res
}

// FeatureCollection converts zones to GeoJSON features with site
// metadata in properties.
func FeatureCollection(zones []Zone) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, z := range zones {
		f := geojson.NewFeature(z.Polygon)
		f.Properties["site_id"] = z.Site.ID
		f.Properties["site_name"] = z.Site.Name
		f.Properties["prod_stage"] = z.Site.ProdStage
		f.Properties["commodities"] = z.Site.Commodities
		f.Properties["buffer_m"] = z.RadiusM
		f.Properties["site_buffer_key"] = z.Key()
		fc.Append(f)
	}
	return fc
}
