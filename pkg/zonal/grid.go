package zonal

import (
	"math"

	"github.com/mrds-es/minedist/pkg/raster"
	"github.com/mrds-es/minedist/pkg/zone"
)

// pixelRange returns inclusive column and row ranges of the grid that
// intersect the bound of the zone.
func pixelRange(z zone.Zone, g raster.Grid) ([2]int, [2]int, bool) {
	zb := z.Bound()
	if g.Len() == 0 || !zb.Intersects(g.Bound()) {
		return [2]int{}, [2]int{}, false
	}
	colOf := func(lon float64) int {
		return int(math.Floor((lon - g.West) / g.PixelDeg))
	}
	rowOf := func(lat float64) int {
		return int(math.Floor((g.North - lat) / g.PixelDeg))
	}
	cols := [2]int{
		max(colOf(zb.Min.Lon()), 0),
		min(colOf(zb.Max.Lon()), g.Width-1),
	}
	rows := [2]int{
		max(rowOf(zb.Max.Lat()), 0),
		min(rowOf(zb.Min.Lat()), g.Height-1),
	}
	if cols[0] > cols[1] || rows[0] > rows[1] {
		return cols, rows, false
	}
	return cols, rows, true
}
