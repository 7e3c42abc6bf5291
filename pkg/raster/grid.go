// Package raster provides in-memory georeferenced grids where every pixel
// carries a value together with a validity flag. Masked pixels are never
// represented by sentinel values.
package raster

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// MetersPerDegree is the length of one degree of latitude on the
// spherical Earth used by orb/geo.
const MetersPerDegree = 2 * math.Pi * orb.EarthRadius / 360

// Grid describes a north-up grid of square pixels in geographic
// coordinates. Rows go from north to south, columns from west to east.
type Grid struct {
	// West is the longitude of the western edge of the first column.
	West float64
	// North is the latitude of the northern edge of the first row.
	North float64
	// PixelDeg is the pixel size in degrees.
	PixelDeg float64
	Width    int
	Height   int
}

// GridFor creates a grid that covers the bound with pixels of roughly
// scaleM meters.
func GridFor(b orb.Bound, scaleM float64) Grid {
	px := scaleM / MetersPerDegree
	w := int(math.Ceil((b.Max.Lon() - b.Min.Lon()) / px))
	h := int(math.Ceil((b.Max.Lat() - b.Min.Lat()) / px))
	return Grid{
		West:     b.Min.Lon(),
		North:    b.Max.Lat(),
		PixelDeg: px,
		Width:    max(w, 1),
		Height:   max(h, 1),
	}
}

// Len returns the number of pixels in the grid.
func (g Grid) Len() int {
	return g.Width * g.Height
}

// Index converts column and row to a flat pixel index.
func (g Grid) Index(col, row int) int {
	return row*g.Width + col
}

// ColRow converts a flat pixel index to column and row.
func (g Grid) ColRow(i int) (int, int) {
	return i % g.Width, i / g.Width
}

// Center returns the center of a pixel.
func (g Grid) Center(col, row int) orb.Point {
	return orb.Point{
		g.West + (float64(col)+0.5)*g.PixelDeg,
		g.North - (float64(row)+0.5)*g.PixelDeg,
	}
}

// Cell returns the bound of a pixel.
func (g Grid) Cell(col, row int) orb.Bound {
	w := g.West + float64(col)*g.PixelDeg
	n := g.North - float64(row)*g.PixelDeg
	return orb.Bound{
		Min: orb.Point{w, n - g.PixelDeg},
		Max: orb.Point{w + g.PixelDeg, n},
	}
}

// Bound returns the extent of the whole grid.
func (g Grid) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{g.West, g.North - float64(g.Height)*g.PixelDeg},
		Max: orb.Point{g.West + float64(g.Width)*g.PixelDeg, g.North},
	}
}

// Locate finds the pixel that contains the point. The second value is
// false when the point is outside of the grid.
func (g Grid) Locate(p orb.Point) (int, bool) {
	if g.PixelDeg <= 0 {
		return 0, false
	}
	col := int(math.Floor((p.Lon() - g.West) / g.PixelDeg))
	row := int(math.Floor((g.North - p.Lat()) / g.PixelDeg))
	if col < 0 || row < 0 || col >= g.Width || row >= g.Height {
		return 0, false
	}
	return g.Index(col, row), true
}

// PixelAreaHa returns the area of a pixel of the given row in hectares.
// All pixels of one row have the same area.
func (g Grid) PixelAreaHa(row int) float64 {
	poly := g.Cell(0, row).ToPolygon()
	return geo.Area(poly) / 10_000
}

// PixelSizeM returns the east-west and north-south pixel sizes in meters
// at the latitude of the given row.
func (g Grid) PixelSizeM(row int) (float64, float64) {
	lat := g.Center(0, row).Lat()
	dy := g.PixelDeg * MetersPerDegree
	dx := dy * math.Cos(lat*math.Pi/180)
	return dx, dy
}
