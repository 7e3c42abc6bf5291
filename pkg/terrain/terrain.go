// Package terrain applies an illumination (cosine-ratio) correction to
// reflectance in rugged terrain.
package terrain

import (
	"math"

	"github.com/mrds-es/minedist/pkg/raster"
	"github.com/mrds-es/minedist/pkg/reflectance"
)

// Default sun position used when a scene has no metadata.
const (
	DefaultSunAzimuth   = 180.0
	DefaultSunElevation = 45.0
)

// DEM is an elevation grid in meters.
type DEM struct {
	Elevation raster.Band
	Grid      raster.Grid
}

// Products holds slope and aspect in radians for every DEM pixel.
// Edge pixels have no neighbours and are invalid.
type Products struct {
	Grid   raster.Grid
	Slope  raster.Band
	Aspect raster.Band
}

// Settings configure the correction.
type Settings struct {
	// SlopeMinDeg is the smallest slope that gets corrected.
	SlopeMinDeg float64
	// MinIlluminationCosine is the floor of the illumination cosine.
	MinIlluminationCosine float64
}

// Derive computes slope and aspect with central differences.
// Aspect is measured clockwise from north, toward the downslope direction.
func Derive(dem DEM) Products {
	g := dem.Grid
	res := Products{
		Grid:   g,
		Slope:  raster.NewBand("slope", g.Len()),
		Aspect: raster.NewBand("aspect", g.Len()),
	}
	for row := 1; row < g.Height-1; row++ {
		dx, dy := g.PixelSizeM(row)
		for col := 1; col < g.Width-1; col++ {
			w, okW := dem.Elevation.At(g.Index(col-1, row))
			e, okE := dem.Elevation.At(g.Index(col+1, row))
			n, okN := dem.Elevation.At(g.Index(col, row-1))
			s, okS := dem.Elevation.At(g.Index(col, row+1))
			if !okW || !okE || !okN || !okS {
				continue
			}
			dzdx := (e - w) / (2 * dx)
			dzdy := (n - s) / (2 * dy)
			i := g.Index(col, row)
			res.Slope.Set(i, math.Atan(math.Hypot(dzdx, dzdy)))
			asp := math.Atan2(-dzdx, -dzdy)
			if asp < 0 {
				asp += 2 * math.Pi
			}
			res.Aspect.Set(i, asp)
		}
	}
	return res
}

// Factor returns the multiplier for reflectance of a pixel. Slopes under
// the minimum are not corrected and get factor 1.
func Factor(slope, aspect, sunAz, sunEl float64, st Settings) float64 {
	if slope < st.SlopeMinDeg*math.Pi/180 {
		return 1
	}
	zen := (90 - sunEl) * math.Pi / 180
	az := sunAz * math.Pi / 180
	ic := math.Cos(zen)*math.Cos(slope) +
		math.Sin(zen)*math.Sin(slope)*math.Cos(az-aspect)
	ic = math.Max(ic, st.MinIlluminationCosine)
	return math.Cos(zen) / ic
}

// Correct multiplies optical bands of the observation by the illumination
// factor. Pixels that fall outside of the terrain grid, or have no slope,
// stay unchanged.
func Correct(obs reflectance.Observation, tp Products, st Settings) reflectance.Observation {
	sunAz, sunEl := DefaultSunAzimuth, DefaultSunElevation
	if obs.SunAzimuth != nil {
		sunAz = *obs.SunAzimuth
	}
	if obs.SunElevation != nil {
		sunEl = *obs.SunElevation
	}

	g := obs.Image.Grid
	factors := make([]float64, g.Len())
	for i := range factors {
		factors[i] = 1
		col, row := g.ColRow(i)
		ti, ok := tp.Grid.Locate(g.Center(col, row))
		if !ok {
			continue
		}
		slope, okS := tp.Slope.At(ti)
		aspect, okA := tp.Aspect.At(ti)
		if !okS || !okA {
			continue
		}
		factors[i] = Factor(slope, aspect, sunAz, sunEl, st)
	}

	img := raster.Image{Grid: g}
	for _, b := range obs.Image.Bands {
		nb := raster.NewBand(b.Name, b.Len())
		for i := range b.Data {
			if v, ok := b.At(i); ok {
				nb.Set(i, v*factors[i])
			}
		}
		img.Bands = append(img.Bands, nb)
	}
	obs.Image = img
	obs.TopoCorrected = true
	return obs
}
