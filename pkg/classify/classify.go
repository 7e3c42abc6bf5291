// Package classify splits NDVI values into bare, sparse and vegetated
// surface classes.
package classify

import (
	"fmt"

	"github.com/mrds-es/minedist/pkg/raster"
)

// Class of a pixel.
type Class int

const (
	None Class = iota
	Bare
	Sparse
	Vegetated
)

// Band names of a classification.
const (
	ClassBand         = "ndvi_class"
	MiningSoilBand    = "mining_soil"
	NonMiningSoilBand = "non_mining_soil"
)

// String returns the name of the class.
func (c Class) String() string {
	switch c {
	case Bare:
		return "bare"
	case Sparse:
		return "sparse"
	case Vegetated:
		return "vegetated"
	default:
		return "none"
	}
}

// Thresholds are upper NDVI limits of bare and sparse classes.
type Thresholds struct {
	BareMax   float64
	SparseMax float64
}

// DefaultThresholds returns NDVI limits 0.1 and 0.2.
func DefaultThresholds() Thresholds {
	return Thresholds{BareMax: 0.1, SparseMax: 0.2}
}

// Validate returns an error when BareMax is not less than SparseMax.
func (t Thresholds) Validate() error {
	if t.BareMax >= t.SparseMax {
		return fmt.Errorf(
			"bare NDVI max %g must be less than sparse NDVI max %g",
			t.BareMax, t.SparseMax,
		)
	}
	return nil
}

// ClassOf returns the class of an NDVI value. Limits are exclusive for
// the lower class.
func (t Thresholds) ClassOf(ndvi float64) Class {
	switch {
	case ndvi < t.BareMax:
		return Bare
	case ndvi < t.SparseMax:
		return Sparse
	default:
		return Vegetated
	}
}

// Classified holds per-pixel classes. Class values are 1, 2, 3; MiningSoil
// and NonMiningSoil are 1 or 0. All bands are masked where NDVI is masked.
type Classified struct {
	Class         raster.Band
	MiningSoil    raster.Band
	NonMiningSoil raster.Band
}

// ClassAt returns the class of a pixel, None for masked pixels.
func (c Classified) ClassAt(i int) Class {
	v, ok := c.Class.At(i)
	if !ok {
		return None
	}
	return Class(v)
}

// Classify assigns a class to every valid NDVI pixel.
func (t Thresholds) Classify(ndvi raster.Band) Classified {
	n := ndvi.Len()
	res := Classified{
		Class:         raster.NewBand(ClassBand, n),
		MiningSoil:    raster.NewBand(MiningSoilBand, n),
		NonMiningSoil: raster.NewBand(NonMiningSoilBand, n),
	}
	for i := range n {
		v, ok := ndvi.At(i)
		if !ok {
			continue
		}
		cl := t.ClassOf(v)
		res.Class.Set(i, float64(cl))
		if cl == Bare {
			res.MiningSoil.Set(i, 1)
			res.NonMiningSoil.Set(i, 0)
		} else {
			res.MiningSoil.Set(i, 0)
			res.NonMiningSoil.Set(i, 1)
		}
	}
	return res
}
