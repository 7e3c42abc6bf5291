// Package spectral computes per-pixel spectral indices from harmonized
// reflectance bands.
package spectral

import (
	"fmt"

	"github.com/mrds-es/minedist/pkg/raster"
	"github.com/mrds-es/minedist/pkg/reflectance"
)

// Index band names.
const (
	NDVI    = "NDVI"
	NDMI    = "NDMI"
	NDBI    = "NDBI"
	NDTI    = "NDTI"
	SAVI    = "SAVI"
	BSI     = "BSI"
	IOI     = "IOI"
	CLAY    = "CLAY"
	FERROUS = "FERROUS"
)

// DefaultSAVIL is the soil brightness factor of SAVI.
const DefaultSAVIL = 0.5

// Names lists index bands in the order they are added to an image.
var Names = []string{NDVI, NDMI, NDBI, NDTI, SAVI, BSI, IOI, CLAY, FERROUS}

// NormalizedDifference returns (a-b)/(a+b). A pixel is masked when any
// input is masked or a+b is zero.
func NormalizedDifference(name string, a, b raster.Band) raster.Band {
	return combine(name, func(v []float64) (float64, bool) {
		sum := v[0] + v[1]
		if sum == 0 {
			return 0, false
		}
		return (v[0] - v[1]) / sum, true
	}, a, b)
}

// Ratio returns a/b, masked where b is zero.
func Ratio(name string, a, b raster.Band) raster.Band {
	return combine(name, func(v []float64) (float64, bool) {
		if v[1] == 0 {
			return 0, false
		}
		return v[0] / v[1], true
	}, a, b)
}

// Savi returns soil adjusted vegetation index
// (nir-red)/(nir+red+L)*(1+L).
func Savi(nir, red raster.Band, l float64) raster.Band {
	return combine(SAVI, func(v []float64) (float64, bool) {
		den := v[0] + v[1] + l
		if den == 0 {
			return 0, false
		}
		return (v[0] - v[1]) / den * (1 + l), true
	}, nir, red)
}

// Bsi returns bare soil index
// ((swir1+red)-(nir+blue))/((swir1+red)+(nir+blue)).
func Bsi(swir1, red, nir, blue raster.Band) raster.Band {
	return combine(BSI, func(v []float64) (float64, bool) {
		a := v[0] + v[1]
		b := v[2] + v[3]
		if a+b == 0 {
			return 0, false
		}
		return (a - b) / (a + b), true
	}, swir1, red, nir, blue)
}

// AddIndices computes all index bands from optical bands of the image and
// adds them to it.
func AddIndices(im *raster.Image, saviL float64) error {
	bs := make(map[string]raster.Band, len(reflectance.OpticalBands))
	for _, v := range reflectance.OpticalBands {
		b, ok := im.Band(v)
		if !ok {
			return fmt.Errorf("image misses band %s", v)
		}
		bs[v] = b
	}
	blue, green, red := bs[reflectance.Blue], bs[reflectance.Green], bs[reflectance.Red]
	nir, swir1, swir2 := bs[reflectance.NIR], bs[reflectance.SWIR1], bs[reflectance.SWIR2]

	idx := []raster.Band{
		NormalizedDifference(NDVI, nir, red),
		NormalizedDifference(NDMI, nir, swir1),
		NormalizedDifference(NDBI, swir1, nir),
		NormalizedDifference(NDTI, red, green),
		Savi(nir, red, saviL),
		Bsi(swir1, red, nir, blue),
		Ratio(IOI, red, blue),
		Ratio(CLAY, swir1, swir2),
		Ratio(FERROUS, swir1, nir),
	}
	for _, b := range idx {
		if err := im.SetBand(b); err != nil {
			return err
		}
	}
	return nil
}

func combine(
	name string,
	fn func([]float64) (float64, bool),
	bands ...raster.Band,
) raster.Band {
	res := raster.NewBand(name, bands[0].Len())
	vals := make([]float64, len(bands))
	for i := range res.Data {
		ok := true
		for j, b := range bands {
			vals[j], ok = b.At(i)
			if !ok {
				break
			}
		}
		if !ok {
			continue
		}
		if v, ok := fn(vals); ok {
			res.Set(i, v)
		}
	}
	return res
}
