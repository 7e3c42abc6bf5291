package spectral_test

import (
	"math/rand/v2"
	"testing"

	"github.com/mrds-es/minedist/pkg/raster"
	"github.com/mrds-es/minedist/pkg/reflectance"
	"github.com/mrds-es/minedist/pkg/spectral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func band(name string, vals ...float64) raster.Band {
	b := raster.NewBand(name, len(vals))
	for i, v := range vals {
		b.Set(i, v)
	}
	return b
}

func TestNormalizedDifference(t *testing.T) {
	assert := assert.New(t)
	nir := band("nir", 0.3, 0.2, 0, 0.4)
	red := band("red", 0.1, 0.2, 0, 0.1)
	red.Mask(3)

	res := spectral.NormalizedDifference(spectral.NDVI, nir, red)
	assert.Equal(spectral.NDVI, res.Name)
	v, ok := res.At(0)
	assert.True(ok)
	assert.InDelta(0.5, v, 1e-12)
	v, ok = res.At(1)
	assert.True(ok)
	assert.Equal(0.0, v)
	_, ok = res.At(2)
	assert.False(ok, "zero denominator")
	_, ok = res.At(3)
	assert.False(ok, "masked input")
}

func TestNormalizedDifferenceRange(t *testing.T) {
	assert := assert.New(t)
	r := rand.New(rand.NewPCG(1, 2))
	n := 1000
	a := raster.NewBand("a", n)
	b := raster.NewBand("b", n)
	for i := range n {
		a.Set(i, r.Float64())
		b.Set(i, r.Float64())
	}
	res := spectral.NormalizedDifference("nd", a, b)
	for i := range n {
		if v, ok := res.At(i); ok {
			assert.GreaterOrEqual(v, -1.0)
			assert.LessOrEqual(v, 1.0)
		}
	}
}

func TestRatio(t *testing.T) {
	assert := assert.New(t)
	res := spectral.Ratio(spectral.IOI, band("red", 0.2, 0.1), band("blue", 0.1, 0))
	v, ok := res.At(0)
	assert.True(ok)
	assert.InDelta(2, v, 1e-12)
	_, ok = res.At(1)
	assert.False(ok)
}

func TestSaviBsi(t *testing.T) {
	assert := assert.New(t)
	savi := spectral.Savi(band("nir", 0.4), band("red", 0.1), 0.5)
	v, _ := savi.At(0)
	assert.InDelta(0.3/1.0*1.5, v, 1e-12)

	bsi := spectral.Bsi(band("swir1", 0.3), band("red", 0.2), band("nir", 0.1), band("blue", 0.1))
	v, _ = bsi.At(0)
	assert.InDelta(0.3/0.7, v, 1e-12)
}

func TestAddIndices(t *testing.T) {
	assert := assert.New(t)
	g := raster.Grid{PixelDeg: 0.001, Width: 2, Height: 1}
	im := raster.NewImage(g, reflectance.OpticalBands...)
	vals := []float64{0.05, 0.08, 0.1, 0.3, 0.2, 0.1}
	for i := range im.Bands {
		im.Bands[i].Set(0, vals[i])
	}

	require.NoError(t, spectral.AddIndices(&im, spectral.DefaultSAVIL))
	assert.Equal(append(reflectance.OpticalBands, spectral.Names...), im.Names())
	ndvi, _ := im.Band(spectral.NDVI)
	v, ok := ndvi.At(0)
	assert.True(ok)
	assert.InDelta(0.5, v, 1e-12)
	_, ok = ndvi.At(1)
	assert.False(ok)

	bad := raster.NewImage(g, reflectance.Red)
	assert.Error(spectral.AddIndices(&bad, 0.5))
}
