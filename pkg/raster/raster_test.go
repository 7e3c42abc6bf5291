package raster_test

import (
	"testing"

	"github.com/mrds-es/minedist/pkg/raster"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridFor(t *testing.T) {
	assert := assert.New(t)
	b := orb.Bound{Min: orb.Point{-89, 13}, Max: orb.Point{-88.99, 13.01}}
	g := raster.GridFor(b, 60)
	assert.Equal(-89.0, g.West)
	assert.Equal(13.01, g.North)
	// 0.01 deg is about 1113 m
	assert.Equal(19, g.Width)
	assert.Equal(19, g.Height)
	assert.Equal(19*19, g.Len())
	gb := g.Bound()
	assert.True(gb.Contains(b.Min))
	assert.True(gb.Contains(b.Max))
}

func TestGridLocate(t *testing.T) {
	assert := assert.New(t)
	g := raster.Grid{West: 0, North: 10, PixelDeg: 1, Width: 4, Height: 3}

	for i := range g.Len() {
		col, row := g.ColRow(i)
		assert.Equal(i, g.Index(col, row))
		idx, ok := g.Locate(g.Center(col, row))
		assert.True(ok)
		assert.Equal(i, idx)
	}

	_, ok := g.Locate(orb.Point{-0.5, 9.5})
	assert.False(ok)
	_, ok = g.Locate(orb.Point{0.5, 10.5})
	assert.False(ok)
	_, ok = g.Locate(orb.Point{4.5, 9.5})
	assert.False(ok)
}

func TestPixelArea(t *testing.T) {
	assert := assert.New(t)
	b := orb.Bound{Min: orb.Point{-89, 13}, Max: orb.Point{-88.9, 13.1}}
	g := raster.GridFor(b, 100)
	dx, dy := g.PixelSizeM(0)
	assert.InDelta(100, dy, 1e-6)
	assert.Less(dx, dy)
	assert.InDelta(dx*dy/10_000, g.PixelAreaHa(0), 0.01)
}

func TestBand(t *testing.T) {
	assert := assert.New(t)
	b := raster.NewBand("NDVI", 3)
	assert.Equal(0, b.ValidCount())
	b.Set(1, 0.4)
	v, ok := b.At(1)
	assert.True(ok)
	assert.Equal(0.4, v)
	_, ok = b.At(0)
	assert.False(ok)
	b.Mask(1)
	assert.Equal(0, b.ValidCount())
}

func TestImage(t *testing.T) {
	assert := assert.New(t)
	g := raster.Grid{PixelDeg: 1, Width: 2, Height: 1}
	im := raster.NewImage(g, "red", "nir")
	assert.Equal([]string{"red", "nir"}, im.Names())

	nir := raster.NewBand("nir", 2)
	nir.Set(0, 0.3)
	require.NoError(t, im.SetBand(nir))
	assert.Len(im.Bands, 2)
	b, ok := im.Band("nir")
	assert.True(ok)
	assert.Equal(1, b.ValidCount())

	require.NoError(t, im.SetBand(raster.NewBand("NDVI", 2)))
	assert.Len(im.Bands, 3)
	assert.Error(im.SetBand(raster.NewBand("bad", 5)))

	im.MaskPixel(0)
	b, _ = im.Band("nir")
	assert.Equal(0, b.ValidCount())
	_, ok = im.Band("swir1")
	assert.False(ok)
}
