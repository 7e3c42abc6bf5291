package raster

import (
	"fmt"
	"slices"
)

// Band is a single named layer of pixel values. A pixel is usable only
// when its Valid flag is true; Data of an invalid pixel is meaningless.
type Band struct {
	Name  string
	Data  []float64
	Valid []bool
}

// NewBand creates a fully masked band of n pixels.
func NewBand(name string, n int) Band {
	return Band{
		Name:  name,
		Data:  make([]float64, n),
		Valid: make([]bool, n),
	}
}

// Len returns the number of pixels.
func (b Band) Len() int {
	return len(b.Data)
}

// At returns the value of a pixel and whether it is valid.
func (b Band) At(i int) (float64, bool) {
	if !b.Valid[i] {
		return 0, false
	}
	return b.Data[i], true
}

// Set stores a valid value.
func (b Band) Set(i int, v float64) {
	b.Data[i] = v
	b.Valid[i] = true
}

// Mask invalidates a pixel.
func (b Band) Mask(i int) {
	b.Data[i] = 0
	b.Valid[i] = false
}

// ValidCount returns the number of valid pixels.
func (b Band) ValidCount() int {
	var res int
	for _, v := range b.Valid {
		if v {
			res++
		}
	}
	return res
}

// Renamed returns a copy of the band header with a new name. Pixel data
// is shared.
func (b Band) Renamed(name string) Band {
	b.Name = name
	return b
}

// Image is a set of equally sized bands on one grid.
type Image struct {
	Grid  Grid
	Bands []Band
}

// NewImage creates an image with fully masked bands of the given names.
func NewImage(g Grid, names ...string) Image {
	res := Image{Grid: g}
	for _, v := range names {
		res.Bands = append(res.Bands, NewBand(v, g.Len()))
	}
	return res
}

// Band finds a band by name.
func (im Image) Band(name string) (Band, bool) {
	for _, v := range im.Bands {
		if v.Name == name {
			return v, true
		}
	}
	return Band{}, false
}

// Names returns band names in their order.
func (im Image) Names() []string {
	res := make([]string, len(im.Bands))
	for i, v := range im.Bands {
		res[i] = v.Name
	}
	return res
}

// SetBand adds a band or replaces a band with the same name.
func (im *Image) SetBand(b Band) error {
	if b.Len() != im.Grid.Len() || len(b.Valid) != b.Len() {
		return fmt.Errorf(
			"band %s has %d pixels, grid has %d",
			b.Name, b.Len(), im.Grid.Len(),
		)
	}
	idx := slices.IndexFunc(im.Bands, func(v Band) bool {
		return v.Name == b.Name
	})
	if idx >= 0 {
		im.Bands[idx] = b
		return nil
	}
	im.Bands = append(im.Bands, b)
	return nil
}

// MaskPixel invalidates a pixel in all bands.
func (im Image) MaskPixel(i int) {
	for _, b := range im.Bands {
		b.Mask(i)
	}
}
