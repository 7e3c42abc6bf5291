package classify_test

import (
	"testing"

	"github.com/mrds-es/minedist/pkg/classify"
	"github.com/mrds-es/minedist/pkg/raster"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(classify.DefaultThresholds().Validate())
	assert.Error(classify.Thresholds{BareMax: 0.2, SparseMax: 0.2}.Validate())
	assert.Error(classify.Thresholds{BareMax: 0.3, SparseMax: 0.2}.Validate())
}

func TestClassOf(t *testing.T) {
	assert := assert.New(t)
	th := classify.DefaultThresholds()
	tests := []struct {
		ndvi float64
		cl   classify.Class
	}{
		{-0.5, classify.Bare},
		{0.099999, classify.Bare},
		{0.1, classify.Sparse},
		{0.15, classify.Sparse},
		{0.2, classify.Vegetated},
		{0.9, classify.Vegetated},
	}

	for _, v := range tests {
		assert.Equal(v.cl, th.ClassOf(v.ndvi), v.ndvi)
	}
	assert.Equal("sparse", classify.Sparse.String())
	assert.Equal("none", classify.None.String())
}

func TestClassify(t *testing.T) {
	assert := assert.New(t)
	ndvi := raster.NewBand("NDVI", 4)
	ndvi.Set(0, 0.05)
	ndvi.Set(1, 0.15)
	ndvi.Set(2, 0.5)

	res := classify.DefaultThresholds().Classify(ndvi)
	assert.Equal(classify.Bare, res.ClassAt(0))
	assert.Equal(classify.Sparse, res.ClassAt(1))
	assert.Equal(classify.Vegetated, res.ClassAt(2))
	assert.Equal(classify.None, res.ClassAt(3))

	ms, _ := res.MiningSoil.At(0)
	assert.Equal(1.0, ms)
	nms, _ := res.NonMiningSoil.At(1)
	assert.Equal(1.0, nms)
	_, ok := res.MiningSoil.At(3)
	assert.False(ok)
	assert.Equal(3, res.NonMiningSoil.ValidCount())
}
