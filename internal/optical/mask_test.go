package optical

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/raster-features/internal/raster"
)

func TestClassSet_Contains(t *testing.T) {
	tests := []struct {
		v    float64
		want bool
	}{
		{3, true},
		{8, true},
		{9, true},
		{10, true},
		{11, true},
		{4, false},
		{0, false},
		{8.5, false},
		{math.NaN(), false},
		{-3, false},
	}

	for _, tt := range tests {
		if got := DefaultExcludedClasses.Contains(tt.v); got != tt.want {
			t.Errorf("Contains(%v): got %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestClassSet_String(t *testing.T) {
	got := NewClassSet(9, 3).String()
	assert.Equal(t, "{cloud_shadow, cloud_high_probability}", got)
	assert.Equal(t, "SCLClass(42)", SCLClass(42).String())
}

func TestMaskAndInvalidate_SingleCloudPixel(t *testing.T) {
	ndvi, err := ComputeIndex(filled(t, 4, 4, 0.8), filled(t, 4, 4, 0.2))
	require.NoError(t, err)
	before := ndvi.Clone()

	classes := filled(t, 4, 4, float64(SCLVegetation))
	classes.Set(2, 1, float64(SCLCloudHighProbability))

	m, err := MaskAndInvalidate(ndvi, classes, DefaultExcludedClasses)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())
	assert.True(t, m.At(2, 1))

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if r == 2 && c == 1 {
				assert.True(t, math.IsNaN(ndvi.At(r, c)))
				continue
			}
			assert.Equal(t, before.At(r, c), ndvi.At(r, c), "pixel (%d,%d) altered", r, c)
		}
	}
}

func TestMaskAndInvalidate_OnlyExcludedClasses(t *testing.T) {
	ndvi := reflectance(t, 3, 4, 9)
	before := ndvi.Clone()
	classes := gridFromRows(t, grid10m, [][]float64{
		{0, 1, 2, 3},
		{4, 5, 6, 7},
		{8, 9, 10, 11},
	})

	m, err := MaskAndInvalidate(ndvi, classes, DefaultExcludedClasses)
	require.NoError(t, err)
	assert.Equal(t, 5, m.Count())

	for i, code := range classes.Data {
		if DefaultExcludedClasses.Contains(code) {
			assert.True(t, math.IsNaN(ndvi.Data[i]), "class %v not masked", code)
		} else {
			assert.Equal(t, before.Data[i], ndvi.Data[i], "class %v altered", code)
		}
	}
}

func TestMaskAndInvalidate_KeepsNoData(t *testing.T) {
	index := gridFromRows(t, grid10m, [][]float64{
		{0.5, -9999},
		{0.25, 0.75},
	})
	index.NoData = -9999
	classes := gridFromRows(t, grid10m, [][]float64{
		{4, 4},
		{8, 4},
	})

	_, err := MaskAndInvalidate(index, classes, DefaultExcludedClasses)
	require.NoError(t, err)

	assert.Equal(t, -9999.0, index.NoData)
	assert.False(t, index.IsValid(index.At(0, 1)), "nodata pixel became valid")
	assert.False(t, index.IsValid(index.At(1, 0)), "masked pixel is valid")
	assert.True(t, index.IsValid(index.At(0, 0)))
	assert.Equal(t, 0.75, index.At(1, 1))
}

func TestMaskAndInvalidate_RequiresAlignedClasses(t *testing.T) {
	ndvi := filled(t, 4, 4, 0.5)
	coarse := gridFromRows(t, grid20m, [][]float64{{4, 4}, {4, 4}})

	_, err := MaskAndInvalidate(ndvi, coarse, DefaultExcludedClasses)
	var se *raster.ShapeMismatchError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, "cloud mask", se.Stage)

	// The index is untouched when masking is refused.
	for _, v := range ndvi.Data {
		assert.Equal(t, 0.5, v)
	}
}

func TestAlignAndMask(t *testing.T) {
	nir := filled(t, 4, 4, 0.8)
	red := filled(t, 4, 4, 0.2)
	ndvi, err := ComputeIndex(nir, red)
	require.NoError(t, err)

	// One 20 m cloud pixel covers a 2x2 block of 10 m pixels.
	scl := gridFromRows(t, grid20m, [][]float64{
		{4, 8},
		{4, 4},
	})

	m, err := AlignAndMask(ndvi, scl, DefaultExcludedClasses)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Count())

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			cloudy := r < 2 && c >= 2
			if cloudy {
				assert.True(t, math.IsNaN(ndvi.At(r, c)), "(%d,%d)", r, c)
			} else {
				assert.InDelta(t, 0.6, ndvi.At(r, c), 1e-5, "(%d,%d)", r, c)
			}
		}
	}
}
