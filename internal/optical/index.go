package optical

import (
	"math"

	"github.com/ironsheep/raster-features/internal/raster"
)

// DefaultEpsilon is added to normalized-difference denominators so that
// pixels where both bands are zero (water, deep shadow) give 0, not NaN.
const DefaultEpsilon = 1e-6

// ComputeIndex returns the NDVI of co-registered near-infrared and red
// grids with DefaultEpsilon. See NormalizedDifference.
func ComputeIndex(nir, red *raster.Grid) (*raster.Grid, error) {
	return NormalizedDifference(nir, red, DefaultEpsilon)
}

// NormalizedDifference returns (a − b) / (a + b + eps) per pixel.
//
// a and b must share shape, transform and CRS; the result carries a's
// georeferencing with NaN as nodata. NaN or nodata in either band yields
// NaN. The function is antisymmetric: swapping the bands negates every
// pixel exactly, because IEEE addition is commutative and a−b is the exact
// negation of b−a.
//
// # Errors
//
//   - ShapeMismatchError if the grids are not co-registered
func NormalizedDifference(a, b *raster.Grid, eps float64) (*raster.Grid, error) {
	if err := raster.CheckSameGrid(a.Geometry, b.Geometry); err != nil {
		return nil, raster.WithContext(err, "spectral index", "")
	}

	out := make([]float64, len(a.Data))
	for i := range a.Data {
		x, y := a.Data[i], b.Data[i]
		if !a.IsValid(x) || !b.IsValid(y) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (x - y) / (x + y + eps)
	}
	return a.Like(out, math.NaN()), nil
}
