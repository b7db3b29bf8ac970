package sar

import (
	"fmt"
	"math"

	"github.com/ironsheep/raster-features/internal/raster"
)

// DefaultWindowSize is the side of the square Lee window used when none is
// configured.
const DefaultWindowSize = 7

// Boundary selects how windows that overhang the grid edge are filled.
type Boundary int

const (
	// BoundaryReflect mirrors the grid about its edge, including the edge
	// pixel: d c b a | a b c d | d c b a.
	BoundaryReflect Boundary = iota

	// BoundaryNearest repeats the edge pixel: a a a a | a b c d | d d d d.
	BoundaryNearest
)

// String implements fmt.Stringer.
func (b Boundary) String() string {
	switch b {
	case BoundaryReflect:
		return "reflect"
	case BoundaryNearest:
		return "nearest"
	}
	return fmt.Sprintf("Boundary(%d)", int(b))
}

// ParseBoundary is the inverse of Boundary.String. The empty string means
// BoundaryReflect.
func ParseBoundary(s string) (Boundary, error) {
	switch s {
	case "", "reflect":
		return BoundaryReflect, nil
	case "nearest":
		return BoundaryNearest, nil
	}
	return 0, fmt.Errorf("unknown boundary %q", s)
}

// LeeFilter is a Lee adaptive speckle filter.
//
// The zero value is not usable; WindowSize must be a positive odd number.
type LeeFilter struct {
	// WindowSize is the side of the square moving window, in pixels.
	WindowSize int

	// Boundary is the edge policy shared by the mean and mean-of-squares
	// passes.
	Boundary Boundary
}

// Filter applies a Lee filter with the given window size and reflective
// boundaries. See LeeFilter.Apply.
func Filter(g *raster.Grid, windowSize int) (*raster.Grid, error) {
	return LeeFilter{WindowSize: windowSize, Boundary: BoundaryReflect}.Apply(g)
}

// Apply filters g and returns a new grid with the same shape and
// georeferencing. The output's nodata sentinel is NaN.
//
// # Algorithm
//
// For every pixel x with local window statistics
//
//	mean  = box average of x over the window
//	local = box average of x² − mean²   (clamped at 0)
//	w     = local / (local + global)
//	out   = mean + w·(x − mean)
//
// where global is the population variance of all valid samples. When
// local + global is 0 (a flat image) w is 0 and the output is the local
// mean. A window size of 1 is the identity on valid samples.
//
// Box averages are computed separably: a horizontal pass then a vertical
// pass, each extending the grid with the same Boundary policy.
//
// # Errors
//
//   - DegenerateInputError if WindowSize is not a positive odd number
//   - DegenerateInputError if g has no valid samples
func (f LeeFilter) Apply(g *raster.Grid) (*raster.Grid, error) {
	if f.WindowSize < 1 || f.WindowSize%2 == 0 {
		return nil, &raster.DegenerateInputError{
			Stage:  "speckle filter",
			Reason: fmt.Sprintf("window size %d must be a positive odd number", f.WindowSize),
		}
	}

	st, err := raster.ComputeStats(g)
	if err != nil {
		return nil, raster.WithContext(err, "speckle filter", "")
	}
	global := st.Variance

	x := make([]float64, len(g.Data))
	sq := make([]float64, len(g.Data))
	for i, v := range g.Data {
		if !g.IsValid(v) {
			v = math.NaN()
		}
		x[i] = v
		sq[i] = v * v
	}

	mean := boxMean(x, g.Rows, g.Cols, f.WindowSize, f.Boundary)
	meanSq := boxMean(sq, g.Rows, g.Cols, f.WindowSize, f.Boundary)

	out := make([]float64, len(x))
	for i := range x {
		local := meanSq[i] - mean[i]*mean[i]
		if local < 0 {
			local = 0
		}
		var w float64
		if denom := local + global; denom != 0 {
			w = local / denom
		}
		out[i] = mean[i] + w*(x[i]-mean[i])
	}

	return g.Like(out, math.NaN()), nil
}

// boxMean returns the moving average of data over a size×size window.
// NaN samples inside a window make that window's average NaN.
func boxMean(data []float64, rows, cols, size int, b Boundary) []float64 {
	half := size / 2

	horiz := make([]float64, len(data))
	for r := 0; r < rows; r++ {
		row := data[r*cols : (r+1)*cols]
		for c := 0; c < cols; c++ {
			var sum float64
			for k := -half; k <= half; k++ {
				sum += row[edgeIndex(c+k, cols, b)]
			}
			horiz[r*cols+c] = sum
		}
	}

	out := make([]float64, len(data))
	area := float64(size * size)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var sum float64
			for k := -half; k <= half; k++ {
				sum += horiz[edgeIndex(r+k, rows, b)*cols+c]
			}
			out[r*cols+c] = sum / area
		}
	}
	return out
}

// edgeIndex maps a possibly out-of-range index onto [0, n).
func edgeIndex(i, n int, b Boundary) int {
	if b == BoundaryNearest {
		return clamp(i, 0, n-1)
	}
	return reflect(i, n)
}

// reflect folds i into [0, n) by mirroring about the grid edges with the
// edge sample repeated. Windows wider than the grid keep folding.
func reflect(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i - 1
	}
	return i
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
