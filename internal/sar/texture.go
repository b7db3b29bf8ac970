package sar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/raster-features/internal/raster"
)

// Levels is the default number of gray levels texture extraction
// quantises to.
const Levels = 256

// Offset is the displacement between the two pixels of a co-occurring pair.
// Angle is in degrees; 0 pairs a pixel with its right-hand neighbour.
type Offset struct {
	Distance int     `json:"distance"`
	Angle    float64 `json:"angle"`
}

// DefaultOffset pairs each pixel with the pixel immediately to its right.
var DefaultOffset = Offset{Distance: 1, Angle: 0}

// delta converts the offset to a (row, col) step.
func (o Offset) delta() (dr, dc int) {
	rad := o.Angle * math.Pi / 180
	dr = int(math.Round(math.Sin(rad) * float64(o.Distance)))
	dc = int(math.Round(math.Cos(rad) * float64(o.Distance)))
	return dr, dc
}

// Features are the Haralick descriptors of one co-occurrence matrix.
type Features struct {
	Contrast      float64 `json:"contrast"`
	Homogeneity   float64 `json:"homogeneity"`
	Dissimilarity float64 `json:"dissimilarity"`
	ASM           float64 `json:"asm"`
	Energy        float64 `json:"energy"`
	Correlation   float64 `json:"correlation"`
	Entropy       float64 `json:"entropy"`
}

// UniformFeatures are the descriptors of a grid whose valid samples all
// share one gray level.
var UniformFeatures = Features{
	Homogeneity: 1,
	ASM:         1,
	Energy:      1,
	Correlation: 1,
}

// Texture extracts GLCM features from a symmetric, normalised matrix.
type Texture struct {
	Offset Offset

	// Levels is the number of gray levels to quantise to. Zero means
	// Levels.
	Levels int
}

// Extract computes texture features of g for the default offset (distance
// 1, angle 0) and Levels gray levels. See Texture.Extract.
func Extract(g *raster.Grid) (Features, error) {
	return Texture{Offset: DefaultOffset}.Extract(g)
}

// ExtractAt is Extract for an arbitrary offset.
func ExtractAt(g *raster.Grid, off Offset) (Features, error) {
	return Texture{Offset: off}.Extract(g)
}

// Extract quantises g and computes its texture features.
//
// A grid whose valid samples all share one value quantises to a single
// level and yields UniformFeatures (contrast 0, homogeneity 1, correlation
// 1), even when it is too narrow to hold a pixel pair at the offset.
//
// # Errors
//
//   - DegenerateInputError if g has no valid samples
//   - DegenerateInputError if the offset distance is below 1
//   - DegenerateInputError if no valid pixel pair exists at the offset
//     and the valid samples are not all equal
func (t Texture) Extract(g *raster.Grid) (Features, error) {
	n := t.Levels
	if n == 0 {
		n = Levels
	}
	levels, err := QuantizeTo(g, n)
	if err != nil {
		return Features{}, err
	}
	glcm, err := NewGLCM(levels, g.Rows, g.Cols, n, t.Offset, true, true)
	if err != nil {
		if t.Offset.Distance >= 1 && singleLevel(levels) {
			return UniformFeatures, nil
		}
		return Features{}, err
	}
	return glcm.Features(), nil
}

// singleLevel reports whether every valid (non-negative) level is 0.
func singleLevel(levels []int) bool {
	for _, l := range levels {
		if l > 0 {
			return false
		}
	}
	return true
}

// Quantize is QuantizeTo with Levels gray levels.
func Quantize(g *raster.Grid) ([]int, error) {
	return QuantizeTo(g, Levels)
}

// QuantizeTo rescales the valid samples of g onto integer gray levels
// 0..n-1 using the grid's own minimum and maximum:
//
//	level = round((x − min) / (max − min) · (n − 1))
//
// Invalid samples get level -1. When max equals min every valid sample
// gets level 0.
//
// # Errors
//
//   - if n is below 2
//   - DegenerateInputError if g has no valid samples
func QuantizeTo(g *raster.Grid, n int) ([]int, error) {
	if n < 2 {
		return nil, fmt.Errorf("texture: gray levels must be at least 2, got %d", n)
	}
	st, err := raster.ComputeStats(g)
	if err != nil {
		return nil, raster.WithContext(err, "texture", "")
	}

	span := st.Max - st.Min
	top := float64(n - 1)
	out := make([]int, len(g.Data))
	for i, v := range g.Data {
		switch {
		case !g.IsValid(v):
			out[i] = -1
		case span == 0:
			out[i] = 0
		default:
			out[i] = int(math.Round((v - st.Min) / span * top))
		}
	}
	return out, nil
}

// GLCM is a gray-level co-occurrence matrix. P.At(i, j) is the count (or,
// when normalised, the probability) of a pixel at level i having a pixel at
// level j at the matrix's offset.
type GLCM struct {
	P      *mat.Dense
	Offset Offset

	// Pairs is the number of pixel pairs counted, including both
	// directions for a symmetric matrix.
	Pairs int
}

// NewGLCM builds an n×n co-occurrence matrix from quantised levels laid
// out row-major in a rows×cols grid. Pairs touching a negative (invalid)
// level or a level of n or more are skipped.
//
// With symmetric set each pair is counted in both directions, so P equals
// its transpose. With normed set P is divided by its total so it sums to 1.
//
// # Errors
//
//   - if n is below 1
//   - DegenerateInputError if the offset distance is below 1
//   - DegenerateInputError if no pair was counted
func NewGLCM(levels []int, rows, cols, n int, off Offset, symmetric, normed bool) (*GLCM, error) {
	if n < 1 {
		return nil, fmt.Errorf("texture: matrix size must be at least 1, got %d", n)
	}
	if off.Distance < 1 {
		return nil, &raster.DegenerateInputError{
			Stage:  "texture",
			Reason: fmt.Sprintf("offset distance %d must be at least 1", off.Distance),
		}
	}
	if len(levels) != rows*cols {
		return nil, &raster.ShapeMismatchError{
			Stage:  "texture",
			Reason: fmt.Sprintf("%d levels for a %dx%d grid", len(levels), rows, cols),
		}
	}

	counts := make([]float64, n*n)
	dr, dc := off.delta()
	pairs := 0

	for r := 0; r < rows; r++ {
		r2 := r + dr
		if r2 < 0 || r2 >= rows {
			continue
		}
		for c := 0; c < cols; c++ {
			c2 := c + dc
			if c2 < 0 || c2 >= cols {
				continue
			}
			i, j := levels[r*cols+c], levels[r2*cols+c2]
			if i < 0 || j < 0 || i >= n || j >= n {
				continue
			}
			counts[i*n+j]++
			pairs++
			if symmetric {
				counts[j*n+i]++
				pairs++
			}
		}
	}

	if pairs == 0 {
		return nil, &raster.DegenerateInputError{
			Stage:  "texture",
			Reason: fmt.Sprintf("no valid pixel pairs at offset %+v in a %dx%d grid", off, rows, cols),
		}
	}

	if normed {
		total := float64(pairs)
		for k, v := range counts {
			if v != 0 {
				counts[k] = v / total
			}
		}
	}
	return &GLCM{P: mat.NewDense(n, n, counts), Offset: off, Pairs: pairs}, nil
}

// Sum returns the sum of all matrix entries: 1 for a normalised matrix.
func (m *GLCM) Sum() float64 {
	return mat.Sum(m.P)
}

// Contrast returns Σ (i−j)² · P(i,j).
func (m *GLCM) Contrast() float64 {
	return m.reduce(func(i, j int, p float64) float64 {
		d := float64(i - j)
		return d * d * p
	})
}

// Homogeneity returns Σ P(i,j) / (1 + |i−j|).
func (m *GLCM) Homogeneity() float64 {
	return m.reduce(func(i, j int, p float64) float64 {
		return p / (1 + math.Abs(float64(i-j)))
	})
}

// Dissimilarity returns Σ |i−j| · P(i,j).
func (m *GLCM) Dissimilarity() float64 {
	return m.reduce(func(i, j int, p float64) float64 {
		return math.Abs(float64(i-j)) * p
	})
}

// ASM returns the angular second moment Σ P(i,j)².
func (m *GLCM) ASM() float64 {
	return m.reduce(func(_, _ int, p float64) float64 {
		return p * p
	})
}

// Entropy returns −Σ P(i,j) · log2 P(i,j) over non-zero entries.
func (m *GLCM) Entropy() float64 {
	return m.reduce(func(_, _ int, p float64) float64 {
		if p <= 0 {
			return 0
		}
		return -p * math.Log2(p)
	})
}

// Correlation returns the linear dependency of gray levels of neighbouring
// pixels. It is 1 when either marginal has zero variance.
func (m *GLCM) Correlation() float64 {
	meanI := m.reduce(func(i, _ int, p float64) float64 { return float64(i) * p })
	meanJ := m.reduce(func(_, j int, p float64) float64 { return float64(j) * p })
	varI := m.reduce(func(i, _ int, p float64) float64 {
		d := float64(i) - meanI
		return d * d * p
	})
	varJ := m.reduce(func(_, j int, p float64) float64 {
		d := float64(j) - meanJ
		return d * d * p
	})
	if varI < 1e-15 || varJ < 1e-15 {
		return 1
	}
	cov := m.reduce(func(i, j int, p float64) float64 {
		return (float64(i) - meanI) * (float64(j) - meanJ) * p
	})
	return cov / math.Sqrt(varI*varJ)
}

// Features computes every descriptor.
func (m *GLCM) Features() Features {
	asm := m.ASM()
	return Features{
		Contrast:      m.Contrast(),
		Homogeneity:   m.Homogeneity(),
		Dissimilarity: m.Dissimilarity(),
		ASM:           asm,
		Energy:        math.Sqrt(asm),
		Correlation:   m.Correlation(),
		Entropy:       m.Entropy(),
	}
}

// reduce sums fn over the non-zero entries of the matrix.
func (m *GLCM) reduce(fn func(i, j int, p float64) float64) float64 {
	raw := m.P.RawMatrix()
	var sum float64
	for i := 0; i < raw.Rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		for j, p := range row {
			if p == 0 {
				continue
			}
			sum += fn(i, j, p)
		}
	}
	return sum
}
