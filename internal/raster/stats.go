package raster

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the valid samples of a grid.
type Stats struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"` // population variance
	Valid    int     `json:"valid"`
	Total    int     `json:"total"`
}

// ValidSamples returns the samples of g that are neither NaN nor nodata.
// The result is a fresh slice.
func ValidSamples(g *Grid) []float64 {
	out := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if g.IsValid(v) {
			out = append(out, v)
		}
	}
	return out
}

// ComputeStats returns min, max, mean and population variance over the
// valid samples of g.
//
// # Errors
//
//   - DegenerateInputError if g has no valid samples
func ComputeStats(g *Grid) (Stats, error) {
	valid := ValidSamples(g)
	if len(valid) == 0 {
		return Stats{Total: len(g.Data)}, &DegenerateInputError{Reason: "grid has no valid samples"}
	}
	mean, variance := stat.PopMeanVariance(valid, nil)
	return Stats{
		Min:      floats.Min(valid),
		Max:      floats.Max(valid),
		Mean:     mean,
		Variance: variance,
		Valid:    len(valid),
		Total:    len(g.Data),
	}, nil
}
