package preview

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/anthonynsimon/bild/adjust"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/raster-features/internal/raster"
)

// DefaultGamma brightens the dark end of a stretched backscatter image.
const DefaultGamma = 1.6

// Stretch is the value range mapped onto the full output intensity.
type Stretch struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// PercentileStretch returns the p and 1-p empirical quantiles of g's valid
// samples. p must lie in [0, 0.5).
func PercentileStretch(g *raster.Grid, p float64) (Stretch, error) {
	if p < 0 || p >= 0.5 {
		return Stretch{}, fmt.Errorf("percentile %v out of range [0, 0.5)", p)
	}
	x := raster.ValidSamples(g)
	if len(x) == 0 {
		return Stretch{}, &raster.DegenerateInputError{Stage: "preview", Reason: "no valid pixels"}
	}
	sort.Float64s(x)
	if p == 0 {
		return Stretch{Low: x[0], High: x[len(x)-1]}, nil
	}
	return Stretch{
		Low:  stat.Quantile(p, stat.Empirical, x, nil),
		High: stat.Quantile(1-p, stat.Empirical, x, nil),
	}, nil
}

// level maps v into [0, 1] relative to the stretch, clamping outside values.
func (s Stretch) level(v float64) float64 {
	span := s.High - s.Low
	if span <= 0 {
		return 0
	}
	t := (v - s.Low) / span
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// Grayscale renders g as an 8-bit gray image with a 2-98 percentile
// stretch and the given gamma (1 leaves intensities unchanged). Invalid
// pixels are transparent.
func Grayscale(g *raster.Grid, gamma float64) (image.Image, error) {
	s, err := PercentileStretch(g, 0.02)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, g.Cols, g.Rows))
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			v := g.At(r, c)
			if !g.IsValid(v) {
				continue
			}
			y := uint8(s.level(v)*255 + 0.5)
			img.SetNRGBA(c, r, color.NRGBA{R: y, G: y, B: y, A: 255})
		}
	}

	if gamma <= 0 || gamma == 1 {
		return img, nil
	}
	return adjust.Gamma(img, gamma), nil
}

// Colorized renders g through ramp with s mapped onto the ramp's ends.
// Invalid pixels are transparent.
func Colorized(g *raster.Grid, s Stretch, ramp *Ramp) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, g.Cols, g.Rows))
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			v := g.At(r, c)
			if !g.IsValid(v) {
				continue
			}
			img.SetNRGBA(c, r, ramp.At(s.level(v)))
		}
	}
	return img
}
