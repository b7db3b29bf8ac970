package preview

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// IndexRamp is the brown to yellow to green ramp used for vegetation
// indices over [-1, 1].
var IndexRamp = MustRamp("#8c510a", "#f6e8c3", "#f5f5b8", "#a6d96a", "#1a9641")

// Ramp is a piecewise colour ramp with evenly spaced stops, interpolated in
// CIE Lab so that perceived lightness changes smoothly.
type Ramp struct {
	stops []colorful.Color
}

// NewRamp parses the given "#rrggbb" stops. At least two are required.
func NewRamp(hexes ...string) (*Ramp, error) {
	if len(hexes) < 2 {
		return nil, fmt.Errorf("a colour ramp needs at least 2 stops, got %d", len(hexes))
	}
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", i, err)
		}
		stops[i] = c
	}
	return &Ramp{stops: stops}, nil
}

// MustRamp is NewRamp that panics on error, for package-level ramps.
func MustRamp(hexes ...string) *Ramp {
	r, err := NewRamp(hexes...)
	if err != nil {
		panic(err)
	}
	return r
}

// At returns the opaque ramp colour at t in [0, 1]. t is clamped.
func (r *Ramp) At(t float64) color.NRGBA {
	if t <= 0 {
		return opaque(r.stops[0])
	}
	if t >= 1 {
		return opaque(r.stops[len(r.stops)-1])
	}
	pos := t * float64(len(r.stops)-1)
	i := int(pos)
	return opaque(r.stops[i].BlendLab(r.stops[i+1], pos-float64(i)))
}

func opaque(c colorful.Color) color.NRGBA {
	red, green, blue := c.Clamped().RGB255()
	return color.NRGBA{R: red, G: green, B: blue, A: 255}
}
