package raster

import (
	"fmt"
	"math"
)

// GeoTransform is an affine pixel-to-world mapping in GDAL coefficient
// order: {originX, pixelWidth, rowRotation, originY, colRotation, pixelHeight}.
// For a north-up image T[2] and T[4] are zero and T[5] is negative.
type GeoTransform [6]float64

// Identity is the transform GDAL reports for rasters without georeferencing:
// pixel (row, col) maps to world (col, row).
var Identity = GeoTransform{0, 1, 0, 0, 0, 1}

// Apply maps fractional pixel coordinates to world coordinates.
// (0, 0) is the top-left corner of the top-left pixel.
func (t GeoTransform) Apply(col, row float64) (x, y float64) {
	x = t[0] + col*t[1] + row*t[2]
	y = t[3] + col*t[4] + row*t[5]
	return x, y
}

// PixelCenter returns the world coordinate of the centre of pixel (row, col).
func (t GeoTransform) PixelCenter(row, col int) (x, y float64) {
	return t.Apply(float64(col)+0.5, float64(row)+0.5)
}

// Invert returns the world-to-pixel transform. Applying the inverse to a
// world coordinate yields fractional (col, row) pixel coordinates.
func (t GeoTransform) Invert() (GeoTransform, error) {
	det := t[1]*t[5] - t[2]*t[4]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return GeoTransform{}, &DegenerateInputError{Reason: fmt.Sprintf("geotransform %v is not invertible", [6]float64(t))}
	}
	inv := 1 / det
	var out GeoTransform
	out[1] = t[5] * inv
	out[2] = -t[2] * inv
	out[4] = -t[4] * inv
	out[5] = t[1] * inv
	out[0] = -t[0]*out[1] - t[3]*out[2]
	out[3] = -t[0]*out[4] - t[3]*out[5]
	return out, nil
}

// Offset returns the transform of a sub-grid whose top-left pixel is
// (row, col) of the receiver's grid.
func (t GeoTransform) Offset(row, col int) GeoTransform {
	out := t
	out[0], out[3] = t.Apply(float64(col), float64(row))
	return out
}

// AlmostEqual reports whether every coefficient differs by at most tol.
func (t GeoTransform) AlmostEqual(o GeoTransform, tol float64) bool {
	for i := range t {
		if math.Abs(t[i]-o[i]) > tol {
			return false
		}
	}
	return true
}
