package optical

import (
	"math"

	"github.com/ironsheep/raster-features/internal/raster"
)

// Resample copies src onto the pixel grid described by dst using nearest
// neighbour selection.
//
// For every destination pixel the world coordinate of its centre is
// computed with dst.Transform, mapped back through the inverse of
// src.Transform, and the source pixel containing that point is copied.
// Destination pixels that fall outside src receive fill, which also becomes
// the output's nodata value. For Sentinel-2 SCL grids 0 (the NO_DATA class)
// is the natural fill.
//
// The output has exactly dst's shape, transform and CRS. Resampling a grid
// onto its own geometry returns an identical copy.
//
// # Errors
//
//   - DegenerateInputError if dst has no pixels or src's transform is
//     singular
//   - ShapeMismatchError if both grids name a CRS and they differ; this
//     package does not reproject
func Resample(src *raster.Grid, dst raster.Geometry, fill float64) (*raster.Grid, error) {
	if err := dst.Validate(); err != nil {
		return nil, raster.WithContext(err, "resample", "")
	}
	if src.CRS != "" && dst.CRS != "" && src.CRS != dst.CRS {
		return nil, &raster.ShapeMismatchError{
			Stage:  "resample",
			Reason: "source and target coordinate reference systems differ",
		}
	}
	inv, err := src.Transform.Invert()
	if err != nil {
		return nil, raster.WithContext(err, "resample", "")
	}

	out, err := raster.NewGrid(dst, fill)
	if err != nil {
		return nil, err
	}

	for r := 0; r < dst.Rows; r++ {
		for c := 0; c < dst.Cols; c++ {
			x, y := dst.Transform.PixelCenter(r, c)
			fc, fr := inv.Apply(x, y)
			sc, sr := int(math.Floor(fc)), int(math.Floor(fr))
			if sr < 0 || sr >= src.Rows || sc < 0 || sc >= src.Cols {
				out.Set(r, c, fill)
				continue
			}
			out.Set(r, c, src.At(sr, sc))
		}
	}
	return out, nil
}
