// Package sar extracts features from synthetic-aperture radar amplitude grids.
//
// Two operations are provided:
//
//   - Lee adaptive speckle filtering (Filter, LeeFilter). Each output pixel
//     is pulled towards its local mean by a weight derived from the ratio of
//     local to global variance, so homogeneous areas are smoothed while edges
//     and point targets pass through.
//   - Gray-level co-occurrence texture (Extract, NewGLCM). The grid is
//     rescaled to 256 gray levels, a symmetric normalised co-occurrence
//     matrix is built for one pixel offset and reduced to Haralick
//     descriptors such as contrast and homogeneity.
//
// # Invalid Pixels
//
// NaN and nodata samples are excluded from global statistics. In the Lee
// filter they propagate: any output pixel whose window touches one is NaN.
// In texture extraction they are skipped; co-occurring pairs that include an
// invalid pixel are not counted.
//
// # Side Effects
//
// None. Every function returns a new value and leaves its input untouched,
// so grids can be processed concurrently from different goroutines.
package sar
