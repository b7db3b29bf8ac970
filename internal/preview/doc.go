// Package preview renders processed grids as small PNG quicklooks.
//
// Two renderings are provided:
//   - Grayscale, for backscatter: a 2nd to 98th percentile stretch followed
//     by a gamma adjustment
//   - Colorized, for spectral indices: a fixed value range mapped through a
//     colour ramp blended in CIE Lab
//
// Invalid pixels (NaN or nodata) are fully transparent in both. Images are
// downsized with Fit so that neither side exceeds the requested maximum,
// then encoded as PNG either to a file (Save) or to base64 (Encode).
//
// Rendering is for inspection only; the float rasters written by the
// pipeline remain the authoritative outputs.
package preview
