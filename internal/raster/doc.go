// Package raster provides the single-band grid model shared by every feature
// extractor, together with the collaborators that move grids on and off disk.
//
// A Grid is a row-major slice of float64 samples plus the georeferencing that
// locates it on the ground: an affine GeoTransform and an opaque CRS string.
// Processing stages never mutate a grid they were handed; they return a new
// grid built with Like or Clone so that the input can still be written or
// inspected afterwards.
//
// # Coordinate System
//
// Pixel indices are 0-based with the origin at the top-left corner:
//   - Row: vertical position (0 = topmost row)
//   - Col: horizontal position (0 = leftmost column)
//
// GeoTransform follows the GDAL coefficient order, so the world coordinate of
// the top-left corner of pixel (row, col) is:
//
//	x = T[0] + col*T[1] + row*T[2]
//	y = T[3] + col*T[4] + row*T[5]
//
// # Error Handling
//
// Failures are reported with four distinguishable kinds, matched with
// errors.As:
//   - *ReadError: a source path is unreadable or not a raster
//   - *WriteError: a destination cannot be created or written
//   - *ShapeMismatchError: grids expected to be co-registered are not
//   - *DegenerateInputError: zero dynamic range, no valid pixels, bad window
//
// Numerical edge cases such as a flat image or a zero denominator are not
// errors; the operations that meet them document the value they produce.
//
// # I/O
//
// Source and Sink are the boundary to storage. GDALSource and GDALSink use
// GDAL through cgo; MemoryStore keeps grids in memory for tests and for the
// tool server.
package raster
