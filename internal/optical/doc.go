// Package optical derives spectral indices from multispectral grids and
// invalidates pixels that a scene classification marks as cloud.
//
// The typical Sentinel-2 flow is:
//
//	ndvi, _ := optical.ComputeIndex(nir, red)            // B08, B04 at 10 m
//	scl10, _ := optical.Resample(scl, ndvi.Geometry, 0)  // SCL is 20 m
//	masked, _ := optical.MaskAndInvalidate(ndvi, scl10, optical.DefaultExcludedClasses)
//
// AlignAndMask performs the last two steps together.
//
// Resampling is nearest neighbour only. Classification grids hold category
// codes, and averaging codes would produce classes that do not exist.
package optical
