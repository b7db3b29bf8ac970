// Package pipeline is the batch driver that turns an ingest.Inventory into
// processed rasters and texture features.
//
// # Sentinel-1 path
//
// Every VV file is processed independently:
//
//	read -> crop to window of interest -> Lee filter -> write -> GLCM features
//
// The filtered raster is written to
// <output_root>/sentinel1/<name>_lee_filtered.tif. A failure at any step is
// recorded on that file's SARResult and logged; the remaining files are
// still processed. Files run in parallel up to Config.Workers.
//
// # Sentinel-2 path
//
// The first B04, B08 and SCL rasters are combined into a cloud-masked NDVI:
// the SCL grid is resampled onto the B04 grid, NDVI is computed from B08 and
// B04, and pixels of excluded classes are set to NaN. The result is written
// to <output_root>/sentinel2/sentinel2_ndvi_cloudmasked.tif. The path is
// skipped when any of the three bands is missing.
//
// # Summary
//
// Run returns a Summary whose Format method prints one line per Sentinel-1
// file and one for the Sentinel-2 product.
package pipeline
