//go:build cgo

package raster

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/airbusgeo/godal"
)

var registerOnce sync.Once

// registerDrivers registers GDAL's drivers once per process.
func registerDrivers() {
	registerOnce.Do(godal.RegisterAll)
}

// GDALAvailable reports whether this binary was built with GDAL support.
func GDALAvailable() bool { return true }

// GDALSource reads rasters through GDAL. Any format GDAL can open is
// accepted (GeoTIFF, JPEG2000, ...); only band 1 is read.
type GDALSource struct{}

// NewGDALSource returns a Source backed by GDAL.
func NewGDALSource() *GDALSource {
	registerDrivers()
	return &GDALSource{}
}

// Read opens path and returns band 1 as float64 samples together with the
// dataset's geotransform, projection and band nodata value. A band without
// a nodata value gets NaN.
func (GDALSource) Read(path string) (*Grid, error) {
	ds, err := godal.Open(path, godal.RasterOnly())
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer ds.Close()

	st := ds.Structure()
	if st.NBands < 1 {
		return nil, &ReadError{Path: path, Err: errors.New("dataset has no raster bands")}
	}
	if st.SizeX < 1 || st.SizeY < 1 {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("dataset has size %dx%d", st.SizeX, st.SizeY)}
	}

	gt, err := ds.GeoTransform()
	if err != nil {
		// GDAL reports an error for rasters without georeferencing; treat
		// them as pixel-space grids.
		gt = Identity
	}

	band := ds.Bands()[0]
	nodata, ok := band.NoData()
	if !ok {
		nodata = math.NaN()
	}

	data := make([]float64, st.SizeX*st.SizeY)
	if err := band.Read(0, 0, data, st.SizeX, st.SizeY); err != nil {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("failed to read band 1: %w", err)}
	}

	return &Grid{
		Geometry: Geometry{
			Rows:      st.SizeY,
			Cols:      st.SizeX,
			Transform: GeoTransform(gt),
			CRS:       ds.Projection(),
		},
		Data:   data,
		NoData: nodata,
	}, nil
}

// GDALSink writes single-band Float32 GeoTIFFs with DEFLATE compression.
type GDALSink struct {
	// CreationOptions are extra GTiff creation options (KEY=VALUE).
	CreationOptions []string
}

// NewGDALSink returns a Sink backed by GDAL's GTiff driver.
func NewGDALSink() *GDALSink {
	registerDrivers()
	return &GDALSink{}
}

// Write persists data at path using ref's transform and CRS and data's
// shape. NaN is recorded as the band's nodata value.
func (s GDALSink) Write(ref *Grid, path string, data *Grid) error {
	if err := data.Validate(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}

	out := outputGrid(ref, data)
	opts := append([]string{"COMPRESS=DEFLATE"}, s.CreationOptions...)

	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float32, out.Cols, out.Rows,
		godal.CreationOption(opts...))
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := writeDataset(ds, out); err != nil {
		_ = ds.Close()
		_ = os.Remove(path)
		return &WriteError{Path: path, Err: err}
	}
	if err := ds.Close(); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("failed to flush dataset: %w", err)}
	}
	return nil
}

func writeDataset(ds *godal.Dataset, g *Grid) error {
	if err := ds.SetGeoTransform([6]float64(g.Transform)); err != nil {
		return fmt.Errorf("failed to set geotransform: %w", err)
	}
	if g.CRS != "" {
		if err := ds.SetProjection(g.CRS); err != nil {
			return fmt.Errorf("failed to set projection: %w", err)
		}
	}

	band := ds.Bands()[0]
	if err := band.SetNoData(math.NaN()); err != nil {
		return fmt.Errorf("failed to set nodata: %w", err)
	}

	samples := make([]float32, len(g.Data))
	for i, v := range g.Data {
		if !g.IsValid(v) {
			samples[i] = float32(math.NaN())
			continue
		}
		samples[i] = float32(v)
	}
	if err := band.Write(0, 0, samples, g.Cols, g.Rows); err != nil {
		return fmt.Errorf("failed to write band 1: %w", err)
	}
	return nil
}
