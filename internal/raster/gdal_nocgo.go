//go:build !cgo

package raster

import "errors"

// errNoGDAL is returned by the GDAL source and sink in binaries built
// without cgo.
var errNoGDAL = errors.New("GDAL support requires a cgo build")

// GDALAvailable reports whether this binary was built with GDAL support.
func GDALAvailable() bool { return false }

// GDALSource is unavailable without cgo; every Read fails.
type GDALSource struct{}

// NewGDALSource returns a Source that always fails with a ReadError.
func NewGDALSource() *GDALSource { return &GDALSource{} }

// Read implements Source.
func (GDALSource) Read(path string) (*Grid, error) {
	return nil, &ReadError{Path: path, Err: errNoGDAL}
}

// GDALSink is unavailable without cgo; every Write fails.
type GDALSink struct {
	CreationOptions []string
}

// NewGDALSink returns a Sink that always fails with a WriteError.
func NewGDALSink() *GDALSink { return &GDALSink{} }

// Write implements Sink.
func (GDALSink) Write(ref *Grid, path string, data *Grid) error {
	return &WriteError{Path: path, Err: errNoGDAL}
}
