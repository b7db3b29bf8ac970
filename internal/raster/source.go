package raster

// Source reads band 1 of a raster into memory.
//
// Implementations must return a *ReadError when the path is unreadable or
// not a valid raster.
type Source interface {
	Read(path string) (*Grid, error)
}

// Sink persists a grid as a single-band floating-point raster.
//
// The output takes its transform and CRS from ref and its shape from data;
// NaN is the nodata sentinel. Missing parent directories are created.
// Implementations must return a *WriteError when the destination cannot be
// written.
type Sink interface {
	Write(ref *Grid, path string, data *Grid) error
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(path string) (*Grid, error)

// Read calls f(path).
func (f SourceFunc) Read(path string) (*Grid, error) {
	return f(path)
}

// outputGrid builds the grid a Sink writes: data's samples and shape with
// ref's georeferencing.
func outputGrid(ref, data *Grid) *Grid {
	return &Grid{
		Geometry: Geometry{
			Rows:      data.Rows,
			Cols:      data.Cols,
			Transform: ref.Transform,
			CRS:       ref.CRS,
		},
		Data:   data.Data,
		NoData: data.NoData,
	}
}
