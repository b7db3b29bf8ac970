package raster

import (
	"fmt"
	"math"
)

// Geometry describes the pixel grid of a raster: its dimensions and where it
// sits on the ground. Two rasters with equal geometries are co-registered.
type Geometry struct {
	// Rows is the number of pixel rows (raster height).
	Rows int `json:"rows"`

	// Cols is the number of pixel columns (raster width).
	Cols int `json:"cols"`

	// Transform maps pixel indices to world coordinates.
	Transform GeoTransform `json:"transform"`

	// CRS identifies the coordinate reference system, usually as WKT.
	// It is passed through unchanged and never interpreted.
	CRS string `json:"crs,omitempty"`
}

// Len returns the number of pixels in the geometry.
func (g Geometry) Len() int {
	return g.Rows * g.Cols
}

// Validate reports a DegenerateInputError when the geometry has no pixels.
func (g Geometry) Validate() error {
	if g.Rows < 1 || g.Cols < 1 {
		return &DegenerateInputError{Reason: fmt.Sprintf("grid shape %dx%d has no pixels", g.Rows, g.Cols)}
	}
	return nil
}

// SameGrid reports whether two geometries describe the same pixel grid:
// identical shape, transform coefficients within 1e-9 and identical CRS.
func (g Geometry) SameGrid(o Geometry) bool {
	return g.Rows == o.Rows && g.Cols == o.Cols && g.Transform.AlmostEqual(o.Transform, 1e-9) && g.CRS == o.CRS
}

// Grid is a single-band raster held in memory.
//
// Data is row-major: the sample at (row, col) lives at Data[row*Cols+col].
// len(Data) always equals Rows*Cols.
type Grid struct {
	Geometry

	// Data holds the samples in row-major order.
	Data []float64

	// NoData is the sentinel marking invalid samples. NaN is a valid
	// sentinel; NaN samples are treated as invalid whatever NoData says.
	NoData float64
}

// NewGrid allocates a zero-filled grid with the given geometry.
func NewGrid(geom Geometry, nodata float64) (*Grid, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	return &Grid{
		Geometry: geom,
		Data:     make([]float64, geom.Len()),
		NoData:   nodata,
	}, nil
}

// FromRows builds a grid from a slice of equally long rows. It is mostly
// useful for tests and small hand-built inputs.
func FromRows(rows [][]float64, transform GeoTransform, crs string, nodata float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &DegenerateInputError{Reason: "no rows"}
	}
	cols := len(rows[0])
	g := &Grid{
		Geometry: Geometry{Rows: len(rows), Cols: cols, Transform: transform, CRS: crs},
		Data:     make([]float64, 0, len(rows)*cols),
		NoData:   nodata,
	}
	for i, r := range rows {
		if len(r) != cols {
			return nil, &ShapeMismatchError{
				Reason: fmt.Sprintf("row %d has %d columns, want %d", i, len(r), cols),
			}
		}
		g.Data = append(g.Data, r...)
	}
	return g, nil
}

// Fill builds a grid in which every sample equals v.
func Fill(geom Geometry, v, nodata float64) (*Grid, error) {
	g, err := NewGrid(geom, nodata)
	if err != nil {
		return nil, err
	}
	for i := range g.Data {
		g.Data[i] = v
	}
	return g, nil
}

// At returns the sample at (row, col). It panics on out-of-range indices,
// like a slice access.
func (g *Grid) At(row, col int) float64 {
	return g.Data[row*g.Cols+col]
}

// Set stores v at (row, col).
func (g *Grid) Set(row, col int, v float64) {
	g.Data[row*g.Cols+col] = v
}

// Row returns the samples of one row. The slice aliases the grid's data.
func (g *Grid) Row(row int) []float64 {
	return g.Data[row*g.Cols : (row+1)*g.Cols]
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	data := make([]float64, len(g.Data))
	copy(data, g.Data)
	return &Grid{Geometry: g.Geometry, Data: data, NoData: g.NoData}
}

// Like returns a new grid with g's georeferencing and the given data.
// It panics if data does not have exactly Rows*Cols elements.
func (g *Grid) Like(data []float64, nodata float64) *Grid {
	if len(data) != g.Len() {
		panic(fmt.Sprintf("raster: Like given %d samples for a %dx%d grid", len(data), g.Rows, g.Cols))
	}
	return &Grid{Geometry: g.Geometry, Data: data, NoData: nodata}
}

// IsValid reports whether v is a usable measurement for this grid:
// neither NaN nor equal to the nodata sentinel.
func (g *Grid) IsValid(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	return math.IsNaN(g.NoData) || v != g.NoData
}

// String implements fmt.Stringer.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, nodata=%v)", g.Rows, g.Cols, g.NoData)
}
