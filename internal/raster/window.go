package raster

import "fmt"

// Window selects a rectangular region of interest in pixel coordinates.
// (Row, Col) is the inclusive top-left pixel; Rows and Cols are the extent.
type Window struct {
	Row  int `json:"row" yaml:"row"`
	Col  int `json:"col" yaml:"col"`
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// String implements fmt.Stringer.
func (w Window) String() string {
	return fmt.Sprintf("[%d:%d, %d:%d]", w.Row, w.Row+w.Rows, w.Col, w.Col+w.Cols)
}

// Crop extracts a window from a grid and returns it as a new grid.
//
// The window is clipped to the grid, so a window larger than the grid (the
// usual case for "first N by N pixels" selections on a small scene) returns
// the overlapping part. The result's transform is shifted so that its origin
// is the world position of the window's top-left pixel; CRS and nodata are
// carried over unchanged.
//
// # Errors
//
//   - DegenerateInputError if the window has a negative offset, a
//     non-positive extent, or does not intersect the grid
func Crop(g *Grid, w Window) (*Grid, error) {
	if w.Row < 0 || w.Col < 0 {
		return nil, &DegenerateInputError{Reason: fmt.Sprintf("window %v has a negative offset", w)}
	}
	if w.Rows < 1 || w.Cols < 1 {
		return nil, &DegenerateInputError{Reason: fmt.Sprintf("window %v is empty", w)}
	}
	if w.Row >= g.Rows || w.Col >= g.Cols {
		return nil, &DegenerateInputError{
			Reason: fmt.Sprintf("window %v outside grid %dx%d", w, g.Rows, g.Cols),
		}
	}

	rows := min(w.Rows, g.Rows-w.Row)
	cols := min(w.Cols, g.Cols-w.Col)

	out := &Grid{
		Geometry: Geometry{
			Rows:      rows,
			Cols:      cols,
			Transform: g.Transform.Offset(w.Row, w.Col),
			CRS:       g.CRS,
		},
		Data:   make([]float64, 0, rows*cols),
		NoData: g.NoData,
	}
	for r := w.Row; r < w.Row+rows; r++ {
		start := r*g.Cols + w.Col
		out.Data = append(out.Data, g.Data[start:start+cols]...)
	}
	return out, nil
}
