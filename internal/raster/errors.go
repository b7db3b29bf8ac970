package raster

import (
	"errors"
	"fmt"
)

// ReadError reports a source that could not be opened or decoded as a raster.
type ReadError struct {
	Path  string
	Stage string
	Err   error
}

func (e *ReadError) Error() string {
	return formatKind("read", e.Stage, e.Path, e.Err.Error())
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a destination that could not be created or written.
type WriteError struct {
	Path  string
	Stage string
	Err   error
}

func (e *WriteError) Error() string {
	return formatKind("write", e.Stage, e.Path, e.Err.Error())
}

func (e *WriteError) Unwrap() error { return e.Err }

// ShapeMismatchError reports two grids that were expected to share a pixel
// grid but differ in shape, transform or CRS.
type ShapeMismatchError struct {
	Path   string
	Stage  string
	Reason string
}

func (e *ShapeMismatchError) Error() string {
	return formatKind("shape mismatch", e.Stage, e.Path, e.Reason)
}

// DegenerateInputError reports an input on which an operation has no defined
// result: no valid pixels, an empty or invalid window, a singular transform.
type DegenerateInputError struct {
	Path   string
	Stage  string
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return formatKind("degenerate input", e.Stage, e.Path, e.Reason)
}

func formatKind(kind, stage, path, detail string) string {
	msg := kind
	if stage != "" {
		msg = stage + ": " + msg
	}
	if path != "" {
		msg += " " + path
	}
	return msg + ": " + detail
}

// CheckSameGrid returns a ShapeMismatchError describing how b's pixel grid
// differs from a's, or nil when they are co-registered.
func CheckSameGrid(a, b Geometry) error {
	switch {
	case a.Rows != b.Rows || a.Cols != b.Cols:
		return &ShapeMismatchError{Reason: fmt.Sprintf("shape %dx%d != %dx%d", a.Rows, a.Cols, b.Rows, b.Cols)}
	case !a.Transform.AlmostEqual(b.Transform, 1e-9):
		return &ShapeMismatchError{Reason: fmt.Sprintf("transform %v != %v", [6]float64(a.Transform), [6]float64(b.Transform))}
	case a.CRS != b.CRS:
		return &ShapeMismatchError{Reason: "coordinate reference systems differ"}
	}
	return nil
}

// WithContext stamps stage and path onto err when it is one of this
// package's error kinds and those fields are still empty. Other errors are
// wrapped as "stage path: err". A nil err stays nil.
func WithContext(err error, stage, path string) error {
	if err == nil {
		return nil
	}
	var (
		re *ReadError
		we *WriteError
		se *ShapeMismatchError
		de *DegenerateInputError
	)
	switch {
	case errors.As(err, &re):
		fill(&re.Stage, &re.Path, stage, path)
	case errors.As(err, &we):
		fill(&we.Stage, &we.Path, stage, path)
	case errors.As(err, &se):
		fill(&se.Stage, &se.Path, stage, path)
	case errors.As(err, &de):
		fill(&de.Stage, &de.Path, stage, path)
	default:
		return fmt.Errorf("%s %s: %w", stage, path, err)
	}
	return err
}

func fill(dstStage, dstPath *string, stage, path string) {
	if *dstStage == "" {
		*dstStage = stage
	}
	if *dstPath == "" {
		*dstPath = path
	}
}
