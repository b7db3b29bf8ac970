package optical

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ironsheep/raster-features/internal/raster"
)

// SCLClass is a Sentinel-2 Level-2A scene classification code.
type SCLClass int

// Scene classification codes as written in the SCL band.
const (
	SCLNoData SCLClass = iota
	SCLSaturatedDefective
	SCLDarkArea
	SCLCloudShadow
	SCLVegetation
	SCLNotVegetated
	SCLWater
	SCLUnclassified
	SCLCloudMediumProbability
	SCLCloudHighProbability
	SCLThinCirrus
	SCLSnowIce
)

var sclNames = [...]string{
	"no_data",
	"saturated_defective",
	"dark_area",
	"cloud_shadow",
	"vegetation",
	"not_vegetated",
	"water",
	"unclassified",
	"cloud_medium_probability",
	"cloud_high_probability",
	"thin_cirrus",
	"snow_ice",
}

// String implements fmt.Stringer.
func (c SCLClass) String() string {
	if c >= 0 && int(c) < len(sclNames) {
		return sclNames[c]
	}
	return fmt.Sprintf("SCLClass(%d)", int(c))
}

// ClassSet is a set of classification codes.
type ClassSet map[SCLClass]bool

// NewClassSet builds a set from integer codes.
func NewClassSet(codes ...int) ClassSet {
	s := make(ClassSet, len(codes))
	for _, c := range codes {
		s[SCLClass(c)] = true
	}
	return s
}

// DefaultExcludedClasses are the classes that make a pixel unusable for a
// surface reflectance index: cloud shadow, medium and high probability
// cloud, thin cirrus and snow or ice.
var DefaultExcludedClasses = NewClassSet(
	int(SCLCloudShadow),
	int(SCLCloudMediumProbability),
	int(SCLCloudHighProbability),
	int(SCLThinCirrus),
	int(SCLSnowIce),
)

// Contains reports whether the class code v is in the set. NaN and
// non-integral values are never members.
func (s ClassSet) Contains(v float64) bool {
	if math.IsNaN(v) || v != math.Trunc(v) {
		return false
	}
	return s[SCLClass(v)]
}

// String lists the set's classes in code order.
func (s ClassSet) String() string {
	codes := make([]int, 0, len(s))
	for c, ok := range s {
		if ok {
			codes = append(codes, int(c))
		}
	}
	sort.Ints(codes)
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = SCLClass(c).String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// Mask is a boolean grid; Bits[i] is true for pixel i when it is excluded.
type Mask struct {
	Rows, Cols int
	Bits       []bool
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// At reports whether pixel (row, col) is set.
func (m *Mask) At(row, col int) bool {
	return m.Bits[row*m.Cols+col]
}

// BuildMask marks every pixel of classes whose code is in excluded.
func BuildMask(classes *raster.Grid, excluded ClassSet) *Mask {
	m := &Mask{Rows: classes.Rows, Cols: classes.Cols, Bits: make([]bool, len(classes.Data))}
	for i, v := range classes.Data {
		m.Bits[i] = excluded.Contains(v)
	}
	return m
}

// MaskAndInvalidate overwrites with NaN every pixel of index whose class in
// classes is in excluded, and returns the mask it applied.
//
// index is modified in place; no other pixel is altered and index.NoData is
// kept, so pixels already equal to it stay invalid. classes must already be
// on index's pixel grid (see Resample and AlignAndMask).
//
// # Errors
//
//   - ShapeMismatchError if classes and index differ in shape or transform
func MaskAndInvalidate(index, classes *raster.Grid, excluded ClassSet) (*Mask, error) {
	if err := raster.CheckSameGrid(index.Geometry, classes.Geometry); err != nil {
		return nil, raster.WithContext(err, "cloud mask", "")
	}
	m := BuildMask(classes, excluded)
	for i, masked := range m.Bits {
		if masked {
			index.Data[i] = math.NaN()
		}
	}
	return m, nil
}

// AlignAndMask resamples classes onto index's pixel grid with the SCL
// NO_DATA class as fill, then applies MaskAndInvalidate.
func AlignAndMask(index, classes *raster.Grid, excluded ClassSet) (*Mask, error) {
	aligned, err := Resample(classes, index.Geometry, float64(SCLNoData))
	if err != nil {
		return nil, err
	}
	return MaskAndInvalidate(index, aligned, excluded)
}
