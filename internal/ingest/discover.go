// Package ingest finds Sentinel-1 and Sentinel-2 rasters under a data root
// and groups them by polarisation or band using their file names.
//
// The expected layout is
//
//	<root>/
//	    sentinel1/   GRD products; VV and VH polarisations
//	    sentinel2/   L2A products; B04 (red), B08 (NIR), SCL (classification)
//
// Matching is case-insensitive substring matching on the full path.
package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RasterExtensions are the file extensions treated as rasters.
var RasterExtensions = []string{".tif", ".tiff", ".jp2"}

// Sentinel1 groups GRD rasters by polarisation.
type Sentinel1 struct {
	VV []string `json:"vv"`
	VH []string `json:"vh"`
}

// Sentinel2 groups L2A rasters by band.
type Sentinel2 struct {
	B04 []string `json:"b04"`
	B08 []string `json:"b08"`
	SCL []string `json:"scl"`
}

// Complete reports whether at least one red, NIR and classification raster
// was found.
func (s Sentinel2) Complete() bool {
	return len(s.B04) > 0 && len(s.B08) > 0 && len(s.SCL) > 0
}

// Inventory is the result of scanning a data root.
type Inventory struct {
	Root      string    `json:"root"`
	Sentinel1 Sentinel1 `json:"sentinel1"`
	Sentinel2 Sentinel2 `json:"sentinel2"`
}

// Discover scans root/sentinel1 and root/sentinel2. A missing root or
// sub-directory yields empty groups, not an error. Paths within each group
// are sorted. A path may land in more than one band group.
//
// # Errors
//
//   - if root exists but is not a directory
//   - if walking an existing sub-directory fails
func Discover(root string) (*Inventory, error) {
	inv := &Inventory{Root: root}

	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return inv, nil
	case err != nil:
		return nil, fmt.Errorf("failed to stat data root: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("data root %s is not a directory", root)
	}

	s1, err := FindRasters(filepath.Join(root, "sentinel1"))
	if err != nil {
		return nil, err
	}
	for _, p := range s1 {
		lower := strings.ToLower(p)
		if !strings.Contains(lower, "grd") {
			continue
		}
		if strings.Contains(lower, "vv") {
			inv.Sentinel1.VV = append(inv.Sentinel1.VV, p)
		}
		if strings.Contains(lower, "vh") {
			inv.Sentinel1.VH = append(inv.Sentinel1.VH, p)
		}
	}

	s2, err := FindRasters(filepath.Join(root, "sentinel2"))
	if err != nil {
		return nil, err
	}
	for _, p := range s2 {
		lower := strings.ToLower(p)
		if strings.Contains(lower, "_b04_") {
			inv.Sentinel2.B04 = append(inv.Sentinel2.B04, p)
		}
		if strings.Contains(lower, "_b08_") {
			inv.Sentinel2.B08 = append(inv.Sentinel2.B08, p)
		}
		if strings.Contains(lower, "_scl_") {
			inv.Sentinel2.SCL = append(inv.Sentinel2.SCL, p)
		}
	}

	return inv, nil
}

// FindRasters walks dir recursively and returns every file whose extension
// is in RasterExtensions, sorted. A missing dir yields no paths.
func FindRasters(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !isRaster(d.Name()) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func isRaster(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range RasterExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
