package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// touch creates an empty file (and its parent directories) under root.
func touch(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()

	vv := touch(t, root, "sentinel1/S1A_IW_GRDH_20240101/measurement/s1a-iw-grd-vv-20240101.tiff")
	vh := touch(t, root, "sentinel1/S1A_IW_GRDH_20240101/measurement/s1a-iw-grd-vh-20240101.tiff")
	touch(t, root, "sentinel1/S1A_IW_SLC_20240101/measurement/s1a-iw-slc-vv-20240101.tiff")
	touch(t, root, "sentinel1/readme.txt")

	red := touch(t, root, "sentinel2/T33UUP_20240101T100000_B04_10m.jp2")
	nir := touch(t, root, "sentinel2/T33UUP_20240101T100000_B08_10m.jp2")
	scl := touch(t, root, "sentinel2/T33UUP_20240101T100000_SCL_20m.JP2")
	touch(t, root, "sentinel2/T33UUP_20240101T100000_B02_10m.jp2")

	inv, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := &Inventory{
		Root:      root,
		Sentinel1: Sentinel1{VV: []string{vv}, VH: []string{vh}},
		Sentinel2: Sentinel2{B04: []string{red}, B08: []string{nir}, SCL: []string{scl}},
	}
	if diff := cmp.Diff(want, inv); diff != "" {
		t.Errorf("inventory mismatch (-want +got):\n%s", diff)
	}
	if !inv.Sentinel2.Complete() {
		t.Error("Sentinel2 should be complete")
	}
}

func TestDiscover_MissingSubdirectories(t *testing.T) {
	root := t.TempDir()

	inv, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(inv.Sentinel1.VV) != 0 || inv.Sentinel2.Complete() {
		t.Errorf("expected empty inventory, got %+v", inv)
	}
}

func TestDiscover_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")

	inv, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if diff := cmp.Diff(&Inventory{Root: root}, inv); diff != "" {
		t.Errorf("expected empty inventory (-want +got):\n%s", diff)
	}
}

func TestDiscover_FileRoot(t *testing.T) {
	file := touch(t, t.TempDir(), "plain.tif")
	if _, err := Discover(file); err == nil {
		t.Error("expected error for a file root")
	}
}

func TestDiscover_PathInSeveralBandGroups(t *testing.T) {
	root := t.TempDir()
	both := touch(t, root, "sentinel2/odd_B04_SCL_20m.tif")
	nir := touch(t, root, "sentinel2/T33UUP_B08_10m.tif")

	inv, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := Sentinel2{B04: []string{both}, B08: []string{nir}, SCL: []string{both}}
	if diff := cmp.Diff(want, inv.Sentinel2); diff != "" {
		t.Errorf("band groups mismatch (-want +got):\n%s", diff)
	}
}

func TestFindRasters_Extensions(t *testing.T) {
	root := t.TempDir()
	a := touch(t, root, "a.TIF")
	b := touch(t, root, "sub/b.tiff")
	c := touch(t, root, "sub/deeper/c.jp2")
	touch(t, root, "d.png")
	touch(t, root, "e.tif.aux.xml")

	got, err := FindRasters(root)
	if err != nil {
		t.Fatalf("FindRasters failed: %v", err)
	}
	if diff := cmp.Diff([]string{a, b, c}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
