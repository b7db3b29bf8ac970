package pipeline

import (
	"fmt"
	"io"
)

// Format writes the human-readable summary: one line per Sentinel-1 file
// and one line for the Sentinel-2 product.
//
//	Sentinel-1 | scene_vv.tif | Contrast=12.345, Homogeneity=0.456
//	Sentinel-1 | broken_vv.tif | FAILED
//	Sentinel-2 | data/processed/sentinel2/sentinel2_ndvi_cloudmasked.tif | Masked=1200/4000
//	Sentinel-2 | data/processed/sentinel2/sentinel2_ndvi_cloudmasked.tif | FAILED
func (s *Summary) Format(w io.Writer) error {
	for _, r := range s.SAR {
		var err error
		if r.Err != nil || r.Features == nil {
			_, err = fmt.Fprintf(w, "Sentinel-1 | %s | FAILED\n", r.File)
		} else {
			_, err = fmt.Fprintf(w, "Sentinel-1 | %s | Contrast=%.3f, Homogeneity=%.3f\n",
				r.File, r.Features.Contrast, r.Features.Homogeneity)
		}
		if err != nil {
			return err
		}
	}

	o := s.Optical
	if o == nil {
		return nil
	}
	var err error
	switch {
	case o.Skipped:
		_, err = fmt.Fprintln(w, "Sentinel-2 | SKIPPED (incomplete bands)")
	case o.Err != nil:
		_, err = fmt.Fprintf(w, "Sentinel-2 | %s | FAILED\n", o.Output)
	default:
		_, err = fmt.Fprintf(w, "Sentinel-2 | %s | Masked=%d/%d\n", o.Output, o.Masked, o.Total)
	}
	return err
}
