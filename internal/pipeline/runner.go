package pipeline

import (
	"context"
	"image"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/raster-features/internal/config"
	"github.com/ironsheep/raster-features/internal/ingest"
	"github.com/ironsheep/raster-features/internal/optical"
	"github.com/ironsheep/raster-features/internal/preview"
	"github.com/ironsheep/raster-features/internal/raster"
	"github.com/ironsheep/raster-features/internal/sar"
)

// NDVIFileName is the Sentinel-2 product written under <output_root>/sentinel2.
const NDVIFileName = "sentinel2_ndvi_cloudmasked.tif"

// Runner executes the pipeline. Source, Sink and Config are required; a nil
// Log discards log output.
type Runner struct {
	Source raster.Source
	Sink   raster.Sink
	Config *config.Config
	Log    logrus.FieldLogger
}

// SARResult is the outcome for one Sentinel-1 file. Features is nil when Err
// is set.
type SARResult struct {
	File     string
	Path     string
	Output   string
	Features *sar.Features
	Err      error
}

// OpticalResult is the outcome of the Sentinel-2 path.
type OpticalResult struct {
	Output  string
	Skipped bool
	Masked  int
	Total   int
	Err     error
}

// Summary collects the results of one Run.
type Summary struct {
	RunID    string
	SAR      []SARResult
	Optical  *OpticalResult
	Duration time.Duration
}

// Failed reports how many Sentinel-1 files failed plus one if the
// Sentinel-2 path failed.
func (s *Summary) Failed() int {
	n := 0
	for _, r := range s.SAR {
		if r.Err != nil {
			n++
		}
	}
	if s.Optical != nil && s.Optical.Err != nil {
		n++
	}
	return n
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return r.Log
}

// Run processes the inventory. Per-file failures are reported in the
// Summary; the returned error is non-nil only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, inv *ingest.Inventory) (*Summary, error) {
	start := time.Now()
	sum := &Summary{RunID: uuid.NewString()}
	log := r.logger().WithField("run_id", sum.RunID)
	log.WithField("root", inv.Root).Info("pipeline started")

	if len(inv.Sentinel1.VV) > 0 {
		log.Infof("found %d Sentinel-1 VV file(s)", len(inv.Sentinel1.VV))
		sum.SAR = r.runSAR(ctx, log, inv.Sentinel1.VV)
	} else {
		log.Info("no Sentinel-1 VV files found")
	}

	if err := ctx.Err(); err != nil {
		return sum, err
	}

	sum.Optical = r.runOptical(log, inv.Sentinel2)

	sum.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"failed":   sum.Failed(),
		"duration": sum.Duration.String(),
	}).Info("pipeline complete")
	return sum, ctx.Err()
}

// RunSAR processes the given Sentinel-1 files. Results are in input order.
func (r *Runner) RunSAR(ctx context.Context, paths []string) []SARResult {
	return r.runSAR(ctx, r.logger(), paths)
}

func (r *Runner) runSAR(ctx context.Context, log logrus.FieldLogger, paths []string) []SARResult {
	results := make([]SARResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.Config.Workers))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = SARResult{File: filepath.Base(path), Path: path, Err: err}
				return nil
			}
			results[i] = r.processSAR(log.WithField("file", filepath.Base(path)), path)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// SAROutputPath returns where the filtered raster for path is written.
func SAROutputPath(outputRoot, path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(outputRoot, "sentinel1", name+"_lee_filtered.tif")
}

func (r *Runner) processSAR(log logrus.FieldLogger, path string) SARResult {
	res := SARResult{File: filepath.Base(path), Path: path}
	cfg := r.Config

	fail := func(stage string, err error) SARResult {
		res.Err = raster.WithContext(err, stage, path)
		log.WithField("stage", stage).WithError(res.Err).Error("Sentinel-1 processing failed")
		return res
	}

	log.Debug("reading SAR data")
	g, err := r.Source.Read(path)
	if err != nil {
		return fail("read", err)
	}

	if !cfg.SAR.FullScene {
		g, err = raster.Crop(g, cfg.SAR.WindowOfInterest)
		if err != nil {
			return fail("crop", err)
		}
	}

	log.WithField("window", cfg.SAR.WindowSize).Debug("applying Lee filter")
	filtered, err := sar.Filter(g, cfg.SAR.WindowSize)
	if err != nil {
		return fail("speckle filter", err)
	}

	res.Output = SAROutputPath(cfg.OutputRoot, path)
	log.WithField("output", res.Output).Debug("saving filtered SAR")
	if err := r.Sink.Write(filtered, res.Output, filtered); err != nil {
		return fail("write", err)
	}

	if cfg.Preview.Enabled {
		r.savePreview(log, res.Output, func() (image.Image, error) {
			return preview.Grayscale(filtered, preview.DefaultGamma)
		})
	}

	log.Debug("computing GLCM texture")
	texture := sar.Texture{Offset: sar.DefaultOffset, Levels: cfg.SAR.QuantizationLevels}
	features, err := texture.Extract(filtered)
	if err != nil {
		return fail("texture", err)
	}
	res.Features = &features

	log.WithFields(logrus.Fields{
		"contrast":    features.Contrast,
		"homogeneity": features.Homogeneity,
	}).Info("Sentinel-1 file processed")
	return res
}

// RunOptical processes the first B04, B08 and SCL rasters of s2.
func (r *Runner) RunOptical(s2 ingest.Sentinel2) *OpticalResult {
	return r.runOptical(r.logger(), s2)
}

func (r *Runner) runOptical(log logrus.FieldLogger, s2 ingest.Sentinel2) *OpticalResult {
	if !s2.Complete() {
		log.Info("Sentinel-2 data incomplete, skipping NDVI")
		return &OpticalResult{Skipped: true}
	}
	cfg := r.Config
	res := &OpticalResult{Output: filepath.Join(cfg.OutputRoot, "sentinel2", NDVIFileName)}
	log = log.WithField("product", "sentinel2")

	fail := func(stage, path string, err error) *OpticalResult {
		res.Err = raster.WithContext(err, stage, path)
		log.WithField("stage", stage).WithError(res.Err).Error("Sentinel-2 processing failed")
		return res
	}

	log.Debug("reading Sentinel-2 bands")
	red, err := r.Source.Read(s2.B04[0])
	if err != nil {
		return fail("read", s2.B04[0], err)
	}
	nir, err := r.Source.Read(s2.B08[0])
	if err != nil {
		return fail("read", s2.B08[0], err)
	}
	scl, err := r.Source.Read(s2.SCL[0])
	if err != nil {
		return fail("read", s2.SCL[0], err)
	}

	log.Debug("resampling SCL onto the B04 grid")
	classes, err := optical.Resample(scl, red.Geometry, cfg.Optical.ResampleFill)
	if err != nil {
		return fail("resample", s2.SCL[0], err)
	}

	log.Debug("computing NDVI")
	ndvi, err := optical.NormalizedDifference(nir, red, cfg.Optical.Epsilon)
	if err != nil {
		return fail("spectral index", s2.B08[0], err)
	}

	log.Debug("applying cloud mask")
	mask, err := optical.MaskAndInvalidate(ndvi, classes, optical.NewClassSet(cfg.Optical.ExcludedClasses...))
	if err != nil {
		return fail("cloud mask", s2.SCL[0], err)
	}
	res.Masked = mask.Count()
	res.Total = len(mask.Bits)

	if err := r.Sink.Write(red, res.Output, ndvi); err != nil {
		return fail("write", res.Output, err)
	}

	if cfg.Preview.Enabled {
		r.savePreview(log, res.Output, func() (image.Image, error) {
			return preview.Colorized(ndvi, preview.Stretch{Low: -1, High: 1}, preview.IndexRamp), nil
		})
	}

	log.WithFields(logrus.Fields{
		"output": res.Output,
		"masked": res.Masked,
	}).Info("Sentinel-2 processing complete")
	return res
}

// savePreview writes a quicklook next to output. A failed quicklook is
// logged and never fails the file.
func (r *Runner) savePreview(log logrus.FieldLogger, output string, render func() (image.Image, error)) {
	path := preview.PathFor(output)
	img, err := render()
	if err == nil {
		err = preview.Save(img, path, r.Config.Preview.MaxSize)
	}
	if err != nil {
		log.WithField("preview", path).WithError(err).Warn("skipping preview")
		return
	}
	log.WithField("preview", path).Debug("preview saved")
}
