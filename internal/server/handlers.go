package server

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/ironsheep/raster-features/internal/optical"
	"github.com/ironsheep/raster-features/internal/preview"
	"github.com/ironsheep/raster-features/internal/raster"
	"github.com/ironsheep/raster-features/internal/sar"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "raster_info", "sar_texture").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors, and results that cannot be encoded as JSON (for
// example statistics holding ±Inf), return a JSON-RPC error response with
// code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	log := s.log.WithField("tool", params.Name)
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.WithError(err).Warn("tool failed")
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	text, err := marshalJSON(result)
	if err != nil {
		log.WithError(err).Warn("tool result not encodable")
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	log.Debug("tool completed")

	return s.resultResponse(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": text,
			},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Raster Information
	case "raster_info":
		return s.handleRasterInfo(args)
	case "raster_stats":
		return s.handleRasterStats(args)

	// SAR Operations
	case "sar_lee_filter":
		return s.handleSARLeeFilter(args)
	case "sar_texture":
		return s.handleSARTexture(args)

	// Optical Operations
	case "optical_index":
		return s.handleOpticalIndex(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// marshalJSON converts a value to a pretty-printed JSON string.
func marshalJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

// load reads path through the cache and applies the optional window. The
// returned grid may be the cached one and must not be mutated.
func (s *Server) load(path string, w *raster.Window) (*raster.Grid, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	g, err := s.cache.Read(path)
	if err != nil {
		return nil, raster.WithContext(err, "read", path)
	}
	if w == nil {
		return g, nil
	}
	cropped, err := raster.Crop(g, *w)
	if err != nil {
		return nil, raster.WithContext(err, "crop", path)
	}
	return cropped, nil
}

// jsonFloat maps NaN (not representable in JSON) to null.
func jsonFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// === Raster Information Handlers ===

type rasterPathArgs struct {
	Path   string         `json:"path"`
	Window *raster.Window `json:"window,omitempty"`
}

// RasterInfoResult describes a raster's georeferencing.
type RasterInfoResult struct {
	Path       string     `json:"path"`
	Rows       int        `json:"rows"`
	Cols       int        `json:"cols"`
	Transform  [6]float64 `json:"transform"`
	PixelSizeX float64    `json:"pixel_size_x"`
	PixelSizeY float64    `json:"pixel_size_y"`
	CRS        string     `json:"crs,omitempty"`
	NoData     *float64   `json:"nodata"`
}

func (s *Server) handleRasterInfo(args json.RawMessage) (interface{}, error) {
	var a rasterPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	g, err := s.load(a.Path, nil)
	if err != nil {
		return nil, err
	}
	return &RasterInfoResult{
		Path:       a.Path,
		Rows:       g.Rows,
		Cols:       g.Cols,
		Transform:  [6]float64(g.Transform),
		PixelSizeX: g.Transform[1],
		PixelSizeY: g.Transform[5],
		CRS:        g.CRS,
		NoData:     jsonFloat(g.NoData),
	}, nil
}

// RasterStatsResult is the statistics of a raster or window.
type RasterStatsResult struct {
	Path  string       `json:"path"`
	Rows  int          `json:"rows"`
	Cols  int          `json:"cols"`
	Stats raster.Stats `json:"stats"`
}

func (s *Server) handleRasterStats(args json.RawMessage) (interface{}, error) {
	var a rasterPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	g, err := s.load(a.Path, a.Window)
	if err != nil {
		return nil, err
	}
	st, err := raster.ComputeStats(g)
	if err != nil {
		return nil, raster.WithContext(err, "statistics", a.Path)
	}
	return &RasterStatsResult{Path: a.Path, Rows: g.Rows, Cols: g.Cols, Stats: st}, nil
}

// === SAR Operation Handlers ===

type sarLeeFilterArgs struct {
	Path       string         `json:"path"`
	Window     *raster.Window `json:"window,omitempty"`
	WindowSize int            `json:"window_size"`
	Boundary   string         `json:"boundary"`
	Output     string         `json:"output"`
	Preview    bool           `json:"preview"`
}

// LeeFilterResult summarises a filtered grid.
type LeeFilterResult struct {
	Path       string          `json:"path"`
	Rows       int             `json:"rows"`
	Cols       int             `json:"cols"`
	WindowSize int             `json:"window_size"`
	Boundary   string          `json:"boundary"`
	Stats      raster.Stats    `json:"stats"`
	Output     string          `json:"output,omitempty"`
	Preview    *preview.Result `json:"preview,omitempty"`
}

func (s *Server) handleSARLeeFilter(args json.RawMessage) (interface{}, error) {
	var a sarLeeFilterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.WindowSize == 0 {
		a.WindowSize = s.cfg.SAR.WindowSize
	}
	boundary, err := sar.ParseBoundary(a.Boundary)
	if err != nil {
		return nil, err
	}

	g, err := s.load(a.Path, a.Window)
	if err != nil {
		return nil, err
	}
	filtered, err := sar.LeeFilter{WindowSize: a.WindowSize, Boundary: boundary}.Apply(g)
	if err != nil {
		return nil, raster.WithContext(err, "speckle filter", a.Path)
	}
	st, err := raster.ComputeStats(filtered)
	if err != nil {
		return nil, raster.WithContext(err, "statistics", a.Path)
	}

	res := &LeeFilterResult{
		Path:       a.Path,
		Rows:       filtered.Rows,
		Cols:       filtered.Cols,
		WindowSize: a.WindowSize,
		Boundary:   boundary.String(),
		Stats:      st,
	}
	if a.Output != "" {
		if err := s.sink.Write(filtered, a.Output, filtered); err != nil {
			return nil, raster.WithContext(err, "write", a.Output)
		}
		res.Output = a.Output
	}
	if a.Preview {
		img, err := preview.Grayscale(filtered, preview.DefaultGamma)
		if err != nil {
			return nil, err
		}
		if res.Preview, err = preview.Encode(img, s.cfg.Preview.MaxSize); err != nil {
			return nil, err
		}
	}
	return res, nil
}

type sarTextureArgs struct {
	Path         string         `json:"path"`
	Window       *raster.Window `json:"window,omitempty"`
	Distance     int            `json:"distance"`
	Angle        float64        `json:"angle"`
	Levels       int            `json:"levels"`
	FilterWindow int            `json:"filter_window"`
}

// TextureResult carries the GLCM descriptors of a grid.
type TextureResult struct {
	Path     string       `json:"path"`
	Rows     int          `json:"rows"`
	Cols     int          `json:"cols"`
	Offset   sar.Offset   `json:"offset"`
	Levels   int          `json:"levels"`
	Filtered bool         `json:"filtered"`
	Features sar.Features `json:"features"`
}

func (s *Server) handleSARTexture(args json.RawMessage) (interface{}, error) {
	var a sarTextureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Distance == 0 {
		a.Distance = sar.DefaultOffset.Distance
	}
	if a.Levels == 0 {
		a.Levels = s.cfg.SAR.QuantizationLevels
	}

	g, err := s.load(a.Path, a.Window)
	if err != nil {
		return nil, err
	}
	if a.FilterWindow > 0 {
		if g, err = sar.Filter(g, a.FilterWindow); err != nil {
			return nil, raster.WithContext(err, "speckle filter", a.Path)
		}
	}

	off := sar.Offset{Distance: a.Distance, Angle: a.Angle}
	f, err := sar.Texture{Offset: off, Levels: a.Levels}.Extract(g)
	if err != nil {
		return nil, raster.WithContext(err, "texture", a.Path)
	}
	return &TextureResult{
		Path:     a.Path,
		Rows:     g.Rows,
		Cols:     g.Cols,
		Offset:   off,
		Levels:   a.Levels,
		Filtered: a.FilterWindow > 0,
		Features: f,
	}, nil
}

// === Optical Operation Handlers ===

type opticalIndexArgs struct {
	NIR             string  `json:"nir"`
	Red             string  `json:"red"`
	SCL             string  `json:"scl"`
	Epsilon         float64 `json:"epsilon"`
	ExcludedClasses []int   `json:"excluded_classes"`
	Output          string  `json:"output"`
	Preview         bool    `json:"preview"`
}

// IndexResult summarises a normalized difference grid.
type IndexResult struct {
	Rows    int             `json:"rows"`
	Cols    int             `json:"cols"`
	Epsilon float64         `json:"epsilon"`
	Masked  int             `json:"masked"`
	Stats   *raster.Stats   `json:"stats,omitempty"`
	Output  string          `json:"output,omitempty"`
	Preview *preview.Result `json:"preview,omitempty"`
}

func (s *Server) handleOpticalIndex(args json.RawMessage) (interface{}, error) {
	var a opticalIndexArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Epsilon == 0 {
		a.Epsilon = s.cfg.Optical.Epsilon
	}
	if a.ExcludedClasses == nil {
		a.ExcludedClasses = s.cfg.Optical.ExcludedClasses
	}

	nir, err := s.load(a.NIR, nil)
	if err != nil {
		return nil, err
	}
	red, err := s.load(a.Red, nil)
	if err != nil {
		return nil, err
	}
	index, err := optical.NormalizedDifference(nir, red, a.Epsilon)
	if err != nil {
		return nil, raster.WithContext(err, "spectral index", a.NIR)
	}

	res := &IndexResult{Rows: index.Rows, Cols: index.Cols, Epsilon: a.Epsilon}

	if a.SCL != "" {
		scl, err := s.load(a.SCL, nil)
		if err != nil {
			return nil, err
		}
		classes, err := optical.Resample(scl, index.Geometry, s.cfg.Optical.ResampleFill)
		if err != nil {
			return nil, raster.WithContext(err, "resample", a.SCL)
		}
		m, err := optical.MaskAndInvalidate(index, classes, optical.NewClassSet(a.ExcludedClasses...))
		if err != nil {
			return nil, raster.WithContext(err, "cloud mask", a.SCL)
		}
		res.Masked = m.Count()
	}

	// An index masked everywhere has no statistics; that is not an error.
	if st, err := raster.ComputeStats(index); err == nil {
		res.Stats = &st
	}

	if a.Output != "" {
		if err := s.sink.Write(red, a.Output, index); err != nil {
			return nil, raster.WithContext(err, "write", a.Output)
		}
		res.Output = a.Output
	}
	if a.Preview {
		img := preview.Colorized(index, preview.Stretch{Low: -1, High: 1}, preview.IndexRamp)
		if res.Preview, err = preview.Encode(img, s.cfg.Preview.MaxSize); err != nil {
			return nil, err
		}
	}
	return res, nil
}
