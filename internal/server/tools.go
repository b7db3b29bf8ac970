package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(what string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Path to the " + what + " raster (GeoTIFF or JPEG 2000)",
	}
}

// windowProperty describes a pixel window of interest. Omitted means the
// whole raster.
var windowProperty = map[string]interface{}{
	"type":        "object",
	"description": "Optional pixel window {row, col, rows, cols}; clipped to the raster",
	"properties": map[string]interface{}{
		"row":  map[string]interface{}{"type": "integer"},
		"col":  map[string]interface{}{"type": "integer"},
		"rows": map[string]interface{}{"type": "integer"},
		"cols": map[string]interface{}{"type": "integer"},
	},
	"required": []string{"rows", "cols"},
}

var outputProperty = map[string]interface{}{
	"type":        "string",
	"description": "Optional output path; the result is written as a Float32 GeoTIFF with NaN nodata",
}

var previewProperty = map[string]interface{}{
	"type":        "boolean",
	"description": "Return a base64 PNG quicklook of the result. Default false",
	"default":     false,
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Raster Information
		{
			Name:        "raster_info",
			Description: "Read a raster and return its shape, geotransform, CRS and nodata value.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("input"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "raster_stats",
			Description: "Minimum, maximum, mean and population variance over the valid pixels of a raster or a window of it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty("input"),
					"window": windowProperty,
				},
				"required": []string{"path"},
			},
		},

		// SAR Operations
		{
			Name:        "sar_lee_filter",
			Description: "Apply a Lee adaptive speckle filter to a SAR backscatter raster. Returns statistics of the filtered grid and optionally writes it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty("SAR"),
					"window": windowProperty,
					"window_size": map[string]interface{}{
						"type":        "integer",
						"description": "Odd side length of the moving window in pixels. Default from configuration (7)",
					},
					"boundary": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"reflect", "nearest"},
						"description": "Edge handling. Default reflect",
					},
					"output":  outputProperty,
					"preview": previewProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sar_texture",
			Description: "Compute GLCM texture descriptors (contrast, homogeneity, dissimilarity, ASM, energy, correlation, entropy) of a raster quantized to 256 levels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty("SAR"),
					"window": windowProperty,
					"distance": map[string]interface{}{
						"type":        "integer",
						"description": "Pixel pair distance. Default 1",
						"default":     1,
					},
					"angle": map[string]interface{}{
						"type":        "number",
						"description": "Pixel pair direction in degrees (0 = right, 90 = down). Default 0",
						"default":     0,
					},
					"levels": map[string]interface{}{
						"type":        "integer",
						"description": "Gray levels to quantize to (2-256). Default from sar.quantization_levels",
					},
					"filter_window": map[string]interface{}{
						"type":        "integer",
						"description": "If set, apply a Lee filter with this window size before computing texture",
					},
				},
				"required": []string{"path"},
			},
		},

		// Optical Operations
		{
			Name:        "optical_index",
			Description: "Compute a normalized difference index (NDVI for NIR and red) from two co-registered bands, optionally masking Sentinel-2 scene classes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"nir": pathProperty("near-infrared (B08)"),
					"red": pathProperty("red (B04)"),
					"scl": pathProperty("optional scene classification (SCL)"),
					"epsilon": map[string]interface{}{
						"type":        "number",
						"description": "Denominator stabilizer. Default from configuration (1e-6)",
					},
					"excluded_classes": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "integer"},
						"description": "SCL codes to mask. Default from configuration (3, 8, 9, 10, 11)",
					},
					"output":  outputProperty,
					"preview": previewProperty,
				},
				"required": []string{"nir", "red"},
			},
		},
	}
}

// handleToolsList answers tools/list with GetToolDefinitions.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return s.resultResponse(req.ID, map[string]interface{}{
		"tools": GetToolDefinitions(),
	})
}
