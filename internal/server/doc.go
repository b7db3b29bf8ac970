// Package server implements an MCP (Model Context Protocol) server exposing
// the raster feature extractors as interactive tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Raster Information:
//   - raster_info: Shape, geotransform, CRS and nodata
//   - raster_stats: Statistics of the valid pixels, optionally in a window
//
// SAR Operations:
//   - sar_lee_filter: Lee speckle filter, optional output raster and quicklook
//   - sar_texture: GLCM texture descriptors at any offset and gray-level count
//
// Optical Operations:
//   - optical_index: Normalized difference index with optional SCL cloud mask
//
// # Raster Caching
//
// Inputs are read through a raster.GridCache keyed by path, so repeated
// calls on the same scene read it once. Cached grids are never modified;
// every tool works on a crop or a new output grid.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, which names the failing stage and path
//
// # Usage
//
//	srv := server.New(raster.NewGDALSource(), raster.NewGDALSink(), cfg, log)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
