package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/raster-features/internal/config"
	"github.com/ironsheep/raster-features/internal/raster"
)

const (
	jsonRPCVersion  = "2.0"
	protocolVersion = "2024-11-05"
	serverName      = "raster-features"

	// maxRequestSize bounds a single request line.
	maxRequestSize = 1 << 20
)

// JSON-RPC error codes used in responses.
const (
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// Version is reported in the initialize handshake. Set by main.
var Version = "dev"

// Server answers MCP requests for the raster tools. Inputs are read through
// a shared GridCache, so a Server is meant to live for one client session.
type Server struct {
	cache *raster.GridCache
	sink  raster.Sink
	cfg   *config.Config
	log   logrus.FieldLogger
}

// MCPRequest is one JSON-RPC 2.0 request or notification. A nil ID marks a
// notification, which never gets a response.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse carries either Result or Error for the request with the same
// ID.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError is a JSON-RPC error object. Data holds the underlying error
// text for tool failures.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server that reads rasters through src (cached) and writes
// outputs through sink. Tool defaults come from cfg.
func New(src raster.Source, sink raster.Sink, cfg *config.Config, log logrus.FieldLogger) *Server {
	return &Server{
		cache: raster.NewGridCache(src),
		sink:  sink,
		cfg:   cfg,
		log:   log,
	}
}

// Run serves stdin to stdout until stdin closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads newline-delimited JSON-RPC requests from r and writes one
// response line per request to w. Requests are handled in order.
//
// Blank lines are ignored. A line that is not valid JSON is logged and
// skipped, since it carries no ID to answer. Serve returns nil when r is
// exhausted and ctx.Err() once ctx is cancelled.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		resp := s.handleLine(scanner.Bytes())
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			s.log.WithError(err).Error("failed to encode response")
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	return nil
}

// handleLine decodes one request line and handles it. It returns nil when
// nothing should be written back.
func (s *Server) handleLine(line []byte) *MCPResponse {
	if len(line) == 0 {
		return nil
	}
	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.WithError(err).Warn("failed to parse request")
		return nil
	}
	return s.handleRequest(&req)
}

// handleRequest dispatches req by method. Notifications and requests
// without a usable version return nil or an Invalid Request error.
//
// Supported methods:
//
//	initialize                 handshake, see handleInitialize
//	notifications/initialized  acknowledged silently
//	tools/list                 tool catalogue, see GetToolDefinitions
//	tools/call                 tool execution, see handleToolsCall
//	ping                       empty result
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	if req.JSONRPC != jsonRPCVersion {
		if req.ID == nil {
			return nil
		}
		return s.errorResponse(req.ID, codeInvalidRequest, "Invalid Request",
			fmt.Sprintf("jsonrpc must be %q, got %q", jsonRPCVersion, req.JSONRPC))
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return s.resultResponse(req.ID, map[string]interface{}{})
	}

	s.log.WithField("method", req.Method).Debug("unknown method")
	return &MCPResponse{
		JSONRPC: jsonRPCVersion,
		ID:      req.ID,
		Error: &MCPError{
			Code:    codeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		},
	}
}

// handleInitialize answers the handshake with the protocol version, the
// tools capability and the server name and Version.
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return s.resultResponse(req.ID, map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    serverName,
			"version": Version,
		},
	})
}

// resultResponse wraps a successful result for the request with the given
// id.
func (s *Server) resultResponse(id interface{}, result interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}
