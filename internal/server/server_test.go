package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/ironsheep/raster-features/internal/config"
	"github.com/ironsheep/raster-features/internal/raster"
)

// newTestServer returns a server backed by an in-memory store.
func newTestServer(t *testing.T) (*Server, *raster.MemoryStore, *logtest.Hook) {
	t.Helper()
	store := raster.NewMemoryStore()
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return New(store, store, config.Default(), log), store, hook
}

func TestNew(t *testing.T) {
	s, _, _ := newTestServer(t)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s, _, _ := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != "raster-features" {
		t.Errorf("serverInfo.name: got %v", info["name"])
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s, _, _ := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "ping-1", Method: "ping"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ID != "ping-1" {
		t.Errorf("ID: got %v, want ping-1", resp.ID)
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s, _, _ := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	result := resp.Result.(map[string]interface{})
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != 5 {
		t.Errorf("Expected 5 tools, got %d", len(toolsList))
	}
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	s, _, _ := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"})

	// Notifications don't get responses
	if resp != nil {
		t.Error("notifications/initialized should return nil response")
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s, _, _ := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 7, Method: "resources/list"})

	if resp == nil || resp.Error == nil {
		t.Fatal("expected an error response")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("Error.Code: got %d, want -32601", resp.Error.Code)
	}
}

func TestHandleRequest_WrongVersion(t *testing.T) {
	s, _, _ := newTestServer(t)

	resp := s.handleRequest(&MCPRequest{JSONRPC: "1.0", ID: 3, Method: "ping"})
	if resp == nil || resp.Error == nil {
		t.Fatal("expected an error response")
	}
	if resp.Error.Code != -32600 {
		t.Errorf("Error.Code: got %d, want -32600", resp.Error.Code)
	}
	if resp.ID != 3 {
		t.Errorf("ID: got %v, want 3", resp.ID)
	}

	if resp := s.handleRequest(&MCPRequest{Method: "ping"}); resp != nil {
		t.Errorf("notification without version answered: %+v", resp)
	}
}

func TestHandleLine(t *testing.T) {
	s, _, _ := newTestServer(t)

	for _, line := range []string{"", "{", `"just a string"`} {
		if resp := s.handleLine([]byte(line)); resp != nil {
			t.Errorf("line %q: unexpected response %+v", line, resp)
		}
	}

	resp := s.handleLine([]byte(`{"jsonrpc":"2.0","id":"p","method":"ping"}`))
	if resp == nil || resp.Error != nil || resp.ID != "p" {
		t.Errorf("ping: unexpected response %+v", resp)
	}
}

func TestServe(t *testing.T) {
	s, store, hook := newTestServer(t)
	g, err := raster.FromRows([][]float64{{1, 2}, {3, 4}}, raster.Identity, "", math.NaN())
	if err != nil {
		t.Fatal(err)
	}
	store.Put("a.tif", g)

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"raster_info","arguments":{"path":"a.tif"}}}`,
	}, "\n")

	var out bytes.Buffer
	if err := s.Serve(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	var ids []float64
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var resp struct {
			ID    float64   `json:"id"`
			Error *MCPError `json:"error"`
		}
		if err := json.Unmarshal(sc.Bytes(), &resp); err != nil {
			t.Fatalf("bad response line %q: %v", sc.Text(), err)
		}
		if resp.Error != nil {
			t.Errorf("response %v: unexpected error %+v", resp.ID, resp.Error)
		}
		ids = append(ids, resp.ID)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("response ids: got %v, want [1 2]", ids)
	}

	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "failed to parse request" {
			warned = true
		}
	}
	if !warned {
		t.Error("malformed line was not logged")
	}
}

func TestServe_Cancelled(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := s.Serve(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &out)
	if err != context.Canceled {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}
