package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeServer speaks just enough JSON-RPC over HTTP to exercise the client.
type fakeServer struct {
	sessionID   string
	sawInit     bool
	sawInitNote bool
	sawDelete   bool
	lastCallArg map[string]interface{}
	toolErr     bool
	streamList  bool // answer tools/list as an SSE body
}

func (f *fakeServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			f.sawDelete = true
			w.WriteHeader(http.StatusOK)
			return
		}

		var req struct {
			ID     int64           `json:"id"`
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		writeResult := func(result interface{}) {
			payload, _ := json.Marshal(result)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":%s}`, req.ID, payload)
		}

		switch req.Method {
		case "initialize":
			f.sawInit = true
			w.Header().Set("Mcp-Session-Id", f.sessionID)
			writeResult(map[string]interface{}{"protocolVersion": protocolVersion})
		case "notifications/initialized":
			f.sawInitNote = true
			w.WriteHeader(http.StatusAccepted)
		case "tools/list":
			if got := r.Header.Get("Mcp-Session-Id"); got != f.sessionID {
				http.Error(w, "missing session", http.StatusBadRequest)
				return
			}
			result := map[string]interface{}{
				"tools": []map[string]interface{}{
					{
						"name":        "search_documentation",
						"description": "Search AWS documentation",
						"inputSchema": map[string]interface{}{"type": "object"},
					},
				},
			}
			if f.streamList {
				payload, _ := json.Marshal(result)
				w.Header().Set("Content-Type", "text/event-stream")
				fmt.Fprintf(w, "event: message\ndata: {\"jsonrpc\":\"2.0\",\"id\":%d,\"result\":%s}\n\n", req.ID, payload)
				return
			}
			writeResult(result)
		case "tools/call":
			var params struct {
				Name      string                 `json:"name"`
				Arguments map[string]interface{} `json:"arguments"`
			}
			json.Unmarshal(req.Params, &params)
			f.lastCallArg = params.Arguments
			writeResult(map[string]interface{}{
				"content": []map[string]interface{}{{"type": "text", "text": "result for " + params.Name}},
				"isError": f.toolErr,
			})
		default:
			http.Error(w, "unknown method", http.StatusBadRequest)
		}
	}
}

func newTestClient(t *testing.T, f *fakeServer) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	cfg := &Config{MCPServers: map[string]ServerConfig{
		"docs": {URL: srv.URL},
	}}
	client, err := NewClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestClientHandshakeAndToolListing(t *testing.T) {
	f := &fakeServer{sessionID: "sess-1"}
	client := newTestClient(t, f)

	if !f.sawInit || !f.sawInitNote {
		t.Fatalf("handshake incomplete: init=%v note=%v", f.sawInit, f.sawInitNote)
	}
	tools := client.Tools()
	if len(tools) != 1 || tools[0].Name != "search_documentation" {
		t.Fatalf("tools = %+v", tools)
	}
	if tools[0].InputSchema["type"] != "object" {
		t.Fatalf("schema = %+v", tools[0].InputSchema)
	}
}

func TestClientCallTool(t *testing.T) {
	f := &fakeServer{sessionID: "sess-1"}
	client := newTestClient(t, f)

	out, err := client.CallTool(context.Background(), "search_documentation", map[string]interface{}{"query": "iam"})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if out != "result for search_documentation" {
		t.Fatalf("out = %q", out)
	}
	if f.lastCallArg["query"] != "iam" {
		t.Fatalf("server saw args %v", f.lastCallArg)
	}
}

func TestClientCallToolReportsToolError(t *testing.T) {
	f := &fakeServer{sessionID: "sess-1", toolErr: true}
	client := newTestClient(t, f)

	_, err := client.CallTool(context.Background(), "search_documentation", nil)
	if err == nil || !strings.Contains(err.Error(), "failed") {
		t.Fatalf("err = %v", err)
	}
}

func TestClientCallUnknownTool(t *testing.T) {
	client := newTestClient(t, &fakeServer{sessionID: "sess-1"})

	if _, err := client.CallTool(context.Background(), "nope", nil); err == nil {
		t.Fatal("expected an unknown-tool error")
	}
}

func TestClientDecodesEventStreamResponses(t *testing.T) {
	f := &fakeServer{sessionID: "sess-1", streamList: true}
	client := newTestClient(t, f)

	if len(client.Tools()) != 1 {
		t.Fatalf("tools = %+v", client.Tools())
	}
}

func TestClientCloseTearsDownSession(t *testing.T) {
	f := &fakeServer{sessionID: "sess-1"}
	client := newTestClient(t, f)

	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !f.sawDelete {
		t.Fatal("no session teardown request sent")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		os.WriteFile(path, []byte(content), 0644)
		return path
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name: "valid",
			path: write("ok.json", `{"mcpServers":{"docs":{"url":"https://example.com/mcp"}}}`),
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "absent.json"),
			wantErr: true,
		},
		{
			name:    "malformed json",
			path:    write("bad.json", `{"mcpServers":`),
			wantErr: true,
		},
		{
			name:    "no servers",
			path:    write("empty.json", `{"mcpServers":{}}`),
			wantErr: true,
		},
		{
			name:    "server without url",
			path:    write("nourl.json", `{"mcpServers":{"docs":{}}}`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
