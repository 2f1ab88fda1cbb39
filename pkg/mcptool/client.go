// Package mcptool implements a minimal Model Context Protocol client over
// streamable HTTP. It speaks just enough of the protocol for an agent to
// discover and invoke tools: initialize, tools/list and tools/call.
package mcptool

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

const protocolVersion = "2025-03-26"

// Tool describes a tool advertised by one of the configured servers.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

type toolBinding struct {
	conn *serverConn
	name string // name as the server knows it
}

// Client aggregates the tools of every server in the configuration behind a
// single namespace.
type Client struct {
	conns    []*serverConn
	tools    []Tool
	registry map[string]*toolBinding
}

// NewClientFromConfigFile connects to every server declared in the config
// file, performs the MCP handshake and collects their tool lists. Any
// connection failure tears down the sessions opened so far.
func NewClientFromConfigFile(ctx context.Context, path string) (*Client, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, cfg)
}

func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	c := &Client{
		registry: make(map[string]*toolBinding),
	}

	for name, serverCfg := range cfg.MCPServers {
		conn := newServerConn(name, serverCfg)
		if err := conn.initialize(ctx); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("initialize mcp server %q: %w", name, err)
		}
		c.conns = append(c.conns, conn)

		tools, err := conn.listTools(ctx)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("list tools of mcp server %q: %w", name, err)
		}
		for _, t := range tools {
			if _, dup := c.registry[t.Name]; dup {
				// First server wins on a name clash.
				continue
			}
			c.registry[t.Name] = &toolBinding{conn: conn, name: t.Name}
			c.tools = append(c.tools, t)
		}
	}

	return c, nil
}

// Tools returns the aggregated tool list.
func (c *Client) Tools() []Tool {
	return c.tools
}

// CallTool invokes a named tool and returns its textual result.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	binding, ok := c.registry[name]
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	params := map[string]interface{}{
		"name":      binding.name,
		"arguments": args,
	}
	if err := binding.conn.call(ctx, "tools/call", params, &result); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, part := range result.Content {
		if part.Type == "text" {
			sb.WriteString(part.Text)
		}
	}
	if result.IsError {
		return "", fmt.Errorf("tool %q failed: %s", name, sb.String())
	}
	return sb.String(), nil
}

// Close tears down every server session. Errors are joined, not short-circuited.
func (c *Client) Close() error {
	var errs []error
	for _, conn := range c.conns {
		if err := conn.close(); err != nil {
			errs = append(errs, fmt.Errorf("close mcp server %q: %w", conn.name, err))
		}
	}
	return errors.Join(errs...)
}

// --- Per-server JSON-RPC connection ---

type serverConn struct {
	name       string
	url        string
	headers    map[string]string
	sessionID  atomic.Value // string, set from the Mcp-Session-Id header
	httpClient *http.Client
	nextID     atomic.Int64
}

func newServerConn(name string, cfg ServerConfig) *serverConn {
	return &serverConn{
		name:    name,
		url:     cfg.URL,
		headers: cfg.Headers,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int64       `json:"id,omitempty"` // omitted for notifications
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *serverConn) initialize(ctx context.Context) error {
	params := map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]interface{}{},
		"clientInfo": map[string]interface{}{
			"name":    "aws-qa-chatbot",
			"version": "1.0.0",
		},
	}
	if err := c.call(ctx, "initialize", params, nil); err != nil {
		return err
	}
	// The server may ignore this, but well-behaved clients send it.
	return c.notify(ctx, "notifications/initialized")
}

func (c *serverConn) listTools(ctx context.Context) ([]Tool, error) {
	var result struct {
		Tools []struct {
			Name        string                 `json:"name"`
			Description string                 `json:"description"`
			InputSchema map[string]interface{} `json:"inputSchema"`
		} `json:"tools"`
	}
	if err := c.call(ctx, "tools/list", map[string]interface{}{}, &result); err != nil {
		return nil, err
	}

	tools := make([]Tool, 0, len(result.Tools))
	for _, t := range result.Tools {
		schema := t.InputSchema
		if schema == nil {
			schema = map[string]interface{}{"type": "object"}
		}
		tools = append(tools, Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schema,
		})
	}
	return tools, nil
}

// call performs one JSON-RPC round trip and unmarshals the result into out.
func (c *serverConn) call(ctx context.Context, method string, params, out interface{}) error {
	reqPayload := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}

	resp, err := c.post(ctx, reqPayload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, string(body))
	}

	rpcResp, err := decodeResponse(resp)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s: %w", method, rpcResp.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}

// notify sends a JSON-RPC notification (no id, no result expected).
func (c *serverConn) notify(ctx context.Context, method string) error {
	resp, err := c.post(ctx, rpcRequest{JSONRPC: "2.0", Method: method})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned status %d", method, resp.StatusCode)
	}
	return nil
}

func (c *serverConn) post(ctx context.Context, payload rpcRequest) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if sid, ok := c.sessionID.Load().(string); ok && sid != "" {
		req.Header.Set("Mcp-Session-Id", sid)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mcp request failed: %w", err)
	}

	if sid := resp.Header.Get("Mcp-Session-Id"); sid != "" {
		c.sessionID.Store(sid)
	}
	return resp, nil
}

// decodeResponse handles both plain JSON bodies and single-message SSE bodies,
// which streamable HTTP servers are allowed to answer with.
func decodeResponse(resp *http.Response) (*rpcResponse, error) {
	contentType := resp.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "text/event-stream") {
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			var rpcResp rpcResponse
			if err := json.Unmarshal([]byte(data), &rpcResp); err != nil {
				continue // ping or non-response event
			}
			if rpcResp.Result != nil || rpcResp.Error != nil {
				return &rpcResp, nil
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read event stream: %w", err)
		}
		return nil, fmt.Errorf("event stream ended without a response")
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &rpcResp, nil
}

// close ends the server session. Servers that do not support explicit
// teardown answer 405, which is not an error.
func (c *serverConn) close() error {
	sid, _ := c.sessionID.Load().(string)
	if sid == "" {
		return nil
	}

	req, err := http.NewRequest(http.MethodDelete, c.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Mcp-Session-Id", sid)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusMethodNotAllowed {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("session teardown returned status %d", resp.StatusCode)
	}
	return nil
}
