package mcptool

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config mirrors the standard MCP client configuration file layout.
type Config struct {
	MCPServers map[string]ServerConfig `json:"mcpServers"`
}

// ServerConfig describes one MCP server reachable over streamable HTTP.
type ServerConfig struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// LoadConfig reads and validates an MCP configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mcp config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse mcp config %s: %w", path, err)
	}

	if len(cfg.MCPServers) == 0 {
		return nil, fmt.Errorf("mcp config %s declares no servers", path)
	}
	for name, server := range cfg.MCPServers {
		if server.URL == "" {
			return nil, fmt.Errorf("mcp server %q has no url", name)
		}
	}

	return &cfg, nil
}
