package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/timsgardner/compliment/pkg/version"
)

// ServerName is the MCP server name.
const ServerName = "compliment"

// MCP serves the backend as MCP tools.
type MCP struct {
	backend *Backend
	mcp     *server.MCPServer
}

// NewMCP creates an MCP server exposing b.
func NewMCP(b *Backend) *MCP {
	s := &MCP{
		backend: b,
		mcp: server.NewMCPServer(
			ServerName,
			version.Version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// Serve answers JSON-RPC on r and w until ctx is done or r is closed.
func (s *MCP) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, r, w)
}

func (s *MCP) registerTools() {
	s.mcp.AddTool(completeTool(), s.handleComplete)
	s.mcp.AddTool(documentationTool(), s.handleDocumentation)
	s.mcp.AddTool(flushCachesTool(), s.handleFlushCaches)
	s.mcp.AddTool(addSearchRootTool(), s.handleAddSearchRoot)
	s.mcp.AddTool(indexStatusTool(), s.handleIndexStatus)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func (s *MCP) handleComplete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	prefix := getStringDefault(args, "prefix", "")
	if prefix == "" {
		return mcp.NewToolResultError("prefix parameter is required"), nil
	}

	cands, err := s.backend.Complete(ctx, Params{
		Prefix:    prefix,
		Scope:     getStringDefault(args, "ns", ""),
		Context:   getStringDefault(args, "context", ""),
		Fuzziness: getStringDefault(args, "fuzziness", ""),
		Extra:     getStringSliceDefault(args, "extra", nil),
		Limit:     getIntDefault(args, "limit", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"candidates": cands,
		"count":      len(cands),
	})), nil
}

func (s *MCP) handleDocumentation(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	symbol := getStringDefault(args, "symbol", "")
	if symbol == "" {
		return mcp.NewToolResultError("symbol parameter is required"), nil
	}
	doc := s.backend.Documentation(symbol, getStringDefault(args, "ns", ""))
	if doc == "" {
		return mcp.NewToolResultText(fmt.Sprintf("No documentation found for %s", symbol)), nil
	}
	return mcp.NewToolResultText(doc), nil
}

func (s *MCP) handleFlushCaches(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.backend.Flush()
	return mcp.NewToolResultText("caches flushed"), nil
}

func (s *MCP) handleAddSearchRoot(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	added, err := s.backend.AddRoot(getStringDefault(args, "root", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"added": added,
		"roots": s.backend.Engine().Index().SearchPath().Roots(),
	})), nil
}

func (s *MCP) handleIndexStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data := s.backend.Status()
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"version":   data.Version,
		"config":    data.ConfigPath,
		"policy":    data.Policy,
		"roots":     data.Roots,
		"scopes":    len(data.Scopes),
		"stats":     data.Stats,
		"providers": data.Providers,
	})), nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

func getStringSliceDefault(args map[string]interface{}, key string, defaultValue []string) []string {
	switch val := args[key].(type) {
	case []string:
		return val
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, v := range val {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return defaultValue
}
