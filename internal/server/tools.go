package server

import "github.com/mark3labs/mcp-go/mcp"

func completeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "complete",
		Description: "Complete a symbol prefix: vars, special forms, namespaces, classes and resources",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"prefix": map[string]interface{}{
					"type":        "string",
					"description": "Text typed so far",
				},
				"ns": map[string]interface{}{
					"type":        "string",
					"description": "Enclosing namespace",
				},
				"context": map[string]interface{}{
					"type":        "string",
					"description": "Enclosing top-level form with __prefix__ in place of the symbol, or :same",
				},
				"fuzziness": map[string]interface{}{
					"type":        "string",
					"description": "Matching policy",
					"enum":        []string{"skip", "boundary"},
				},
				"extra": map[string]interface{}{
					"type":        "array",
					"description": "Metadata to include with each candidate",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"doc", "arity", "type"},
					},
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of candidates (0 for the configured default)",
					"minimum":     0,
				},
			},
			Required: []string{"prefix"},
		},
	}
}

func documentationTool() mcp.Tool {
	return mcp.Tool{
		Name:        "documentation",
		Description: "Show documentation for a symbol, special form or namespace",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"symbol": map[string]interface{}{
					"type":        "string",
					"description": "Symbol, possibly qualified",
				},
				"ns": map[string]interface{}{
					"type":        "string",
					"description": "Namespace used to resolve aliases and referred symbols",
				},
			},
			Required: []string{"symbol"},
		},
	}
}

func flushCachesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "flush_caches",
		Description: "Drop cached scans so the next completion re-reads the search path",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

func addSearchRootTool() mcp.Tool {
	return mcp.Tool{
		Name:        "add_search_root",
		Description: "Append a directory, archive or dir/* glob to the search path",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"root": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path of the root",
				},
			},
			Required: []string{"root"},
		},
	}
}

func indexStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_status",
		Description: "Report the search path, loaded namespaces and index sizes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
