package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xeipuuv/gojsonschema"

	"github.com/upsun/upsun-mcp/pkg/logger"
)

// addTool registers a tool with schema validation wrapped around its
// handler, so malformed arguments are rejected before the handler runs.
func addTool(s *server.MCPServer, tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.AddTool(tool, validated(tool, handler))
}

// validated wraps a tool handler with gojsonschema validation of the
// call arguments against the tool's own input schema.
func validated(tool mcp.Tool, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	schemaBytes, err := json.Marshal(tool.InputSchema)
	if err != nil {
		logger.Errorw("failed to marshal tool input schema, skipping validation",
			"tool", tool.Name,
			"error", err.Error(),
		)
		return handler
	}
	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(args))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("argument validation failed: %v", err)), nil
		}
		if !result.Valid() {
			messages := make([]string, 0, len(result.Errors()))
			for _, desc := range result.Errors() {
				messages = append(messages, desc.String())
			}
			return mcp.NewToolResultError("invalid arguments: " + strings.Join(messages, "; ")), nil
		}

		return handler(ctx, request)
	}
}
