// Package mcpserver публикует инструменты из tool.Registry по протоколу MCP
// (JSON-RPC 2.0) через mcp-go: stdio и Streamable HTTP.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/tool"
)

// NewServer создаёт MCP сервер и регистрирует в нём все инструменты реестра.
// Вызовы уходят в обработчики реестра, уже обёрнутые в tool.Trace.
func NewServer(registry *tool.Registry, name, version string, logger *zap.Logger) (*server.MCPServer, error) {
	hooks := &server.Hooks{}
	hooks.AddBeforeAny(func(_ context.Context, id any, method mcp.MCPMethod, _ any) {
		logger.Debug("Handling MCP request",
			zap.String("method", string(method)),
			zap.Any("id", id))
	})
	hooks.AddOnError(func(_ context.Context, id any, method mcp.MCPMethod, _ any, err error) {
		logger.Warn("MCP request failed",
			zap.String("method", string(method)),
			zap.Any("id", id),
			zap.Error(err))
	})

	s := server.NewMCPServer(name, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithHooks(hooks),
	)

	for _, t := range registry.List() {
		schema, err := json.Marshal(t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("failed to encode input schema of %s: %w", t.Name, err)
		}
		s.AddTool(mcp.NewToolWithRawSchema(t.Name, t.Description, schema), callHandler(t, logger))
	}

	logger.Info("MCP server initialized",
		zap.String("name", name),
		zap.String("version", version),
		zap.Int("tools", len(registry.List())))

	return s, nil
}

// callHandler передаёт аргументы вызова в обработчик инструмента.
// tool.ErrorEnvelope превращается в результат с isError=true.
func callHandler(t tool.Tool, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(request.Params.Arguments)
		if err != nil {
			return nil, fmt.Errorf("failed to encode arguments: %w", err)
		}

		result, err := t.Handler(ctx, args)
		if err != nil {
			logger.Error("Tool call failed", zap.String("tool", t.Name), zap.Error(err))
			return nil, err
		}

		text, err := json.Marshal(result)
		if err != nil {
			logger.Error("Failed to encode tool result", zap.String("tool", t.Name), zap.Error(err))
			return nil, fmt.Errorf("failed to encode result of %s: %w", t.Name, err)
		}

		_, isError := result.(tool.ErrorEnvelope)
		return &mcp.CallToolResult{
			Content:           []mcp.Content{mcp.NewTextContent(string(text))},
			StructuredContent: result,
			IsError:           isError,
		}, nil
	}
}
