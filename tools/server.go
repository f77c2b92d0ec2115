// Package tools exposes every public operation as an MCP tool: named
// parameters in, one text block out. Failures never cross the protocol
// boundary as faults, they come back as text beginning "Error:".
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/corvids/azdo-mcp/connection"
	"github.com/corvids/azdo-mcp/pullrequest"
)

const (
	serverName    = "azdo-mcp"
	serverVersion = "1.1.0"
)

// Provider hands out fresh service clients for one tool call.
type Provider func(ctx context.Context) (*connection.Clients, error)

// NewServer builds the MCP server with every tool registered.
func NewServer(provider Provider, log *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(serverName, serverVersion)

	registerPullRequests(s, provider, log)
	registerWorkItems(s, provider, log)
	registerCodeSearch(s, provider, log)
	registerProjects(s, provider, log)

	return s
}

// errResult renders a failure as a single descriptive text line.
func errResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Error: %s", err))
}

// logged wraps a handler with invocation logging. The protocol stream
// owns stdout, so the logger must write elsewhere.
func logged(log *zap.Logger, name string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := handler(ctx, req)
		fields := []zap.Field{zap.String("tool", name), zap.Duration("took", time.Since(start))}
		switch {
		case err != nil:
			log.Error("tool call failed", append(fields, zap.Error(err))...)
		case result != nil && result.IsError:
			log.Warn("tool call returned an error result", fields...)
		default:
			log.Info("tool call", fields...)
		}
		return result, err
	}
}

// locator extracts the project/repository pair every pull request tool
// requires.
func locator(req mcp.CallToolRequest) (pullrequest.Locator, error) {
	project, err := req.RequireString("project")
	if err != nil {
		return pullrequest.Locator{}, err
	}
	repository, err := req.RequireString("repository")
	if err != nil {
		return pullrequest.Locator{}, err
	}
	return pullrequest.Locator{Project: project, Repository: repository}, nil
}
