package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/corvids/azdo-mcp/project"
)

func registerProjects(s *server.MCPServer, provider Provider, log *zap.Logger) {
	s.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List all projects of the Azure DevOps organization."),
	), logged(log, "list_projects", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		projects, err := project.List(ctx, clients.Core)
		if err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(project.FormatProjects(projects)), nil
	}))

	s.AddTool(mcp.NewTool("list_teams",
		mcp.WithDescription("List all teams of the Azure DevOps organization."),
	), logged(log, "list_teams", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		teams, err := project.Teams(ctx, clients.Core)
		if err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(project.FormatTeams(teams)), nil
	}))
}
