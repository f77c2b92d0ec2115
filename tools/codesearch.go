package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/corvids/azdo-mcp/codesearch"
)

func registerCodeSearch(s *server.MCPServer, provider Provider, log *zap.Logger) {
	s.AddTool(mcp.NewTool("search_code",
		mcp.WithDescription("Search source code via the Azure DevOps fulltext index, ordered by relevance."),
		mcp.WithString("searchphrase", mcp.Required(), mcp.Description("The phrase to look for; supports the functional code search syntax")),
		mcp.WithString("project", mcp.Description("Restrict the search to one project")),
		mcp.WithString("repository", mcp.Description("Restrict the search to one repository (requires project)")),
		mcp.WithString("branch", mcp.Description("Restrict the search to one branch (requires repository)")),
		mcp.WithString("path", mcp.Description("Restrict the search to one path (requires branch)")),
		mcp.WithNumber("skip", mcp.Description("Skip the first N results")),
		mcp.WithNumber("top", mcp.Description("Return at most N results")),
	), logged(log, "search_code", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		phrase, err := req.RequireString("searchphrase")
		if err != nil {
			return errResult(err), nil
		}

		query := codesearch.Query{Phrase: phrase}
		if query.Project, err = optString(req, "project"); err != nil {
			return errResult(err), nil
		}
		if query.Repository, err = optString(req, "repository"); err != nil {
			return errResult(err), nil
		}
		if query.Branch, err = optString(req, "branch"); err != nil {
			return errResult(err), nil
		}
		if query.Path, err = optString(req, "path"); err != nil {
			return errResult(err), nil
		}
		if query.Skip, err = optInt(req, "skip"); err != nil {
			return errResult(err), nil
		}
		if query.Top, err = optInt(req, "top"); err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		results, err := codesearch.Run(ctx, clients.Search, query)
		if err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(codesearch.FormatResults(results)), nil
	}))

	s.AddTool(mcp.NewTool("download_file_content",
		mcp.WithDescription("Download the content of a file from a repository, optionally at a specific commit."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Azure DevOps project name")),
		mcp.WithString("repository", mcp.Required(), mcp.Description("Azure DevOps repository name")),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Unix-style path of the file in the repository")),
		mcp.WithString("commit", mcp.Description("Commit ID to download the file at; defaults to the latest version")),
	), logged(log, "download_file_content", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := req.RequireString("project")
		if err != nil {
			return errResult(err), nil
		}
		repository, err := req.RequireString("repository")
		if err != nil {
			return errResult(err), nil
		}
		filePath, err := req.RequireString("file_path")
		if err != nil {
			return errResult(err), nil
		}

		commit, err := optString(req, "commit")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		content, err := codesearch.Download(ctx, clients.Git, project, repository, filePath, commit)
		if err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(content), nil
	}))
}
