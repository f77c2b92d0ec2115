package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/corvids/azdo-mcp/identity"
	"github.com/corvids/azdo-mcp/pullrequest"
)

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// optString distinguishes an absent argument from an empty one: only a
// supplied value becomes part of an update. A supplied value of the
// wrong type is a caller mistake and comes back as an error, never as
// a silently dropped field.
func optString(req mcp.CallToolRequest, name string) (*string, error) {
	v, ok := req.GetArguments()[name]
	if !ok {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, errors.Errorf("parameter %q must be a string, got %T", name, v)
	}
	return &s, nil
}

func optInt(req mcp.CallToolRequest, name string) (*int, error) {
	v, ok := req.GetArguments()[name]
	if !ok {
		return nil, nil
	}
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i, nil
	case int:
		i := n
		return &i, nil
	default:
		return nil, errors.Errorf("parameter %q must be an integer, got %T", name, v)
	}
}

func optFloat(req mcp.CallToolRequest, name string) (*float64, error) {
	v, ok := req.GetArguments()[name]
	if !ok {
		return nil, nil
	}
	switch n := v.(type) {
	case float64:
		f := n
		return &f, nil
	case int:
		f := float64(n)
		return &f, nil
	default:
		return nil, errors.Errorf("parameter %q must be a number, got %T", name, v)
	}
}

func parseStatus(value string) (git.PullRequestStatus, error) {
	switch value {
	case "active":
		return git.PullRequestStatusValues.Active, nil
	case "abandoned":
		return git.PullRequestStatusValues.Abandoned, nil
	case "completed":
		return git.PullRequestStatusValues.Completed, nil
	case "all":
		return git.PullRequestStatusValues.All, nil
	default:
		return "", errors.Errorf("unknown pull request status %q", value)
	}
}

func parseMergeStrategy(value string) (git.GitPullRequestMergeStrategy, error) {
	switch value {
	case "squash":
		return git.GitPullRequestMergeStrategyValues.Squash, nil
	case "rebase":
		return git.GitPullRequestMergeStrategyValues.Rebase, nil
	case "rebaseMerge":
		return git.GitPullRequestMergeStrategyValues.RebaseMerge, nil
	case "merge", "noFastForward":
		return git.GitPullRequestMergeStrategyValues.NoFastForward, nil
	default:
		return "", errors.Errorf("unknown merge strategy %q", value)
	}
}

func withLocator(extra ...mcp.ToolOption) []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithString("project", mcp.Required(), mcp.Description("Azure DevOps project name")),
		mcp.WithString("repository", mcp.Required(), mcp.Description("Azure DevOps repository name")),
	}
	return append(opts, extra...)
}

func registerPullRequests(s *server.MCPServer, provider Provider, log *zap.Logger) {
	s.AddTool(mcp.NewTool("get_pull_requests", withLocator(
		mcp.WithDescription("Retrieves pull requests in an Azure DevOps repository, optionally filtered."),
		mcp.WithString("status", mcp.Description("Filter by status (active, abandoned, completed, all)")),
		mcp.WithString("creator", mcp.Description("Filter by creator identity GUID")),
		mcp.WithString("reviewer", mcp.Description("Filter by reviewer identity GUID")),
		mcp.WithString("target_branch", mcp.Description("Filter by target branch name")),
		mcp.WithNumber("skip", mcp.Description("Skip the first N results")),
		mcp.WithNumber("top", mcp.Description("Return at most N results")),
	)...), logged(log, "get_pull_requests", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loc, err := locator(req)
		if err != nil {
			return errResult(err), nil
		}

		filter := pullrequest.ListFilter{}
		if filter.TargetBranch, err = optString(req, "target_branch"); err != nil {
			return errResult(err), nil
		}
		if filter.Skip, err = optInt(req, "skip"); err != nil {
			return errResult(err), nil
		}
		if filter.Top, err = optInt(req, "top"); err != nil {
			return errResult(err), nil
		}
		raw, err := optString(req, "status")
		if err != nil {
			return errResult(err), nil
		}
		if raw != nil {
			status, err := parseStatus(*raw)
			if err != nil {
				return errResult(err), nil
			}
			filter.Status = &status
		}
		if raw, err = optString(req, "creator"); err != nil {
			return errResult(err), nil
		} else if raw != nil {
			id, err := uuid.Parse(*raw)
			if err != nil {
				return errResult(errors.Wrap(err, "invalid creator id")), nil
			}
			filter.CreatorID = &id
		}
		if raw, err = optString(req, "reviewer"); err != nil {
			return errResult(err), nil
		} else if raw != nil {
			id, err := uuid.Parse(*raw)
			if err != nil {
				return errResult(errors.Wrap(err, "invalid reviewer id")), nil
			}
			filter.ReviewerID = &id
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		prs, err := pullrequest.NewLifecycle(clients.Git, identity.NewResolver(clients.Identity)).List(ctx, loc, filter)
		if err != nil {
			return errResult(err), nil
		}
		if len(prs) == 0 {
			return mcp.NewToolResultText("No pull requests found."), nil
		}
		return mcp.NewToolResultText(pullrequest.FormatPullRequests(prs)), nil
	}))

	s.AddTool(mcp.NewTool("get_pull_request", withLocator(
		mcp.WithDescription("Retrieves a pull request by ID, including linked work item references."),
		mcp.WithNumber("pull_request_id", mcp.Required(), mcp.Description("ID of the pull request")),
	)...), logged(log, "get_pull_request", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loc, err := locator(req)
		if err != nil {
			return errResult(err), nil
		}
		id, err := req.RequireInt("pull_request_id")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		pr, err := pullrequest.NewLifecycle(clients.Git, identity.NewResolver(clients.Identity)).Get(ctx, loc, id)
		if err != nil {
			return errResult(err), nil
		}
		if pr == nil {
			return mcp.NewToolResultText("Pull request not found."), nil
		}
		return mcp.NewToolResultText(pullrequest.FormatPullRequest(pr)), nil
	}))

	s.AddTool(mcp.NewTool("get_pr_threads", withLocator(
		mcp.WithDescription("Get all discussion threads and their comments of a pull request."),
		mcp.WithNumber("pull_request_id", mcp.Required(), mcp.Description("ID of the pull request")),
	)...), logged(log, "get_pr_threads", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loc, err := locator(req)
		if err != nil {
			return errResult(err), nil
		}
		id, err := req.RequireInt("pull_request_id")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		threads, err := pullrequest.NewThreads(clients.Git).List(ctx, loc, id)
		if err != nil {
			return errResult(err), nil
		}
		if len(threads) == 0 {
			return mcp.NewToolResultText("No PR threads found."), nil
		}
		return mcp.NewToolResultText(pullrequest.FormatThreads(threads)), nil
	}))

	s.AddTool(mcp.NewTool("get_pr_work_items", withLocator(
		mcp.WithDescription("Get work items linked to a pull request."),
		mcp.WithNumber("pull_request_id", mcp.Required(), mcp.Description("ID of the pull request")),
	)...), logged(log, "get_pr_work_items", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loc, err := locator(req)
		if err != nil {
			return errResult(err), nil
		}
		id, err := req.RequireInt("pull_request_id")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		refs, err := pullrequest.NewLifecycle(clients.Git, identity.NewResolver(clients.Identity)).WorkItems(ctx, loc, id)
		if err != nil {
			return errResult(err), nil
		}
		if len(refs) == 0 {
			return mcp.NewToolResultText("No PR work items found."), nil
		}
		lines := []string{fmt.Sprintf("Linked Work Items for PR ID %d:", id)}
		for _, ref := range refs {
			lines = append(lines, pullrequest.FormatWorkItemRef(ref))
		}
		return mcp.NewToolResultText(joinLines(lines)), nil
	}))

	s.AddTool(mcp.NewTool("create_pull_request", withLocator(
		mcp.WithDescription("Create a new pull request. Reviewers may be given as GUIDs, mail addresses or display names."),
		mcp.WithString("title", mcp.Required(), mcp.Description("PR title")),
		mcp.WithString("description", mcp.Required(), mcp.Description("PR description")),
		mcp.WithString("source_branch", mcp.Required(), mcp.Description("Source branch name")),
		mcp.WithString("target_branch", mcp.Required(), mcp.Description("Target branch name")),
		mcp.WithArray("required_reviewers", mcp.Description("Required reviewers"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("optional_reviewers", mcp.Description("Optional reviewers"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithBoolean("is_draft", mcp.Description("Whether the PR is a draft")),
	)...), logged(log, "create_pull_request", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loc, err := locator(req)
		if err != nil {
			return errResult(err), nil
		}
		title, err := req.RequireString("title")
		if err != nil {
			return errResult(err), nil
		}
		description, err := req.RequireString("description")
		if err != nil {
			return errResult(err), nil
		}
		sourceBranch, err := req.RequireString("source_branch")
		if err != nil {
			return errResult(err), nil
		}
		targetBranch, err := req.RequireString("target_branch")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		lifecycle := pullrequest.NewLifecycle(clients.Git, identity.NewResolver(clients.Identity))
		pr, err := lifecycle.Create(ctx, loc, pullrequest.CreateOptions{
			Title:             title,
			Description:       description,
			SourceBranch:      sourceBranch,
			TargetBranch:      targetBranch,
			RequiredReviewers: req.GetStringSlice("required_reviewers", nil),
			OptionalReviewers: req.GetStringSlice("optional_reviewers", nil),
			Draft:             req.GetBool("is_draft", false),
		})
		if err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(pullrequest.FormatPullRequest(pr)), nil
	}))

	s.AddTool(mcp.NewTool("update_pull_request", withLocator(
		mcp.WithDescription("Update the title and/or description of an existing pull request."),
		mcp.WithNumber("pull_request_id", mcp.Required(), mcp.Description("ID of the pull request")),
		mcp.WithString("title", mcp.Description("New PR title")),
		mcp.WithString("description", mcp.Description("New PR description")),
	)...), logged(log, "update_pull_request", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loc, err := locator(req)
		if err != nil {
			return errResult(err), nil
		}
		id, err := req.RequireInt("pull_request_id")
		if err != nil {
			return errResult(err), nil
		}

		changes := pullrequest.ChangeSet{}
		if changes.Title, err = optString(req, "title"); err != nil {
			return errResult(err), nil
		}
		if changes.Description, err = optString(req, "description"); err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		pr, err := pullrequest.NewLifecycle(clients.Git, identity.NewResolver(clients.Identity)).Update(ctx, loc, id, changes)
		if err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(pullrequest.FormatPullRequest(pr)), nil
	}))

	s.AddTool(mcp.NewTool("add_comment", withLocator(
		mcp.WithDescription("Add a comment to a pull request, starting a new thread unless a thread id is given."),
		mcp.WithNumber("pull_request_id", mcp.Required(), mcp.Description("ID of the pull request")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Comment text")),
		mcp.WithNumber("comment_thread_id", mcp.Description("ID of an existing thread to append to")),
		mcp.WithNumber("parent_comment_id", mcp.Description("ID of the parent comment for replies")),
	)...), logged(log, "add_comment", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loc, err := locator(req)
		if err != nil {
			return errResult(err), nil
		}
		id, err := req.RequireInt("pull_request_id")
		if err != nil {
			return errResult(err), nil
		}
		content, err := req.RequireString("content")
		if err != nil {
			return errResult(err), nil
		}
		threadID, err := optInt(req, "comment_thread_id")
		if err != nil {
			return errResult(err), nil
		}
		parentID, err := optInt(req, "parent_comment_id")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		ref, err := pullrequest.NewThreads(clients.Git).AddComment(ctx, loc, id, content, threadID, parentID)
		if err != nil {
			return errResult(err), nil
		}
		if threadID != nil {
			return mcp.NewToolResultText(fmt.Sprintf("Comment ID %d added successfully to the thread", ref.CommentID)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Comment added successfully to thread ID: %d", ref.ThreadID)), nil
	}))

	s.AddTool(mcp.NewTool("resolve_thread", withLocator(
		mcp.WithDescription("Resolve a comment thread of a pull request."),
		mcp.WithNumber("pull_request_id", mcp.Required(), mcp.Description("ID of the pull request")),
		mcp.WithNumber("comment_thread_id", mcp.Required(), mcp.Description("ID of the thread")),
	)...), logged(log, "resolve_thread", threadStatusHandler(provider, func(t *pullrequest.Threads) threadTransition {
		return t.Resolve
	})))

	s.AddTool(mcp.NewTool("reactivate_thread", withLocator(
		mcp.WithDescription("Reactivate a resolved comment thread of a pull request."),
		mcp.WithNumber("pull_request_id", mcp.Required(), mcp.Description("ID of the pull request")),
		mcp.WithNumber("comment_thread_id", mcp.Required(), mcp.Description("ID of the thread")),
	)...), logged(log, "reactivate_thread", threadStatusHandler(provider, func(t *pullrequest.Threads) threadTransition {
		return t.Reactivate
	})))

	s.AddTool(mcp.NewTool("approve_pull_request", withLocator(
		mcp.WithDescription("Approve a pull request as the authenticated caller."),
		mcp.WithNumber("pull_request_id", mcp.Required(), mcp.Description("ID of the pull request")),
	)...), logged(log, "approve_pull_request", voteHandler(provider, pullrequest.VoteApproved, "approved")))

	s.AddTool(mcp.NewTool("reject_pull_request", withLocator(
		mcp.WithDescription("Reject a pull request as the authenticated caller."),
		mcp.WithNumber("pull_request_id", mcp.Required(), mcp.Description("ID of the pull request")),
	)...), logged(log, "reject_pull_request", voteHandler(provider, pullrequest.VoteRejected, "rejected")))

	s.AddTool(mcp.NewTool("complete_pull_request", withLocator(
		mcp.WithDescription("Complete (merge) a pull request."),
		mcp.WithNumber("pull_request_id", mcp.Required(), mcp.Description("ID of the pull request")),
		mcp.WithString("merge_strategy", mcp.Description("Merge strategy (squash, rebase, rebaseMerge, merge)")),
		mcp.WithBoolean("delete_source_branch", mcp.Description("Whether to delete the source branch after the merge")),
	)...), logged(log, "complete_pull_request", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loc, err := locator(req)
		if err != nil {
			return errResult(err), nil
		}
		id, err := req.RequireInt("pull_request_id")
		if err != nil {
			return errResult(err), nil
		}
		strategy, err := parseMergeStrategy(req.GetString("merge_strategy", "squash"))
		if err != nil {
			return errResult(err), nil
		}
		deleteSourceBranch := req.GetBool("delete_source_branch", true)

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		pr, err := pullrequest.NewLifecycle(clients.Git, identity.NewResolver(clients.Identity)).Complete(ctx, loc, id, strategy, deleteSourceBranch)
		if err != nil {
			return errResult(err), nil
		}

		completedBy := "Unknown"
		if pr.ClosedBy != nil && pr.ClosedBy.DisplayName != nil {
			completedBy = *pr.ClosedBy.DisplayName
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Pull request %d completed successfully by %s\nMerge strategy: %s\nSource branch deleted: %t",
			id, completedBy, strategy, deleteSourceBranch)), nil
	}))

	s.AddTool(mcp.NewTool("abandon_pull_request", withLocator(
		mcp.WithDescription("Abandon a pull request."),
		mcp.WithNumber("pull_request_id", mcp.Required(), mcp.Description("ID of the pull request")),
	)...), logged(log, "abandon_pull_request", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loc, err := locator(req)
		if err != nil {
			return errResult(err), nil
		}
		id, err := req.RequireInt("pull_request_id")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		if _, err := pullrequest.NewLifecycle(clients.Git, identity.NewResolver(clients.Identity)).Abandon(ctx, loc, id); err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Successfully abandoned pull request #%d.", id)), nil
	}))

	s.AddTool(mcp.NewTool("reactivate_pull_request", withLocator(
		mcp.WithDescription("Reactivate an abandoned pull request."),
		mcp.WithNumber("pull_request_id", mcp.Required(), mcp.Description("ID of the pull request")),
	)...), logged(log, "reactivate_pull_request", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loc, err := locator(req)
		if err != nil {
			return errResult(err), nil
		}
		id, err := req.RequireInt("pull_request_id")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		if _, err := pullrequest.NewLifecycle(clients.Git, identity.NewResolver(clients.Identity)).Reactivate(ctx, loc, id); err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Successfully reactivated pull request #%d.", id)), nil
	}))
}

type threadTransition func(ctx context.Context, loc pullrequest.Locator, id, threadID int) (*git.GitPullRequestCommentThread, error)

// threadStatusHandler builds the shared handler of resolve_thread and
// reactivate_thread, which differ only in the transition applied.
func threadStatusHandler(provider Provider, pick func(*pullrequest.Threads) threadTransition) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loc, err := locator(req)
		if err != nil {
			return errResult(err), nil
		}
		id, err := req.RequireInt("pull_request_id")
		if err != nil {
			return errResult(err), nil
		}
		threadID, err := req.RequireInt("comment_thread_id")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		thread, err := pick(pullrequest.NewThreads(clients.Git))(ctx, loc, id, threadID)
		if err != nil {
			return errResult(err), nil
		}

		status := git.CommentThreadStatusValues.Unknown
		if thread.Status != nil {
			status = *thread.Status
		}
		return mcp.NewToolResultText(fmt.Sprintf("Thread ID %d successfully changed state to %s", threadID, status)), nil
	}
}

// voteHandler builds the shared handler of approve_pull_request and
// reject_pull_request.
func voteHandler(provider Provider, vote pullrequest.Vote, verb string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loc, err := locator(req)
		if err != nil {
			return errResult(err), nil
		}
		id, err := req.RequireInt("pull_request_id")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		reviewer, err := pullrequest.NewVotes(clients.Git, identity.NewResolver(clients.Identity)).Set(ctx, loc, id, vote)
		if err != nil {
			return errResult(err), nil
		}

		name := ""
		if reviewer.DisplayName != nil {
			name = *reviewer.DisplayName
		}
		return mcp.NewToolResultText(fmt.Sprintf("Pull request %d %s by %s", id, verb, name)), nil
	}
}
