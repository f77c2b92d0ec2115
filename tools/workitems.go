package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/corvids/azdo-mcp/workitem"
)

// standardFields reads the commonly set work item fields off the
// request, all optional.
func standardFields(req mcp.CallToolRequest) (workitem.StandardFields, error) {
	fields := workitem.StandardFields{}
	var err error
	if fields.Title, err = optString(req, "title"); err != nil {
		return fields, err
	}
	if fields.Description, err = optString(req, "description"); err != nil {
		return fields, err
	}
	if fields.State, err = optString(req, "state"); err != nil {
		return fields, err
	}
	if fields.AssignedTo, err = optString(req, "assigned_to"); err != nil {
		return fields, err
	}
	if fields.IterationPath, err = optString(req, "iteration_path"); err != nil {
		return fields, err
	}
	if fields.AreaPath, err = optString(req, "area_path"); err != nil {
		return fields, err
	}
	if fields.StoryPoints, err = optFloat(req, "story_points"); err != nil {
		return fields, err
	}
	if fields.Priority, err = optInt(req, "priority"); err != nil {
		return fields, err
	}
	if fields.Tags, err = optString(req, "tags"); err != nil {
		return fields, err
	}
	return fields, nil
}

var standardFieldOptions = []mcp.ToolOption{
	mcp.WithString("title", mcp.Description("Work item title")),
	mcp.WithString("description", mcp.Description("Work item description")),
	mcp.WithString("state", mcp.Description("Work item state")),
	mcp.WithString("assigned_to", mcp.Description("Assignee mail address")),
	mcp.WithString("iteration_path", mcp.Description("Iteration path")),
	mcp.WithString("area_path", mcp.Description("Area path")),
	mcp.WithNumber("story_points", mcp.Description("Story points estimate")),
	mcp.WithNumber("priority", mcp.Description("Priority")),
	mcp.WithString("tags", mcp.Description("Semicolon-separated tags")),
}

func registerWorkItems(s *server.MCPServer, provider Provider, log *zap.Logger) {
	s.AddTool(mcp.NewTool("query_work_items",
		mcp.WithDescription("Query work items with WIQL and return the matching items."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The WIQL query to run")),
		mcp.WithString("project", mcp.Description("Restrict the query to one project")),
		mcp.WithNumber("top", mcp.Description("Return at most N work items")),
	), logged(log, "query_work_items", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		wiql, err := req.RequireString("query")
		if err != nil {
			return errResult(err), nil
		}
		project, err := optString(req, "project")
		if err != nil {
			return errResult(err), nil
		}
		top := req.GetInt("top", 30)

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		items, err := workitem.Query(ctx, clients.WorkItems, wiql, project, top)
		if err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(workitem.FormatWorkItems(items)), nil
	}))

	s.AddTool(mcp.NewTool("get_work_item",
		mcp.WithDescription("Retrieve a work item by ID with all fields."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("ID of the work item")),
	), logged(log, "get_work_item", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		item, err := workitem.Get(ctx, clients.WorkItems, id)
		if err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(workitem.FormatWorkItem(item)), nil
	}))

	s.AddTool(mcp.NewTool("get_work_item_comments",
		mcp.WithDescription("Retrieve the discussion comments of a work item."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("ID of the work item")),
	), logged(log, "get_work_item_comments", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		comments, err := workitem.Comments(ctx, clients.WorkItems, id)
		if err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(workitem.FormatComments(comments)), nil
	}))

	s.AddTool(mcp.NewTool("create_work_item", append([]mcp.ToolOption{
		mcp.WithDescription("Create a new work item, optionally linked under a parent."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Azure DevOps project name")),
		mcp.WithString("work_item_type", mcp.Required(), mcp.Description("Work item type (Bug, Task, User Story, ...)")),
		mcp.WithNumber("parent_id", mcp.Description("ID of the parent work item to link under")),
	}, standardFieldOptions...)...), logged(log, "create_work_item", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := req.RequireString("project")
		if err != nil {
			return errResult(err), nil
		}
		workItemType, err := req.RequireString("work_item_type")
		if err != nil {
			return errResult(err), nil
		}
		fields, err := standardFields(req)
		if err != nil {
			return errResult(err), nil
		}
		parentID, err := optInt(req, "parent_id")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		item, err := workitem.Create(ctx, clients.WorkItems, clients.OrganizationURL, project, workItemType, fields.Map(), parentID)
		if err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(workitem.FormatWorkItem(item)), nil
	}))

	s.AddTool(mcp.NewTool("update_work_item", append([]mcp.ToolOption{
		mcp.WithDescription("Update fields of an existing work item."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Azure DevOps project name")),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("ID of the work item")),
	}, standardFieldOptions...)...), logged(log, "update_work_item", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := req.RequireString("project")
		if err != nil {
			return errResult(err), nil
		}
		id, err := req.RequireInt("id")
		if err != nil {
			return errResult(err), nil
		}
		fields, err := standardFields(req)
		if err != nil {
			return errResult(err), nil
		}
		m := fields.Map()
		if len(m) == 0 {
			return errResult(errors.New("no fields to update provided")), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		item, err := workitem.Update(ctx, clients.WorkItems, project, id, m)
		if err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(workitem.FormatWorkItem(item)), nil
	}))

	s.AddTool(mcp.NewTool("add_work_item_link",
		mcp.WithDescription("Link one work item to another with the given relation type."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Azure DevOps project name")),
		mcp.WithNumber("source_id", mcp.Required(), mcp.Description("ID of the work item the link is added to")),
		mcp.WithNumber("target_id", mcp.Required(), mcp.Description("ID of the work item linked to")),
		mcp.WithString("link_type", mcp.Required(), mcp.Description("Relation reference name, e.g. System.LinkTypes.Hierarchy-Reverse")),
	), logged(log, "add_work_item_link", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := req.RequireString("project")
		if err != nil {
			return errResult(err), nil
		}
		sourceID, err := req.RequireInt("source_id")
		if err != nil {
			return errResult(err), nil
		}
		targetID, err := req.RequireInt("target_id")
		if err != nil {
			return errResult(err), nil
		}
		linkType, err := req.RequireString("link_type")
		if err != nil {
			return errResult(err), nil
		}

		clients, err := provider(ctx)
		if err != nil {
			return errResult(err), nil
		}

		item, err := workitem.Link(ctx, clients.WorkItems, clients.OrganizationURL, project, sourceID, targetID, linkType)
		if err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(workitem.FormatWorkItem(item)), nil
	}))
}
