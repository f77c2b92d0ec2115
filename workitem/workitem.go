// Package workitem tracks work items: WIQL queries, reads, comments and
// JSON-patch based creation and updates. Field values stay the remote
// service's loosely typed map; only identity-shaped values get special
// rendering.
package workitem

import (
	"context"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"
	"github.com/pkg/errors"
)

// Client is the subset of the work item tracking service used here.
type Client interface {
	QueryByWiql(ctx context.Context, args workitemtracking.QueryByWiqlArgs) (*workitemtracking.WorkItemQueryResult, error)
	GetWorkItems(ctx context.Context, args workitemtracking.GetWorkItemsArgs) (*[]workitemtracking.WorkItem, error)
	GetWorkItem(ctx context.Context, args workitemtracking.GetWorkItemArgs) (*workitemtracking.WorkItem, error)
	GetComments(ctx context.Context, args workitemtracking.GetCommentsArgs) (*workitemtracking.CommentList, error)
	CreateWorkItem(ctx context.Context, args workitemtracking.CreateWorkItemArgs) (*workitemtracking.WorkItem, error)
	UpdateWorkItem(ctx context.Context, args workitemtracking.UpdateWorkItemArgs) (*workitemtracking.WorkItem, error)
}

// Query runs a WIQL query and fetches the full work items it matched.
// An empty match is a normal outcome, not an error.
func Query(ctx context.Context, client Client, wiql string, project *string, top int) ([]workitemtracking.WorkItem, error) {
	result, err := client.QueryByWiql(ctx, workitemtracking.QueryByWiqlArgs{
		Wiql:    &workitemtracking.Wiql{Query: &wiql},
		Project: project,
		Top:     &top,
	})
	if err != nil {
		return nil, errors.Wrap(err, "work item query failed")
	}
	if result == nil || result.WorkItems == nil || len(*result.WorkItems) == 0 {
		return nil, nil
	}

	ids := make([]int, 0, len(*result.WorkItems))
	for _, ref := range *result.WorkItems {
		if ref.Id != nil {
			ids = append(ids, *ref.Id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	expand := workitemtracking.WorkItemExpandValues.All
	items, err := client.GetWorkItems(ctx, workitemtracking.GetWorkItemsArgs{
		Ids:    &ids,
		Expand: &expand,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve queried work items")
	}
	if items == nil {
		return nil, nil
	}
	return *items, nil
}

// Get fetches one work item with all fields expanded.
func Get(ctx context.Context, client Client, id int) (*workitemtracking.WorkItem, error) {
	expand := workitemtracking.WorkItemExpandValues.All
	item, err := client.GetWorkItem(ctx, workitemtracking.GetWorkItemArgs{
		Id:     &id,
		Expand: &expand,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to retrieve work item %d", id)
	}
	return item, nil
}

// Comments fetches the discussion of a work item. The comments endpoint
// is project scoped, so the owning project is read off the work item
// first.
func Comments(ctx context.Context, client Client, id int) ([]workitemtracking.Comment, error) {
	item, err := client.GetWorkItem(ctx, workitemtracking.GetWorkItemArgs{Id: &id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to retrieve work item %d", id)
	}

	project := ""
	if item != nil && item.Fields != nil {
		if v, ok := (*item.Fields)["System.TeamProject"].(string); ok {
			project = v
		}
	}

	list, err := client.GetComments(ctx, workitemtracking.GetCommentsArgs{
		Project:    &project,
		WorkItemId: &id,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to retrieve comments of work item %d", id)
	}
	if list == nil || list.Comments == nil {
		return nil, nil
	}
	return *list.Comments, nil
}

// Create opens a new work item of the given type. When parentID is set,
// a second call links the new item under its parent.
func Create(ctx context.Context, client Client, organizationURL, project, workItemType string, fields map[string]interface{}, parentID *int) (*workitemtracking.WorkItem, error) {
	document := buildFieldDocument(fields, webapi.OperationValues.Add)
	created, err := client.CreateWorkItem(ctx, workitemtracking.CreateWorkItemArgs{
		Document: &document,
		Project:  &project,
		Type:     &workItemType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create work item")
	}

	if parentID != nil && created != nil && created.Id != nil {
		linked, err := Link(ctx, client, organizationURL, project, *created.Id, *parentID, parentLinkType)
		if err != nil {
			return nil, errors.Wrapf(err, "work item %d created but could not be linked to parent %d", *created.Id, *parentID)
		}
		return linked, nil
	}

	return created, nil
}

// Update rewrites the given fields of an existing work item.
func Update(ctx context.Context, client Client, project string, id int, fields map[string]interface{}) (*workitemtracking.WorkItem, error) {
	document := buildFieldDocument(fields, webapi.OperationValues.Replace)
	updated, err := client.UpdateWorkItem(ctx, workitemtracking.UpdateWorkItemArgs{
		Document: &document,
		Id:       &id,
		Project:  &project,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update work item %d", id)
	}
	return updated, nil
}

// Link adds a relation from the source work item to the target.
func Link(ctx context.Context, client Client, organizationURL, project string, sourceID, targetID int, linkType string) (*workitemtracking.WorkItem, error) {
	document := buildLinkDocument(targetID, linkType, organizationURL)
	updated, err := client.UpdateWorkItem(ctx, workitemtracking.UpdateWorkItemArgs{
		Document: &document,
		Id:       &sourceID,
		Project:  &project,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to link work item %d to %d", sourceID, targetID)
	}
	return updated, nil
}
