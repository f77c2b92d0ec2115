// Package project lists the organization's projects and teams. Thin
// pass-throughs: no filtering or mutation happens on this side.
package project

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/core"
	"github.com/pkg/errors"
)

// CoreClient is the subset of the core service used here.
type CoreClient interface {
	GetProjects(ctx context.Context, args core.GetProjectsArgs) (*core.GetProjectsResponseValue, error)
	GetAllTeams(ctx context.Context, args core.GetAllTeamsArgs) (*[]core.WebApiTeam, error)
}

// List returns all projects visible to the caller, following the
// continuation token until the listing is exhausted.
func List(ctx context.Context, client CoreClient) ([]core.TeamProjectReference, error) {
	var projects []core.TeamProjectReference
	var token *int

	for {
		response, err := client.GetProjects(ctx, core.GetProjectsArgs{ContinuationToken: token})
		if err != nil {
			return nil, errors.Wrap(err, "failed to retrieve projects")
		}
		if response == nil {
			break
		}
		projects = append(projects, response.Value...)

		if response.ContinuationToken == "" {
			break
		}
		next, err := strconv.Atoi(response.ContinuationToken)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed projects continuation token %q", response.ContinuationToken)
		}
		token = &next
	}

	return projects, nil
}

// Teams returns all teams visible to the caller across the organization.
func Teams(ctx context.Context, client CoreClient) ([]core.WebApiTeam, error) {
	teams, err := client.GetAllTeams(ctx, core.GetAllTeamsArgs{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve teams")
	}
	if teams == nil {
		return nil, nil
	}
	return *teams, nil
}

// FormatProject renders one project as one text block.
func FormatProject(p *core.TeamProjectReference) string {
	var lines []string

	name := ""
	if p.Name != nil {
		name = *p.Name
	}
	lines = append(lines, fmt.Sprintf("# Project: %s", name))
	if p.Id != nil {
		lines = append(lines, fmt.Sprintf("ID: %s", p.Id.String()))
	}
	if p.Description != nil && *p.Description != "" {
		lines = append(lines, fmt.Sprintf("Description: %s", *p.Description))
	}
	if p.State != nil {
		lines = append(lines, fmt.Sprintf("State: %s", *p.State))
	}
	if p.Visibility != nil {
		lines = append(lines, fmt.Sprintf("Visibility: %s", *p.Visibility))
	}
	if p.Url != nil {
		lines = append(lines, fmt.Sprintf("URL: %s", *p.Url))
	}

	return strings.Join(lines, "\n")
}

// FormatProjects renders projects one block each.
func FormatProjects(projects []core.TeamProjectReference) string {
	if len(projects) == 0 {
		return "No projects found."
	}
	blocks := make([]string, len(projects))
	for i := range projects {
		blocks[i] = FormatProject(&projects[i])
	}
	return strings.Join(blocks, "\n\n")
}

// FormatTeam renders one team as one text block.
func FormatTeam(t *core.WebApiTeam) string {
	var lines []string

	name := ""
	if t.Name != nil {
		name = *t.Name
	}
	lines = append(lines, fmt.Sprintf("# Team: %s", name))
	if t.Id != nil {
		lines = append(lines, fmt.Sprintf("ID: %s", t.Id.String()))
	}
	if t.Description != nil && *t.Description != "" {
		lines = append(lines, fmt.Sprintf("Description: %s", *t.Description))
	}
	if t.ProjectName != nil {
		lines = append(lines, fmt.Sprintf("Project: %s", *t.ProjectName))
	}
	if t.ProjectId != nil {
		lines = append(lines, fmt.Sprintf("Project ID: %s", t.ProjectId.String()))
	}

	return strings.Join(lines, "\n")
}

// FormatTeams renders teams one block each.
func FormatTeams(teams []core.WebApiTeam) string {
	if len(teams) == 0 {
		return "No teams found."
	}
	blocks := make([]string, len(teams))
	for i := range teams {
		blocks[i] = FormatTeam(&teams[i])
	}
	return strings.Join(blocks, "\n\n")
}
