package project

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/core"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

type fakeCoreClient struct {
	pages       []*core.GetProjectsResponseValue
	projectArgs []core.GetProjectsArgs
	projectsErr error
	teams       *[]core.WebApiTeam
	teamsErr    error
}

func (f *fakeCoreClient) GetProjects(ctx context.Context, args core.GetProjectsArgs) (*core.GetProjectsResponseValue, error) {
	f.projectArgs = append(f.projectArgs, args)
	if f.projectsErr != nil {
		return nil, f.projectsErr
	}
	page := f.pages[len(f.projectArgs)-1]
	return page, nil
}

func (f *fakeCoreClient) GetAllTeams(ctx context.Context, args core.GetAllTeamsArgs) (*[]core.WebApiTeam, error) {
	return f.teams, f.teamsErr
}

func TestListReturnsProjects(t *testing.T) {
	client := &fakeCoreClient{
		pages: []*core.GetProjectsResponseValue{{
			Value: []core.TeamProjectReference{
				{Name: strptr("Fabrikam")},
				{Name: strptr("Contoso")},
			},
		}},
	}

	projects, err := List(context.Background(), client)
	require.NoError(t, err)

	require.Len(t, projects, 2)
	assert.Equal(t, "Fabrikam", *projects[0].Name)
	require.Len(t, client.projectArgs, 1)
	assert.Nil(t, client.projectArgs[0].ContinuationToken)
}

func TestListFollowsContinuationToken(t *testing.T) {
	client := &fakeCoreClient{
		pages: []*core.GetProjectsResponseValue{
			{
				Value:             []core.TeamProjectReference{{Name: strptr("One")}, {Name: strptr("Two")}},
				ContinuationToken: "2",
			},
			{
				Value: []core.TeamProjectReference{{Name: strptr("Three")}},
			},
		},
	}

	projects, err := List(context.Background(), client)
	require.NoError(t, err)

	require.Len(t, projects, 3)
	assert.Equal(t, "Three", *projects[2].Name)
	require.Len(t, client.projectArgs, 2)
	assert.Nil(t, client.projectArgs[0].ContinuationToken)
	require.NotNil(t, client.projectArgs[1].ContinuationToken)
	assert.Equal(t, 2, *client.projectArgs[1].ContinuationToken)
}

func TestListWrapsFailures(t *testing.T) {
	client := &fakeCoreClient{projectsErr: errors.New("401 unauthorized")}

	_, err := List(context.Background(), client)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to retrieve projects")
}

func TestTeamsWrapsFailures(t *testing.T) {
	client := &fakeCoreClient{teamsErr: errors.New("403 forbidden")}

	_, err := Teams(context.Background(), client)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to retrieve teams")
}

func TestFormatProjectBlock(t *testing.T) {
	id := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	state := core.ProjectState("wellFormed")
	visibility := core.ProjectVisibility("private")
	p := core.TeamProjectReference{
		Id:          &id,
		Name:        strptr("Fabrikam"),
		Description: strptr("Widget assembly line"),
		State:       &state,
		Visibility:  &visibility,
		Url:         strptr("https://dev.azure.com/org/_apis/projects/22222222"),
	}

	out := FormatProject(&p)

	assert.Equal(t,
		"# Project: Fabrikam\n"+
			"ID: 22222222-2222-2222-2222-222222222222\n"+
			"Description: Widget assembly line\n"+
			"State: wellFormed\n"+
			"Visibility: private\n"+
			"URL: https://dev.azure.com/org/_apis/projects/22222222",
		out)
}

func TestFormatProjectOmitsAbsentFields(t *testing.T) {
	out := FormatProject(&core.TeamProjectReference{Name: strptr("Bare")})

	assert.Equal(t, "# Project: Bare", out)
}

func TestFormatProjectsEmpty(t *testing.T) {
	assert.Equal(t, "No projects found.", FormatProjects(nil))
}

func TestFormatProjectsSeparatesBlocks(t *testing.T) {
	out := FormatProjects([]core.TeamProjectReference{
		{Name: strptr("One")},
		{Name: strptr("Two")},
	})

	assert.Equal(t, "# Project: One\n\n# Project: Two", out)
}

func TestFormatTeamBlock(t *testing.T) {
	teamID := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	projectID := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	team := core.WebApiTeam{
		Id:          &teamID,
		Name:        strptr("Widget Crew"),
		Description: strptr("Owns the widget pipeline"),
		ProjectName: strptr("Fabrikam"),
		ProjectId:   &projectID,
	}

	out := FormatTeam(&team)

	assert.Equal(t,
		"# Team: Widget Crew\n"+
			"ID: 33333333-3333-3333-3333-333333333333\n"+
			"Description: Owns the widget pipeline\n"+
			"Project: Fabrikam\n"+
			"Project ID: 22222222-2222-2222-2222-222222222222",
		out)
}

func TestFormatTeamsEmpty(t *testing.T) {
	assert.Equal(t, "No teams found.", FormatTeams(nil))
}
