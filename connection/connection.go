package connection

import (
	"context"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/core"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/identity"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/search"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"
	"github.com/pkg/errors"
)

// Clients bundles the service handles one operation may need. There is
// deliberately no policy client: policy evaluation has no working
// upstream contract. OrganizationURL is carried along because work item
// relation documents embed absolute resource URLs.
type Clients struct {
	Git             git.Client
	Identity        identity.Client
	Core            core.Client
	Search          search.Client
	WorkItems       workitemtracking.Client
	OrganizationURL string
}

// Open authenticates against the organization and constructs every
// client the tool surface uses. A client that cannot be constructed is
// fatal to the enclosing operation.
func Open(ctx context.Context, cfg *Config) (*Clients, error) {
	conn := azuredevops.NewPatConnection(cfg.OrganizationURL, cfg.PersonalAccessToken)

	gitClient, err := git.NewClient(ctx, conn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get git client")
	}

	identityClient, err := identity.NewClient(ctx, conn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get identity client")
	}

	coreClient, err := core.NewClient(ctx, conn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get core client")
	}

	searchClient, err := search.NewClient(ctx, conn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get search client")
	}

	workItemClient, err := workitemtracking.NewClient(ctx, conn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get work item tracking client")
	}

	return &Clients{
		Git:             gitClient,
		Identity:        identityClient,
		Core:            coreClient,
		Search:          searchClient,
		WorkItems:       workItemClient,
		OrganizationURL: cfg.OrganizationURL,
	}, nil
}
