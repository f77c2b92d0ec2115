package pullrequest

import (
	"context"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	adoidentity "github.com/microsoft/azure-devops-go-api/azuredevops/v7/identity"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
)

// GitClient is the subset of the git service the controllers use. The
// generated SDK client satisfies it.
type GitClient interface {
	CreatePullRequest(ctx context.Context, args git.CreatePullRequestArgs) (*git.GitPullRequest, error)
	GetPullRequest(ctx context.Context, args git.GetPullRequestArgs) (*git.GitPullRequest, error)
	GetPullRequests(ctx context.Context, args git.GetPullRequestsArgs) (*[]git.GitPullRequest, error)
	UpdatePullRequest(ctx context.Context, args git.UpdatePullRequestArgs) (*git.GitPullRequest, error)
	GetPullRequestWorkItemRefs(ctx context.Context, args git.GetPullRequestWorkItemRefsArgs) (*[]webapi.ResourceRef, error)
	CreatePullRequestReviewer(ctx context.Context, args git.CreatePullRequestReviewerArgs) (*git.IdentityRefWithVote, error)
	CreateThread(ctx context.Context, args git.CreateThreadArgs) (*git.GitPullRequestCommentThread, error)
	CreateComment(ctx context.Context, args git.CreateCommentArgs) (*git.Comment, error)
	UpdateThread(ctx context.Context, args git.UpdateThreadArgs) (*git.GitPullRequestCommentThread, error)
	GetThreads(ctx context.Context, args git.GetThreadsArgs) (*[]git.GitPullRequestCommentThread, error)
}

// ReviewerResolver resolves a reviewer reference to an identity GUID.
// Implemented by identity.Resolver; declared here to keep the dependency
// pointing outward.
type ReviewerResolver interface {
	Resolve(ctx context.Context, reference string) (string, error)
}

// CallerResolver identifies the authenticated caller. Implemented by
// identity.Resolver.
type CallerResolver interface {
	Caller(ctx context.Context) (*adoidentity.IdentitySelf, error)
}
