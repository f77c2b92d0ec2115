package pullrequest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
	"github.com/pkg/errors"
)

// CreateOptions carries everything needed to open a pull request.
// Reviewer entries may be GUIDs, mail addresses or display names.
type CreateOptions struct {
	Title             string
	Description       string
	SourceBranch      string
	TargetBranch      string
	RequiredReviewers []string
	OptionalReviewers []string
	Draft             bool
}

// ListFilter is the server-side search criteria for List. Nil fields are
// not sent.
type ListFilter struct {
	Status       *git.PullRequestStatus
	CreatorID    *uuid.UUID
	ReviewerID   *uuid.UUID
	TargetBranch *string
	Skip         *int
	Top          *int
}

// Lifecycle orchestrates pull request creation and status transitions.
// Transitions are plain status writes: re-issuing one against an already
// transitioned pull request is left to the remote service's validation,
// keeping the common path at a single round trip. Completion is the one
// exception, which always reads first (see ChangeSet).
type Lifecycle struct {
	git       GitClient
	reviewers ReviewerResolver
}

func NewLifecycle(client GitClient, reviewers ReviewerResolver) *Lifecycle {
	return &Lifecycle{git: client, reviewers: reviewers}
}

// resolveReviewers resolves references one at a time, in list order,
// short-circuiting on the first failure so that no partial reviewer list
// is ever submitted.
func (l *Lifecycle) resolveReviewers(ctx context.Context, references []string, required bool, out []git.IdentityRefWithVote) ([]git.IdentityRefWithVote, error) {
	isRequired := required
	for _, reference := range references {
		id, err := l.reviewers.Resolve(ctx, reference)
		if err != nil {
			return nil, err
		}
		guid := id
		out = append(out, git.IdentityRefWithVote{Id: &guid, IsRequired: &isRequired})
	}
	return out, nil
}

// Create opens a new pull request. Every reviewer reference is resolved
// before the payload is constructed; a single unresolvable reviewer
// aborts the creation with zero writes.
func (l *Lifecycle) Create(ctx context.Context, loc Locator, opts CreateOptions) (*git.GitPullRequest, error) {
	reviewers, err := l.resolveReviewers(ctx, opts.OptionalReviewers, false, nil)
	if err != nil {
		return nil, err
	}
	reviewers, err = l.resolveReviewers(ctx, opts.RequiredReviewers, true, reviewers)
	if err != nil {
		return nil, err
	}

	sourceRef := fmt.Sprintf("refs/heads/%s", opts.SourceBranch)
	targetRef := fmt.Sprintf("refs/heads/%s", opts.TargetBranch)
	draft := opts.Draft

	payload := &git.GitPullRequest{
		Title:         &opts.Title,
		Description:   &opts.Description,
		SourceRefName: &sourceRef,
		TargetRefName: &targetRef,
		IsDraft:       &draft,
		Reviewers:     &reviewers,
	}

	created, err := l.git.CreatePullRequest(ctx, git.CreatePullRequestArgs{
		GitPullRequestToCreate: payload,
		Project:                &loc.Project,
		RepositoryId:           &loc.Repository,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create pull request")
	}

	return created, nil
}

// Get fetches one pull request, including its linked work item refs.
func (l *Lifecycle) Get(ctx context.Context, loc Locator, id int) (*git.GitPullRequest, error) {
	includeWorkItems := true
	pr, err := l.git.GetPullRequest(ctx, git.GetPullRequestArgs{
		Project:             &loc.Project,
		RepositoryId:        &loc.Repository,
		PullRequestId:       &id,
		IncludeWorkItemRefs: &includeWorkItems,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to retrieve pull request %d", id)
	}
	return pr, nil
}

// List fetches pull requests matching the filter. An empty result is a
// normal outcome, not an error.
func (l *Lifecycle) List(ctx context.Context, loc Locator, filter ListFilter) ([]git.GitPullRequest, error) {
	criteria := &git.GitPullRequestSearchCriteria{
		Status:        filter.Status,
		CreatorId:     filter.CreatorID,
		ReviewerId:    filter.ReviewerID,
		TargetRefName: filter.TargetBranch,
	}

	prs, err := l.git.GetPullRequests(ctx, git.GetPullRequestsArgs{
		Project:        &loc.Project,
		RepositoryId:   &loc.Repository,
		SearchCriteria: criteria,
		Skip:           filter.Skip,
		Top:            filter.Top,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve pull requests")
	}
	if prs == nil {
		return nil, nil
	}
	return *prs, nil
}

// Update applies a partial update to the pull request.
func (l *Lifecycle) Update(ctx context.Context, loc Locator, id int, changes ChangeSet) (*git.GitPullRequest, error) {
	return changes.Apply(ctx, l.git, loc, id)
}

// Complete merges the pull request with the given strategy, delegating
// the prerequisite read to the change-set's completion branch.
func (l *Lifecycle) Complete(ctx context.Context, loc Locator, id int, strategy git.GitPullRequestMergeStrategy, deleteSourceBranch bool) (*git.GitPullRequest, error) {
	status := git.PullRequestStatusValues.Completed
	completed, err := ChangeSet{
		Status: &status,
		CompletionOptions: &git.GitPullRequestCompletionOptions{
			MergeStrategy:      &strategy,
			DeleteSourceBranch: &deleteSourceBranch,
		},
	}.Apply(ctx, l.git, loc, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to complete pull request %d", id)
	}
	return completed, nil
}

// Abandon transitions the pull request to abandoned.
func (l *Lifecycle) Abandon(ctx context.Context, loc Locator, id int) (*git.GitPullRequest, error) {
	status := git.PullRequestStatusValues.Abandoned
	pr, err := ChangeSet{Status: &status}.Apply(ctx, l.git, loc, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to abandon pull request %d", id)
	}
	return pr, nil
}

// Reactivate transitions an abandoned pull request back to active.
func (l *Lifecycle) Reactivate(ctx context.Context, loc Locator, id int) (*git.GitPullRequest, error) {
	status := git.PullRequestStatusValues.Active
	pr, err := ChangeSet{Status: &status}.Apply(ctx, l.git, loc, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reactivate pull request %d", id)
	}
	return pr, nil
}

// WorkItems lists the work item refs linked to the pull request.
func (l *Lifecycle) WorkItems(ctx context.Context, loc Locator, id int) ([]webapi.ResourceRef, error) {
	refs, err := l.git.GetPullRequestWorkItemRefs(ctx, git.GetPullRequestWorkItemRefsArgs{
		Project:       &loc.Project,
		RepositoryId:  &loc.Repository,
		PullRequestId: &id,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to retrieve work items for pull request %d", id)
	}
	if refs == nil {
		return nil, nil
	}
	return *refs, nil
}
