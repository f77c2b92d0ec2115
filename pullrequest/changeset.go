// Package pullrequest drives the pull-request review workflow against
// Azure DevOps: lifecycle transitions, reviewer votes and discussion
// threads. Every operation is a stateless round trip; the remote service
// is the only source of truth.
package pullrequest

import (
	"context"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/pkg/errors"
)

// ErrEmptyUpdate is returned when an update carries no fields to change.
// It fires before any network call.
var ErrEmptyUpdate = errors.New("no update parameters provided")

// Locator names the repository a pull request lives in. Project may be a
// name or an id; it is required when the repository is given by name.
type Locator struct {
	Project    string
	Repository string
}

// ChangeSet is the minimal set of fields one update intends to write.
// A nil field is absent and is never sent, preserving the remote value.
type ChangeSet struct {
	Title             *string
	Description       *string
	Status            *git.PullRequestStatus
	CompletionOptions *git.GitPullRequestCompletionOptions
}

// Empty reports whether the change-set would write nothing.
func (c ChangeSet) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Status == nil && c.CompletionOptions == nil
}

// build assembles the update payload. A transition to completed requires
// the current lastMergeSourceCommit, so that one case interposes a fresh
// read of the pull request before the write; the value is never cached
// across calls because a stale commit can reject or corrupt the merge.
func (c ChangeSet) build(ctx context.Context, client GitClient, loc Locator, id int) (*git.GitPullRequest, error) {
	payload := &git.GitPullRequest{
		Title:             c.Title,
		Description:       c.Description,
		Status:            c.Status,
		CompletionOptions: c.CompletionOptions,
	}

	if c.Status != nil && *c.Status == git.PullRequestStatusValues.Completed {
		current, err := client.GetPullRequest(ctx, git.GetPullRequestArgs{
			Project:       &loc.Project,
			RepositoryId:  &loc.Repository,
			PullRequestId: &id,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read pull request %d before completion", id)
		}
		payload.LastMergeSourceCommit = current.LastMergeSourceCommit
	}

	return payload, nil
}

// Apply sends the change-set as exactly one update call. An empty
// change-set is a usage error and never reaches the network.
func (c ChangeSet) Apply(ctx context.Context, client GitClient, loc Locator, id int) (*git.GitPullRequest, error) {
	if c.Empty() {
		return nil, ErrEmptyUpdate
	}

	payload, err := c.build(ctx, client, loc, id)
	if err != nil {
		return nil, err
	}

	updated, err := client.UpdatePullRequest(ctx, git.UpdatePullRequestArgs{
		GitPullRequestToUpdate: payload,
		Project:                &loc.Project,
		RepositoryId:           &loc.Repository,
		PullRequestId:          &id,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update pull request %d", id)
	}

	return updated, nil
}
