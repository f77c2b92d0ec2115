package pullrequest

import (
	"context"
	"fmt"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/pkg/errors"
)

// Vote is a reviewer's stance on a pull request. The remote service may
// report values outside the five sanctioned ones; Label keeps those
// readable instead of failing.
type Vote int

const (
	VoteApproved                Vote = 10
	VoteApprovedWithSuggestions Vote = 5
	VoteNoVote                  Vote = 0
	VoteWaitingForAuthor        Vote = -5
	VoteRejected                Vote = -10
)

// Label returns the human-readable meaning of the vote.
func (v Vote) Label() string {
	switch v {
	case VoteApproved:
		return "approved"
	case VoteApprovedWithSuggestions:
		return "approved with suggestions"
	case VoteNoVote:
		return "no vote"
	case VoteWaitingForAuthor:
		return "waiting for author"
	case VoteRejected:
		return "rejected"
	default:
		return fmt.Sprintf("unknown (%d)", int(v))
	}
}

// Votes casts reviewer votes. A participant can only ever vote as the
// authenticated caller; externally supplied identities are not accepted.
// The vote integer itself is not validated here, the remote service owns
// that check.
type Votes struct {
	git    GitClient
	caller CallerResolver
}

func NewVotes(client GitClient, caller CallerResolver) *Votes {
	return &Votes{git: client, caller: caller}
}

// Set records the caller's vote on the pull request.
func (v *Votes) Set(ctx context.Context, loc Locator, id int, vote Vote) (*git.IdentityRefWithVote, error) {
	self, err := v.caller.Caller(ctx)
	if err != nil {
		return nil, err
	}

	reviewerID := self.Id.String()
	value := int(vote)
	reviewer, err := v.git.CreatePullRequestReviewer(ctx, git.CreatePullRequestReviewerArgs{
		Reviewer:      &git.IdentityRefWithVote{Id: &reviewerID, Vote: &value},
		Project:       &loc.Project,
		RepositoryId:  &loc.Repository,
		PullRequestId: &id,
		ReviewerId:    &reviewerID,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to set vote on pull request %d", id)
	}

	return reviewer, nil
}

// Approve casts the fixed approval vote as the caller.
func (v *Votes) Approve(ctx context.Context, loc Locator, id int) (*git.IdentityRefWithVote, error) {
	return v.Set(ctx, loc, id, VoteApproved)
}

// Reject casts the fixed rejection vote as the caller.
func (v *Votes) Reject(ctx context.Context, loc Locator, id int) (*git.IdentityRefWithVote, error) {
	return v.Set(ctx, loc, id, VoteRejected)
}
