package pullrequest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	adoidentity "github.com/microsoft/azure-devops-go-api/azuredevops/v7/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callerWithID(t *testing.T, id string) *fakeCaller {
	t.Helper()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	name := "Carol Caller"
	return &fakeCaller{self: &adoidentity.IdentitySelf{Id: &parsed, DisplayName: &name}}
}

func TestVotesApproveTargetsTheCallerIdentity(t *testing.T) {
	callerID := "33333333-3333-3333-3333-333333333333"
	client := &fakeGitClient{reviewerResult: &git.IdentityRefWithVote{}}

	_, err := NewVotes(client, callerWithID(t, callerID)).Approve(context.Background(), testLocator, 7)
	require.NoError(t, err)

	require.Len(t, client.reviewerArgs, 1)
	args := client.reviewerArgs[0]
	assert.Equal(t, callerID, *args.Reviewer.Id)
	assert.Equal(t, callerID, *args.ReviewerId)
	assert.Equal(t, 10, *args.Reviewer.Vote)
}

func TestVotesRejectCastsTheFixedValue(t *testing.T) {
	client := &fakeGitClient{reviewerResult: &git.IdentityRefWithVote{}}

	_, err := NewVotes(client, callerWithID(t, "33333333-3333-3333-3333-333333333333")).Reject(context.Background(), testLocator, 7)
	require.NoError(t, err)

	assert.Equal(t, -10, *client.reviewerArgs[0].Reviewer.Vote)
}

func TestVotesCallerResolutionFailureIsFatal(t *testing.T) {
	client := &fakeGitClient{}
	caller := &fakeCaller{err: assert.AnError}

	_, err := NewVotes(client, caller).Set(context.Background(), testLocator, 7, VoteApproved)

	assert.Error(t, err)
	assert.Empty(t, client.calls)
}

func TestVoteLabels(t *testing.T) {
	assert.Equal(t, "approved", VoteApproved.Label())
	assert.Equal(t, "approved with suggestions", VoteApprovedWithSuggestions.Label())
	assert.Equal(t, "no vote", VoteNoVote.Label())
	assert.Equal(t, "waiting for author", VoteWaitingForAuthor.Label())
	assert.Equal(t, "rejected", VoteRejected.Label())
	assert.Equal(t, "unknown (7)", Vote(7).Label())
	assert.Equal(t, "unknown (-3)", Vote(-3).Label())
}
