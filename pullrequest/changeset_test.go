package pullrequest

import (
	"context"
	"testing"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLocator = Locator{Project: "proj", Repository: "repo"}

func TestChangeSetEmptyUpdateIsRejectedBeforeAnyCall(t *testing.T) {
	client := &fakeGitClient{}

	_, err := ChangeSet{}.Apply(context.Background(), client, testLocator, 7)

	assert.ErrorIs(t, err, ErrEmptyUpdate)
	assert.Empty(t, client.calls)
}

func TestChangeSetSendsOnlySuppliedFields(t *testing.T) {
	client := &fakeGitClient{updateResult: &git.GitPullRequest{}}
	title := "new title"

	_, err := ChangeSet{Title: &title}.Apply(context.Background(), client, testLocator, 7)
	require.NoError(t, err)

	require.Equal(t, []string{"UpdatePullRequest"}, client.calls)
	payload := client.updateArgs[0].GitPullRequestToUpdate
	assert.Equal(t, &title, payload.Title)
	assert.Nil(t, payload.Description)
	assert.Nil(t, payload.Status)
	assert.Nil(t, payload.CompletionOptions)
	assert.Nil(t, payload.LastMergeSourceCommit)
}

func TestChangeSetCompletionReadsBeforeWriting(t *testing.T) {
	commit := "abc123"
	client := &fakeGitClient{
		getResult:    &git.GitPullRequest{LastMergeSourceCommit: &git.GitCommitRef{CommitId: &commit}},
		updateResult: &git.GitPullRequest{},
	}

	status := git.PullRequestStatusValues.Completed
	strategy := git.GitPullRequestMergeStrategyValues.Squash
	deleteSource := true
	_, err := ChangeSet{
		Status: &status,
		CompletionOptions: &git.GitPullRequestCompletionOptions{
			MergeStrategy:      &strategy,
			DeleteSourceBranch: &deleteSource,
		},
	}.Apply(context.Background(), client, testLocator, 42)
	require.NoError(t, err)

	// Exactly one read, and it happens before the write.
	require.Equal(t, []string{"GetPullRequest", "UpdatePullRequest"}, client.calls)
	assert.Equal(t, 42, *client.getArgs[0].PullRequestId)

	payload := client.updateArgs[0].GitPullRequestToUpdate
	require.NotNil(t, payload.LastMergeSourceCommit)
	assert.Equal(t, "abc123", *payload.LastMergeSourceCommit.CommitId)
	assert.Equal(t, git.PullRequestStatusValues.Completed, *payload.Status)
	assert.Equal(t, git.GitPullRequestMergeStrategyValues.Squash, *payload.CompletionOptions.MergeStrategy)
	assert.True(t, *payload.CompletionOptions.DeleteSourceBranch)
}

func TestChangeSetCompletionReadFailureAbortsTheWrite(t *testing.T) {
	client := &fakeGitClient{getErr: assert.AnError}

	status := git.PullRequestStatusValues.Completed
	_, err := ChangeSet{Status: &status}.Apply(context.Background(), client, testLocator, 42)

	assert.Error(t, err)
	assert.Equal(t, []string{"GetPullRequest"}, client.calls)
}

func TestChangeSetNonCompletedStatusSkipsTheRead(t *testing.T) {
	client := &fakeGitClient{updateResult: &git.GitPullRequest{}}

	status := git.PullRequestStatusValues.Abandoned
	_, err := ChangeSet{Status: &status}.Apply(context.Background(), client, testLocator, 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"UpdatePullRequest"}, client.calls)
}
