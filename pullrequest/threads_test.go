package pullrequest

import (
	"context"
	"testing"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentWithoutThreadStartsOneActiveThread(t *testing.T) {
	threadID, commentID := 5, 1
	client := &fakeGitClient{createThreadResult: &git.GitPullRequestCommentThread{
		Id:       &threadID,
		Comments: &[]git.Comment{{Id: &commentID}},
	}}

	ref, err := NewThreads(client).AddComment(context.Background(), testLocator, 7, "looks good", nil, nil)
	require.NoError(t, err)

	require.Equal(t, []string{"CreateThread"}, client.calls)
	created := client.createThreadArgs[0].CommentThread
	assert.Equal(t, git.CommentThreadStatusValues.Active, *created.Status)
	require.Len(t, *created.Comments, 1)
	assert.Equal(t, "looks good", *(*created.Comments)[0].Content)
	assert.Nil(t, (*created.Comments)[0].ParentCommentId)

	assert.Equal(t, 5, ref.ThreadID)
	assert.Equal(t, 1, ref.CommentID)
}

func TestAddCommentAppendsToExistingThread(t *testing.T) {
	commentID := 9
	client := &fakeGitClient{createCommentResult: &git.Comment{Id: &commentID}}

	threadID, parentID := 5, 2
	ref, err := NewThreads(client).AddComment(context.Background(), testLocator, 7, "still broken", &threadID, &parentID)
	require.NoError(t, err)

	require.Equal(t, []string{"CreateComment"}, client.calls)
	args := client.createCommentArgs[0]
	assert.Equal(t, 5, *args.ThreadId)
	assert.Equal(t, "still broken", *args.Comment.Content)
	assert.Equal(t, 2, *args.Comment.ParentCommentId)

	assert.Equal(t, 5, ref.ThreadID)
	assert.Equal(t, 9, ref.CommentID)
}

func TestThreadStatusTransitionsAreBlindWrites(t *testing.T) {
	status := git.CommentThreadStatusValues.Active
	client := &fakeGitClient{updateThreadResult: &git.GitPullRequestCommentThread{Status: &status}}
	threads := NewThreads(client)

	_, err := threads.Resolve(context.Background(), testLocator, 7, 5)
	require.NoError(t, err)
	_, err = threads.Reactivate(context.Background(), testLocator, 7, 5)
	require.NoError(t, err)

	// Two writes back-to-back, no read in between.
	require.Equal(t, []string{"UpdateThread", "UpdateThread"}, client.calls)
	assert.Equal(t, git.CommentThreadStatusValues.Fixed, *client.updateThreadArgs[0].CommentThread.Status)
	assert.Equal(t, git.CommentThreadStatusValues.Active, *client.updateThreadArgs[1].CommentThread.Status)
}

func TestThreadsListEmptyIsNormal(t *testing.T) {
	client := &fakeGitClient{getThreadsResult: &[]git.GitPullRequestCommentThread{}}

	threads, err := NewThreads(client).List(context.Background(), testLocator, 7)

	require.NoError(t, err)
	assert.Empty(t, threads)
}
