package pullrequest

import (
	"context"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/pkg/errors"
)

// CommentRef names the thread and comment a new comment ended up in.
type CommentRef struct {
	ThreadID  int
	CommentID int
}

// Threads manages pull request discussion threads. Threads are never
// deleted through here, only their status is toggled.
type Threads struct {
	git GitClient
}

func NewThreads(client GitClient) *Threads {
	return &Threads{git: client}
}

// AddComment appends a comment to an existing thread, or starts a new
// active thread with a single comment when threadID is nil. A non-nil
// parentID makes the comment a reply; whether the parent exists in the
// thread is left to the remote service to check.
func (t *Threads) AddComment(ctx context.Context, loc Locator, id int, content string, threadID, parentID *int) (*CommentRef, error) {
	if threadID != nil {
		comment, err := t.git.CreateComment(ctx, git.CreateCommentArgs{
			Comment: &git.Comment{
				Content:         &content,
				ParentCommentId: parentID,
			},
			Project:       &loc.Project,
			RepositoryId:  &loc.Repository,
			PullRequestId: &id,
			ThreadId:      threadID,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to add comment to thread %d", *threadID)
		}
		ref := &CommentRef{ThreadID: *threadID}
		if comment.Id != nil {
			ref.CommentID = *comment.Id
		}
		return ref, nil
	}

	status := git.CommentThreadStatusValues.Active
	thread, err := t.git.CreateThread(ctx, git.CreateThreadArgs{
		CommentThread: &git.GitPullRequestCommentThread{
			Comments: &[]git.Comment{{Content: &content}},
			Status:   &status,
		},
		Project:       &loc.Project,
		RepositoryId:  &loc.Repository,
		PullRequestId: &id,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create thread on pull request %d", id)
	}

	ref := &CommentRef{}
	if thread.Id != nil {
		ref.ThreadID = *thread.Id
	}
	if thread.Comments != nil && len(*thread.Comments) > 0 && (*thread.Comments)[0].Id != nil {
		ref.CommentID = *(*thread.Comments)[0].Id
	}
	return ref, nil
}

// SetStatus overwrites the thread status. This is a blind write: thread
// status carries no merge-safety hazard, so no read is interposed.
func (t *Threads) SetStatus(ctx context.Context, loc Locator, id, threadID int, status git.CommentThreadStatus) (*git.GitPullRequestCommentThread, error) {
	thread, err := t.git.UpdateThread(ctx, git.UpdateThreadArgs{
		CommentThread: &git.GitPullRequestCommentThread{Status: &status},
		Project:       &loc.Project,
		RepositoryId:  &loc.Repository,
		PullRequestId: &id,
		ThreadId:      &threadID,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update status of thread %d", threadID)
	}
	return thread, nil
}

// Resolve marks the thread as fixed.
func (t *Threads) Resolve(ctx context.Context, loc Locator, id, threadID int) (*git.GitPullRequestCommentThread, error) {
	return t.SetStatus(ctx, loc, id, threadID, git.CommentThreadStatusValues.Fixed)
}

// Reactivate reopens the thread.
func (t *Threads) Reactivate(ctx context.Context, loc Locator, id, threadID int) (*git.GitPullRequestCommentThread, error) {
	return t.SetStatus(ctx, loc, id, threadID, git.CommentThreadStatusValues.Active)
}

// List fetches all discussion threads of a pull request.
func (t *Threads) List(ctx context.Context, loc Locator, id int) ([]git.GitPullRequestCommentThread, error) {
	threads, err := t.git.GetThreads(ctx, git.GetThreadsArgs{
		Project:       &loc.Project,
		RepositoryId:  &loc.Repository,
		PullRequestId: &id,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to retrieve threads of pull request %d", id)
	}
	if threads == nil {
		return nil, nil
	}
	return *threads, nil
}
