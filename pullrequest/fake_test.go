package pullrequest

import (
	"context"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	adoidentity "github.com/microsoft/azure-devops-go-api/azuredevops/v7/identity"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
	"github.com/pkg/errors"
)

// fakeGitClient records every remote call, in order, and plays back
// canned results.
type fakeGitClient struct {
	calls []string

	createArgs   []git.CreatePullRequestArgs
	createResult *git.GitPullRequest
	createErr    error

	getArgs   []git.GetPullRequestArgs
	getResult *git.GitPullRequest
	getErr    error

	listArgs   []git.GetPullRequestsArgs
	listResult *[]git.GitPullRequest
	listErr    error

	updateArgs   []git.UpdatePullRequestArgs
	updateResult *git.GitPullRequest
	updateErr    error

	workItemArgs   []git.GetPullRequestWorkItemRefsArgs
	workItemResult *[]webapi.ResourceRef
	workItemErr    error

	reviewerArgs   []git.CreatePullRequestReviewerArgs
	reviewerResult *git.IdentityRefWithVote
	reviewerErr    error

	createThreadArgs   []git.CreateThreadArgs
	createThreadResult *git.GitPullRequestCommentThread
	createThreadErr    error

	createCommentArgs   []git.CreateCommentArgs
	createCommentResult *git.Comment
	createCommentErr    error

	updateThreadArgs   []git.UpdateThreadArgs
	updateThreadResult *git.GitPullRequestCommentThread
	updateThreadErr    error

	getThreadsArgs   []git.GetThreadsArgs
	getThreadsResult *[]git.GitPullRequestCommentThread
	getThreadsErr    error
}

func (f *fakeGitClient) CreatePullRequest(ctx context.Context, args git.CreatePullRequestArgs) (*git.GitPullRequest, error) {
	f.calls = append(f.calls, "CreatePullRequest")
	f.createArgs = append(f.createArgs, args)
	return f.createResult, f.createErr
}

func (f *fakeGitClient) GetPullRequest(ctx context.Context, args git.GetPullRequestArgs) (*git.GitPullRequest, error) {
	f.calls = append(f.calls, "GetPullRequest")
	f.getArgs = append(f.getArgs, args)
	return f.getResult, f.getErr
}

func (f *fakeGitClient) GetPullRequests(ctx context.Context, args git.GetPullRequestsArgs) (*[]git.GitPullRequest, error) {
	f.calls = append(f.calls, "GetPullRequests")
	f.listArgs = append(f.listArgs, args)
	return f.listResult, f.listErr
}

func (f *fakeGitClient) UpdatePullRequest(ctx context.Context, args git.UpdatePullRequestArgs) (*git.GitPullRequest, error) {
	f.calls = append(f.calls, "UpdatePullRequest")
	f.updateArgs = append(f.updateArgs, args)
	return f.updateResult, f.updateErr
}

func (f *fakeGitClient) GetPullRequestWorkItemRefs(ctx context.Context, args git.GetPullRequestWorkItemRefsArgs) (*[]webapi.ResourceRef, error) {
	f.calls = append(f.calls, "GetPullRequestWorkItemRefs")
	f.workItemArgs = append(f.workItemArgs, args)
	return f.workItemResult, f.workItemErr
}

func (f *fakeGitClient) CreatePullRequestReviewer(ctx context.Context, args git.CreatePullRequestReviewerArgs) (*git.IdentityRefWithVote, error) {
	f.calls = append(f.calls, "CreatePullRequestReviewer")
	f.reviewerArgs = append(f.reviewerArgs, args)
	return f.reviewerResult, f.reviewerErr
}

func (f *fakeGitClient) CreateThread(ctx context.Context, args git.CreateThreadArgs) (*git.GitPullRequestCommentThread, error) {
	f.calls = append(f.calls, "CreateThread")
	f.createThreadArgs = append(f.createThreadArgs, args)
	return f.createThreadResult, f.createThreadErr
}

func (f *fakeGitClient) CreateComment(ctx context.Context, args git.CreateCommentArgs) (*git.Comment, error) {
	f.calls = append(f.calls, "CreateComment")
	f.createCommentArgs = append(f.createCommentArgs, args)
	return f.createCommentResult, f.createCommentErr
}

func (f *fakeGitClient) UpdateThread(ctx context.Context, args git.UpdateThreadArgs) (*git.GitPullRequestCommentThread, error) {
	f.calls = append(f.calls, "UpdateThread")
	f.updateThreadArgs = append(f.updateThreadArgs, args)
	return f.updateThreadResult, f.updateThreadErr
}

func (f *fakeGitClient) GetThreads(ctx context.Context, args git.GetThreadsArgs) (*[]git.GitPullRequestCommentThread, error) {
	f.calls = append(f.calls, "GetThreads")
	f.getThreadsArgs = append(f.getThreadsArgs, args)
	return f.getThreadsResult, f.getThreadsErr
}

// fakeResolver resolves reviewer references from a fixed table.
type fakeResolver struct {
	table    map[string]string
	resolved []string
}

func (f *fakeResolver) Resolve(ctx context.Context, reference string) (string, error) {
	f.resolved = append(f.resolved, reference)
	id, ok := f.table[reference]
	if !ok {
		return "", errors.Errorf("failed to resolve reviewer %q", reference)
	}
	return id, nil
}

// fakeCaller is a CallerResolver with a fixed identity.
type fakeCaller struct {
	self *adoidentity.IdentitySelf
	err  error
}

func (f *fakeCaller) Caller(ctx context.Context) (*adoidentity.IdentitySelf, error) {
	return f.self, f.err
}
