package pullrequest

import (
	"fmt"
	"strings"

	termtext "github.com/MichaelMure/go-term-text"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
)

// FormatPullRequest renders one pull request as one text block.
func FormatPullRequest(pr *git.GitPullRequest) string {
	var lines []string

	title := ""
	if pr.Title != nil {
		title = *pr.Title
	}
	lines = append(lines, fmt.Sprintf("# Pull request: %s", title))
	if pr.PullRequestId != nil {
		lines = append(lines, fmt.Sprintf("ID: %d", *pr.PullRequestId))
	}
	if pr.IsDraft != nil {
		lines = append(lines, fmt.Sprintf("Is Draft: %t", *pr.IsDraft))
	}
	if pr.SourceRefName != nil {
		lines = append(lines, fmt.Sprintf("Source Ref Name: %s", *pr.SourceRefName))
	}
	if pr.TargetRefName != nil {
		lines = append(lines, fmt.Sprintf("Target Ref Name: %s", *pr.TargetRefName))
	}
	if pr.Status != nil {
		lines = append(lines, fmt.Sprintf("Status: %s", *pr.Status))
	}
	if pr.MergeStatus != nil {
		lines = append(lines, fmt.Sprintf("Merge Status: %s", *pr.MergeStatus))
	}

	if pr.Reviewers != nil && len(*pr.Reviewers) > 0 {
		lines = append(lines, "Reviewers:")
		for _, reviewer := range *pr.Reviewers {
			name := ""
			if reviewer.DisplayName != nil {
				name = *reviewer.DisplayName
			}
			required := false
			if reviewer.IsRequired != nil {
				required = *reviewer.IsRequired
			}
			vote := VoteNoVote
			if reviewer.Vote != nil {
				vote = Vote(*reviewer.Vote)
			}
			lines = append(lines, fmt.Sprintf("- Reviewer: %s, Is Required: %t, Vote: %s", name, required, vote.Label()))
		}
	}

	if pr.WorkItemRefs != nil && len(*pr.WorkItemRefs) > 0 {
		lines = append(lines, "Linked Work Items:")
		for _, ref := range *pr.WorkItemRefs {
			lines = append(lines, FormatWorkItemRef(ref))
		}
	}

	if pr.Description != nil && *pr.Description != "" {
		lines = append(lines, fmt.Sprintf("Description: %s", *pr.Description))
	}

	return strings.Join(lines, "\n")
}

// FormatPullRequests renders a list of pull requests, one block each.
func FormatPullRequests(prs []git.GitPullRequest) string {
	blocks := make([]string, len(prs))
	for i := range prs {
		blocks[i] = FormatPullRequest(&prs[i])
	}
	return strings.Join(blocks, "\n\n")
}

// FormatThread renders one discussion thread as one text block with one
// indented line per comment.
func FormatThread(thread *git.GitPullRequestCommentThread) string {
	var lines []string

	id := 0
	if thread.Id != nil {
		id = *thread.Id
	}
	lines = append(lines, fmt.Sprintf("# Thread ID: %d", id))
	if thread.Status != nil {
		lines = append(lines, fmt.Sprintf("Status: %s", *thread.Status))
	}
	if thread.IsDeleted != nil && *thread.IsDeleted {
		lines = append(lines, "Is Deleted: true")
	}

	if ctx := thread.ThreadContext; ctx != nil && ctx.FilePath != nil {
		span := ""
		if ctx.RightFileStart != nil && ctx.RightFileEnd != nil &&
			ctx.RightFileStart.Line != nil && ctx.RightFileEnd.Line != nil {
			if *ctx.RightFileStart.Line == *ctx.RightFileEnd.Line {
				span = fmt.Sprintf(" (line: %d)", *ctx.RightFileStart.Line)
			} else {
				span = fmt.Sprintf(" (lines: %d-%d)", *ctx.RightFileStart.Line, *ctx.RightFileEnd.Line)
			}
		}
		lines = append(lines, fmt.Sprintf("Thread Context: %s%s", *ctx.FilePath, span))
	}

	if thread.Comments != nil && len(*thread.Comments) > 0 {
		lines = append(lines, "Comments:")
		for _, comment := range *thread.Comments {
			author := ""
			if comment.Author != nil && comment.Author.DisplayName != nil {
				author = *comment.Author.DisplayName
			}
			content := ""
			if comment.Content != nil {
				content = *comment.Content
			}
			lines = append(lines, termtext.LeftPadLines(fmt.Sprintf("- [%s] %s", author, content), 2))
		}
	}

	return strings.Join(lines, "\n")
}

// FormatThreads renders a list of threads, one block each.
func FormatThreads(threads []git.GitPullRequestCommentThread) string {
	blocks := make([]string, len(threads))
	for i := range threads {
		blocks[i] = FormatThread(&threads[i])
	}
	return strings.Join(blocks, "\n\n")
}

// FormatWorkItemRef renders a linked work item reference on one line.
func FormatWorkItemRef(ref webapi.ResourceRef) string {
	id, url := "", ""
	if ref.Id != nil {
		id = *ref.Id
	}
	if ref.Url != nil {
		url = *ref.Url
	}
	return fmt.Sprintf("- ID: %s (URL: %s)", id, url)
}
