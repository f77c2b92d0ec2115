// Package codesearch queries the Azure DevOps full-text code index and
// downloads file contents at a given commit.
package codesearch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/search"
	"github.com/pkg/errors"
)

// SearchClient is the subset of the search service used here.
type SearchClient interface {
	FetchCodeSearchResults(ctx context.Context, args search.FetchCodeSearchResultsArgs) (*search.CodeSearchResponse, error)
}

// GitClient is the subset of the git service used for file download.
type GitClient interface {
	GetItemContent(ctx context.Context, args git.GetItemContentArgs) (io.ReadCloser, error)
}

// Query is one code search. Nil filter dimensions are not sent; the
// phrase supports the service's functional code search syntax.
type Query struct {
	Phrase     string
	Project    *string
	Repository *string
	Branch     *string
	Path       *string
	Skip       *int
	Top        *int
}

// Result is one hit, pinned to the commit the index saw.
type Result struct {
	Repository string
	FilePath   string
	Commit     string
}

// filters assembles the search filter map from the supplied dimensions
// only, or nil when no dimension is set.
func (q Query) filters() *map[string][]string {
	m := map[string][]string{}
	if q.Project != nil {
		m["Project"] = []string{*q.Project}
	}
	if q.Repository != nil {
		m["Repository"] = []string{*q.Repository}
	}
	if q.Branch != nil {
		m["Branch"] = []string{*q.Branch}
	}
	if q.Path != nil {
		m["Path"] = []string{*q.Path}
	}
	if len(m) == 0 {
		return nil
	}
	return &m
}

// Run executes the query and flattens the response, keeping the first
// indexed version of each hit.
func Run(ctx context.Context, client SearchClient, q Query) ([]Result, error) {
	phrase := q.Phrase
	response, err := client.FetchCodeSearchResults(ctx, search.FetchCodeSearchResultsArgs{
		Request: &search.CodeSearchRequest{
			SearchText: &phrase,
			Filters:    q.filters(),
			Skip:       q.Skip,
			Top:        q.Top,
		},
		Project: q.Project,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "code search for %q failed", q.Phrase)
	}

	var results []Result
	if response == nil || response.Results == nil {
		return results, nil
	}
	for _, hit := range *response.Results {
		r := Result{}
		if hit.Repository != nil && hit.Repository.Name != nil {
			r.Repository = *hit.Repository.Name
		}
		if hit.Path != nil {
			r.FilePath = *hit.Path
		}
		if hit.Versions != nil && len(*hit.Versions) > 0 && (*hit.Versions)[0].ChangeId != nil {
			r.Commit = *(*hit.Versions)[0].ChangeId
		}
		results = append(results, r)
	}

	return results, nil
}

// FormatResults renders hits one per line.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No results found."
	}

	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = fmt.Sprintf("Repository: %s, File: %s, Commit: %s", r.Repository, r.FilePath, r.Commit)
	}
	return strings.Join(lines, "\n")
}

// Download fetches the content of one file, at the given commit when set,
// otherwise at the latest version.
func Download(ctx context.Context, client GitClient, project, repository, filePath string, commit *string) (string, error) {
	args := git.GetItemContentArgs{
		Project:      &project,
		RepositoryId: &repository,
		Path:         &filePath,
	}
	if commit != nil {
		versionType := git.GitVersionTypeValues.Commit
		args.VersionDescriptor = &git.GitVersionDescriptor{
			VersionType: &versionType,
			Version:     commit,
		}
	}

	reader, err := client.GetItemContent(ctx, args)
	if err != nil {
		return "", errors.Wrapf(err, "failed to download %s", filePath)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read content of %s", filePath)
	}

	return string(content), nil
}
