package workitem

import (
	"fmt"
	"sort"
	"strings"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"
)

// FormatWorkItem renders one work item as one text block, every field on
// its own line in stable order.
func FormatWorkItem(item *workitemtracking.WorkItem) string {
	var lines []string

	id := 0
	if item.Id != nil {
		id = *item.Id
	}
	lines = append(lines, fmt.Sprintf("# Work Item %d", id))

	if item.Fields != nil {
		names := make([]string, 0, len(*item.Fields))
		for name := range *item.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("- **%s**: %s", name, formatFieldValue((*item.Fields)[name])))
		}
	}

	return strings.Join(lines, "\n")
}

// FormatWorkItems renders work items one block each.
func FormatWorkItems(items []workitemtracking.WorkItem) string {
	if len(items) == 0 {
		return "No work items found matching the query."
	}
	blocks := make([]string, len(items))
	for i := range items {
		blocks[i] = FormatWorkItem(&items[i])
	}
	return strings.Join(blocks, "\n\n")
}

// formatFieldValue renders a field value. Identity-shaped values come
// over the wire as maps carrying displayName and uniqueName.
func formatFieldValue(value interface{}) string {
	if m, ok := value.(map[string]interface{}); ok {
		name, _ := m["displayName"].(string)
		unique, _ := m["uniqueName"].(string)
		switch {
		case name != "" && unique != "":
			return fmt.Sprintf("%s (%s)", name, unique)
		case name != "":
			return name
		}
	}
	return fmt.Sprintf("%v", value)
}

// FormatComments renders a work item discussion, newest ordering as
// delivered by the service.
func FormatComments(comments []workitemtracking.Comment) string {
	if len(comments) == 0 {
		return "No comments found for this work item."
	}

	blocks := make([]string, 0, len(comments))
	for _, comment := range comments {
		author := ""
		if comment.CreatedBy != nil && comment.CreatedBy.DisplayName != nil {
			author = *comment.CreatedBy.DisplayName
		}
		date := ""
		if comment.CreatedDate != nil {
			date = comment.CreatedDate.Time.Format("2006-01-02 15:04:05")
		}
		text := ""
		if comment.Text != nil {
			text = *comment.Text
		}
		blocks = append(blocks, fmt.Sprintf("## Comment by %s on %s\n%s", author, date, text))
	}
	return strings.Join(blocks, "\n\n")
}
