package workitem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
)

const parentLinkType = "System.LinkTypes.Hierarchy-Reverse"

// shortNames maps the tool surface's casual field names to their fully
// qualified reference names. Lookup keys are lowercased with
// underscores stripped, so camelCase and snake_case both resolve.
var shortNames = map[string]string{
	"title":         "System.Title",
	"description":   "System.Description",
	"state":         "System.State",
	"assignedto":    "System.AssignedTo",
	"iterationpath": "System.IterationPath",
	"areapath":      "System.AreaPath",
	"tags":          "System.Tags",
	"storypoints":   "Microsoft.VSTS.Scheduling.StoryPoints",
	"priority":      "Microsoft.VSTS.Common.Priority",
}

// NormalizeFieldName qualifies a casual field name. Names already
// carrying a namespace and names with no known mapping pass through
// unchanged.
func NormalizeFieldName(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	key := strings.ToLower(strings.ReplaceAll(name, "_", ""))
	if qualified, ok := shortNames[key]; ok {
		return qualified
	}
	return name
}

// StandardFields are the commonly set work item fields. Nil fields are
// absent and produce no patch operation. Numeric values are sent as
// strings, which the field model accepts for every field type.
type StandardFields struct {
	Title         *string
	Description   *string
	State         *string
	AssignedTo    *string
	IterationPath *string
	AreaPath      *string
	StoryPoints   *float64
	Priority      *int
	Tags          *string
}

// Map collects the supplied fields under their reference names.
func (f StandardFields) Map() map[string]interface{} {
	m := map[string]interface{}{}
	if f.Title != nil {
		m["System.Title"] = *f.Title
	}
	if f.Description != nil {
		m["System.Description"] = *f.Description
	}
	if f.State != nil {
		m["System.State"] = *f.State
	}
	if f.AssignedTo != nil {
		m["System.AssignedTo"] = *f.AssignedTo
	}
	if f.IterationPath != nil {
		m["System.IterationPath"] = *f.IterationPath
	}
	if f.AreaPath != nil {
		m["System.AreaPath"] = *f.AreaPath
	}
	if f.StoryPoints != nil {
		m["Microsoft.VSTS.Scheduling.StoryPoints"] = strconv.FormatFloat(*f.StoryPoints, 'f', -1, 64)
	}
	if f.Priority != nil {
		m["Microsoft.VSTS.Common.Priority"] = strconv.Itoa(*f.Priority)
	}
	if f.Tags != nil {
		m["System.Tags"] = *f.Tags
	}
	return m
}

// buildFieldDocument turns a field map into a JSON patch document, one
// operation per field under /fields/.
func buildFieldDocument(fields map[string]interface{}, op webapi.Operation) []webapi.JsonPatchOperation {
	document := make([]webapi.JsonPatchOperation, 0, len(fields))
	for name, value := range fields {
		operation := op
		path := "/fields/" + NormalizeFieldName(name)
		document = append(document, webapi.JsonPatchOperation{
			Op:    &operation,
			Path:  &path,
			Value: value,
		})
	}
	return document
}

// buildLinkDocument builds the single append operation adding a relation
// to the target work item.
func buildLinkDocument(targetID int, linkType, organizationURL string) []webapi.JsonPatchOperation {
	op := webapi.OperationValues.Add
	path := "/relations/-"
	url := fmt.Sprintf("%s/_apis/wit/workItems/%d", strings.TrimSuffix(organizationURL, "/"), targetID)
	return []webapi.JsonPatchOperation{{
		Op:   &op,
		Path: &path,
		Value: map[string]string{
			"rel": linkType,
			"url": url,
		},
	}}
}
