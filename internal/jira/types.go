// Package jira provides a client and types for the Jira component sync.
package jira

// Issue represents a Jira issue from the REST API, restricted to the
// fields this tool asks for.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the fields of a Jira issue.
type IssueFields struct {
	Project    *ProjectField `json:"project"`
	Components []Component   `json:"components"`
}

// ProjectField represents a Jira project.
type ProjectField struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Component represents a Jira project component.
type Component struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	LeadAccountID string `json:"leadAccountId,omitempty"`
	Project       string `json:"project,omitempty"`
	Self          string `json:"self,omitempty"`
}
