// Package jiralink provides a minimal public API for embedding the Jira
// component sync in other Go tooling.
//
// Most automation should invoke the jiralink binary from a workflow step.
// This package exports only the types and constructors needed to run the
// sync programmatically.
package jiralink

import (
	"github.com/chainstay/jiralink/internal/jira"
	"github.com/chainstay/jiralink/internal/linker"
)

// Core types for running the sync
type (
	Client        = jira.Client
	Issue         = jira.Issue
	Component     = jira.Component
	Linker        = linker.Linker
	Result        = linker.Result
	ProjectFilter = linker.ProjectFilter
)

// Run outcomes
const (
	OutcomeProcessed = linker.OutcomeProcessed
	OutcomeSkipped   = linker.OutcomeSkipped
	OutcomeFailed    = linker.OutcomeFailed
)

// Skip and failure reasons
const (
	ReasonMissingProjectFilter = linker.ReasonMissingProjectFilter
	ReasonInvalidProjectFilter = linker.ReasonInvalidProjectFilter
	ReasonProjectNotAllowed    = linker.ReasonProjectNotAllowed
	ReasonAPIError             = linker.ReasonAPIError
)

// NewClient returns a Jira client authenticated with email and API token
// credentials.
func NewClient(baseURL, email, apiToken string) *Client {
	return jira.NewClient(baseURL, email, apiToken)
}

// NewLinker returns a Linker that ensures and attaches components through
// the given client.
func NewLinker(client *Client) *Linker {
	return linker.New(client)
}

// NewProjectFilter parses a comma separated project allow-list. present
// records whether the value was configured; blank values read as not
// configured, which matters to the skip reporting.
func NewProjectFilter(raw string, present bool) ProjectFilter {
	return linker.NewProjectFilter(raw, present)
}

// ExtractIssueKeys returns every Jira issue key found in the given texts,
// de-duplicated and sorted.
func ExtractIssueKeys(texts ...string) []string {
	return jira.ExtractIssueKeys(texts...)
}
