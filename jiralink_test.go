package jiralink_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chainstay/jiralink"
)

func TestExtractIssueKeys(t *testing.T) {
	keys := jiralink.ExtractIssueKeys("Fixes ABC-123", "refs/heads/DEV-7-fix")
	if len(keys) != 2 || keys[0] != "ABC-123" || keys[1] != "DEV-7" {
		t.Errorf("ExtractIssueKeys = %v, want [ABC-123 DEV-7]", keys)
	}
}

func TestLinkerEnsureComponent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/api/3/issue/CA-1":
			fmt.Fprint(w, `{"id":"1","key":"CA-1","fields":{"project":{"key":"CA"},"components":[]}}`)
		case r.Method == http.MethodGet && r.URL.Path == "/rest/api/3/project/CA/components":
			fmt.Fprint(w, `[{"id":"10001","name":"my-repo"}]`)
		case r.Method == http.MethodPut && r.URL.Path == "/rest/api/3/issue/CA-1":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	l := jiralink.NewLinker(jiralink.NewClient(server.URL, "bot@example.com", "token"))
	filter := jiralink.NewProjectFilter("CA", true)

	result := l.EnsureComponent(context.Background(), "CA-1", "my-repo", filter)
	if !result.Processed() {
		t.Fatalf("EnsureComponent failed: %+v err: %v", result, result.Err)
	}
}

func TestLinkerSkipsFilteredProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/rest/api/3/issue/OPS-1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"id":"2","key":"OPS-1","fields":{"project":{"key":"OPS"},"components":[]}}`)
	}))
	defer server.Close()

	l := jiralink.NewLinker(jiralink.NewClient(server.URL, "bot@example.com", "token"))
	filter := jiralink.NewProjectFilter("CA", true)

	result := l.EnsureComponent(context.Background(), "OPS-1", "repo", filter)
	if !result.Skipped() {
		t.Fatalf("expected skip, got %+v", result)
	}
	if result.Reason != jiralink.ReasonProjectNotAllowed {
		t.Errorf("Reason = %q, want %q", result.Reason, jiralink.ReasonProjectNotAllowed)
	}
}

// Test that exported constants have correct values
func TestConstants(t *testing.T) {
	// Outcome constants
	if jiralink.OutcomeProcessed != "processed" {
		t.Errorf("OutcomeProcessed = %q, want %q", jiralink.OutcomeProcessed, "processed")
	}
	if jiralink.OutcomeSkipped != "skipped" {
		t.Errorf("OutcomeSkipped = %q, want %q", jiralink.OutcomeSkipped, "skipped")
	}
	if jiralink.OutcomeFailed != "failed" {
		t.Errorf("OutcomeFailed = %q, want %q", jiralink.OutcomeFailed, "failed")
	}

	// Skip reasons
	if jiralink.ReasonMissingProjectFilter != "missing_project_filter" {
		t.Errorf("ReasonMissingProjectFilter = %q, want %q", jiralink.ReasonMissingProjectFilter, "missing_project_filter")
	}
	if jiralink.ReasonInvalidProjectFilter != "invalid_project_filter" {
		t.Errorf("ReasonInvalidProjectFilter = %q, want %q", jiralink.ReasonInvalidProjectFilter, "invalid_project_filter")
	}
	if jiralink.ReasonProjectNotAllowed != "project_not_allowed" {
		t.Errorf("ReasonProjectNotAllowed = %q, want %q", jiralink.ReasonProjectNotAllowed, "project_not_allowed")
	}
	if jiralink.ReasonAPIError != "api_error" {
		t.Errorf("ReasonAPIError = %q, want %q", jiralink.ReasonAPIError, "api_error")
	}
}
