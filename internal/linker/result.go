// Package linker reconciles Jira issues with repository components: it
// makes sure a component exists in the issue's project and is attached to
// the issue, for a single gated issue or a harvested batch.
package linker

// Outcome classifies how a run ended for one issue.
type Outcome string

// Outcomes serialized as the status marker in the CI output file.
const (
	OutcomeProcessed Outcome = "processed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Skip and failure reasons serialized as the skip_reason marker.
const (
	ReasonMissingProjectFilter = "missing_project_filter"
	ReasonInvalidProjectFilter = "invalid_project_filter"
	ReasonProjectNotAllowed    = "project_not_allowed"
	ReasonAPIError             = "api_error"
)

// Result is the outcome of reconciling one issue with one component.
type Result struct {
	IssueKey  string  `json:"issue_key"`
	Component string  `json:"component"`
	Outcome   Outcome `json:"status"`
	Reason    string  `json:"reason,omitempty"`
	Err       error   `json:"-"`
}

// Processed reports whether the component was ensured and attached.
func (r Result) Processed() bool { return r.Outcome == OutcomeProcessed }

// Skipped reports whether the allow-list gate stopped the run.
func (r Result) Skipped() bool { return r.Outcome == OutcomeSkipped }

// Failed reports whether an API error stopped the run.
func (r Result) Failed() bool { return r.Outcome == OutcomeFailed }

func processed(issueKey, component string) Result {
	return Result{IssueKey: issueKey, Component: component, Outcome: OutcomeProcessed}
}

func skipped(issueKey, component, reason string) Result {
	return Result{IssueKey: issueKey, Component: component, Outcome: OutcomeSkipped, Reason: reason}
}

func failed(issueKey, component string, err error) Result {
	return Result{IssueKey: issueKey, Component: component, Outcome: OutcomeFailed, Reason: ReasonAPIError, Err: err}
}
