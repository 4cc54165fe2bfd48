package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const runScopeName = "github.com/chainstay/jiralink/linker"

// RunMetrics counts the work one jiralink invocation performs: keys
// harvested from the event, components created, issues linked, skips, and
// API failures. A nil *RunMetrics is valid and records nothing, so callers
// can hold one unconditionally.
type RunMetrics struct {
	keys     metric.Int64Counter
	created  metric.Int64Counter
	linked   metric.Int64Counter
	skips    metric.Int64Counter
	failures metric.Int64Counter
}

// NewRunMetrics returns run counters on the jiralink meter, or nil when
// telemetry is disabled.
func NewRunMetrics() *RunMetrics {
	if !Enabled() {
		return nil
	}

	m := Meter(runScopeName)
	keys, _ := m.Int64Counter("jiralink.keys.harvested",
		metric.WithDescription("Issue keys harvested from CI events"),
	)
	created, _ := m.Int64Counter("jiralink.components.created",
		metric.WithDescription("Jira components created"),
	)
	linked, _ := m.Int64Counter("jiralink.issues.linked",
		metric.WithDescription("Issues a component was attached to"),
	)
	skips, _ := m.Int64Counter("jiralink.runs.skipped",
		metric.WithDescription("Runs skipped by the project allow-list gate"),
	)
	failures, _ := m.Int64Counter("jiralink.api.errors",
		metric.WithDescription("Failed Jira operations"),
	)

	return &RunMetrics{
		keys:     keys,
		created:  created,
		linked:   linked,
		skips:    skips,
		failures: failures,
	}
}

// KeysHarvested records how many issue keys an event yielded.
func (r *RunMetrics) KeysHarvested(ctx context.Context, n int) {
	if r == nil {
		return
	}
	r.keys.Add(ctx, int64(n))
}

// ComponentCreated records a component create in the given project.
func (r *RunMetrics) ComponentCreated(ctx context.Context, project string) {
	if r == nil {
		return
	}
	r.created.Add(ctx, 1, metric.WithAttributes(attribute.String("jira.project", project)))
}

// IssueLinked records a successful attach in the given project.
func (r *RunMetrics) IssueLinked(ctx context.Context, project string) {
	if r == nil {
		return
	}
	r.linked.Add(ctx, 1, metric.WithAttributes(attribute.String("jira.project", project)))
}

// RunSkipped records an allow-list skip with its reason.
func (r *RunMetrics) RunSkipped(ctx context.Context, reason string) {
	if r == nil {
		return
	}
	r.skips.Add(ctx, 1, metric.WithAttributes(attribute.String("skip.reason", reason)))
}

// APIError records a failed Jira operation.
func (r *RunMetrics) APIError(ctx context.Context, operation string) {
	if r == nil {
		return
	}
	r.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("jira.operation", operation)))
}
