package linker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainstay/jiralink/internal/jira"
	"github.com/chainstay/jiralink/internal/telemetry"
)

// Linker drives the ensure-exists plus attach flow against one Jira
// instance.
type Linker struct {
	Jira *jira.Client

	// ComponentLead is sent as leadAccountId when a component is created.
	ComponentLead string

	// OnMessage receives progress lines. OnWarning receives the per-key
	// failures the batch path continues past. Both are optional.
	OnMessage func(string)
	OnWarning func(string)

	// Metrics may be nil, which records nothing.
	Metrics *telemetry.RunMetrics
}

// New returns a Linker talking to the given Jira client.
func New(client *jira.Client) *Linker {
	return &Linker{Jira: client}
}

func (l *Linker) message(format string, args ...interface{}) {
	if l.OnMessage != nil {
		l.OnMessage(fmt.Sprintf(format, args...))
	}
}

func (l *Linker) warn(format string, args ...interface{}) {
	if l.OnWarning != nil {
		l.OnWarning(fmt.Sprintf(format, args...))
	}
}

// componentDescription is what newly created components carry.
func componentDescription(name string) string {
	return fmt.Sprintf("Component for %s repository", name)
}

// EnsureComponent is the single-issue path: check the allow-list
// configuration, fetch the issue, gate its project against the allow-list,
// then ensure the component exists in that project and attach it with a
// full-set component update. The configuration checks run before any API
// traffic; the project gate runs on the fetched issue's own project, so an
// issue that moved projects is judged by where it lives now, not by its key
// prefix. Skips and failures come back as tagged results, never as panics.
func (l *Linker) EnsureComponent(ctx context.Context, issueKey, componentName string, filter ProjectFilter) Result {
	switch {
	case !filter.Present:
		l.message("skipping %s: no project filter configured", issueKey)
		l.Metrics.RunSkipped(ctx, ReasonMissingProjectFilter)
		return skipped(issueKey, componentName, ReasonMissingProjectFilter)
	case len(filter.Projects) == 0:
		l.message("skipping %s: project filter parsed to nothing", issueKey)
		l.Metrics.RunSkipped(ctx, ReasonInvalidProjectFilter)
		return skipped(issueKey, componentName, ReasonInvalidProjectFilter)
	}

	issue, err := l.Jira.GetIssue(ctx, issueKey, "project", "components")
	if err != nil {
		l.Metrics.APIError(ctx, "get_issue")
		return failed(issueKey, componentName, err)
	}

	projectKey := ""
	if issue.Fields.Project != nil {
		projectKey = issue.Fields.Project.Key
	}
	if projectKey == "" {
		projectKey = jira.ProjectKey(issueKey)
	}

	if !filter.Allows(strings.ToUpper(projectKey)) {
		l.message("skipping %s: project %s is not in the allow-list", issueKey, projectKey)
		l.Metrics.RunSkipped(ctx, ReasonProjectNotAllowed)
		return skipped(issueKey, componentName, ReasonProjectNotAllowed)
	}

	_, created, err := l.ensureProjectComponent(ctx, projectKey, componentName)
	if err != nil {
		return failed(issueKey, componentName, err)
	}
	if created {
		l.message("created component %q in project %s", componentName, projectKey)
	}

	attached := false
	names := make([]string, 0, len(issue.Fields.Components)+1)
	for _, c := range issue.Fields.Components {
		names = append(names, c.Name)
		if c.Name == componentName {
			attached = true
		}
	}
	if attached {
		l.message("component %q already attached to %s", componentName, issueKey)
		return processed(issueKey, componentName)
	}

	names = append(names, componentName)
	if err := l.Jira.ReplaceIssueComponents(ctx, issueKey, names); err != nil {
		l.Metrics.APIError(ctx, "replace_components")
		return failed(issueKey, componentName, err)
	}

	l.Metrics.IssueLinked(ctx, projectKey)
	l.message("attached component %q to %s", componentName, issueKey)
	return processed(issueKey, componentName)
}

// LinkAll is the batch path: for every harvested key, fetch the issue's
// project, ensure the component exists there, and attach it by id with the
// additive operation. A failing key is warned about and the loop moves on,
// so one bad key never blocks the rest. Results come back in input order.
func (l *Linker) LinkAll(ctx context.Context, issueKeys []string, componentName string) []Result {
	results := make([]Result, 0, len(issueKeys))

	for _, issueKey := range issueKeys {
		result := l.linkOne(ctx, issueKey, componentName)
		if result.Failed() {
			l.warn("%s: %v", issueKey, result.Err)
		} else {
			l.message("ensured component %q on %s", componentName, issueKey)
		}
		results = append(results, result)
	}

	return results
}

func (l *Linker) linkOne(ctx context.Context, issueKey, componentName string) Result {
	issue, err := l.Jira.GetIssue(ctx, issueKey, "project")
	if err != nil {
		l.Metrics.APIError(ctx, "get_issue")
		return failed(issueKey, componentName, err)
	}
	if issue.Fields.Project == nil || issue.Fields.Project.Key == "" {
		l.Metrics.APIError(ctx, "get_issue")
		return failed(issueKey, componentName, fmt.Errorf("issue %s has no project field", issueKey))
	}
	projectKey := issue.Fields.Project.Key

	component, created, err := l.ensureProjectComponent(ctx, projectKey, componentName)
	if err != nil {
		return failed(issueKey, componentName, err)
	}
	if created {
		l.message("created component %q in project %s", componentName, projectKey)
	}

	if err := l.Jira.AddIssueComponent(ctx, issueKey, component.ID); err != nil {
		l.Metrics.APIError(ctx, "add_component")
		return failed(issueKey, componentName, err)
	}

	l.Metrics.IssueLinked(ctx, projectKey)
	return processed(issueKey, componentName)
}

// ensureProjectComponent returns the project's component with the given
// name, creating it when absent. Losing the create race to another writer
// resolves by re-listing.
func (l *Linker) ensureProjectComponent(ctx context.Context, projectKey, componentName string) (*jira.Component, bool, error) {
	components, err := l.Jira.ProjectComponents(ctx, projectKey)
	if err != nil {
		l.Metrics.APIError(ctx, "list_components")
		return nil, false, err
	}
	if component := findComponent(components, componentName); component != nil {
		return component, false, nil
	}

	component, err := l.Jira.CreateComponent(ctx, projectKey, componentName, componentDescription(componentName), l.ComponentLead)
	if err == nil {
		l.Metrics.ComponentCreated(ctx, projectKey)
		return component, true, nil
	}
	if !errors.Is(err, jira.ErrComponentExists) {
		l.Metrics.APIError(ctx, "create_component")
		return nil, false, err
	}

	// Lost the race: created between our list and our create.
	components, err = l.Jira.ProjectComponents(ctx, projectKey)
	if err != nil {
		l.Metrics.APIError(ctx, "list_components")
		return nil, false, err
	}
	if component := findComponent(components, componentName); component != nil {
		return component, false, nil
	}

	return nil, false, fmt.Errorf("component %q reported as existing in %s but not found", componentName, projectKey)
}

func findComponent(components []jira.Component, name string) *jira.Component {
	for i := range components {
		if components[i].Name == name {
			return &components[i]
		}
	}
	return nil
}
