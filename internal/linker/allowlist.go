package linker

import "strings"

// ProjectFilter is the allow-list gate for the single-issue path. Present
// records whether a non-blank value was provided: a blank filter reads the
// same as no filter at all, which is a different condition from a value
// that parses to nothing (bare commas).
type ProjectFilter struct {
	Present  bool
	Projects []string
}

// NewProjectFilter builds a ProjectFilter from the raw comma-separated
// value and whether it was provided. Blank values count as not provided.
func NewProjectFilter(raw string, present bool) ProjectFilter {
	return ProjectFilter{
		Present:  present && strings.TrimSpace(raw) != "",
		Projects: ParseProjectFilter(raw),
	}
}

// Allows reports whether the project key passes the gate.
func (f ProjectFilter) Allows(projectKey string) bool {
	for _, p := range f.Projects {
		if p == projectKey {
			return true
		}
	}
	return false
}

// ParseProjectFilter parses a comma-separated project allow-list: split on
// commas, trim whitespace, upper-case, drop empties, de-dup preserving
// order. " ca, Dev ," parses to [CA DEV].
func ParseProjectFilter(raw string) []string {
	var projects []string
	seen := make(map[string]bool)

	for _, part := range strings.Split(raw, ",") {
		key := strings.ToUpper(strings.TrimSpace(part))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		projects = append(projects, key)
	}

	return projects
}
