package jira

import (
	"regexp"
	"sort"
	"strings"
)

// issueKeyPattern matches Jira issue keys like "PROJ-123": a project key of
// two or more uppercase alphanumerics starting with a letter, a hyphen, and
// the issue number. Word boundaries keep it from matching inside larger
// tokens like "XPROJ-123x".
var issueKeyPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9]+-\d+\b`)

// ExtractIssueKeys returns every Jira issue key found in the given texts,
// de-duplicated and sorted. Lower-cased candidates like "proj-123" are not
// keys and are ignored.
func ExtractIssueKeys(texts ...string) []string {
	seen := make(map[string]bool)
	var keys []string

	for _, text := range texts {
		for _, key := range issueKeyPattern.FindAllString(text, -1) {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}

	sort.Strings(keys)
	return keys
}

// ProjectKey returns the project portion of an issue key: the substring
// before the first hyphen, upper-cased. For example, "proj-123" returns
// "PROJ". A string without a hyphen is returned whole.
func ProjectKey(issueKey string) string {
	key := issueKey
	if idx := strings.Index(key, "-"); idx >= 0 {
		key = key[:idx]
	}
	return strings.ToUpper(strings.TrimSpace(key))
}
