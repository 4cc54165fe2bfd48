package jira

import (
	"reflect"
	"testing"
)

func TestExtractIssueKeys(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{
			name:  "uppercase key only",
			texts: []string{"Fixes ABC-123 and refs xy-9"},
			want:  []string{"ABC-123"},
		},
		{
			name:  "duplicates collapse",
			texts: []string{"ABC-1 closes ABC-1", "see ABC-1"},
			want:  []string{"ABC-1"},
		},
		{
			name:  "sorted across texts",
			texts: []string{"ZZ-9 fixed", "refs/heads/AA-3-fix"},
			want:  []string{"AA-3", "ZZ-9"},
		},
		{
			name:  "single letter project rejected",
			texts: []string{"A-1 is not a key"},
			want:  nil,
		},
		{
			name:  "digits allowed after first letter",
			texts: []string{"AB2C-77 done"},
			want:  []string{"AB2C-77"},
		},
		{
			name:  "embedded in larger token rejected",
			texts: []string{"XABC-123x"},
			want:  nil,
		},
		{
			name:  "branch style ref",
			texts: []string{"refs/heads/PROJ-42-add-logging"},
			want:  []string{"PROJ-42"},
		},
		{
			name:  "multiple keys in one text",
			texts: []string{"PROJ-1, PROJ-2 and OTHER-3"},
			want:  []string{"OTHER-3", "PROJ-1", "PROJ-2"},
		},
		{
			name:  "no texts",
			texts: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractIssueKeys(tt.texts...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractIssueKeys(%v) = %v, want %v", tt.texts, got, tt.want)
			}
		})
	}
}

func TestProjectKey(t *testing.T) {
	tests := []struct {
		name     string
		issueKey string
		want     string
	}{
		{name: "simple key", issueKey: "ABC-123", want: "ABC"},
		{name: "lowercase input upper-cased", issueKey: "proj-9", want: "PROJ"},
		{name: "first hyphen wins", issueKey: "CA-55-x", want: "CA"},
		{name: "no hyphen returns whole", issueKey: "NOHYPHEN", want: "NOHYPHEN"},
		{name: "padded input trimmed", issueKey: " ab-1", want: "AB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectKey(tt.issueKey)
			if got != tt.want {
				t.Errorf("ProjectKey(%q) = %q, want %q", tt.issueKey, got, tt.want)
			}
		})
	}
}
