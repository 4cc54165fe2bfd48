package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetIssue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/rest/api/3/issue/TEST-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("fields"); got != "project" {
			t.Errorf("expected fields=project, got %q", got)
		}

		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("user@example.com:token123"))
		if got := r.Header.Get("Authorization"); got != wantAuth {
			t.Errorf("unexpected auth header: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"10001","key":"TEST-1","fields":{"project":{"id":"10000","key":"TEST"}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token123")
	issue, err := client.GetIssue(context.Background(), "TEST-1", "project")
	if err != nil {
		t.Fatalf("GetIssue failed: %v", err)
	}

	if issue.Key != "TEST-1" {
		t.Errorf("expected key TEST-1, got %s", issue.Key)
	}
	if issue.Fields.Project == nil || issue.Fields.Project.Key != "TEST" {
		t.Errorf("expected project TEST, got %+v", issue.Fields.Project)
	}
}

func TestGetIssueNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorMessages":["Issue does not exist"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token123")
	_, err := client.GetIssue(context.Background(), "NOPE-1", "project")
	if err == nil {
		t.Fatal("expected error for missing issue")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status in error, got: %v", err)
	}
}

func TestProjectComponents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/rest/api/3/project/CA/components" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"10000","name":"backend"},{"id":"10001","name":"frontend"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token123")
	components, err := client.ProjectComponents(context.Background(), "CA")
	if err != nil {
		t.Fatalf("ProjectComponents failed: %v", err)
	}

	if len(components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(components))
	}
	if components[0].Name != "backend" || components[0].ID != "10000" {
		t.Errorf("unexpected first component: %+v", components[0])
	}
}

func TestCreateComponent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/rest/api/3/component" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type: %s", got)
		}

		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}
		if payload["name"] != "my-repo" || payload["project"] != "CA" {
			t.Errorf("unexpected create payload: %v", payload)
		}
		if payload["description"] != "Component for my-repo repository" {
			t.Errorf("unexpected description: %q", payload["description"])
		}
		if payload["leadAccountId"] != "abc123" {
			t.Errorf("unexpected lead: %q", payload["leadAccountId"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"10050","name":"my-repo","project":"CA"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token123")
	component, err := client.CreateComponent(context.Background(), "CA", "my-repo", "Component for my-repo repository", "abc123")
	if err != nil {
		t.Fatalf("CreateComponent failed: %v", err)
	}

	if component.ID != "10050" {
		t.Errorf("expected id 10050, got %s", component.ID)
	}
}

func TestCreateComponentOmitsOptionalFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		_ = json.Unmarshal(body, &payload)
		if _, ok := payload["description"]; ok {
			t.Error("expected no description in payload")
		}
		if _, ok := payload["leadAccountId"]; ok {
			t.Error("expected no leadAccountId in payload")
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"10051","name":"bare"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token123")
	if _, err := client.CreateComponent(context.Background(), "CA", "bare", "", ""); err != nil {
		t.Fatalf("CreateComponent failed: %v", err)
	}
}

func TestCreateComponentConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"errorMessages":["A component with the name my-repo already exists in this project."]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token123")
	_, err := client.CreateComponent(context.Background(), "CA", "my-repo", "", "")
	if !errors.Is(err, ErrComponentExists) {
		t.Fatalf("expected ErrComponentExists, got: %v", err)
	}
}

func TestAddIssueComponent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/rest/api/3/issue/TEST-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Fields map[string]interface{} `json:"fields"`
			Update struct {
				Components []map[string]map[string]string `json:"components"`
			} `json:"update"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}

		if payload.Fields != nil {
			t.Errorf("additive update must not carry a fields block: %v", payload.Fields)
		}
		if len(payload.Update.Components) != 1 {
			t.Fatalf("expected 1 component operation, got %d", len(payload.Update.Components))
		}
		op := payload.Update.Components[0]
		if len(op) != 1 {
			t.Errorf("expected only an add operation, got %v", op)
		}
		if op["add"]["id"] != "10050" {
			t.Errorf("expected add id 10050, got %v", op)
		}

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token123")
	if err := client.AddIssueComponent(context.Background(), "TEST-1", "10050"); err != nil {
		t.Fatalf("AddIssueComponent failed: %v", err)
	}
}

func TestReplaceIssueComponents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Update map[string]interface{} `json:"update"`
			Fields struct {
				Components []map[string]string `json:"components"`
			} `json:"fields"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}

		if payload.Update != nil {
			t.Errorf("full-set replace must not carry an update block: %v", payload.Update)
		}

		var names []string
		for _, c := range payload.Fields.Components {
			names = append(names, c["name"])
		}
		want := []string{"existing-a", "existing-b", "my-repo"}
		if len(names) != len(want) {
			t.Fatalf("expected %v, got %v", want, names)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("component %d: expected %s, got %s", i, want[i], names[i])
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token123")
	err := client.ReplaceIssueComponents(context.Background(), "TEST-1", []string{"existing-a", "existing-b", "my-repo"})
	if err != nil {
		t.Fatalf("ReplaceIssueComponents failed: %v", err)
	}
}

func TestSetAuthBearerWithoutUsername(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer pat-token" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		_, _ = w.Write([]byte(`{"key":"TEST-1","fields":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "pat-token")
	if _, err := client.GetIssue(context.Background(), "TEST-1"); err != nil {
		t.Fatalf("GetIssue failed: %v", err)
	}
}

func TestDoRequestRequiresConfig(t *testing.T) {
	client := &Client{URL: "", APIToken: "token", HTTPClient: http.DefaultClient}
	if _, err := client.GetIssue(context.Background(), "TEST-1"); err == nil {
		t.Error("expected error for missing URL")
	}

	client = &Client{URL: "https://example.atlassian.net", APIToken: "", HTTPClient: http.DefaultClient}
	if _, err := client.GetIssue(context.Background(), "TEST-1"); err == nil {
		t.Error("expected error for missing token")
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client := NewClient("https://example.atlassian.net/", "user@example.com", "token")
	if client.URL != "https://example.atlassian.net" {
		t.Errorf("expected trimmed URL, got %s", client.URL)
	}
}
