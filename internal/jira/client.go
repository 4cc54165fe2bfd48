package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every HTTP call the client makes.
const DefaultTimeout = 30 * time.Second

// ErrComponentExists reports a component create that lost the race to
// another writer. Callers re-list the project components and reuse the
// existing one.
var ErrComponentExists = errors.New("component already exists")

// Client provides HTTP access to a Jira instance.
type Client struct {
	URL        string
	Username   string
	APIToken   string
	HTTPClient *http.Client
}

// NewClient creates a new Jira client authenticated as username (an
// account email on Jira Cloud) with the given API token.
func NewClient(url, username, apiToken string) *Client {
	return &Client{
		URL:      strings.TrimSuffix(url, "/"),
		Username: username,
		APIToken: apiToken,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// GetIssue fetches a single Jira issue by key (e.g., "PROJ-123"),
// restricted to the given fields. No fields means Jira's default set.
func (c *Client) GetIssue(ctx context.Context, key string, fields ...string) (*Issue, error) {
	apiURL := fmt.Sprintf("%s/rest/api/3/issue/%s", c.URL, url.PathEscape(key))
	if len(fields) > 0 {
		params := url.Values{"fields": {strings.Join(fields, ",")}}
		apiURL += "?" + params.Encode()
	}

	body, err := c.doRequest(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("get issue %s: %w", key, err)
	}

	var issue Issue
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, fmt.Errorf("parse issue response: %w", err)
	}

	return &issue, nil
}

// ProjectComponents lists all components of a project.
func (c *Client) ProjectComponents(ctx context.Context, projectKey string) ([]Component, error) {
	apiURL := fmt.Sprintf("%s/rest/api/3/project/%s/components", c.URL, url.PathEscape(projectKey))

	body, err := c.doRequest(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("list components for %s: %w", projectKey, err)
	}

	var components []Component
	if err := json.Unmarshal(body, &components); err != nil {
		return nil, fmt.Errorf("parse components response: %w", err)
	}

	return components, nil
}

// CreateComponent creates a component in a project. Description and
// leadAccountID are optional. A 409 conflict means another writer created
// the component first; that surfaces as ErrComponentExists.
func (c *Client) CreateComponent(ctx context.Context, projectKey, name, description, leadAccountID string) (*Component, error) {
	payload := map[string]interface{}{
		"name":    name,
		"project": projectKey,
	}
	if description != "" {
		payload["description"] = description
	}
	if leadAccountID != "" {
		payload["leadAccountId"] = leadAccountID
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal component request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/rest/api/3/component", c.URL)

	body, err := c.doRequest(ctx, "POST", apiURL, data)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.status == http.StatusConflict {
			return nil, fmt.Errorf("create component %q in %s: %w", name, projectKey, ErrComponentExists)
		}
		return nil, fmt.Errorf("create component %q in %s: %w", name, projectKey, err)
	}

	var component Component
	if err := json.Unmarshal(body, &component); err != nil {
		return nil, fmt.Errorf("parse component response: %w", err)
	}

	return &component, nil
}

// AddIssueComponent attaches a component to an issue by id using the
// additive update operation. Components already on the issue are left in
// place; adding one that is already attached is a no-op on the Jira side.
func (c *Client) AddIssueComponent(ctx context.Context, key, componentID string) error {
	payload := map[string]interface{}{
		"update": map[string]interface{}{
			"components": []interface{}{
				map[string]interface{}{
					"add": map[string]string{"id": componentID},
				},
			},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal update request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/rest/api/3/issue/%s", c.URL, url.PathEscape(key))

	if _, err := c.doRequest(ctx, "PUT", apiURL, data); err != nil {
		return fmt.Errorf("add component to %s: %w", key, err)
	}

	return nil
}

// ReplaceIssueComponents overwrites the issue's component list with the
// given component names. Callers are expected to pass the current set plus
// any additions so nothing is dropped.
func (c *Client) ReplaceIssueComponents(ctx context.Context, key string, names []string) error {
	components := make([]interface{}, 0, len(names))
	for _, name := range names {
		components = append(components, map[string]string{"name": name})
	}

	payload := map[string]interface{}{
		"fields": map[string]interface{}{
			"components": components,
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal update request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/rest/api/3/issue/%s", c.URL, url.PathEscape(key))

	if _, err := c.doRequest(ctx, "PUT", apiURL, data); err != nil {
		return fmt.Errorf("replace components on %s: %w", key, err)
	}

	return nil
}

// apiError carries the status code of a non-2xx Jira response so callers
// can recognize conditions like the 409 create conflict.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("jira API returned %d: %s", e.status, e.body)
}

// doRequest executes an authenticated HTTP request and returns the response body.
func (c *Client) doRequest(ctx context.Context, method, apiURL string, body []byte) ([]byte, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("jira URL not configured")
	}
	if c.APIToken == "" {
		return nil, fmt.Errorf("jira API token not configured")
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.setAuth(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "jiralink/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// PUT returns 204 No Content on success
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apiError{status: resp.StatusCode, body: string(respBody)}
	}

	return respBody, nil
}

// setAuth sets the appropriate authentication header on the request.
// Jira Cloud wants Basic auth with email:token; self-hosted instances
// configured without a username get the token as a Bearer PAT.
func (c *Client) setAuth(req *http.Request) {
	if c.Username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.APIToken))
		req.Header.Set("Authorization", "Basic "+auth)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.APIToken)
	}
}
