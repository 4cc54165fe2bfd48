// Package github provides a client and data types for the slice of the
// GitHub REST API and webhook payloads this tool consumes: pull-request
// commit listings plus the push and pull_request event shapes.
package github

import (
	"net/http"
	"time"
)

// API configuration constants.
const (
	// DefaultAPIEndpoint is the GitHub REST API base URL.
	DefaultAPIEndpoint = "https://api.github.com"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxPageSize is the maximum number of commits to fetch per page.
	MaxPageSize = 100

	// MaxPages is the maximum number of pages to fetch before stopping.
	// This prevents infinite loops from malformed Link headers.
	MaxPages = 1000
)

// Client provides methods to interact with the GitHub REST API.
type Client struct {
	Token      string       // GitHub token (Actions-provided or PAT)
	Owner      string       // Repository owner (user or org)
	Repo       string       // Repository name
	BaseURL    string       // API base URL (default: https://api.github.com)
	HTTPClient *http.Client // Optional custom HTTP client
}

// PullCommit represents one entry from the pull-request commits API.
type PullCommit struct {
	SHA    string     `json:"sha"`
	Commit CommitData `json:"commit"`
}

// CommitData carries the commit message, the only part consumed here.
type CommitData struct {
	Message string `json:"message"`
}

// PushEvent is the subset of a push webhook payload the harvester reads.
type PushEvent struct {
	Ref     string       `json:"ref"`
	Commits []PushCommit `json:"commits"`
}

// PushCommit is one commit entry in a push payload.
type PushCommit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// PullRequestEvent is the subset of a pull_request webhook payload the
// harvester reads.
type PullRequestEvent struct {
	Action      string       `json:"action"`
	Number      int          `json:"number"`
	PullRequest *PullRequest `json:"pull_request"`
}

// PullRequest carries the pull-request texts that can mention issue keys.
type PullRequest struct {
	Number int     `json:"number"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	Head   *PRHead `json:"head"`
}

// PRHead identifies the source branch of a pull request.
type PRHead struct {
	Ref string `json:"ref"`
	SHA string `json:"sha,omitempty"`
}
