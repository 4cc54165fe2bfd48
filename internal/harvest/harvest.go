// Package harvest extracts Jira issue keys from the source control event
// that triggered a CI run.
package harvest

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/chainstay/jiralink/internal/git"
	"github.com/chainstay/jiralink/internal/github"
	"github.com/chainstay/jiralink/internal/jira"
)

// Event names delivered by the CI runner.
const (
	EventPush        = "push"
	EventPullRequest = "pull_request"
)

// Harvester collects the free-form texts an event carries and extracts
// issue keys from them. Harvesting is best-effort: a source that cannot
// be read contributes nothing instead of failing the run.
type Harvester struct {
	// EventName is the triggering event, "push" or "pull_request".
	EventName string

	// PayloadPath points at the event payload JSON on disk.
	PayloadPath string

	// RepoDir is the checkout to ask for the latest commit message on
	// pushes. Empty means the current directory.
	RepoDir string

	// GitHub fetches pull request commit messages when set. Optional,
	// harvesting works from the payload alone.
	GitHub *github.Client

	// PRNumber overrides the pull request number from the payload.
	PRNumber int
}

// IssueKeys returns the deduplicated, sorted issue keys found in the
// event. An unknown event or an unreadable payload yields no keys, never
// an error.
func (h *Harvester) IssueKeys(ctx context.Context) []string {
	return jira.ExtractIssueKeys(h.Texts(ctx)...)
}

// Texts returns the raw texts the event carries, in source order.
func (h *Harvester) Texts(ctx context.Context) []string {
	switch h.EventName {
	case EventPush:
		return h.pushTexts()
	case EventPullRequest:
		return h.pullRequestTexts(ctx)
	default:
		slog.Debug("nothing to harvest for event", "event", h.EventName)
		return nil
	}
}

func (h *Harvester) pushTexts() []string {
	var texts []string

	var event github.PushEvent
	if err := h.readPayload(&event); err != nil {
		slog.Debug("push payload unreadable", "path", h.PayloadPath, "error", err)
	} else {
		for _, commit := range event.Commits {
			texts = append(texts, commit.Message)
		}
		texts = append(texts, event.Ref)
	}

	// The payload omits the HEAD message on merge pushes, so always ask
	// the checkout too.
	if message, err := git.LastCommitMessage(h.RepoDir); err != nil {
		slog.Debug("git log unavailable", "error", err)
	} else {
		texts = append(texts, message)
	}

	return texts
}

func (h *Harvester) pullRequestTexts(ctx context.Context) []string {
	var texts []string

	number := h.PRNumber

	var event github.PullRequestEvent
	if err := h.readPayload(&event); err != nil {
		slog.Debug("pull request payload unreadable", "path", h.PayloadPath, "error", err)
	} else if event.PullRequest != nil {
		pr := event.PullRequest
		texts = append(texts, pr.Title, pr.Body)
		if pr.Head != nil {
			texts = append(texts, pr.Head.Ref)
		}
		if number == 0 {
			number = pr.Number
		}
		if number == 0 {
			number = event.Number
		}
	}

	if h.GitHub != nil && number > 0 {
		commits, err := h.GitHub.ListPullRequestCommits(ctx, number)
		if err != nil {
			slog.Debug("pull request commits unavailable", "pr", number, "error", err)
		} else {
			for _, commit := range commits {
				texts = append(texts, commit.Commit.Message)
			}
		}
	}

	return texts
}

func (h *Harvester) readPayload(v interface{}) error {
	data, err := os.ReadFile(h.PayloadPath)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
