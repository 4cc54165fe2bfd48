package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chainstay/jiralink/internal/actions"
	"github.com/chainstay/jiralink/internal/config"
	"github.com/chainstay/jiralink/internal/git"
	"github.com/chainstay/jiralink/internal/github"
	"github.com/chainstay/jiralink/internal/harvest"
	"github.com/chainstay/jiralink/internal/linker"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Link every issue the triggering event mentions",
	Long: `Harvests Jira issue keys from the event that triggered the run (commit
messages, branch names, pull request title and body) and attaches the
repository's component to each one, creating the component in a project
the first time it is seen.

Individual issues that cannot be linked are reported as warnings; the run
itself still succeeds.

Example:
  REPO_NAME=my-repo jiralink hook

Runs inside a workflow step, reading GITHUB_EVENT_NAME and
GITHUB_EVENT_PATH from the runner environment.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if cfg.RepoName == "" {
			cfg.RepoName = git.RepoNameFromRemote("")
		}

		if missing := cfg.MissingForHook(); len(missing) > 0 {
			fmt.Fprintf(os.Stderr, "Error: missing required configuration: %s\n", strings.Join(missing, ", "))
			os.Exit(1)
		}

		h := &harvest.Harvester{
			EventName:   cfg.EventName,
			PayloadPath: cfg.EventPath,
			PRNumber:    cfg.PRNumber,
			GitHub:      newGitHubClient(cfg),
		}

		keys := h.IssueKeys(cmd.Context())

		l := newLinker(cfg)
		l.Metrics.KeysHarvested(cmd.Context(), len(keys))

		if len(keys) == 0 {
			writeHookMarkers(cfg.OutputPath, nil)
			if jsonOutput {
				outputJSON([]linker.Result{})
			} else if !quietFlag {
				fmt.Println("No Jira issue keys found in this event")
			}
			return
		}

		if !quietFlag && !jsonOutput {
			fmt.Printf("Linking %d issue(s) to component %q\n", len(keys), cfg.RepoName)
		}

		results := l.LinkAll(cmd.Context(), keys, cfg.RepoName)

		writeHookMarkers(cfg.OutputPath, results)

		if jsonOutput {
			outputJSON(results)
			return
		}

		if !quietFlag {
			linked := 0
			for _, r := range results {
				if r.Processed() {
					linked++
				}
			}
			fmt.Printf("✓ Linked %d of %d issue(s)\n", linked, len(results))
		}
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

// newGitHubClient returns a client for the pull request commits fetch, or
// nil when the token or repository coordinates are missing and the fetch
// should be skipped.
func newGitHubClient(cfg *config.Config) *github.Client {
	if cfg.GitHubToken == "" || cfg.Owner == "" || cfg.Repo == "" {
		return nil
	}
	client := github.NewClient(cfg.GitHubToken, cfg.Owner, cfg.Repo).
		WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout})
	if cfg.GitHubAPIURL != "" {
		client = client.WithBaseURL(cfg.GitHubAPIURL)
	}
	return client
}

// writeHookMarkers records the run status and the keys that were linked.
func writeHookMarkers(path string, results []linker.Result) {
	out := actions.NewOutput(path)
	if err := out.Set("status", "processed"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not write status output: %v\n", err)
		return
	}

	var linked []string
	for _, r := range results {
		if r.Processed() {
			linked = append(linked, r.IssueKey)
		}
	}
	if err := out.Set("linked_issues", strings.Join(linked, ",")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not write linked_issues output: %v\n", err)
	}
}
