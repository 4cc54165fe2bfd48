package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chainstay/jiralink/internal/actions"
	"github.com/chainstay/jiralink/internal/config"
	"github.com/chainstay/jiralink/internal/jira"
	"github.com/chainstay/jiralink/internal/linker"
	"github.com/chainstay/jiralink/internal/telemetry"
)

var (
	ensureIssueKey  string
	ensureComponent string
	ensureProjects  string
)

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Ensure a component exists and is attached to one issue",
	Long: `Ensures the named component exists in the issue's project and attaches it
to the issue, creating the component first when needed.

The issue's project must appear in the allow-list (JIRA_PROJECT, the
--projects flag, or the projects key in .jiralink.yaml); otherwise the run
is skipped and the skip reason is written to GITHUB_OUTPUT.

Examples:
  jiralink ensure --issue CA-123 --component my-repo --projects "CA,DEV"
  ISSUE_KEY=CA-123 COMPONENT_NAME=my-repo JIRA_PROJECT=CA jiralink ensure`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if ensureIssueKey != "" {
			cfg.IssueKey = ensureIssueKey
		}
		if ensureComponent != "" {
			cfg.ComponentName = ensureComponent
		}

		if missing := cfg.MissingForEnsure(); len(missing) > 0 {
			fmt.Fprintf(os.Stderr, "Error: missing required configuration: %s\n", strings.Join(missing, ", "))
			os.Exit(1)
		}

		filter := resolveProjectFilter(cmd.Flags().Changed("projects"), ensureProjects, cfg)

		l := newLinker(cfg)
		result := l.EnsureComponent(cmd.Context(), cfg.IssueKey, cfg.ComponentName, filter)

		writeEnsureMarkers(cfg.OutputPath, result)

		if jsonOutput {
			outputJSON(result)
		}

		switch {
		case result.Failed():
			fmt.Fprintf(os.Stderr, "Error: %v\n", result.Err)
			os.Exit(1)
		case result.Skipped():
			if !jsonOutput && !quietFlag {
				fmt.Printf("⊘ Skipped %s (%s)\n", result.IssueKey, result.Reason)
			}
		default:
			if !jsonOutput && !quietFlag {
				fmt.Printf("✓ Component %q ensured on %s\n", result.Component, result.IssueKey)
			}
		}
	},
}

func init() {
	ensureCmd.Flags().StringVar(&ensureIssueKey, "issue", "", "Issue key (defaults to ISSUE_KEY)")
	ensureCmd.Flags().StringVar(&ensureComponent, "component", "", "Component name (defaults to COMPONENT_NAME)")
	ensureCmd.Flags().StringVar(&ensureProjects, "projects", "", "Comma separated project allow-list (defaults to JIRA_PROJECT)")
	rootCmd.AddCommand(ensureCmd)
}

// resolveProjectFilter picks the allow-list source in precedence order:
// the --projects flag, the JIRA_PROJECT variable, then .jiralink.yaml. A
// blank flag or variable still takes its precedence slot, it just reads as
// no filter.
func resolveProjectFilter(flagChanged bool, flagValue string, cfg *config.Config) linker.ProjectFilter {
	if flagChanged {
		return linker.NewProjectFilter(flagValue, true)
	}
	if cfg.ProjectFilterPresent {
		return linker.NewProjectFilter(cfg.ProjectFilterRaw, true)
	}
	if cfg.FileProjectsSet {
		return linker.NewProjectFilter(strings.Join(cfg.FileProjects, ","), true)
	}
	return linker.NewProjectFilter("", false)
}

// newLinker wires a Linker from the resolved configuration.
func newLinker(cfg *config.Config) *linker.Linker {
	client := jira.NewClient(cfg.JiraBaseURL, cfg.JiraEmail, cfg.JiraAPIToken)
	client.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}

	l := linker.New(client)
	l.ComponentLead = cfg.ComponentLead
	l.Metrics = telemetry.NewRunMetrics()
	if !quietFlag && !jsonOutput {
		l.OnMessage = func(msg string) { fmt.Println("  " + msg) }
	}
	l.OnWarning = func(msg string) { fmt.Fprintf(os.Stderr, "Warning: %s\n", msg) }
	return l
}

// writeEnsureMarkers records the run status for later workflow steps.
func writeEnsureMarkers(path string, result linker.Result) {
	out := actions.NewOutput(path)
	if err := out.Set("status", string(result.Outcome)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not write status output: %v\n", err)
		return
	}
	if result.Skipped() {
		if err := out.Set("skip_reason", result.Reason); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write skip_reason output: %v\n", err)
		}
	}
}
