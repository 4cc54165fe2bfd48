// jiralink keeps Jira components in step with source control activity.
//
// Two entry points cover the CI automations: "ensure" handles one issue
// named by the environment, and "hook" harvests issue keys from the event
// that triggered the run and links them all.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/chainstay/jiralink/internal/config"
	"github.com/chainstay/jiralink/internal/telemetry"
)

var (
	jsonOutput  bool
	verboseFlag bool // Enable verbose/debug output
	quietFlag   bool // Suppress non-essential output
)

var rootCmd = &cobra.Command{
	Use:   "jiralink",
	Short: "jiralink - Jira component sync for CI runs",
	Long: `Keeps Jira components in step with source control: ensures a component
named after the repository exists and attaches it to the issues that
commits, branches, and pull requests mention.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Handle --version flag on root command
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("jiralink version %s (%s)\n", Version, Build)
			return
		}
		// No subcommand - show help
		_ = cmd.Help() // Help() always returns nil for cobra commands
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyVerbosityFlags()

		// Local runs keep credentials in .env; CI exports them directly,
		// so a missing file is the normal case.
		_ = godotenv.Load()

		if err := config.Initialize(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := telemetry.Init(cmd.Context(), "jiralink", Version); err != nil {
			slog.Warn("telemetry unavailable", "error", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetry.Shutdown(context.Background())
	},
}

func applyVerbosityFlags() {
	level := slog.LevelWarn
	switch {
	case verboseFlag:
		level = slog.LevelDebug
	case quietFlag:
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.Flags().Bool("version", false, "Print version information")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
