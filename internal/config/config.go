// Package config resolves the settings a run needs from the environment,
// with an optional .jiralink.yaml underneath.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys. Each key is bound to the environment variables the
// CI workflows export.
const (
	KeyJiraBaseURL       = "jira.base-url"
	KeyJiraEmail         = "jira.email"
	KeyJiraAPIToken      = "jira.api-token"
	KeyJiraComponentLead = "jira.component-lead"
	KeyJiraHTTPTimeout   = "jira.http-timeout"

	KeyIssueKey      = "issue.key"
	KeyComponentName = "issue.component"
	KeyRepoName      = "repo.name"

	KeyGitHubEventName = "github.event-name"
	KeyGitHubEventPath = "github.event-path"
	KeyGitHubToken     = "github.token"
	KeyGitHubAPIURL    = "github.api-url"
	KeyGitHubOwner     = "github.owner"
	KeyGitHubRepo      = "github.repo"
	KeyGitHubPRNumber  = "github.pr-number"

	KeyOutputPath = "output.path"
)

// DefaultHTTPTimeout bounds each Jira and GitHub call when
// JIRALINK_HTTP_TIMEOUT is unset or unparseable.
const DefaultHTTPTimeout = 30 * time.Second

var v *viper.Viper

// envBindings maps each configuration key to the environment variables
// that can set it, in precedence order.
var envBindings = map[string][]string{
	KeyJiraBaseURL:       {"JIRA_BASE_URL"},
	KeyJiraEmail:         {"JIRA_EMAIL", "JIRA_USER_EMAIL"},
	KeyJiraAPIToken:      {"JIRA_API_TOKEN"},
	KeyJiraComponentLead: {"JIRA_COMPONENT_LEAD"},
	KeyJiraHTTPTimeout:   {"JIRALINK_HTTP_TIMEOUT"},

	KeyIssueKey:      {"ISSUE_KEY"},
	KeyComponentName: {"COMPONENT_NAME"},
	KeyRepoName:      {"REPO_NAME"},

	KeyGitHubEventName: {"GITHUB_EVENT_NAME"},
	KeyGitHubEventPath: {"GITHUB_EVENT_PATH"},
	KeyGitHubToken:     {"GITHUB_TOKEN"},
	KeyGitHubAPIURL:    {"GITHUB_API_URL"},
	KeyGitHubOwner:     {"OWNER"},
	KeyGitHubRepo:      {"REPO"},
	KeyGitHubPRNumber:  {"PR_NUMBER"},

	KeyOutputPath: {"GITHUB_OUTPUT"},
}

// Initialize sets up the viper singleton: environment bindings plus an
// optional .jiralink.yaml in the working directory. Safe to call more than
// once.
func Initialize() error {
	nv := viper.New()
	nv.SetConfigName(".jiralink")
	nv.SetConfigType("yaml")
	nv.AddConfigPath(".")

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := nv.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	nv.SetDefault(KeyJiraHTTPTimeout, DefaultHTTPTimeout)

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read .jiralink.yaml: %w", err)
		}
	}

	v = nv
	return nil
}

// GetString returns the string value for a key, or "" before Initialize.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetInt returns the integer value for a key, or 0 before Initialize.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetBool returns the boolean value for a key, or false before Initialize.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetDuration returns the duration value for a key, or 0 before Initialize.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// Config is the resolved configuration snapshot for one run.
type Config struct {
	JiraBaseURL   string
	JiraEmail     string
	JiraAPIToken  string
	ComponentLead string
	HTTPTimeout   time.Duration

	IssueKey      string
	ComponentName string
	RepoName      string

	// ProjectFilterRaw is the JIRA_PROJECT value and ProjectFilterPresent
	// records whether the variable was set at all. A set-but-blank variable
	// takes the precedence slot ahead of the config file rather than
	// falling through to it.
	ProjectFilterRaw     string
	ProjectFilterPresent bool

	// FileProjects carries the allow-list from .jiralink.yaml when the
	// environment does not provide one. FileProjectsSet distinguishes a
	// missing key from an explicitly empty list.
	FileProjects    []string
	FileProjectsSet bool

	EventName    string
	EventPath    string
	GitHubToken  string
	GitHubAPIURL string
	Owner        string
	Repo         string
	PRNumber     int

	OutputPath string
}

// Load snapshots the current configuration. Initialize is run first when
// it has not been yet.
func Load() (*Config, error) {
	if v == nil {
		if err := Initialize(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		JiraBaseURL:   GetString(KeyJiraBaseURL),
		JiraEmail:     GetString(KeyJiraEmail),
		JiraAPIToken:  GetString(KeyJiraAPIToken),
		ComponentLead: GetString(KeyJiraComponentLead),
		HTTPTimeout:   GetDuration(KeyJiraHTTPTimeout),

		IssueKey:      GetString(KeyIssueKey),
		ComponentName: GetString(KeyComponentName),
		RepoName:      GetString(KeyRepoName),

		EventName:    GetString(KeyGitHubEventName),
		EventPath:    GetString(KeyGitHubEventPath),
		GitHubToken:  GetString(KeyGitHubToken),
		GitHubAPIURL: GetString(KeyGitHubAPIURL),
		Owner:        GetString(KeyGitHubOwner),
		Repo:         GetString(KeyGitHubRepo),
		PRNumber:     GetInt(KeyGitHubPRNumber),

		OutputPath: GetString(KeyOutputPath),
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}

	// Viper folds unset and set-but-empty together, and the allow-list
	// gate needs to tell them apart.
	cfg.ProjectFilterRaw, cfg.ProjectFilterPresent = os.LookupEnv("JIRA_PROJECT")

	local := LoadLocalConfig(".")
	cfg.FileProjects = local.Projects
	cfg.FileProjectsSet = local.Projects != nil

	// Actions exports GITHUB_REPOSITORY as "owner/repo"; use it when the
	// workflow does not pass the pieces explicitly.
	if cfg.Owner == "" || cfg.Repo == "" {
		if full := os.Getenv("GITHUB_REPOSITORY"); full != "" {
			parts := strings.SplitN(full, "/", 2)
			if cfg.Owner == "" {
				cfg.Owner = parts[0]
			}
			if len(parts) == 2 && cfg.Repo == "" {
				cfg.Repo = parts[1]
			}
		}
	}
	if cfg.RepoName == "" {
		cfg.RepoName = cfg.Repo
	}

	return cfg, nil
}

// MissingForEnsure returns the environment variables the single-issue path
// requires but that are unset.
func (c *Config) MissingForEnsure() []string {
	missing := c.missingJira()
	if c.IssueKey == "" {
		missing = append(missing, "ISSUE_KEY")
	}
	if c.ComponentName == "" {
		missing = append(missing, "COMPONENT_NAME")
	}
	return missing
}

// MissingForHook returns the environment variables the batch path requires
// but that are unset.
func (c *Config) MissingForHook() []string {
	missing := c.missingJira()
	if c.RepoName == "" {
		missing = append(missing, "REPO_NAME")
	}
	if c.EventName == "" {
		missing = append(missing, "GITHUB_EVENT_NAME")
	}
	return missing
}

func (c *Config) missingJira() []string {
	var missing []string
	if c.JiraBaseURL == "" {
		missing = append(missing, "JIRA_BASE_URL")
	}
	if c.JiraEmail == "" {
		missing = append(missing, "JIRA_EMAIL")
	}
	if c.JiraAPIToken == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	return missing
}
