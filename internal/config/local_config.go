package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfig is the subset of .jiralink.yaml that must be read directly
// rather than through the viper singleton. The projects key needs this:
// viper cannot distinguish a missing key from an explicitly empty list,
// and the allow-list gate treats those differently.
type LocalConfig struct {
	Jira struct {
		BaseURL       string `yaml:"base-url"`
		Email         string `yaml:"email"`
		ComponentLead string `yaml:"component-lead"`
	} `yaml:"jira"`

	// Projects is the allow-list. A nil slice means the key was absent.
	Projects []string `yaml:"projects"`
}

// LoadLocalConfig reads and parses .jiralink.yaml from the given directory.
// Returns an empty LocalConfig (not nil) if the file doesn't exist or
// can't be parsed.
func LoadLocalConfig(dir string) *LocalConfig {
	configPath := filepath.Join(dir, ".jiralink.yaml")
	data, err := os.ReadFile(configPath) // #nosec G304 - config file path from dir
	if err != nil {
		return &LocalConfig{}
	}

	var cfg LocalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &LocalConfig{}
	}

	return &cfg
}

// LoadLocalConfigWithEnv reads .jiralink.yaml and applies environment
// variable overrides. Environment variables take precedence over config
// file values.
func LoadLocalConfigWithEnv(dir string) *LocalConfig {
	cfg := LoadLocalConfig(dir)

	if base := os.Getenv("JIRA_BASE_URL"); base != "" {
		cfg.Jira.BaseURL = base
	}
	if email := firstEnv("JIRA_EMAIL", "JIRA_USER_EMAIL"); email != "" {
		cfg.Jira.Email = email
	}
	if lead := os.Getenv("JIRA_COMPONENT_LEAD"); lead != "" {
		cfg.Jira.ComponentLead = lead
	}

	return cfg
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}
