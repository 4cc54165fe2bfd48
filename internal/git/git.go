// Package git shells out to the git CLI for the small amount of repository
// context this tool needs: the latest commit message and the repo name.
package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// LastCommitMessage returns the full message of the most recent commit in
// the checkout at dir (the current directory when dir is empty).
func LastCommitMessage(dir string) (string, error) {
	cmd := exec.Command("git", "log", "-1", "--pretty=%B")
	if dir != "" {
		cmd.Dir = dir
	}
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git log: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// RepoNameFromRemote extracts the repository name from the origin remote
// URL of the checkout at dir (the current directory when dir is empty).
// Returns empty string if git is not available or no remote is configured.
func RepoNameFromRemote(dir string) string {
	cmd := exec.Command("git", "config", "--get", "remote.origin.url")
	if dir != "" {
		cmd.Dir = dir
	}
	output, err := cmd.Output()
	if err != nil {
		return ""
	}

	url := strings.TrimSpace(string(output))
	if url == "" {
		return ""
	}

	// Remove .git suffix if present
	url = strings.TrimSuffix(url, ".git")

	// Handle HTTPS URLs (https://github.com/user/repo)
	if parts := strings.SplitN(url, "://", 2); len(parts) == 2 {
		url = parts[1]
	} else if parts := strings.SplitN(url, ":", 2); len(parts) == 2 {
		// Handle SSH URLs (git@github.com:user/repo)
		url = parts[1]
	}

	// Last path component is the repo name
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		url = url[idx+1:]
	}

	return url
}
