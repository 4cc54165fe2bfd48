// Package actions writes the machine-readable markers GitHub Actions picks
// up from the file named by GITHUB_OUTPUT.
package actions

import (
	"fmt"
	"os"
)

// Output appends key=value marker lines to a CI output file.
type Output struct {
	Path string
}

// NewOutput returns an Output writing to the given file path. An empty path
// (running outside CI) makes every write a silent no-op.
func NewOutput(path string) *Output {
	return &Output{Path: path}
}

// Set appends one key=value line to the output file.
func (o *Output) Set(key, value string) error {
	if o.Path == "" {
		return nil
	}

	f, err := os.OpenFile(o.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
