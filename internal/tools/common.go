// Package tools holds the builtin tool implementations the host registers
// with the agent registry.
package tools

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"magpie/internal/agent"
)

const maxOutputBytes = 10_000

func truncate(b []byte) string {
	if len(b) > maxOutputBytes {
		return string(b[:maxOutputBytes]) + "\n... (truncated)"
	}
	return string(b)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// parseArgs unmarshals the raw argument JSON into v, wrapping failures in
// the argument error the turn loop expects from malformed inputs.
func parseArgs(tool, input string, v any) error {
	if err := json.Unmarshal([]byte(input), v); err != nil {
		return &agent.ArgumentError{Tool: tool, Err: err}
	}
	return nil
}
