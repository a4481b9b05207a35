package tools

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"magpie/internal/agent"
)

type File struct{}

func (f *File) Name() string        { return "file" }
func (f *File) Description() string { return "Read or write a file on the local filesystem" }

func (f *File) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        []string{"read", "write"},
				"description": "Operation to perform",
			},
			"path": map[string]any{
				"type":        "string",
				"description": "File path; a leading ~ expands to the home directory",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Content for write; empty string for read",
			},
		},
		"required":             []string{"action", "path", "content"},
		"additionalProperties": false,
	}
}

func (f *File) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Action  string `json:"action"`
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := parseArgs(f.Name(), input, &args); err != nil {
		return "", err
	}
	if args.Path == "" {
		return "", &agent.ArgumentError{Tool: f.Name(), Err: fmt.Errorf("path is required")}
	}

	path := expandHome(args.Path)

	switch args.Action {
	case "read":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		slog.Debug("file: read", "path", path, "bytes", len(data))
		return truncate(data), nil

	case "write":
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("creating parent dirs: %w", err)
		}
		if err := os.WriteFile(path, []byte(args.Content), 0o644); err != nil {
			return "", fmt.Errorf("writing file: %w", err)
		}
		slog.Debug("file: wrote", "path", path, "bytes", len(args.Content))
		return fmt.Sprintf("wrote %d bytes to %s", len(args.Content), path), nil

	default:
		return "", &agent.ArgumentError{Tool: f.Name(), Err: fmt.Errorf("unknown action: %s", args.Action)}
	}
}
