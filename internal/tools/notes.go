package tools

import (
	"context"
	"fmt"
	"strings"

	"magpie/internal/agent"
	"magpie/internal/notes"
)

// NoteStore lets the agent keep facts for later turns and sessions.
type NoteStore struct {
	store *notes.Store
}

func NewNoteStore(store *notes.Store) *NoteStore {
	return &NoteStore{store: store}
}

func (n *NoteStore) Name() string { return "note_store" }
func (n *NoteStore) Description() string {
	return "Save a note for later recall. Use category 'core' for durable facts (preferences, identity) or 'conversation' for notes scoped to this session."
}

func (n *NoteStore) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{
				"type":        "string",
				"description": "The content to remember",
			},
			"category": map[string]any{
				"type":        "string",
				"enum":        []string{"core", "conversation"},
				"description": "Note category",
			},
		},
		"required":             []string{"content", "category"},
		"additionalProperties": false,
	}
}

func (n *NoteStore) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Content  string `json:"content"`
		Category string `json:"category"`
	}
	if err := parseArgs(n.Name(), input, &args); err != nil {
		return "", err
	}
	if args.Content == "" {
		return "", &agent.ArgumentError{Tool: n.Name(), Err: fmt.Errorf("content is required")}
	}

	// 'core' notes are global; 'conversation' notes are session-scoped.
	var sessionID string
	if args.Category == "conversation" {
		sessionID = agent.SessionIDFromContext(ctx)
	}

	id, err := n.store.Add(ctx, sessionID, args.Category, args.Content)
	if err != nil {
		return "", fmt.Errorf("storing note: %w", err)
	}

	return fmt.Sprintf("note stored (id=%d, category=%s)", id, args.Category), nil
}

// NoteRecall searches previously stored notes.
type NoteRecall struct {
	store *notes.Store
}

func NewNoteRecall(store *notes.Store) *NoteRecall {
	return &NoteRecall{store: store}
}

func (n *NoteRecall) Name() string { return "note_recall" }
func (n *NoteRecall) Description() string {
	return "Search saved notes by keyword. Returns the most recent matches."
}

func (n *NoteRecall) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search text; empty string returns the most recent notes",
			},
		},
		"required":             []string{"query"},
		"additionalProperties": false,
	}
}

func (n *NoteRecall) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := parseArgs(n.Name(), input, &args); err != nil {
		return "", err
	}

	sessionID := agent.SessionIDFromContext(ctx)
	results, err := n.store.Search(ctx, args.Query, sessionID, 10)
	if err != nil {
		return "", fmt.Errorf("searching notes: %w", err)
	}

	if len(results) == 0 {
		return "No matching notes found.", nil
	}

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		fmt.Fprintf(&b, "[%s] %s", r.Category, r.Content)
	}
	return b.String(), nil
}
