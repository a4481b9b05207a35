package agent

import (
	"errors"
	"fmt"
)

// ConfigErrorKind distinguishes the agent definition problems a registry
// load can detect.
type ConfigErrorKind string

const (
	KindDuplicateAgent ConfigErrorKind = "duplicate agent name"
	KindEmptyAgentName ConfigErrorKind = "empty agent name"
	KindUnknownTool    ConfigErrorKind = "unknown tool"
	KindDuplicateTool  ConfigErrorKind = "duplicate tool"
	KindEmptyPrompt    ConfigErrorKind = "empty prompt"
)

// ConfigError is one invalid-definition finding. A failed load joins every
// finding into a single error so the operator sees all problems at once.
type ConfigError struct {
	Kind   ConfigErrorKind
	Agent  string
	Detail string
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("agent config: %s", e.Kind)
	if e.Agent != "" {
		msg += fmt.Sprintf(" (agent %q)", e.Agent)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

var (
	// ErrAgentNotFound is returned by Registry.Get for an unknown name.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrEmptyMessage rejects a user message that is empty after trimming.
	ErrEmptyMessage = errors.New("empty user message")

	// ErrToolNotFound ends a turn when the model requests a tool the agent
	// does not have. A contract violation, not a transient fault: no retry.
	ErrToolNotFound = errors.New("tool not found")

	// ErrTurnLimit ends a turn that hit the model round-trip cap.
	ErrTurnLimit = errors.New("turn limit exceeded")

	// ErrModelUnavailable wraps transport failures from the model backend.
	// Retry policy belongs to the caller, never to the turn loop.
	ErrModelUnavailable = errors.New("model unavailable")
)
