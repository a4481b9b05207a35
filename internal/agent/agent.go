// Package agent holds the agent registry and the tool-calling turn loop.
package agent

import (
	"time"

	"magpie/internal/llm"
)

// Agent is a named persona: a system prompt plus a scoped toolset.
// Agents are immutable after registry load.
type Agent struct {
	Name        string
	Description string
	Prompt      string
	Tools       *ToolSet
}

type Author string

const (
	AuthorUser  Author = "user"
	AuthorAgent Author = "agent"
	AuthorTool  Author = "tool"
)

// Message is one entry of a conversation history. Histories are append-only:
// messages are never mutated or removed once appended.
type Message struct {
	Author Author    `json:"author"`
	Text   string    `json:"text"`
	Time   time.Time `json:"time"`
	// ToolCalls is set on agent-authored messages that requested tools.
	ToolCalls []llm.ToolCall `json:"tool_calls,omitempty"`
	// ToolName and CallID are set on tool-authored messages.
	ToolName string `json:"tool_name,omitempty"`
	CallID   string `json:"call_id,omitempty"`
}

type EventType string

const (
	EventToolCall   EventType = "tool_call"
	EventToolResult EventType = "tool_result"
	EventReply      EventType = "reply"
	EventError      EventType = "error"
	EventDone       EventType = "done"
)

// Event is pushed to live surfaces (CLI, SSE) while a turn runs.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}
