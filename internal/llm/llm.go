// Package llm is the boundary to the model backend. The turn loop hands a
// provider the system prompt, the conversation so far and the available tool
// descriptors; the provider answers with either final text or a list of
// tool calls.
package llm

import (
	"context"
	"fmt"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of the conversation as seen by a provider.
type Message struct {
	Role    Role
	Content string
	// CallID links a RoleTool message to the call it answers.
	CallID string
	// ToolCalls holds the calls an assistant message requested.
	ToolCalls []ToolCall
}

// ToolCall names a tool and carries its raw JSON arguments.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolDef describes an invocable tool to the model.
type ToolDef struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Reply is the provider's answer: final text when ToolCalls is empty,
// otherwise the calls to execute, in the order the model requested them.
type Reply struct {
	Text      string
	ToolCalls []ToolCall
}

type Provider interface {
	Chat(ctx context.Context, system string, msgs []Message, tools []ToolDef) (*Reply, error)
}

// New builds a provider for the given backend kind.
func New(provider, baseURL, apiKey, model string) (Provider, error) {
	switch provider {
	case "openai", "":
		return NewOpenAI(baseURL, apiKey, model), nil
	case "anthropic":
		return NewAnthropic(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
