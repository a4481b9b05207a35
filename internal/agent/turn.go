package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"magpie/internal/llm"
	"magpie/internal/trace"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const defaultMaxRounds = 6

type TurnState string

const (
	StateDone             TurnState = "done"
	StateToolNotFound     TurnState = "tool_not_found"
	StateTurnLimit        TurnState = "turn_limit_exceeded"
	StateModelUnavailable TurnState = "model_unavailable"
	StateCancelled        TurnState = "cancelled"
)

// TurnResult is the outcome of one turn. Messages always carries the full
// working history (the caller's history plus everything this turn appended),
// also on failure, so callers can show partial progress.
type TurnResult struct {
	State    TurnState
	Reply    string
	Messages []Message
}

type RunnerOption func(*Runner)

// WithMaxRounds caps the number of model round-trips per turn.
func WithMaxRounds(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.maxRounds = n
		}
	}
}

// Runner drives a single turn of conversation: one user message through
// zero or more tool calls to a final reply. A Runner is stateless between
// calls; independent turns may run concurrently.
type Runner struct {
	provider  llm.Provider
	maxRounds int
	now       func() time.Time
}

func NewRunner(provider llm.Provider, opts ...RunnerOption) *Runner {
	r := &Runner{
		provider:  provider,
		maxRounds: defaultMaxRounds,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one turn for ag. history is read-only; Run works on its own
// copy and returns the extended history in the TurnResult. emit may be nil.
//
// Cancellation is cooperative and checked between model round-trips; an
// in-flight tool invocation runs to completion rather than being killed
// halfway through its side effects.
func (r *Runner) Run(ctx context.Context, ag *Agent, history []Message, userMessage string, emit func(Event)) (*TurnResult, error) {
	if emit == nil {
		emit = func(Event) {}
	}
	if strings.TrimSpace(userMessage) == "" {
		return nil, ErrEmptyMessage
	}

	ctx, span := trace.Tracer().Start(ctx, "agent.turn",
		oteltrace.WithAttributes(
			attribute.String("agent.name", ag.Name),
			attribute.Int("agent.tools", ag.Tools.Len()),
		),
	)
	defer span.End()

	working := make([]Message, len(history), len(history)+2)
	copy(working, history)
	working = append(working, Message{Author: AuthorUser, Text: userMessage, Time: r.now()})

	defs := ag.Tools.Defs()

	for round := 0; round < r.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			emit(Event{Type: EventError, Data: "turn cancelled"})
			return &TurnResult{State: StateCancelled, Messages: working}, err
		}

		llmCtx, llmSpan := trace.Tracer().Start(ctx, "agent.turn.model",
			oteltrace.WithAttributes(attribute.Int("turn.round", round)),
		)
		reply, err := r.provider.Chat(llmCtx, ag.Prompt, toProviderMessages(working), defs)
		if err != nil {
			llmSpan.RecordError(err)
			llmSpan.SetStatus(codes.Error, err.Error())
			llmSpan.End()
			span.SetStatus(codes.Error, err.Error())
			emit(Event{Type: EventError, Data: err.Error()})
			return &TurnResult{State: StateModelUnavailable, Messages: working},
				fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
		llmSpan.End()

		// No tool calls: the reply is final and the turn is done.
		if len(reply.ToolCalls) == 0 {
			working = append(working, Message{Author: AuthorAgent, Text: reply.Text, Time: r.now()})
			emit(Event{Type: EventReply, Data: reply.Text})
			emit(Event{Type: EventDone})
			return &TurnResult{State: StateDone, Reply: reply.Text, Messages: working}, nil
		}

		// Resolve every requested tool before invoking any: a single
		// unknown name fails the whole turn with nothing executed. The
		// tool-call message is appended only after resolution succeeds;
		// an unanswered tool call left in session history would make
		// every later request to the provider invalid.
		resolved := make([]Tool, len(reply.ToolCalls))
		for i, call := range reply.ToolCalls {
			t, ok := ag.Tools.Get(call.Name)
			if !ok {
				slog.Warn("model requested unknown tool", "agent", ag.Name, "tool", call.Name)
				span.SetStatus(codes.Error, "tool not found")
				emit(Event{Type: EventError, Data: "unknown tool: " + call.Name})
				return &TurnResult{State: StateToolNotFound, Messages: working},
					fmt.Errorf("%w: %q", ErrToolNotFound, call.Name)
			}
			resolved[i] = t
		}

		working = append(working, Message{
			Author:    AuthorAgent,
			Text:      reply.Text,
			Time:      r.now(),
			ToolCalls: reply.ToolCalls,
		})

		// Execute in the order the model requested. Ordering is
		// load-bearing: a later call may depend on an earlier result
		// already being in context.
		for i, call := range reply.ToolCalls {
			emit(Event{Type: EventToolCall, Data: map[string]string{
				"name":      call.Name,
				"arguments": call.Arguments,
			}})

			out, err := withTrace(resolved[i]).Execute(ctx, call.Arguments)
			if err != nil {
				// Tool failures feed back into the loop so the model can
				// self-correct; they never abort the turn by themselves.
				slog.Warn("tool execution failed", "tool", call.Name, "error", err)
				out = "error: " + err.Error()
			}

			working = append(working, Message{
				Author:   AuthorTool,
				Text:     out,
				Time:     r.now(),
				ToolName: call.Name,
				CallID:   call.ID,
			})
			emit(Event{Type: EventToolResult, Data: map[string]string{
				"name":    call.Name,
				"content": out,
			}})
		}
	}

	span.SetStatus(codes.Error, "turn limit exceeded")
	emit(Event{Type: EventError, Data: "turn limit exceeded"})
	return &TurnResult{State: StateTurnLimit, Messages: working},
		fmt.Errorf("%w after %d rounds", ErrTurnLimit, r.maxRounds)
}

func toProviderMessages(history []Message) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		switch m.Author {
		case AuthorUser:
			out = append(out, llm.Message{Role: llm.RoleUser, Content: m.Text})
		case AuthorAgent:
			out = append(out, llm.Message{
				Role:      llm.RoleAssistant,
				Content:   m.Text,
				ToolCalls: m.ToolCalls,
			})
		case AuthorTool:
			out = append(out, llm.Message{
				Role:    llm.RoleTool,
				Content: m.Text,
				CallID:  m.CallID,
			})
		}
	}
	return out
}
