package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"magpie/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider plays back a scripted sequence of replies, one per round.
type stubProvider struct {
	replies []*llm.Reply
	err     error
	calls   int
	seen    [][]llm.Message
}

func (s *stubProvider) Chat(ctx context.Context, system string, msgs []llm.Message, tools []llm.ToolDef) (*llm.Reply, error) {
	s.seen = append(s.seen, msgs)
	if s.err != nil {
		return nil, s.err
	}
	i := s.calls
	s.calls++
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return s.replies[i], nil
}

type fakeTool struct {
	name    string
	invoked []string
	fn      func(ctx context.Context, input string) (string, error)
}

func (f *fakeTool) Name() string                { return f.name }
func (f *fakeTool) Description() string         { return "fake tool " + f.name }
func (f *fakeTool) InputSchema() map[string]any { return map[string]any{"type": "object"} }

func (f *fakeTool) Execute(ctx context.Context, input string) (string, error) {
	f.invoked = append(f.invoked, input)
	if f.fn != nil {
		return f.fn(ctx, input)
	}
	return "ok", nil
}

func testAgent(t *testing.T, tools ...Tool) *Agent {
	t.Helper()
	ts := NewToolSet()
	for _, tool := range tools {
		require.NoError(t, ts.Register(tool))
	}
	return &Agent{Name: "tester", Prompt: "You are a test agent.", Tools: ts}
}

func TestRunner_ImmediateReply(t *testing.T) {
	provider := &stubProvider{replies: []*llm.Reply{{Text: "hello"}}}
	runner := NewRunner(provider)

	result, err := runner.Run(context.Background(), testAgent(t), nil, "hi", nil)
	require.NoError(t, err)

	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, "hello", result.Reply)
	require.Len(t, result.Messages, 2)
	assert.Equal(t, AuthorUser, result.Messages[0].Author)
	assert.Equal(t, "hi", result.Messages[0].Text)
	assert.Equal(t, AuthorAgent, result.Messages[1].Author)
	assert.Equal(t, "hello", result.Messages[1].Text)
}

func TestRunner_EmptyMessage(t *testing.T) {
	runner := NewRunner(&stubProvider{replies: []*llm.Reply{{Text: "x"}}})

	for _, msg := range []string{"", "   ", "\n\t"} {
		result, err := runner.Run(context.Background(), testAgent(t), nil, msg, nil)
		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Nil(t, result)
	}
}

func TestRunner_PromptAndToolsReachProvider(t *testing.T) {
	provider := &stubProvider{replies: []*llm.Reply{{Text: "done"}}}
	runner := NewRunner(provider)
	ag := testAgent(t, &fakeTool{name: "divide"})

	_, err := runner.Run(context.Background(), ag, nil, "hi", nil)
	require.NoError(t, err)
	require.Len(t, provider.seen, 1)
}

func TestRunner_UnknownToolFailsTurn(t *testing.T) {
	divide := &fakeTool{name: "divide"}
	provider := &stubProvider{replies: []*llm.Reply{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "launch_missiles", Arguments: "{}"}}},
	}}
	runner := NewRunner(provider)

	result, err := runner.Run(context.Background(), testAgent(t, divide), nil, "go", nil)
	assert.ErrorIs(t, err, ErrToolNotFound)
	require.NotNil(t, result)
	assert.Equal(t, StateToolNotFound, result.State)
	// The unknown name fails the turn before anything runs.
	assert.Empty(t, divide.invoked)
}

func TestRunner_UnknownToolSkipsSiblingCalls(t *testing.T) {
	divide := &fakeTool{name: "divide"}
	provider := &stubProvider{replies: []*llm.Reply{
		{ToolCalls: []llm.ToolCall{
			{ID: "c1", Name: "divide", Arguments: `{"a":1,"b":2}`},
			{ID: "c2", Name: "missing", Arguments: "{}"},
		}},
	}}
	runner := NewRunner(provider)

	_, err := runner.Run(context.Background(), testAgent(t, divide), nil, "go", nil)
	assert.ErrorIs(t, err, ErrToolNotFound)
	// All names resolve before any call executes: the valid sibling must
	// not have run either.
	assert.Empty(t, divide.invoked)
}

func TestRunner_UnknownToolLeavesHistoryResumable(t *testing.T) {
	provider := &stubProvider{replies: []*llm.Reply{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "missing", Arguments: "{}"}}},
	}}
	runner := NewRunner(provider)

	result, err := runner.Run(context.Background(), testAgent(t), nil, "go", nil)
	assert.ErrorIs(t, err, ErrToolNotFound)
	require.NotNil(t, result)

	// The failed turn must leave no unanswered tool call behind: a session
	// that stores these messages and retries would otherwise send the
	// provider an assistant tool call with no matching result.
	for _, m := range result.Messages {
		assert.Empty(t, m.ToolCalls)
	}
	for _, m := range toProviderMessages(result.Messages) {
		assert.Empty(t, m.ToolCalls)
		assert.NotEqual(t, llm.RoleTool, m.Role)
	}

	// A retry with the stored history reaches the provider cleanly.
	provider.replies = []*llm.Reply{{Text: "recovered"}}
	retry, err := runner.Run(context.Background(), testAgent(t), result.Messages, "go again", nil)
	require.NoError(t, err)
	assert.Equal(t, StateDone, retry.State)
}

func TestRunner_ToolErrorFeedsBack(t *testing.T) {
	divide := &fakeTool{name: "divide", fn: func(ctx context.Context, input string) (string, error) {
		return "", fmt.Errorf("division by zero")
	}}
	provider := &stubProvider{replies: []*llm.Reply{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "divide", Arguments: `{"a":1,"b":0}`}}},
		{Text: "I cannot divide by zero, sorry."},
	}}
	runner := NewRunner(provider)

	result, err := runner.Run(context.Background(), testAgent(t, divide), nil, "divide 1 by 0", nil)
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	require.Len(t, divide.invoked, 1)

	// user, agent(tool request), tool(error), agent(final)
	require.Len(t, result.Messages, 4)
	toolMsg := result.Messages[2]
	assert.Equal(t, AuthorTool, toolMsg.Author)
	assert.Equal(t, "divide", toolMsg.ToolName)
	assert.Equal(t, "c1", toolMsg.CallID)
	assert.Equal(t, "error: division by zero", toolMsg.Text)

	// The second round saw the error message in context.
	require.Len(t, provider.seen, 2)
	last := provider.seen[1][len(provider.seen[1])-1]
	assert.Equal(t, llm.RoleTool, last.Role)
	assert.Contains(t, last.Content, "division by zero")
}

func TestRunner_TurnLimit(t *testing.T) {
	echo := &fakeTool{name: "echo"}
	provider := &stubProvider{replies: []*llm.Reply{
		{ToolCalls: []llm.ToolCall{{ID: "c", Name: "echo", Arguments: "{}"}}},
	}}
	const rounds = 3
	runner := NewRunner(provider, WithMaxRounds(rounds))

	result, err := runner.Run(context.Background(), testAgent(t, echo), nil, "loop", nil)
	assert.ErrorIs(t, err, ErrTurnLimit)
	require.NotNil(t, result)
	assert.Equal(t, StateTurnLimit, result.State)
	assert.Equal(t, rounds, provider.calls)

	// 1 user message plus, per round, one agent tool-request message and
	// one tool result message.
	assert.Len(t, result.Messages, 1+rounds*2)
}

func TestRunner_ModelUnavailable(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("connection refused")}
	runner := NewRunner(provider)

	result, err := runner.Run(context.Background(), testAgent(t), nil, "hi", nil)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	require.NotNil(t, result)
	assert.Equal(t, StateModelUnavailable, result.State)
	// The user message is still part of the returned history.
	require.Len(t, result.Messages, 1)
	assert.Equal(t, AuthorUser, result.Messages[0].Author)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(&stubProvider{replies: []*llm.Reply{{Text: "x"}}})
	result, err := runner.Run(ctx, testAgent(t), nil, "hi", nil)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, StateCancelled, result.State)
}

func TestRunner_SequentialToolOrder(t *testing.T) {
	var order []string
	mk := func(name string) *fakeTool {
		return &fakeTool{name: name, fn: func(ctx context.Context, input string) (string, error) {
			order = append(order, name)
			return name + " ok", nil
		}}
	}
	first, second := mk("first"), mk("second")

	provider := &stubProvider{replies: []*llm.Reply{
		{ToolCalls: []llm.ToolCall{
			{ID: "c1", Name: "first", Arguments: "{}"},
			{ID: "c2", Name: "second", Arguments: "{}"},
		}},
		{Text: "done"},
	}}
	runner := NewRunner(provider)

	result, err := runner.Run(context.Background(), testAgent(t, first, second), nil, "go", nil)
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRunner_DoesNotMutateCallerHistory(t *testing.T) {
	history := []Message{
		{Author: AuthorUser, Text: "earlier"},
		{Author: AuthorAgent, Text: "earlier reply"},
	}
	runner := NewRunner(&stubProvider{replies: []*llm.Reply{{Text: "new reply"}}})

	result, err := runner.Run(context.Background(), testAgent(t), history, "again", nil)
	require.NoError(t, err)

	assert.Len(t, history, 2)
	require.Len(t, result.Messages, 4)
	assert.Equal(t, "earlier", result.Messages[0].Text)
	assert.Equal(t, "new reply", result.Messages[3].Text)
}

func TestRunner_EmitsEvents(t *testing.T) {
	echo := &fakeTool{name: "echo"}
	provider := &stubProvider{replies: []*llm.Reply{
		{ToolCalls: []llm.ToolCall{{ID: "c", Name: "echo", Arguments: "{}"}}},
		{Text: "bye"},
	}}
	runner := NewRunner(provider)

	var types []EventType
	_, err := runner.Run(context.Background(), testAgent(t, echo), nil, "go", func(ev Event) {
		types = append(types, ev.Type)
	})
	require.NoError(t, err)
	assert.Equal(t, []EventType{EventToolCall, EventToolResult, EventReply, EventDone}, types)
}

func TestRunner_ZeroToolAgent(t *testing.T) {
	provider := &stubProvider{replies: []*llm.Reply{{Text: "just chatting"}}}
	runner := NewRunner(provider)

	result, err := runner.Run(context.Background(), testAgent(t), nil, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	assert.False(t, errors.Is(err, ErrToolNotFound))
}
