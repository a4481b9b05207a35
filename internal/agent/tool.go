package agent

import (
	"context"
	"fmt"

	"magpie/internal/llm"
)

// Tool is a named invocable capability. Input is the raw JSON argument
// object the model supplied; implementations parse it themselves and return
// *ArgumentError when it does not match their schema.
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]any
	Execute(ctx context.Context, input string) (string, error)
}

// ArgumentError reports missing or malformed tool arguments. The turn loop
// absorbs it like any other tool failure; the type exists so hosts and tests
// can tell bad arguments apart from execution errors.
type ArgumentError struct {
	Tool string
	Err  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// ToolSet is a name→Tool mapping, unique by name, ordered by registration.
type ToolSet struct {
	names []string
	tools map[string]Tool
}

func NewToolSet() *ToolSet {
	return &ToolSet{tools: make(map[string]Tool)}
}

func (s *ToolSet) Register(t Tool) error {
	if t.Name() == "" {
		return fmt.Errorf("tool with empty name")
	}
	if _, ok := s.tools[t.Name()]; ok {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	s.names = append(s.names, t.Name())
	s.tools[t.Name()] = t
	return nil
}

func (s *ToolSet) Get(name string) (Tool, bool) {
	t, ok := s.tools[name]
	return t, ok
}

func (s *ToolSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *ToolSet) Len() int { return len(s.names) }

// Defs builds the tool descriptors handed to the model.
func (s *ToolSet) Defs() []llm.ToolDef {
	defs := make([]llm.ToolDef, 0, len(s.names))
	for _, name := range s.names {
		t := s.tools[name]
		defs = append(defs, llm.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			Schema:      t.InputSchema(),
		})
	}
	return defs
}
