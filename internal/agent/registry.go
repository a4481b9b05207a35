package agent

import (
	"errors"
	"fmt"
	"strings"

	"magpie/internal/config"
)

// Registry holds the loaded agents. It is immutable once built: a reload
// builds a complete new Registry and the caller swaps the pointer, so
// readers never observe a half-updated set.
type Registry struct {
	names  []string
	agents map[string]*Agent
}

// Load builds a registry from the configured agent definitions, resolving
// tool names against the host-supplied toolset. Any invalid definition fails
// the whole load; all findings are reported together.
func Load(cfg *config.Config, tools *ToolSet) (*Registry, error) {
	reg := &Registry{agents: make(map[string]*Agent)}
	var errs []error

	for _, ac := range cfg.Agents {
		name := strings.TrimSpace(ac.Name)
		if name == "" {
			errs = append(errs, &ConfigError{Kind: KindEmptyAgentName})
			continue
		}
		if _, dup := reg.agents[name]; dup {
			errs = append(errs, &ConfigError{Kind: KindDuplicateAgent, Agent: name})
			continue
		}
		if strings.TrimSpace(ac.Prompt) == "" {
			errs = append(errs, &ConfigError{Kind: KindEmptyPrompt, Agent: name})
		}

		scoped := NewToolSet()
		seen := make(map[string]bool)
		for _, tn := range ac.Tools {
			if seen[tn] {
				errs = append(errs, &ConfigError{Kind: KindDuplicateTool, Agent: name, Detail: tn})
				continue
			}
			seen[tn] = true
			t, ok := tools.Get(tn)
			if !ok {
				errs = append(errs, &ConfigError{Kind: KindUnknownTool, Agent: name, Detail: tn})
				continue
			}
			if err := scoped.Register(t); err != nil {
				errs = append(errs, err)
			}
		}

		reg.names = append(reg.names, name)
		reg.agents[name] = &Agent{
			Name:        name,
			Description: ac.Description,
			Prompt:      ac.Prompt,
			Tools:       scoped,
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return reg, nil
}

// Get looks up an agent by exact name.
func (r *Registry) Get(name string) (*Agent, error) {
	ag, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAgentNotFound, name)
	}
	return ag, nil
}

// List returns agent names in declaration order. The result is a copy and
// is stable across calls for a given registry.
func (r *Registry) List() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Agents returns the agents in declaration order.
func (r *Registry) Agents() []*Agent {
	out := make([]*Agent, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.agents[name])
	}
	return out
}
