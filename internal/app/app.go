// Package app wires config, tools, the LLM provider and the agent registry
// into the shared runtime the subcommands start from.
package app

import (
	"fmt"
	"log/slog"

	"magpie/internal/agent"
	"magpie/internal/config"
	"magpie/internal/llm"
	"magpie/internal/notes"
	"magpie/internal/session"
	"magpie/internal/tools"
)

type App struct {
	Config   *config.Config
	Registry *agent.Registry
	Runner   *agent.Runner
	Sessions *session.Store

	notes *notes.Store
}

// Build loads the config at cfgPath (empty means the default location),
// registers the builtin tools and validates the agent definitions.
func Build(cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	lc, ok := cfg.LLM("")
	if !ok {
		return nil, fmt.Errorf("no llm config for default_llm %q", cfg.DefaultLLM)
	}
	provider, err := llm.New(lc.Provider, lc.BaseURL, lc.APIKey, lc.Model)
	if err != nil {
		return nil, err
	}

	noteStore, err := notes.Open(cfg.Tools.NotesDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening notes store: %w", err)
	}

	toolset := agent.NewToolSet()
	for _, t := range []agent.Tool{
		&tools.Calc{},
		tools.NewClock(),
		&tools.File{},
		tools.NewWeb(cfg.Tools.BraveAPIKey),
		tools.NewNoteStore(noteStore),
		tools.NewNoteRecall(noteStore),
	} {
		if err := toolset.Register(t); err != nil {
			noteStore.Close()
			return nil, err
		}
	}

	registry, err := agent.Load(cfg, toolset)
	if err != nil {
		noteStore.Close()
		return nil, err
	}

	slog.Info("registry loaded", "agents", registry.List())

	return &App{
		Config:   cfg,
		Registry: registry,
		Runner:   agent.NewRunner(provider, agent.WithMaxRounds(cfg.Turn.MaxRounds)),
		Sessions: session.NewStore(),
		notes:    noteStore,
	}, nil
}

func (a *App) Close() error {
	return a.notes.Close()
}
