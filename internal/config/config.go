package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DefaultLLM string                `toml:"default_llm"`
	LLMs       map[string]*LLMConfig `toml:"llm"`
	Agents     []AgentConfig         `toml:"agent"`
	Turn       TurnConfig            `toml:"turn"`
	Gateway    GatewayConfig         `toml:"gateway"`
	Trace      TraceConfig           `toml:"trace"`
	Tools      ToolsConfig           `toml:"tools"`
}

type LLMConfig struct {
	Provider string `toml:"provider"` // "openai" or "anthropic"
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
}

// AgentConfig declares one agent. Declaration order in the file is the
// order the registry lists agents in.
type AgentConfig struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Prompt      string   `toml:"prompt"`
	Tools       []string `toml:"tools"`
}

type TurnConfig struct {
	MaxRounds int `toml:"max_rounds"`
}

type GatewayConfig struct {
	Addr string `toml:"addr"`
}

type TraceConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
	URLPath  string `toml:"url_path"`
	APIKey   string `toml:"api_key"`
}

type ToolsConfig struct {
	BraveAPIKey string `toml:"brave_api_key"`
	NotesDBPath string `toml:"notes_db_path"`
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields the built-in defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		DefaultLLM: "openai",
		LLMs: map[string]*LLMConfig{
			"openai": {
				Provider: "openai",
				Model:    "gpt-4.1",
			},
			"anthropic": {
				Provider: "anthropic",
				Model:    "claude-sonnet-4-20250514",
			},
		},
		Turn: TurnConfig{
			MaxRounds: 6,
		},
		Gateway: GatewayConfig{
			Addr: ":8373",
		},
		Tools: ToolsConfig{
			NotesDBPath: defaultNotesPath(),
		},
	}

	if path == "" {
		path = configPath()
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.Turn.MaxRounds <= 0 {
		cfg.Turn.MaxRounds = 6
	}

	return cfg, nil
}

// LLM returns the configured LLM block for name, falling back to the
// default block when name is empty.
func (c *Config) LLM(name string) (*LLMConfig, bool) {
	if name == "" {
		name = c.DefaultLLM
	}
	lc, ok := c.LLMs[name]
	return lc, ok
}

func configPath() string {
	dir, _ := os.UserConfigDir()
	return filepath.Join(dir, "magpie", "config.toml")
}

func defaultNotesPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, ".local", "share", "magpie", "notes.db")
}
