package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides. Nested keys are separated by a
// double underscore: ARENA_RUNNER__MAX_STEPS sets runner.max_steps.
const EnvPrefix = "ARENA_"

const (
	AgentRandom   = "random"
	AgentConstant = "constant"
	AgentLLM      = "llm"

	EnvToken = "token"
)

type ExperimentConfig struct {
	Name        string         `koanf:"name"`
	Runner      RunnerConfig   `koanf:"runner"`
	Environment EnvConfig      `koanf:"environment"`
	Agents      []AgentConfig  `koanf:"agents"`
	Provider    ProviderConfig `koanf:"provider"`
	Logging     LogConfig      `koanf:"logging"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // console, json
}

type RunnerConfig struct {
	Repetitions int `koanf:"repetitions"`
	MaxSteps    int `koanf:"max_steps"` // negative means unbounded
}

type EnvConfig struct {
	Type    string `koanf:"type"`
	Rounds  int    `koanf:"rounds"`
	Players int    `koanf:"players"`
}

// AgentConfig describes the agent playing one participant. Delegated agents are owned
// by the environment, the others are handed to the runner.
type AgentConfig struct {
	Name     string `koanf:"name"`
	Type     string `koanf:"type"` // random, constant, llm
	Action   int    `koanf:"action"`
	Seed     int64  `koanf:"seed"`
	Delegate bool   `koanf:"delegate"`
	Task     string `koanf:"task"`
}

type ProviderConfig struct {
	Name    string `koanf:"name"` // openai, gemini
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

func defaults(k *koanf.Koanf) {
	k.Set("name", "token_game")
	k.Set("runner.repetitions", 1)
	k.Set("runner.max_steps", -1)
	k.Set("environment.type", EnvToken)
	k.Set("environment.rounds", 10)
	k.Set("environment.players", 2)
	k.Set("provider.name", "openai")
	k.Set("provider.model", "gpt-4o-mini")
	k.Set("logging.level", "info")
	k.Set("logging.format", "console")
}

// LoadConfig reads defaults, then the YAML file at path if any, then ARENA_ variables.
func LoadConfig(path string) (*ExperimentConfig, error) {
	k := koanf.New(".")
	defaults(k)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg ExperimentConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ExperimentConfig) Validate() error {
	if c.Runner.Repetitions < 1 {
		return fmt.Errorf("runner.repetitions must be at least 1, got %d", c.Runner.Repetitions)
	}
	if c.Environment.Type != EnvToken {
		return fmt.Errorf("unknown environment type %q", c.Environment.Type)
	}
	if c.Environment.Rounds < 1 || c.Environment.Players < 1 {
		return fmt.Errorf("environment needs positive rounds and players, got %d and %d", c.Environment.Rounds, c.Environment.Players)
	}
	seen := make(map[string]bool, len(c.Agents))
	for i, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agents[%d] has no name", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("agent %s is configured twice", a.Name)
		}
		seen[a.Name] = true
		switch a.Type {
		case AgentRandom, AgentConstant, AgentLLM:
		default:
			return fmt.Errorf("agent %s has unknown type %q", a.Name, a.Type)
		}
	}
	return nil
}

// Delegated returns the agents owned by the environment
func (c *ExperimentConfig) Delegated() []AgentConfig {
	var out []AgentConfig
	for _, a := range c.Agents {
		if a.Delegate {
			out = append(out, a)
		}
	}
	return out
}

// External returns the agents handed to the runner
func (c *ExperimentConfig) External() []AgentConfig {
	var out []AgentConfig
	for _, a := range c.Agents {
		if !a.Delegate {
			out = append(out, a)
		}
	}
	return out
}
