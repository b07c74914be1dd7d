package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the well-known config file name in the project root.
const DefaultPath = "storyloom.yaml"

// Duration decodes "500ms"-style YAML scalars. yaml.v3 only maps bare
// integers onto time.Duration, which reads as nanoseconds and is never
// what a config author means.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type ProjectConfig struct {
	Project string       `yaml:"project"`
	Version int          `yaml:"version"`
	Bridge  BridgeConfig `yaml:"bridge"`
	Story   StoryConfig  `yaml:"story"`
}

// BridgeConfig locates the two mailbox files and sets the polling
// cadence of each side. Both processes must load the same config (or at
// least agree on dir and file names) for the bridge to connect.
type BridgeConfig struct {
	Dir             string   `yaml:"dir"`
	StateFile       string   `yaml:"state_file"`
	CommandFile     string   `yaml:"command_file"`
	StatePoll       Duration `yaml:"state_poll"`
	CommandPoll     Duration `yaml:"command_poll"`
	StalenessWindow Duration `yaml:"staleness_window"`
}

type StoryConfig struct {
	Archive string `yaml:"archive"`
	Start   string `yaml:"start"`
}

func (b BridgeConfig) StatePath() string {
	return filepath.Join(b.Dir, b.StateFile)
}

func (b BridgeConfig) CommandPath() string {
	return filepath.Join(b.Dir, b.CommandFile)
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyDefaults(&cfg)
	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if cfg.Bridge.Dir == "" {
		cfg.Bridge.Dir = ".storyloom"
	}
	if cfg.Bridge.StateFile == "" {
		cfg.Bridge.StateFile = "state.json"
	}
	if cfg.Bridge.CommandFile == "" {
		cfg.Bridge.CommandFile = "commands.json"
	}
	if cfg.Bridge.StatePoll == 0 {
		cfg.Bridge.StatePoll = Duration(2 * time.Second)
	}
	if cfg.Bridge.CommandPoll == 0 {
		cfg.Bridge.CommandPoll = Duration(500 * time.Millisecond)
	}
	if cfg.Bridge.StalenessWindow == 0 {
		cfg.Bridge.StalenessWindow = Duration(30 * time.Second)
	}
	if cfg.Story.Start == "" {
		cfg.Story.Start = "start"
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if cfg.Bridge.StateFile == cfg.Bridge.CommandFile {
		return fmt.Errorf("state_file and command_file must differ")
	}
	if cfg.Bridge.StatePoll < 0 || cfg.Bridge.CommandPoll < 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	if cfg.Bridge.StalenessWindow < 0 {
		return fmt.Errorf("staleness_window must not be negative")
	}
	return nil
}
