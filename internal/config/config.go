// Package config handles configuration loading for burrow. It supports XDG
// config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/burrowtool/burrow/pkg/models"
)

// Config holds all configuration for burrow.
type Config struct {
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Agents   AgentsConfig   `mapstructure:"agents"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DefaultsConfig holds defaults applied to spawn requests.
type DefaultsConfig struct {
	// Agent is the agent type used when none is named.
	Agent string `mapstructure:"agent"`
	// BaseBranch is the base for new worktree branches; empty means the
	// repository's current branch.
	BaseBranch string `mapstructure:"base_branch"`
}

// AgentsConfig holds how agents are launched.
type AgentsConfig struct {
	NewWindow bool `mapstructure:"new_window"`
	Wait      bool `mapstructure:"wait"`
	Detach    bool `mapstructure:"detach"`
}

// MonitorConfig holds default listing filters.
type MonitorConfig struct {
	// OnlyOurs limits listings to agents spawned by burrow itself.
	OnlyOurs bool `mapstructure:"only_ours"`
	// OnlyWaiting limits listings to agents attached to a terminal.
	OnlyWaiting bool `mapstructure:"only_waiting"`
}

// LoggingConfig holds debug log settings.
type LoggingConfig struct {
	// Debug enables the per-repository debug log file.
	Debug bool `mapstructure:"debug"`
}

// AgentOptions converts the configured launch defaults into the shape the
// launcher consumes.
func (c *Config) AgentOptions() models.AgentOptions {
	return models.AgentOptions{
		NewWindow: c.Agents.NewWindow,
		Wait:      c.Agents.Wait,
		Detach:    c.Agents.Detach,
	}
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables. Precedence (highest to lowest):
// 1. Environment variables (BURROW_*)
// 2. Project config (.burrow.yaml in current directory or a parent)
// 3. User config (~/.config/burrow/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("BURROW")
	v.AutomaticEnv()
	v.BindEnv("defaults.agent", "BURROW_AGENT")
	v.BindEnv("defaults.base_branch", "BURROW_BASE_BRANCH")
	v.BindEnv("logging.debug", "BURROW_DEBUG")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// setDefaults configures default values. Launch flag defaults come from
// the models package so the launcher and config never disagree.
func setDefaults(v *viper.Viper) {
	v.SetDefault("defaults.agent", "cursor-agent")
	v.SetDefault("defaults.base_branch", "")

	opts := models.DefaultAgentOptions()
	v.SetDefault("agents.new_window", opts.NewWindow)
	v.SetDefault("agents.wait", opts.Wait)
	v.SetDefault("agents.detach", opts.Detach)

	v.SetDefault("monitor.only_ours", true)
	v.SetDefault("monitor.only_waiting", false)

	v.SetDefault("logging.debug", false)
}

// getUserConfigDir returns the XDG config directory for burrow.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "burrow")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "burrow")
	}
	return filepath.Join(home, ".config", "burrow")
}

// findProjectConfig searches for .burrow.yaml in the current directory and
// its parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".burrow.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	opts := models.DefaultAgentOptions()
	return &Config{
		Defaults: DefaultsConfig{Agent: "cursor-agent"},
		Agents:   AgentsConfig{NewWindow: opts.NewWindow, Wait: opts.Wait, Detach: opts.Detach},
		Monitor:  MonitorConfig{OnlyOurs: true},
	}
}
