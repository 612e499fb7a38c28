package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Limits for the sequence section.
const (
	MaxBarCount = 200
	MinBarValue = 1
)

// Config holds all sortviz configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Sequence generation
	Sequence SequenceConfig `yaml:"sequence"`

	// Animation timing
	Pacing PacingConfig `yaml:"pacing"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// SequenceConfig configures randomize.
type SequenceConfig struct {
	Count    int `yaml:"count"`     // bars per randomize
	MinValue int `yaml:"min_value"` // inclusive
	MaxValue int `yaml:"max_value"` // inclusive
}

// PacingConfig configures step suspensions.
type PacingConfig struct {
	StepDelay string  `yaml:"step_delay"` // after each highlight / write
	SwapDelay string  `yaml:"swap_delay"` // positional swaps in quick sort
	Speed     float64 `yaml:"speed"`      // divides every delay
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "sortviz",
		Version: "1.0.0",

		Sequence: SequenceConfig{
			Count:    25,
			MinValue: 1,
			MaxValue: 100,
		},

		Pacing: PacingConfig{
			StepDelay: "250ms",
			SwapDelay: "500ms",
			Speed:     1.0,
		},

		UI: *DefaultUIConfig(),

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			DebugMode: false,
		},
	}
}

// DefaultPath returns .sortviz/config.yaml under the working directory.
func DefaultPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".sortviz", "config.yaml")
	}
	return filepath.Join(cwd, ".sortviz", "config.yaml")
}

// LogsDir returns the logs directory next to the config file.
func LogsDir(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "logs")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// YAML returns the config as YAML text.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SORTVIZ_STEP_DELAY"); v != "" {
		c.Pacing.StepDelay = v
	}
	if v := os.Getenv("SORTVIZ_SWAP_DELAY"); v != "" {
		c.Pacing.SwapDelay = v
	}
	if v := os.Getenv("SORTVIZ_SPEED"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Pacing.Speed = f
		}
	}
	if v := os.Getenv("SORTVIZ_BAR_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Sequence.Count = n
		}
	}
	if v := os.Getenv("SORTVIZ_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("SORTVIZ_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

// GetStepDelay returns the step delay as a duration.
func (c *Config) GetStepDelay() time.Duration {
	d, err := time.ParseDuration(c.Pacing.StepDelay)
	if err != nil {
		return 250 * time.Millisecond
	}
	return d
}

// GetSwapDelay returns the positional swap delay as a duration.
func (c *Config) GetSwapDelay() time.Duration {
	d, err := time.ParseDuration(c.Pacing.SwapDelay)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// GetSpeed returns the speed multiplier, never below or at zero.
func (c *Config) GetSpeed() float64 {
	if c.Pacing.Speed <= 0 {
		return 1.0
	}
	return c.Pacing.Speed
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Sequence.Count < 1 || c.Sequence.Count > MaxBarCount {
		return fmt.Errorf("sequence.count must be in [1, %d], got %d", MaxBarCount, c.Sequence.Count)
	}
	if c.Sequence.MinValue < MinBarValue {
		return fmt.Errorf("sequence.min_value must be >= %d, got %d", MinBarValue, c.Sequence.MinValue)
	}
	if c.Sequence.MinValue > c.Sequence.MaxValue {
		return fmt.Errorf("sequence.min_value (%d) exceeds max_value (%d)", c.Sequence.MinValue, c.Sequence.MaxValue)
	}
	if c.Pacing.Speed <= 0 {
		return fmt.Errorf("pacing.speed must be positive, got %v", c.Pacing.Speed)
	}
	for name, v := range map[string]string{"pacing.step_delay": c.Pacing.StepDelay, "pacing.swap_delay": c.Pacing.SwapDelay} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, v)
		}
	}
	if err := c.UI.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
