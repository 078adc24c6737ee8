// Package config handles reading swarm configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for a swarm config file.
type Config struct {
	// MaxInbox bounds each recipient's message queue.
	MaxInbox int `yaml:"max_inbox"`
	// WakeTemplate renders the wake prompt; it receives {{.Sender}}.
	WakeTemplate string `yaml:"wake_template"`
	// Model is the default model passed to the host adapter.
	Model   string        `yaml:"model"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls the built-in structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | text
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		MaxInbox: 50,
		Logging:  LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads a YAML config file, layered over Default.
// Returns an error if the file is not found or the YAML is malformed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.MaxInbox <= 0 {
		return fmt.Errorf("max_inbox must be positive, got %d", c.MaxInbox)
	}
	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	return nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
