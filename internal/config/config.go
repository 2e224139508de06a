// Package config reads vesper.yaml, the optional per-project run configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up next to the script.
const FileName = "vesper.yaml"

// Config holds the settings a run can take from vesper.yaml. Flags given on the
// command line take precedence over the file.
type Config struct {
	// Entry is the parameterless function called first. Defaults to "main".
	Entry string `yaml:"entry,omitempty"`

	// Seed makes random deterministic when set.
	Seed *uint64 `yaml:"seed,omitempty"`

	// MaxDepth limits nested user function calls; 0 means unlimited.
	MaxDepth int `yaml:"max_depth,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`
	NoColor bool `yaml:"no_color,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads the configuration at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	return Parse(data, path)
}

// Parse decodes vesper.yaml content. The path is used only in error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.validate(path); err != nil {
		return nil, err
	}

	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("%s: max_depth must not be negative, got %d", path, c.MaxDepth)
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.Entry == "" {
		c.Entry = "main"
	}
}
