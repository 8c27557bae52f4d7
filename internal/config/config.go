// Package config loads unit-wide settings from a sable.yaml file: the
// default empty-default policy for delegate calls, per-package priority
// overrides, and global identifier bindings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sable-lang/sable/internal/exprtree"
)

// DefaultFileName is the file looked up when no explicit path is given.
const DefaultFileName = "sable.yaml"

// Config is the unit configuration. The zero value is a valid default.
type Config struct {
	// AllowEmptyDefault decides delegate calls that did not write
	// allowemptydefault themselves.
	AllowEmptyDefault bool `yaml:"allowEmptyDefault"`
	// DelegatePackages overrides the priority of whole delegate packages,
	// keyed by package name.
	DelegatePackages map[string]int `yaml:"delegatePackages"`
	// Globals binds dotted identifiers to expression text. Global
	// references in templates are checked against this set.
	Globals map[string]string `yaml:"globals"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{}
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes configuration bytes. The path is used in error messages
// only.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for name, priority := range c.DelegatePackages {
		if !exprtree.IsIdentifier(name) {
			return fmt.Errorf("invalid delegate package name %q", name)
		}
		if priority < 0 || priority > 1 {
			return fmt.Errorf("delegate package %q: priority must be 0 or 1, got %d", name, priority)
		}
	}
	for name, value := range c.Globals {
		if !exprtree.IsDottedIdentifier(name) {
			return fmt.Errorf("invalid global name %q", name)
		}
		if _, err := exprtree.Parse(value); err != nil {
			return fmt.Errorf("global %q: %w", name, err)
		}
	}
	return nil
}
