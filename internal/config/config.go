// Package config owns the declared loom.toml configuration: the ordered
// module table, compiler selections, and the resolution rules that turn CLI
// requests into effective per-module settings.
package config

import (
	"fmt"
)

// Config version constants
const (
	VersionLatest  = "v1"
	VersionUnknown = "unknown"
)

// Config is the deserialized loom.toml. The `[[modules]]` array of tables
// preserves declaration order, which is the processing order for full runs.
type Config struct {
	Version string       `toml:"version"`
	Modules []ModuleSpec `toml:"modules"`
}

// NewConfig loads and validates configuration from a TOML file
func NewConfig(filePath string) (*Config, error) {
	l, err := NewLoaderFromFilePath(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}

	cfg := l.GetConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToValidateConfig, err)
	}

	return cfg, nil
}

// NewConfigFromBytes loads and validates configuration from TOML bytes
func NewConfigFromBytes(data []byte) (*Config, error) {
	l, err := NewLoaderFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}

	cfg := l.GetConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToValidateConfig, err)
	}

	return cfg, nil
}

// Module returns the declared module with the given name.
func (c *Config) Module(name string) (ModuleSpec, bool) {
	for _, m := range c.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return ModuleSpec{}, false
}
