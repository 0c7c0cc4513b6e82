package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Loader handles loading configuration from TOML sources
type Loader struct {
	cfg *Config
}

// GetConfig returns the parsed configuration
func (l *Loader) GetConfig() *Config {
	return l.cfg
}

// NewLoaderFromFilePath loads declared configuration from a TOML file
func NewLoaderFromFilePath(filePath string) (*Loader, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", filePath)
	}

	ext := filepath.Ext(filePath)
	if ext != ".toml" {
		return nil, fmt.Errorf("unsupported config format: %s, only .toml is supported", ext)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return NewLoaderFromBytes(data)
}

// NewLoaderFromReader loads declared configuration from an io.Reader providing TOML data
func NewLoaderFromReader(reader io.Reader) (*Loader, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read config data from reader: %w", err)
	}

	return NewLoaderFromBytes(data)
}

// NewLoaderFromBytes loads declared configuration from TOML bytes
func NewLoaderFromBytes(data []byte) (*Loader, error) {
	// First, extract just the version to check compatibility
	var versionCheck struct {
		Version string `toml:"version"`
	}

	if err := toml.Unmarshal(data, &versionCheck); err != nil {
		return nil, fmt.Errorf("failed to parse version from TOML config: %w", err)
	}

	// An absent version means the latest
	if versionCheck.Version == "" {
		versionCheck.Version = VersionLatest
	}

	if versionCheck.Version != VersionLatest {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigVer, versionCheck.Version)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}
	cfg.Version = versionCheck.Version

	// Expand ${VAR} references in declared paths before anything touches
	// the filesystem.
	for i := range cfg.Modules {
		expanded, err := ExpandEnvVars(cfg.Modules[i].Model)
		if err != nil {
			return nil, fmt.Errorf("module '%s' model path: %w", cfg.Modules[i].Name, err)
		}
		cfg.Modules[i].Model = expanded

		expanded, err = ExpandEnvVars(cfg.Modules[i].Output)
		if err != nil {
			return nil, fmt.Errorf("module '%s' output path: %w", cfg.Modules[i].Name, err)
		}
		cfg.Modules[i].Output = expanded
	}

	return &Loader{cfg: &cfg}, nil
}

// Write persists the configuration back to a TOML file. The scaffolding
// workflow appends new module entries and calls this; dry-run callers must
// not reach here.
func (c *Config) Write(filePath string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file '%s': %w", filePath, err)
	}
	return nil
}
