package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// ResolveModules returns the effective module set for one run, in a stable
// order: declaration order when requested is nil, requested order otherwise.
//
// With an explicit name list, blank entries are skipped and unknown names
// are logged at warn level and skipped; the result may be empty and the
// caller decides whether that matters. With no list, an empty declared table
// is the distinguished ErrNothingToDo condition.
func (c *Config) ResolveModules(requested []string) ([]ModuleSpec, error) {
	if requested == nil {
		if len(c.Modules) == 0 {
			return nil, ErrNothingToDo
		}
		out := make([]ModuleSpec, len(c.Modules))
		copy(out, c.Modules)
		return out, nil
	}

	out := make([]ModuleSpec, 0, len(requested))
	for _, name := range requested {
		// Spaces around commas in the CLI list arrive as blank or padded
		// entries.
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		mod, ok := c.Module(name)
		if !ok {
			slog.Warn("skipping requested module",
				"module", name,
				"error", fmt.Errorf("%w: %s", ErrModuleNotFound, name))
			continue
		}
		out = append(out, mod)
	}
	return out, nil
}

// ResolveOption implements the three-tier option precedence: an explicit
// command-line value wins over the persisted per-module value, which wins
// over the hardcoded default. Resolution is total; a value always comes out.
func ResolveOption[T any](explicit, persisted *T, def T) T {
	if explicit != nil {
		return *explicit
	}
	if persisted != nil {
		return *persisted
	}
	return def
}

// RegisterNewModule appends a module entry with default settings and a
// deterministic model location derived from the name. An empty output uses
// the default generated-source root. The caller persists the updated config
// (and honors dry-run) itself.
func (c *Config) RegisterNewModule(name, output string) (ModuleSpec, error) {
	if _, ok := c.Module(name); ok {
		return ModuleSpec{}, fmt.Errorf("%w: %s", ErrModuleExists, name)
	}
	if output == "" {
		output = DefaultOutput
	}

	mod := ModuleSpec{
		Name:     name,
		Model:    filepath.Join(ModelDir, SnakeCase(name)+ModelExt),
		Output:   output,
		Compiler: DefaultSelection(),
	}
	c.Modules = append(c.Modules, mod)
	return mod, nil
}
