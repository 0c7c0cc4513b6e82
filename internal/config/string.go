package config

import (
	"fmt"

	"github.com/draughtworks/loom/internal/fancy"
)

// String returns a pretty-printed tree representation of the config
func (c *Config) String() string {
	return ConfigTree(c)
}

// ConfigTree converts a Config struct into a rendered tree string
func ConfigTree(cfg *Config) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("Loom Config (%s)", cfg.Version)))

	modules := fancy.BranchNode("Modules", fmt.Sprintf("(%d)", len(cfg.Modules)))
	for _, mod := range cfg.Modules {
		modules.Child(mod.ToTree())
	}
	t.Child(modules)

	return t.String()
}

// ToTree returns a tree node describing one module entry
func (m ModuleSpec) ToTree() any {
	t := fancy.Tree()
	t.Root(fancy.ModuleStyle.Render(m.Name))
	t.Child(fmt.Sprintf("Model: %s", m.Model))
	t.Child(fmt.Sprintf("Output: %s", m.OutputRoot()))
	t.Child(fmt.Sprintf("Compiler: %s", fancy.BackendStyle.Render(m.Compiler.Kind())))
	return t
}
