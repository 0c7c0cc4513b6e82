package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// ModelExt is the only recognized source model extension.
	ModelExt = ".json"

	// ModelDir is the conventional model directory under the project root.
	ModelDir = "models"

	// DefaultOutput is the generated-source root used when a module does not
	// declare one.
	DefaultOutput = "src"
)

// Canonical compiler kinds. These tags key the backend registry and the
// `[modules.compiler.<kind>]` tables in loom.toml.
const (
	KindStencil = "stencil"
	KindOutline = "outline"
)

// ModuleSpec is one declared module: a named unit of generated source bound
// to one model file and one compiler selection.
type ModuleSpec struct {
	Name     string    `toml:"name"`
	Model    string    `toml:"model"`
	Output   string    `toml:"output,omitempty"`
	Compiler Selection `toml:"compiler,omitempty"`
}

// OutputRoot returns the declared generated-source root, or the default.
func (m ModuleSpec) OutputRoot() string {
	if m.Output == "" {
		return DefaultOutput
	}
	return m.Output
}

// Validate checks a single module entry. Name uniqueness across the module
// set is checked by Config.Validate.
func (m ModuleSpec) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyModuleName
	}
	if m.Model == "" {
		return fmt.Errorf("%w: module '%s'", ErrMissingModelPath, m.Name)
	}
	if ext := filepath.Ext(m.Model); ext != ModelExt {
		return fmt.Errorf("%w: module '%s' model '%s' (want %s)",
			ErrUnsupportedModel, m.Name, m.Model, ModelExt)
	}
	if err := m.Compiler.Validate(); err != nil {
		return fmt.Errorf("module '%s': %w", m.Name, err)
	}
	return nil
}

// Selection is a tagged choice of compiler backend. At most one payload may
// be set; an empty selection means the default backend with default options.
type Selection struct {
	Stencil *StencilOptions `toml:"stencil,omitempty"`
	Outline *OutlineOptions `toml:"outline,omitempty"`
}

// DefaultSelection returns the selection used for newly scaffolded modules.
func DefaultSelection() Selection {
	return Selection{Stencil: &StencilOptions{}}
}

// IsZero reports whether no backend kind has been chosen.
func (s Selection) IsZero() bool {
	return s.Stencil == nil && s.Outline == nil
}

// Kind returns the canonical tag of the active backend. An empty selection
// resolves to the default stencil backend.
func (s Selection) Kind() string {
	switch {
	case s.Outline != nil:
		return KindOutline
	default:
		return KindStencil
	}
}

// Validate ensures at most one backend payload is present.
func (s Selection) Validate() error {
	if s.Stencil != nil && s.Outline != nil {
		return fmt.Errorf("%w: both stencil and outline options set", ErrInvalidSelection)
	}
	return nil
}

// StencilOptions configure the general-purpose source generator. Unset
// fields fall back to the backend's defaults via ResolveOption.
type StencilOptions struct {
	// Meta enables output for meta domains, which affects how objects are
	// imported across domains.
	Meta *bool `toml:"meta,omitempty"`
	// DocTests emits documentation tests for generated constructors and
	// relationship navigation helpers.
	DocTests *bool `toml:"doc_tests,omitempty"`
	// Constructors controls emitting constructor functions. DocTests relies
	// on this; this does not rely on DocTests.
	Constructors *bool `toml:"constructors,omitempty"`
}

// OutlineOptions configure the IR/outline emitter.
type OutlineOptions struct {
	// Literal dumps the normalized model verbatim instead of the summarized
	// outline.
	Literal *bool `toml:"literal,omitempty"`
	// CheckOnly parses and type-checks the model without emitting anything.
	CheckOnly *bool `toml:"check_only,omitempty"`
}
