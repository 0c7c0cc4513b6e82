// Package stencil is the general-purpose source generator backend. It emits
// a Go package skeleton per module: a doc.go carrying the domain identity,
// type definitions for every modeled object, and optionally constructors
// and documentation tests.
package stencil

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/draughtworks/loom/internal/backend"
	"github.com/draughtworks/loom/internal/config"
	"github.com/draughtworks/loom/internal/model"
)

// Option defaults, applied when neither the command line nor the module
// config sets a value.
const (
	defaultMeta         = false
	defaultDocTests     = false
	defaultConstructors = true
)

// Options are the fully resolved stencil settings for one invocation.
type Options struct {
	Meta         bool
	DocTests     bool
	Constructors bool
}

// ResolveOptions collapses a (possibly nil) persisted payload into concrete
// values using the shared precedence rule.
func ResolveOptions(opts *config.StencilOptions) Options {
	if opts == nil {
		opts = &config.StencilOptions{}
	}
	return Options{
		Meta:         config.ResolveOption(nil, opts.Meta, defaultMeta),
		DocTests:     config.ResolveOption(nil, opts.DocTests, defaultDocTests),
		Constructors: config.ResolveOption(nil, opts.Constructors, defaultConstructors),
	}
}

// Backend implements the stencil generator capability.
type Backend struct {
	logger *slog.Logger
}

// New creates the stencil backend. A nil logger uses the default.
func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

// Kind returns the canonical stencil tag.
func (b *Backend) Kind() string { return config.KindStencil }

// Compile writes the generated package for one module under
// <root>/<outputRoot>/<module>/. Output depends only on the model and the
// resolved options, so unchanged inputs produce byte-identical files.
func (b *Backend) Compile(
	ctx context.Context,
	m *model.Model,
	pkg backend.PackageContext,
	module string,
	outputRoot string,
	sel config.Selection,
	dryRun bool,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("nil model for module '%s'", module)
	}

	opts := ResolveOptions(sel.Stencil)
	dir := filepath.Join(pkg.Root, outputRoot, module)

	// Fixed file names; a module name can never collide with them.
	files := map[string][]byte{
		"doc.go":   b.docFile(m, pkg, module, opts),
		"types.go": b.typesFile(m, module, opts),
	}
	if opts.DocTests {
		files["types_test.go"] = b.docTestsFile(m, module)
	}

	logger := b.logger.With("module", module, "backend", config.KindStencil)
	logger.Info("generating source",
		"domain", m.Domain,
		"objects", len(m.Objects),
		"output", dir,
		"dry_run", dryRun)

	if dryRun {
		for name := range files {
			logger.Info("dry-run: would write", "file", filepath.Join(dir, name))
		}
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", dir, err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("failed to write '%s': %w", path, err)
		}
		logger.Debug("wrote", "file", path)
	}
	return nil
}

func (b *Backend) docFile(m *model.Model, pkg backend.PackageContext, module string, opts Options) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Package %s holds the generated %s domain.\n", module, config.TitleCase(m.Domain))
	fmt.Fprintf(&buf, "//\n// Generated from model %q for package %q. Do not edit.\n", m.Domain, pkg.Name)
	fmt.Fprintf(&buf, "package %s\n\n", module)
	fmt.Fprintf(&buf, "// DomainID is the namespace UUID of the %s domain.\n", m.Domain)
	fmt.Fprintf(&buf, "const DomainID = %q\n\n", m.ID)
	fmt.Fprintf(&buf, "// DomainVersion is the model version this package was generated from.\n")
	fmt.Fprintf(&buf, "const DomainVersion = %q\n", m.Version)
	if opts.Meta {
		fmt.Fprintf(&buf, "\n// MetaDomain marks this package as participating in cross-domain imports.\n")
		fmt.Fprintf(&buf, "const MetaDomain = true\n")
	}
	return buf.Bytes()
}

func (b *Backend) typesFile(m *model.Model, module string, opts Options) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package %s\n", module)
	for _, obj := range m.Objects {
		typeName := goTypeName(obj.Name)
		fmt.Fprintf(&buf, "\n// %s is generated from the %q object.\n", typeName, obj.Name)
		if obj.Description != "" {
			fmt.Fprintf(&buf, "// %s\n", obj.Description)
		}
		fmt.Fprintf(&buf, "type %s struct {\n", typeName)
		for _, attr := range obj.Attributes {
			fmt.Fprintf(&buf, "\t%s %s\n", goTypeName(attr.Name), goType(attr.Type))
		}
		fmt.Fprintf(&buf, "}\n")

		if opts.Constructors {
			fmt.Fprintf(&buf, "\n// New%s creates a %s with the given attribute values.\n", typeName, typeName)
			fmt.Fprintf(&buf, "func New%s(", typeName)
			for i, attr := range obj.Attributes {
				if i > 0 {
					fmt.Fprint(&buf, ", ")
				}
				fmt.Fprintf(&buf, "%s %s", paramName(attr.Name), goType(attr.Type))
			}
			fmt.Fprintf(&buf, ") %s {\n\treturn %s{\n", typeName, typeName)
			for _, attr := range obj.Attributes {
				fmt.Fprintf(&buf, "\t\t%s: %s,\n", goTypeName(attr.Name), paramName(attr.Name))
			}
			fmt.Fprintf(&buf, "\t}\n}\n")
		}
	}
	return buf.Bytes()
}

func (b *Backend) docTestsFile(m *model.Model, module string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package %s\n\nimport \"testing\"\n", module)
	for _, obj := range m.Objects {
		typeName := goTypeName(obj.Name)
		fmt.Fprintf(&buf, "\nfunc Test%sZeroValue(t *testing.T) {\n", typeName)
		fmt.Fprintf(&buf, "\tvar v %s\n\t_ = v\n}\n", typeName)
	}
	return buf.Bytes()
}
