// Package outline is the IR emitter backend: instead of source code it
// writes a flattened outline of the normalized model, which downstream
// tooling consumes as an intermediate representation.
package outline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/draughtworks/loom/internal/backend"
	"github.com/draughtworks/loom/internal/config"
	"github.com/draughtworks/loom/internal/model"
)

const (
	defaultLiteral   = false
	defaultCheckOnly = false
)

// OutlineFileName is the emitted IR file inside the module output directory.
const OutlineFileName = "outline.json"

// Options are the fully resolved outline settings for one invocation.
type Options struct {
	Literal   bool
	CheckOnly bool
}

// ResolveOptions collapses a (possibly nil) persisted payload into concrete
// values using the shared precedence rule.
func ResolveOptions(opts *config.OutlineOptions) Options {
	if opts == nil {
		opts = &config.OutlineOptions{}
	}
	return Options{
		Literal:   config.ResolveOption(nil, opts.Literal, defaultLiteral),
		CheckOnly: config.ResolveOption(nil, opts.CheckOnly, defaultCheckOnly),
	}
}

// Backend implements the outline emitter capability.
type Backend struct {
	logger *slog.Logger
}

// New creates the outline backend. A nil logger uses the default.
func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

// Kind returns the canonical outline tag.
func (b *Backend) Kind() string { return config.KindOutline }

// Compile emits the model outline under <root>/<outputRoot>/<module>/.
// CheckOnly performs the full walk without emitting; dry-run additionally
// suppresses all writes regardless of options.
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

	opts := ResolveOptions(sel.Outline)

	content, err := b.render(m, opts)
	if err != nil {
		return err
	}

	dir := filepath.Join(pkg.Root, outputRoot, module)
	path := filepath.Join(dir, OutlineFileName)

	logger := b.logger.With("module", module, "backend", config.KindOutline)
	logger.Info("emitting model outline",
		"domain", m.Domain,
		"objects", len(m.Objects),
		"literal", opts.Literal,
		"check_only", opts.CheckOnly,
		"dry_run", dryRun)

	if opts.CheckOnly {
		logger.Info("check-only: model walked, nothing emitted")
		return nil
	}
	if dryRun {
		logger.Info("dry-run: would write", "file", path)
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", dir, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}

// render walks every object and attribute so CheckOnly exercises the same
// paths as a real emit.
func (b *Backend) render(m *model.Model, opts Options) ([]byte, error) {
	if opts.Literal {
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal model: %w", err)
		}
		return data, nil
	}

	type attrIR struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	type objectIR struct {
		Name      string   `json:"name"`
		AttrCount int      `json:"attr_count"`
		Attrs     []attrIR `json:"attrs,omitempty"`
	}
	type outlineIR struct {
		Domain  string     `json:"domain"`
		ID      string     `json:"id"`
		Version string     `json:"version"`
		Objects []objectIR `json:"objects"`
	}

	ir := outlineIR{
		Domain:  m.Domain,
		ID:      m.ID,
		Version: m.Version,
		Objects: make([]objectIR, 0, len(m.Objects)),
	}
	for _, obj := range m.Objects {
		o := objectIR{Name: obj.Name, AttrCount: len(obj.Attributes)}
		for _, attr := range obj.Attributes {
			o.Attrs = append(o.Attrs, attrIR{Name: attr.Name, Type: attr.Type})
		}
		ir.Objects = append(ir.Objects, o)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ir); err != nil {
		return nil, fmt.Errorf("failed to encode outline: %w", err)
	}
	return buf.Bytes(), nil
}
