package orchestrator

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/draughtworks/loom/internal/config"
	"github.com/draughtworks/loom/internal/model"
)

//go:embed templates/blank.json
var blankModel []byte

// NewModule scaffolds a module: registers it in the declared configuration,
// writes a blank model file, creates the module's output directory with a
// placeholder doc file, and persists the updated configuration. The
// collision check happens before any filesystem mutation, and dry-run
// performs none at all.
func (o *Orchestrator) NewModule(name, output string) (config.ModuleSpec, error) {
	spec, err := o.cfg.RegisterNewModule(name, output)
	if err != nil {
		return config.ModuleSpec{}, err
	}

	logger := o.logger.With("module", spec.Name)
	logger.Info("scaffolding new module",
		"model", spec.Model,
		"output", spec.OutputRoot(),
		"dry_run", o.dryRun)

	modelPath := filepath.Join(o.root, spec.Model)
	moduleDir := filepath.Join(o.root, spec.OutputRoot(), spec.Name)
	docPath := filepath.Join(moduleDir, "doc.go")

	if o.dryRun {
		logger.Info("dry-run: would write", "file", modelPath)
		logger.Info("dry-run: would create", "dir", moduleDir)
		logger.Info("dry-run: would write", "file", docPath)
		logger.Info("dry-run: would update", "file", o.configPath)
		return spec, nil
	}

	if err := os.MkdirAll(filepath.Dir(modelPath), 0o755); err != nil {
		return config.ModuleSpec{}, fmt.Errorf("failed to create models directory: %w", err)
	}
	if err := os.WriteFile(modelPath, renderBlankModel(name), 0o644); err != nil {
		return config.ModuleSpec{}, fmt.Errorf("failed to write blank model '%s': %w", modelPath, err)
	}

	if err := os.MkdirAll(moduleDir, 0o755); err != nil {
		return config.ModuleSpec{}, fmt.Errorf("failed to create module directory '%s': %w", moduleDir, err)
	}
	if err := os.WriteFile(docPath, renderDocFile(name), 0o644); err != nil {
		return config.ModuleSpec{}, fmt.Errorf("failed to write '%s': %w", docPath, err)
	}

	if err := o.cfg.Write(o.configPath); err != nil {
		return config.ModuleSpec{}, err
	}

	logger.Info("module scaffolded", "model", modelPath)
	return spec, nil
}

// renderBlankModel fills the embedded template with the domain name and its
// deterministic namespace UUID.
func renderBlankModel(name string) []byte {
	var m model.Model
	if err := json.Unmarshal(blankModel, &m); err != nil {
		// The template is embedded; failing to parse it is a build defect.
		panic(fmt.Sprintf("invalid embedded blank model: %v", err))
	}
	m.Domain = name
	m.ID = model.NamespaceID(name).String()

	data, err := json.MarshalIndent(&m, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("failed to render blank model: %v", err))
	}
	return data
}

// renderDocFile emits the placeholder package doc for a scaffolded module.
// The stencil backend overwrites the package on the first generate run.
func renderDocFile(name string) []byte {
	pkg := config.SnakeCase(name)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Package %s holds the generated %s domain.\n", pkg, config.TitleCase(name))
	fmt.Fprintf(&buf, "//\n// Scaffolded by `loom new %q`. Run `loom gen` to populate it.\n", name)
	fmt.Fprintf(&buf, "package %s\n", pkg)
	return buf.Bytes()
}
