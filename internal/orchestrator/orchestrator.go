// Package orchestrator drives the generate operation: it walks the resolved
// module set in order and, for each module, runs the staleness check,
// rebuild, and backend dispatch pipeline tracked by a per-module state
// machine. Modules are independent and processed one at a time.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/draughtworks/loom/internal/backend"
	"github.com/draughtworks/loom/internal/config"
	"github.com/draughtworks/loom/internal/modelcache"
	"github.com/draughtworks/loom/internal/orchestrator/finitestate"
)

// Orchestrator coordinates config resolution, the model cache, and the
// backend registry for one run. The project root is threaded explicitly;
// nothing here mutates process-wide state.
type Orchestrator struct {
	cfg        *config.Config
	cache      *modelcache.Cache
	registry   *backend.Registry
	logger     *slog.Logger
	root       string
	configPath string
	dryRun     bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used by the orchestrator and its pipeline
// state machines.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithCache sets the model cache.
func WithCache(cache *modelcache.Cache) Option {
	return func(o *Orchestrator) { o.cache = cache }
}

// WithRegistry sets the backend registry.
func WithRegistry(registry *backend.Registry) Option {
	return func(o *Orchestrator) { o.registry = registry }
}

// WithRoot sets the project root all paths resolve against.
func WithRoot(root string) Option {
	return func(o *Orchestrator) { o.root = root }
}

// WithConfigPath sets where the declared configuration is persisted, for
// the new-module write-back.
func WithConfigPath(path string) Option {
	return func(o *Orchestrator) { o.configPath = path }
}

// WithDryRun suppresses every filesystem mutation while keeping validation
// and logging identical to a real run.
func WithDryRun(dryRun bool) Option {
	return func(o *Orchestrator) { o.dryRun = dryRun }
}

// New creates an Orchestrator for the given declared configuration.
func New(cfg *config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		logger: slog.Default(),
		root:   ".",
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.cache == nil {
		o.cache = modelcache.New(nil, o.logger)
	}
	if o.registry == nil {
		o.registry = backend.NewRegistry(o.logger)
	}
	if o.configPath == "" {
		o.configPath = filepath.Join(o.root, "loom.toml")
	}
	return o
}

// Result is the outcome of one module's pipeline.
type Result struct {
	Module  string
	Backend string
	State   string
	Rebuilt bool
	Err     error
}

// Generate processes the requested modules (nil means every declared one)
// in a stable order. A non-zero override selection replaces each module's
// declared backend for this run only, and only when an explicit module
// list was given; on a full run the override is ignored with a warning.
// Processing stops at the first module failure; the results collected so
// far are returned alongside the error.
func (o *Orchestrator) Generate(
	ctx context.Context,
	requested []string,
	override config.Selection,
) ([]Result, error) {
	if requested == nil && !override.IsZero() {
		o.logger.Warn("backend override requires an explicit module list, ignoring",
			"override", override.Kind())
		override = config.Selection{}
	}

	specs, err := o.cfg.ResolveModules(requested)
	if err != nil {
		return nil, err
	}

	// Structural check before touching any module: the models directory
	// holds both sources and derived artifacts. An empty resolved set (every
	// requested name unknown) performs no I/O at all.
	if len(specs) > 0 {
		modelDir := filepath.Join(o.root, config.ModelDir)
		if info, err := os.Stat(modelDir); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrModelsDirMissing, modelDir)
		}
	}

	results := make([]Result, 0, len(specs))
	for _, spec := range specs {
		res := o.processModule(ctx, spec, override)
		results = append(results, res)
		if res.Err != nil {
			return results, fmt.Errorf("%w: %s: %w", ErrModuleFailed, spec.Name, res.Err)
		}
	}
	return results, nil
}

// processModule runs one module through the pipeline. The state machine is
// per module; a failure at any step lands in the absorbing error state.
func (o *Orchestrator) processModule(
	ctx context.Context,
	spec config.ModuleSpec,
	override config.Selection,
) Result {
	sel := config.MergeSelections(override, spec.Compiler)
	res := Result{Module: spec.Name, Backend: sel.Kind()}

	machine, err := finitestate.New(o.logger.Handler())
	if err != nil {
		res.State = finitestate.StateError
		res.Err = err
		return res
	}

	fail := func(err error) Result {
		_ = machine.Transition(finitestate.StateError)
		res.State = machine.GetState()
		res.Err = err
		return res
	}

	logger := o.logger.With("module", spec.Name, "backend", res.Backend)
	logger.Info("processing module", "model", spec.Model, "dry_run", o.dryRun)

	if err := machine.Transition(finitestate.StateChecking); err != nil {
		return fail(err)
	}

	modelPath := filepath.Join(o.root, spec.Model)
	derivedRoot := filepath.Join(o.root, config.ModelDir)
	m, rebuilt, err := o.cache.EnsureFresh(modelPath, derivedRoot, o.dryRun)
	if err != nil {
		return fail(err)
	}
	res.Rebuilt = rebuilt

	next := finitestate.StateCacheHit
	if rebuilt {
		next = finitestate.StateRebuilt
	}
	if err := machine.Transition(next); err != nil {
		return fail(err)
	}

	pkg := backend.PackageContext{
		Name: filepath.Base(o.root),
		Root: o.root,
	}
	if err := o.registry.Dispatch(ctx, sel, m, pkg, spec.Name, spec.OutputRoot(), o.dryRun); err != nil {
		return fail(err)
	}

	if err := machine.Transition(finitestate.StateDispatched); err != nil {
		return fail(err)
	}
	if err := machine.Transition(finitestate.StateDone); err != nil {
		return fail(err)
	}

	logger.Info("module done", "rebuilt", rebuilt)
	res.State = machine.GetState()
	return res
}
