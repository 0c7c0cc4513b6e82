package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/draughtworks/loom/internal/config"
	"github.com/draughtworks/loom/internal/model"
)

// Registry maps canonical compiler kinds to backend capabilities. Backends
// are stateless and reused across modules.
type Registry struct {
	backends map[string]Backend
	logger   *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger uses the default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		backends: make(map[string]Backend),
		logger:   logger,
	}
}

// Register adds a backend under its canonical kind. Registering the same
// kind twice is a wiring bug, so it panics.
func (r *Registry) Register(b Backend) {
	kind := b.Kind()
	if _, exists := r.backends[kind]; exists {
		panic(fmt.Sprintf("backend kind %q registered twice", kind))
	}
	r.backends[kind] = b
}

// Kinds returns the registered kinds, for diagnostics.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.backends))
	for k := range r.backends {
		kinds = append(kinds, k)
	}
	return kinds
}

// Dispatch matches the tagged selection to its backend and invokes it with
// that backend's own options payload.
func (r *Registry) Dispatch(
	ctx context.Context,
	sel config.Selection,
	m *model.Model,
	pkg PackageContext,
	module string,
	outputRoot string,
	dryRun bool,
) error {
	kind := sel.Kind()
	b, ok := r.backends[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBackend, kind)
	}

	r.logger.Debug("dispatching module to backend",
		"module", module,
		"backend", kind,
		"domain", m.Domain,
		"dry_run", dryRun)

	if err := b.Compile(ctx, m, pkg, module, outputRoot, sel, dryRun); err != nil {
		return fmt.Errorf("%w: %s (module '%s'): %w", ErrBackendFailed, kind, module, err)
	}
	return nil
}
