// Package backend models a code generator as a single capability and maps
// canonical compiler kinds to registered implementations. One registry
// serves both the persisted-config path and the CLI-override path.
package backend

import (
	"context"

	"github.com/draughtworks/loom/internal/config"
	"github.com/draughtworks/loom/internal/model"
)

// PackageContext describes the enclosing project a backend generates into.
type PackageContext struct {
	// Name is the enclosing package name, usually the project root's base
	// name.
	Name string
	// Root is the absolute project root. Backends resolve output paths
	// against it and never consult the process working directory.
	Root string
}

// Backend is the single capability every code generator exposes.
type Backend interface {
	// Kind returns the canonical tag this backend registers under.
	Kind() string

	// Compile generates source for one module from the given model. The
	// selection carries this backend's own options payload. When dryRun is
	// set the backend must perform the same validation and logging as a
	// real run while writing nothing.
	Compile(
		ctx context.Context,
		m *model.Model,
		pkg PackageContext,
		module string,
		outputRoot string,
		sel config.Selection,
		dryRun bool,
	) error
}
