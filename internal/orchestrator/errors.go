package orchestrator

import "errors"

var (
	// ErrModelsDirMissing: the models directory is absent from the project
	// root. Structural, reported before any module is attempted.
	ErrModelsDirMissing = errors.New("models directory not found")

	// ErrModuleFailed wraps a per-module pipeline failure. A failed rebuild
	// leaves stale generated output next to a changed model, so it aborts
	// the whole run.
	ErrModuleFailed = errors.New("module processing failed")
)
