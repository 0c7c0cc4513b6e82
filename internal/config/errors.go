package config

import "errors"

// Top-level error categories
var (
	ErrFailedToLoadConfig     = errors.New("failed to load config")
	ErrFailedToValidateConfig = errors.New("failed to validate config")
	ErrUnsupportedConfigVer   = errors.New("unsupported config version")
)

// Module resolution errors
var (
	// ErrNothingToDo signals an empty declared module table when a full run
	// was requested. Callers map it to a distinguished exit status.
	ErrNothingToDo = errors.New("no modules declared in config")

	// ErrModuleNotFound is recoverable: a requested name missing from the
	// declared set is logged and skipped, not fatal to the batch.
	ErrModuleNotFound = errors.New("module not found")

	// ErrModuleExists is returned when registering a module whose name is
	// already declared.
	ErrModuleExists = errors.New("module already exists")
)

// Validation specific errors
var (
	ErrDuplicateModule  = errors.New("duplicate module name")
	ErrEmptyModuleName  = errors.New("empty module name")
	ErrMissingModelPath = errors.New("missing model path")
	ErrUnsupportedModel = errors.New("unsupported model file extension")
	ErrInvalidSelection = errors.New("invalid compiler selection")
	ErrUnknownCompiler  = errors.New("unknown compiler kind")
)
