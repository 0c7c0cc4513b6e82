package backend

import "errors"

var (
	// ErrUnknownBackend: a selection named a kind with no registered
	// implementation. This is a programming error, never a silent no-op.
	ErrUnknownBackend = errors.New("no backend registered for compiler kind")

	// ErrBackendFailed wraps whatever a generator backend reports.
	ErrBackendFailed = errors.New("backend compilation failed")
)
