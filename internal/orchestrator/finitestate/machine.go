// Package finitestate tracks one module's progress through a generate run.
package finitestate

import (
	"log/slog"

	"github.com/robbyt/go-fsm"
)

// Pipeline state constants
const (
	StateResolved   = "resolved"   // Module settings resolved from config
	StateChecking   = "checking"   // Staleness check in progress
	StateRebuilt    = "rebuilt"    // Derived model was rebuilt from source
	StateCacheHit   = "cache_hit"  // Derived model reused as-is
	StateDispatched = "dispatched" // Backend invocation finished
	StateDone       = "done"       // Module fully processed (terminal state)

	// Error state, reachable from every non-terminal step
	StateError = "error" // Unrecoverable for this module (terminal state)
)

// PipelineTransitions defines the valid state transitions for one module's
// generate pipeline.
var PipelineTransitions = map[string][]string{
	StateResolved:   {StateChecking, StateError},
	StateChecking:   {StateRebuilt, StateCacheHit, StateError},
	StateRebuilt:    {StateDispatched, StateError},
	StateCacheHit:   {StateDispatched, StateError},
	StateDispatched: {StateDone, StateError},
	StateDone:       {}, // Done is a terminal state
	StateError:      {}, // Error is a terminal state
}

// Machine is the interface the orchestrator needs from the state machine.
// The abstraction keeps tests free to substitute implementations.
type Machine interface {
	// Transition attempts to transition the state machine to the specified state.
	Transition(state string) error

	// GetState returns the current state of the state machine.
	GetState() string
}

// New creates a pipeline state machine starting at StateResolved.
func New(handler slog.Handler) (Machine, error) {
	return fsm.New(handler, StateResolved, PipelineTransitions)
}
