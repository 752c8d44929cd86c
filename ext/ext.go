// Package ext defines the extension system for Atom engines.
//
// Extensions are notified of engine lifecycle events and can react to
// them, for example by recording metrics or emitting diagnostics. Each
// lifecycle hook is a separate interface so extensions opt in only to
// the events they care about.
//
// # Lifecycle Hooks
//
//   - [CycleStarted]: an execution cycle began (first run or re-entry)
//   - [UnitExecuted]: one unit of the step tree was executed
//   - [Interrupted]: a monitor or compute marked the cycle interrupted
//   - [HandedOff]: the engine resubmitted itself to the host scheduler
//   - [RunCompleted]: the step tree finished
//   - [RunFatal]: the hand-off budget was exceeded
//   - [Shutdown]: the host scheduler is shutting down
//
// The [Registry] fans out each event to all registered extensions that
// implement the corresponding hook interface.
package ext

import (
	"context"
	"time"

	"github.com/liumiaowilson/atom/id"
)

// Run is the lifecycle snapshot handed to hooks. It carries identity and
// progress counters only; hooks never receive the mutable state container.
type Run struct {
	// EngineID identifies the engine instance.
	EngineID id.EngineID
	// RunID identifies the logical computation across all hand-offs.
	RunID id.RunID
	// Units is the number of units executed so far, across all cycles.
	Units int
	// Handoffs is the number of interruptions so far.
	Handoffs int
}

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// CycleStarted is called when an execution cycle begins, both on the
// first Start and on every re-entry after a hand-off.
type CycleStarted interface {
	OnCycleStarted(ctx context.Context, r *Run) error
}

// UnitExecuted is called after each unit of the step tree executes.
type UnitExecuted interface {
	OnUnitExecuted(ctx context.Context, r *Run, elapsed time.Duration) error
}

// Interrupted is called when the current cycle is marked interrupted.
// The reason is the tripped monitor's message, or "compute" when a
// compute forced the interruption manually.
type Interrupted interface {
	OnInterrupted(ctx context.Context, r *Run, reason string) error
}

// HandedOff is called after the engine resubmits itself to the host
// scheduler for a later cycle.
type HandedOff interface {
	OnHandedOff(ctx context.Context, r *Run) error
}

// RunCompleted is called when the root step reports finished. elapsed
// covers the final cycle only; cross-cycle wall time is the host's to
// track.
type RunCompleted interface {
	OnRunCompleted(ctx context.Context, r *Run, elapsed time.Duration) error
}

// RunFatal is called when the engine exceeds its hand-off budget.
type RunFatal interface {
	OnRunFatal(ctx context.Context, r *Run, err error) error
}

// Shutdown is called when the host scheduler shuts down gracefully.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
