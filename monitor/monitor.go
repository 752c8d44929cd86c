// Package monitor defines the resource-budget monitors the engine consults
// after every executed unit, the 90%-threshold template they are built
// from, and the registry that evaluates them in order.
//
// Monitors carry no state of their own and are safe to share across engine
// instances. A Registry is append-only: construct it once at process start,
// register every monitor, then pass it by reference into each engine.
package monitor

import (
	"github.com/liumiaowilson/atom/state"
	"github.com/liumiaowilson/atom/usage"
)

// Monitor judges whether continuing to run in the current cycle is safe
// against some externally tracked resource budget.
type Monitor interface {
	// Message returns the human-readable reason logged when the monitor
	// reports unsafe.
	Message() string

	// IsSafe reports whether another unit of work can run without risking
	// the budget this monitor watches.
	IsSafe(s *state.State) bool
}

// safetyNumerator/safetyDenominator encode the fixed 90% safety margin:
// a monitor is safe while current ≤ 0.9 × ceiling. Integer math keeps the
// boundary exact (current=90, ceiling=100 is safe; 91 is not).
const (
	safetyNumerator   = 9
	safetyDenominator = 10
)

// Threshold is the default monitor template. It closes over a pair of
// counter accessors and reports unsafe once current usage crosses 90% of
// the ceiling. The margin is a fixed design constant, not per-instance
// configuration.
type Threshold struct {
	message string
	current func() int64
	ceiling func() int64
}

// NewThreshold creates a threshold monitor over a pair of counter
// accessors.
func NewThreshold(message string, current, ceiling func() int64) *Threshold {
	return &Threshold{message: message, current: current, ceiling: ceiling}
}

// Message returns the advisory logged when the monitor trips.
func (t *Threshold) Message() string { return t.message }

// IsSafe reports current ≤ 0.9 × ceiling. The state container is not
// consulted; threshold monitors watch host counters, not computation
// state.
func (t *Threshold) IsSafe(_ *state.State) bool {
	return t.current()*safetyDenominator <= t.ceiling()*safetyNumerator
}

// ForKind creates a threshold monitor over one resource kind of a usage
// source.
func ForKind(src usage.Source, kind usage.Kind, message string) *Threshold {
	return NewThreshold(message,
		func() int64 { return src.Current(kind) },
		func() int64 { return src.Ceiling(kind) },
	)
}

// Registry holds monitors in registration order. It is append-only and,
// once every engine is running, read-only; no synchronization is needed
// as long as all registration happens before the first cycle.
type Registry struct {
	monitors []Monitor
}

// NewRegistry creates a registry over the given monitors.
func NewRegistry(monitors ...Monitor) *Registry {
	return &Registry{monitors: monitors}
}

// Register appends monitors. Monitors are never removed.
func (r *Registry) Register(monitors ...Monitor) {
	r.monitors = append(r.monitors, monitors...)
}

// Monitors returns the registered monitors in order.
func (r *Registry) Monitors() []Monitor { return r.monitors }

// FirstUnsafe evaluates monitors in registration order and returns the
// first one reporting unsafe, or nil if all are safe. Evaluation stops at
// the first unsafe monitor; later monitors are not checked that cycle.
func (r *Registry) FirstUnsafe(s *state.State) Monitor {
	for _, m := range r.monitors {
		if !m.IsSafe(s) {
			return m
		}
	}
	return nil
}
