// Package middleware provides composable middleware for unit execution.
// Middleware wraps each unit of step-tree work synchronously and can
// modify execution (recover from panics, enforce deadlines, log, record
// metrics, add tracing).
package middleware

import (
	"context"

	"github.com/liumiaowilson/atom/id"
)

// Unit describes the unit of work about to execute: which run it belongs
// to and where in the run's lifetime it falls. Middleware treats it as
// read-only.
type Unit struct {
	// EngineID identifies the engine instance.
	EngineID id.EngineID
	// RunID identifies the logical computation across all hand-offs.
	RunID id.RunID
	// Seq is the 1-based sequence number of this unit across all cycles.
	Seq int
	// Handoffs is the number of interruptions before this unit.
	Handoffs int
}

// Handler is the terminal function that executes one unit of work.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic.
// It receives the current context, the unit being executed, and the
// next handler to call. Middleware MUST call next to continue the chain
// (unless short-circuiting on error).
type Middleware func(ctx context.Context, u *Unit, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recover, metrics) executes as:
//
//	logging → recover → metrics → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, u *Unit, next Handler) error {
		// Build the chain from the end backwards.
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, u, prev)
			}
		}
		return h(ctx)
	}
}
