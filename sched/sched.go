// Package sched defines the host job-facility boundary: the Scheduler
// interface an engine hands itself to on interruption, plus two
// implementations: Inline for synchronous/test execution and Pool for
// asynchronous in-process execution.
//
// The contract every Scheduler must honor: a submitted runner is invoked
// through OnRun, its sole re-entry point; the runner's internal state is
// preserved by reference across the hand-off; and re-entry is serialized,
// so no two cycles of the same runner ever execute concurrently. Both
// implementations here satisfy serialization structurally, because a
// runner only resubmits itself from inside its own OnRun.
package sched

import (
	"context"
	"errors"

	"github.com/liumiaowilson/atom/id"
)

// ErrStopped is returned by Submit on a scheduler that is not running.
var ErrStopped = errors.New("sched: scheduler stopped")

// Runner is a resumable unit of scheduled work. Engines implement it.
type Runner interface {
	// RunID identifies the logical computation across all of its cycles.
	RunID() id.RunID

	// OnRun drives one execution cycle. It is the sole re-entry point.
	// A non-nil error is terminal for the run: either a fatal engine
	// error or a compute failure passed through unmodified.
	OnRun(ctx context.Context) error
}

// Scheduler schedules a runner for independent future execution.
type Scheduler interface {
	// Submit schedules r for a later OnRun invocation. Both first starts
	// and hand-off resubmissions go through Submit.
	Submit(ctx context.Context, r Runner) error
}
