// Package step defines the composable unit-of-work tree executed by an
// engine: the Step and Compute capabilities, the Simple/Composite/ForEach
// variants, and the Range/Repeat sequence constructors.
//
// Every Step obeys the same contract: IsFinished is a pure query, safe to
// call any number of times, and Execute performs at most one bounded unit
// of work. A parent step advances exactly one leftmost unfinished child per
// Execute call, which is what makes the whole tree resumable at step
// granularity: each engine iteration costs exactly one leaf-level unit.
package step

import (
	"context"

	"github.com/liumiaowilson/atom/state"
)

// Step is a resumable unit of the execution tree.
type Step interface {
	// IsFinished reports whether this step has no work left. It must not
	// mutate state and must be safe to call repeatedly.
	IsFinished(s *state.State) bool

	// Execute performs at most one bounded unit of work. It must never be
	// called once IsFinished reports true.
	Execute(ctx context.Context, s *state.State) error
}

// Compute is a user-supplied unit of business logic. It mutates the state
// container freely and may call s.SetInterrupted(true) to force a hand-off
// regardless of monitor verdicts.
type Compute interface {
	Execute(ctx context.Context, s *state.State) error
}

// Each adapts a Compute into a Step that runs the compute on every Execute
// call and never reports finished on its own. Use it as a loop body when
// the compute should run once per iteration; the enclosing ForEach bounds
// the number of calls through its cursor.
func Each(c Compute) Step {
	return eachStep{compute: c}
}

type eachStep struct {
	compute Compute
}

func (eachStep) IsFinished(_ *state.State) bool { return false }

func (e eachStep) Execute(ctx context.Context, s *state.State) error {
	return e.compute.Execute(ctx, s)
}
