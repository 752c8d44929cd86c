package step

import (
	"context"

	"github.com/liumiaowilson/atom/state"
)

// Simple wraps a single Compute as a one-shot step. Once the compute has
// run successfully the step is finished forever; a well-formed parent never
// calls Execute again, and if it does the call is a no-op.
type Simple struct {
	compute Compute
	done    bool
}

// NewSimple creates a one-shot step around the given compute.
func NewSimple(c Compute) *Simple {
	return &Simple{compute: c}
}

// IsFinished reports whether the compute has already run.
func (s *Simple) IsFinished(_ *state.State) bool {
	return s.done
}

// Execute runs the compute once. A failed compute leaves the step
// unfinished so the host's retry of the cycle re-executes it.
func (s *Simple) Execute(ctx context.Context, st *state.State) error {
	if s.done {
		return nil
	}

	if err := s.compute.Execute(ctx, st); err != nil {
		return err
	}

	s.done = true
	return nil
}
