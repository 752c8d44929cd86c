package step_test

import (
	"context"

	"github.com/liumiaowilson/atom/state"
)

// setCompute sets a fixed key/value pair on execution.
type setCompute struct {
	key   string
	value any
}

func (c setCompute) Execute(_ context.Context, s *state.State) error {
	s.Set(c.key, c.value)
	return nil
}

// countCompute increments an integer counter key by 1 on every execution.
type countCompute struct {
	key string
}

func (c countCompute) Execute(_ context.Context, s *state.State) error {
	n, _ := state.GetAs[int](s, c.key)
	s.Set(c.key, n+1)
	return nil
}

// errCompute always fails.
type errCompute struct {
	err error
}

func (c errCompute) Execute(_ context.Context, _ *state.State) error {
	return c.err
}
