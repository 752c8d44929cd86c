package step

import (
	"context"

	"github.com/liumiaowilson/atom/state"
)

// Func adapts a plain function into a Compute, enabling point-free
// composition of stateless transforms. The return value is interpreted
// polymorphically:
//
//   - bool true forces an interruption (manual hand-off)
//   - map[string]any is merged into state, overwriting existing keys
//   - anything else, including nil, is ignored
type Func func(s *state.State) any

// Execute runs the function and applies its result to state.
func (f Func) Execute(_ context.Context, s *state.State) error {
	switch v := f(s).(type) {
	case bool:
		if v {
			s.SetInterrupted(true)
		}
	case map[string]any:
		for key, value := range v {
			s.Set(key, value)
		}
	}
	return nil
}
