package step

import (
	"context"
	"reflect"

	"github.com/liumiaowilson/atom/state"
)

// ForEach iterates a value sequence, binding the current item into state
// and delegating one unit of work to a body step per iteration. The
// sequence is either captured literally at construction or resolved fresh
// from a state key on every check; a literal sequence takes precedence,
// and with neither present the step is immediately finished.
//
// The cursor advances unconditionally on every Execute call, even when the
// body is itself a multi-unit step. A composite body therefore receives
// exactly one inner unit per item before the cursor moves on; bodies that
// must run to completion per item should be a Compute wrapped with Each,
// or Simple-equivalent one-shots.
type ForEach struct {
	itemKey   string
	valuesKey string
	values    []any
	body      Step
	cursor    int
}

// NewForEach creates a ForEach whose sequence is read from the state value
// under valuesKey at every check. Any slice or array value works; typed
// slices like []int are normalized element by element. itemKey may be
// empty, in which case the current item is not bound into state.
func NewForEach(itemKey, valuesKey string, body Step) *ForEach {
	return &ForEach{itemKey: itemKey, valuesKey: valuesKey, body: body}
}

// NewForEachValues creates a ForEach over a literal sequence captured at
// construction time.
func NewForEachValues(itemKey string, values []any, body Step) *ForEach {
	return &ForEach{itemKey: itemKey, values: values, body: body}
}

// NewRange creates a ForEach over the inclusive integer sequence
// [min, max], materialized eagerly at construction. A reversed range
// (min > max) yields an empty sequence.
func NewRange(itemKey string, min, max int, body Step) *ForEach {
	var values []any
	for i := min; i <= max; i++ {
		values = append(values, i)
	}
	return NewForEachValues(itemKey, values, body)
}

// NewRepeat creates a ForEach over the integer sequence [0, count), for
// bodies that only need an iteration index. A count of zero or less yields
// an empty sequence.
func NewRepeat(itemKey string, count int, body Step) *ForEach {
	return NewRange(itemKey, 0, count-1, body)
}

// Cursor returns the zero-based position of the next iteration. It only
// ever increases.
func (f *ForEach) Cursor() int {
	return f.cursor
}

// resolve returns the value sequence for the current check. The literal
// sequence wins over a state-resident one; absent both, the sequence is
// empty.
func (f *ForEach) resolve(s *state.State) []any {
	if f.values != nil {
		return f.values
	}
	if f.valuesKey != "" {
		if raw, ok := s.Get(f.valuesKey); ok {
			return toSlice(raw)
		}
	}
	return nil
}

// toSlice normalizes any slice or array value into []any. Non-sequence
// values yield nil; a typed nil slice stays an empty sequence.
func toSlice(v any) []any {
	if values, ok := v.([]any); ok {
		return values
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values
}

// IsFinished reports whether the cursor has passed the end of the resolved
// sequence.
func (f *ForEach) IsFinished(s *state.State) bool {
	return f.cursor >= len(f.resolve(s))
}

// Execute binds the current item into state under the item key (if set),
// runs one unit of the body, then advances the cursor. An empty or absent
// sequence never binds the item key.
func (f *ForEach) Execute(ctx context.Context, s *state.State) error {
	values := f.resolve(s)
	if f.cursor >= len(values) {
		return nil
	}

	if f.itemKey != "" {
		s.Set(f.itemKey, values[f.cursor])
	}

	if !f.body.IsFinished(s) {
		if err := f.body.Execute(ctx, s); err != nil {
			return err
		}
	}

	f.cursor++
	return nil
}
