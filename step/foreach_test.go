package step_test

import (
	"context"
	"testing"

	"github.com/liumiaowilson/atom/state"
	"github.com/liumiaowilson/atom/step"
)

func TestForEachLiteralSequence(t *testing.T) {
	s := state.New()

	var seen []any
	f := step.NewForEachValues("item", []any{"a", "b", "c"}, step.Each(step.Func(func(s *state.State) any {
		v, _ := s.Get("item")
		seen = append(seen, v)
		return nil
	})))

	executes := 0
	for !f.IsFinished(s) {
		if err := f.Execute(context.Background(), s); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		executes++
		if f.Cursor() != executes {
			t.Fatalf("cursor = %d after %d executes", f.Cursor(), executes)
		}
	}

	if executes != 3 {
		t.Errorf("finished after %d executes, want 3", executes)
	}
	if len(seen) != 3 || seen[0] != "a" || seen[1] != "b" || seen[2] != "c" {
		t.Errorf("items seen = %v, want [a b c]", seen)
	}
}

func TestForEachStateBoundSequence(t *testing.T) {
	s := state.New()
	s.Set("values", []any{10, 20})

	f := step.NewForEach("item", "values", step.Each(countCompute{key: "runs"}))

	for !f.IsFinished(s) {
		if err := f.Execute(context.Background(), s); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}
	if runs, _ := state.GetAs[int](s, "runs"); runs != 2 {
		t.Errorf("body ran %d times, want 2", runs)
	}
	if v, _ := s.Get("item"); v != 20 {
		t.Errorf("last bound item = %v, want 20", v)
	}
}

func TestForEachStateBoundTypedSlices(t *testing.T) {
	cases := []struct {
		name   string
		values any
		want   []any
	}{
		{"ints", []int{1, 2, 3}, []any{1, 2, 3}},
		{"strings", []string{"a", "b"}, []any{"a", "b"}},
		{"array", [2]int{7, 8}, []any{7, 8}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := state.New()
			s.Set("values", tc.values)

			var seen []any
			f := step.NewForEach("item", "values", step.Each(step.Func(func(s *state.State) any {
				v, _ := s.Get("item")
				seen = append(seen, v)
				return nil
			})))

			for !f.IsFinished(s) {
				if err := f.Execute(context.Background(), s); err != nil {
					t.Fatalf("Execute: %v", err)
				}
			}
			if len(seen) != len(tc.want) {
				t.Fatalf("bound %d items, want %d", len(seen), len(tc.want))
			}
			for i, v := range tc.want {
				if seen[i] != v {
					t.Errorf("seen[%d] = %v, want %v", i, seen[i], v)
				}
			}
		})
	}
}

func TestForEachNonSequenceValueIsEmpty(t *testing.T) {
	s := state.New()
	s.Set("values", 42)

	f := step.NewForEach("item", "values", step.Each(countCompute{key: "runs"}))
	if !f.IsFinished(s) {
		t.Error("IsFinished = false for a non-sequence value, want true")
	}
}

func TestForEachLiteralWinsOverStateKey(t *testing.T) {
	s := state.New()
	s.Set("values", []any{1, 2, 3, 4, 5})

	f := step.NewForEachValues("item", []any{1}, step.Each(countCompute{key: "runs"}))

	if err := f.Execute(context.Background(), s); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !f.IsFinished(s) {
		t.Error("literal sequence of length 1 should finish after one execute")
	}
}

func TestForEachEmptyAndAbsentSequences(t *testing.T) {
	s := state.New()

	empty := step.NewForEachValues("item", []any{}, step.Each(countCompute{key: "runs"}))
	if !empty.IsFinished(s) {
		t.Error("ForEach over an empty sequence should be finished immediately")
	}

	absent := step.NewForEach("item", "no-such-key", step.Each(countCompute{key: "runs"}))
	if !absent.IsFinished(s) {
		t.Error("ForEach over an absent sequence should be finished immediately")
	}

	if _, ok := s.Get("item"); ok {
		t.Error("empty ForEach must never bind the item key")
	}
}

func TestForEachWithoutItemKey(t *testing.T) {
	s := state.New()

	f := step.NewForEachValues("", []any{1, 2}, step.Each(countCompute{key: "runs"}))
	for !f.IsFinished(s) {
		if err := f.Execute(context.Background(), s); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	if runs, _ := state.GetAs[int](s, "runs"); runs != 2 {
		t.Errorf("body ran %d times, want 2", runs)
	}
}

// The cursor advances unconditionally per Execute even when the body is a
// multi-unit composite: each item receives exactly one inner unit before
// the cursor moves on (interleaved breadth progress). This test pins that
// behavior.
func TestForEachCursorAdvancesUnconditionallyWithCompositeBody(t *testing.T) {
	s := state.New()

	body := step.NewComposite(
		step.NewSimple(countCompute{key: "first"}),
		step.NewSimple(countCompute{key: "second"}),
	)
	f := step.NewForEachValues("item", []any{"x", "y", "z"}, body)

	executes := 0
	for !f.IsFinished(s) {
		if err := f.Execute(context.Background(), s); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		executes++
	}

	if executes != 3 {
		t.Errorf("ForEach finished after %d executes, want 3", executes)
	}

	// Only the first two items advanced the two-unit body; by the third
	// the body was finished, so the iteration bound the item and moved on.
	first, _ := state.GetAs[int](s, "first")
	second, _ := state.GetAs[int](s, "second")
	if first != 1 || second != 1 {
		t.Errorf("body units = (%d, %d), want (1, 1)", first, second)
	}
}

func TestRangeBindsInclusiveSequence(t *testing.T) {
	s := state.New()

	var bound []any
	f := step.NewRange("i", 1, 3, step.Each(step.Func(func(s *state.State) any {
		v, _ := s.Get("i")
		bound = append(bound, v)
		n, _ := state.GetAs[int](s, "counter")
		return map[string]any{"counter": n + 1}
	})))

	executes := 0
	for !f.IsFinished(s) {
		if err := f.Execute(context.Background(), s); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		executes++
	}

	if executes != 3 {
		t.Errorf("range drove %d executes, want 3", executes)
	}
	if len(bound) != 3 || bound[0] != 1 || bound[1] != 2 || bound[2] != 3 {
		t.Errorf("bound items = %v, want [1 2 3]", bound)
	}
	if counter, _ := state.GetAs[int](s, "counter"); counter != 3 {
		t.Errorf("counter = %d, want 3", counter)
	}
}

func TestRangeReversedIsEmpty(t *testing.T) {
	s := state.New()

	f := step.NewRange("i", 3, 1, step.Each(countCompute{key: "runs"}))
	if !f.IsFinished(s) {
		t.Error("reversed range should yield an empty sequence")
	}
}

func TestRepeat(t *testing.T) {
	s := state.New()

	var bound []any
	f := step.NewRepeat("i", 3, step.Each(step.Func(func(s *state.State) any {
		v, _ := s.Get("i")
		bound = append(bound, v)
		return nil
	})))

	for !f.IsFinished(s) {
		if err := f.Execute(context.Background(), s); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	if len(bound) != 3 || bound[0] != 0 || bound[1] != 1 || bound[2] != 2 {
		t.Errorf("bound items = %v, want [0 1 2]", bound)
	}

	zero := step.NewRepeat("i", 0, step.Each(countCompute{key: "runs"}))
	if !zero.IsFinished(s) {
		t.Error("zero-count repeat should be finished immediately")
	}
}
