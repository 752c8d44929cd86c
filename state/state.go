// Package state defines the shared mutable state container threaded through
// every step of one logical computation.
//
// A State is a string-keyed bag of arbitrary values plus interruption
// bookkeeping: a flag that marks the current cycle as interrupted and a
// counter recording how many times the computation has been interrupted
// over its whole lifetime. The bag's values survive hand-offs between
// cycles; the flag is reset at the start of every cycle.
//
// State is NOT safe for concurrent use. It is owned by exactly one engine
// and the host scheduler guarantees serialized re-entry, so no cycle ever
// observes another cycle's mutations mid-flight.
package state

// State is the mutable key/value container shared across all steps of one
// logical computation.
type State struct {
	values           map[string]any
	interrupted      bool
	interruptedTimes int
}

// New creates an empty State.
func New() *State {
	return &State{values: make(map[string]any)}
}

// Get returns the value stored under key. The second return value reports
// whether the key is present; absent keys never panic.
func (s *State) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key, overwriting any previous value.
func (s *State) Set(key string, value any) {
	s.values[key] = value
}

// Entries returns the live underlying map, not a copy. Mutations made by a
// compute are visible immediately to the engine and to monitors.
func (s *State) Entries() map[string]any {
	return s.values
}

// IsInterrupted reports whether the current cycle has been marked
// interrupted, either by a monitor or by a compute.
func (s *State) IsInterrupted() bool {
	return s.interrupted
}

// SetInterrupted sets the interruption flag. Setting it to true increments
// the interruption counter; setting it to false never decrements it.
func (s *State) SetInterrupted(interrupted bool) {
	if interrupted {
		s.interruptedTimes++
	}
	s.interrupted = interrupted
}

// InterruptedCount returns how many times the computation has transitioned
// into the interrupted state. The count only ever increases.
func (s *State) InterruptedCount() int {
	return s.interruptedTimes
}

// GetAs returns the value stored under key asserted to type T. The second
// return value is false when the key is absent or the stored value is not
// a T.
//
// This is a package-level generic function because Go does not allow
// generic methods on non-generic receiver types.
func GetAs[T any](s *State, key string) (T, bool) {
	var zero T

	v, ok := s.values[key]
	if !ok {
		return zero, false
	}

	typed, ok := v.(T)
	if !ok {
		return zero, false
	}

	return typed, true
}
