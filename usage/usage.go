// Package usage defines the host resource-introspection boundary: cheap,
// never-failing counter pairs (current usage, ceiling) for the resource
// kinds a host budgets. Monitors close over a Source to judge whether
// continuing the current cycle is safe.
package usage

// Kind names a budgeted resource category.
type Kind string

// Kinds measured by the built-in Process source. Hosts with their own
// introspection facility define additional kinds freely; a Kind is only an
// agreed-upon key between a Source and the monitors querying it.
const (
	// KindGoroutines is the number of live goroutines in the process.
	KindGoroutines Kind = "goroutines"
	// KindHeapBytes is the number of bytes of allocated heap objects.
	KindHeapBytes Kind = "heap_bytes"
	// KindCPUMillis is the total user CPU time consumed, in milliseconds.
	KindCPUMillis Kind = "cpu_millis"
)

// Source exposes the host's resource counters. Both accessors are queried
// synchronously after every executed unit, so implementations must be
// cheap; neither has a failure mode. An unknown kind reports zero, which
// monitors treat as safe.
type Source interface {
	// Current returns the present usage for the given resource kind.
	Current(kind Kind) int64

	// Ceiling returns the hard budget for the given resource kind.
	Ceiling(kind Kind) int64
}

// Static is a Source with fixed counters, for tests and for hosts that
// push their own numbers. The zero value reports zero for every kind.
type Static struct {
	Currents map[Kind]int64
	Ceilings map[Kind]int64
}

// NewStatic creates an empty Static source.
func NewStatic() *Static {
	return &Static{
		Currents: make(map[Kind]int64),
		Ceilings: make(map[Kind]int64),
	}
}

// SetKind sets both counters for a kind and returns the source for chaining.
func (s *Static) SetKind(kind Kind, current, ceiling int64) *Static {
	s.Currents[kind] = current
	s.Ceilings[kind] = ceiling
	return s
}

// Current returns the configured usage for kind, or zero.
func (s *Static) Current(kind Kind) int64 { return s.Currents[kind] }

// Ceiling returns the configured budget for kind, or zero.
func (s *Static) Ceiling(kind Kind) int64 { return s.Ceilings[kind] }
