package usage

import (
	"runtime"
	"runtime/metrics"
)

// cpuSample is the runtime/metrics sample name for cumulative user CPU time.
const cpuSample = "/cpu/classes/user:cpu-seconds"

// Process is a Source backed by the Go runtime's own introspection.
// Ceilings are supplied by the caller at construction since the runtime
// imposes none of its own; unknown or unconfigured kinds report a zero
// ceiling, which threshold monitors treat as exhausted only when current
// usage is also nonzero.
type Process struct {
	ceilings map[Kind]int64
}

// NewProcess creates a Process source with the given ceilings.
func NewProcess(ceilings map[Kind]int64) *Process {
	c := make(map[Kind]int64, len(ceilings))
	for kind, ceiling := range ceilings {
		c[kind] = ceiling
	}
	return &Process{ceilings: c}
}

// Current reads the live counter for kind from the runtime.
func (p *Process) Current(kind Kind) int64 {
	switch kind {
	case KindGoroutines:
		return int64(runtime.NumGoroutine())
	case KindHeapBytes:
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return int64(ms.HeapAlloc)
	case KindCPUMillis:
		sample := []metrics.Sample{{Name: cpuSample}}
		metrics.Read(sample)
		if sample[0].Value.Kind() != metrics.KindFloat64 {
			return 0
		}
		return int64(sample[0].Value.Float64() * 1000)
	default:
		return 0
	}
}

// Ceiling returns the configured budget for kind, or zero.
func (p *Process) Ceiling(kind Kind) int64 {
	return p.ceilings[kind]
}
