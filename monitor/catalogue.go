package monitor

import "github.com/liumiaowilson/atom/usage"

// Ready-made monitors over the process-local usage kinds. Each is a
// mechanical instantiation of the Threshold template; hosts with richer
// introspection facilities build their own catalogue the same way with
// ForKind.

// Goroutines watches the live goroutine count against src's ceiling.
func Goroutines(src usage.Source) *Threshold {
	return ForKind(src, usage.KindGoroutines, "goroutine budget nearly exhausted")
}

// Heap watches allocated heap bytes against src's ceiling.
func Heap(src usage.Source) *Threshold {
	return ForKind(src, usage.KindHeapBytes, "heap budget nearly exhausted")
}

// CPUTime watches cumulative user CPU milliseconds against src's ceiling.
func CPUTime(src usage.Source) *Threshold {
	return ForKind(src, usage.KindCPUMillis, "cpu time budget nearly exhausted")
}
