package sched

import "context"

// Inline is the synchronous scheduler used for tests and single-shot
// tooling. Submit invokes OnRun in the caller's goroutine; a runner that
// resubmits itself on interruption therefore drives itself to completion
// (or to its fatal budget error) through nested Submit calls, with errors
// propagating back to the original caller.
type Inline struct {
	submissions int
}

// NewInline creates an inline scheduler.
func NewInline() *Inline {
	return &Inline{}
}

// Submit runs one cycle of r immediately and returns its error.
func (i *Inline) Submit(ctx context.Context, r Runner) error {
	i.submissions++
	return r.OnRun(ctx)
}

// Submissions returns how many cycles have been submitted. For a run that
// finished cleanly this is 1 + the number of hand-offs.
func (i *Inline) Submissions() int {
	return i.submissions
}
