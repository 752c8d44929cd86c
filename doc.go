// Package atom provides a resumable step-tree execution engine for hosts
// that impose hard budgets (CPU time, memory, operation counts) on any
// single unit of work. A long computation is decomposed into a tree of
// small steps; the engine executes one step at a time, consults resource
// monitors after each, and on budget pressure hands itself off to the
// host scheduler to resume later, carrying its state across the hand-off.
// A maximum hand-off count bounds how often a run may yield.
//
// Atom is designed as a library, not a service. Build an engine, chain
// steps or plain functions onto it, and start it:
//
//	e, err := atom.New(
//	    atom.WithMonitors(monitors),
//	    atom.WithScheduler(pool),
//	)
//	e.ChainFunc(loadItems).
//	    Chain(step.NewForEach("item", "items", processItem)).
//	    ChainFunc(report)
//	err = e.Start(ctx)
//
// With the default inline scheduler Start drives the run to completion
// synchronously; with a pool scheduler it returns immediately and the
// run proceeds through asynchronous cycles.
package atom
