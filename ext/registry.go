package ext

import (
	"context"
	"log/slog"
	"time"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time. This avoids type-asserting back to
// Extension inside the emit methods.
type cycleStartedEntry struct {
	name string
	hook CycleStarted
}

type unitExecutedEntry struct {
	name string
	hook UnitExecuted
}

type interruptedEntry struct {
	name string
	hook Interrupted
}

type handedOffEntry struct {
	name string
	hook HandedOff
}

type runCompletedEntry struct {
	name string
	hook RunCompleted
}

type runFatalEntry struct {
	name string
	hook RunFatal
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered extensions and dispatches lifecycle events
// to them. It type-caches extensions at registration time so emit calls
// iterate only over extensions that implement the relevant hook.
type Registry struct {
	extensions []Extension
	logger     *slog.Logger

	// Type-cached slices for each lifecycle hook.
	cycleStarted []cycleStartedEntry
	unitExecuted []unitExecutedEntry
	interrupted  []interruptedEntry
	handedOff    []handedOffEntry
	runCompleted []runCompletedEntry
	runFatal     []runFatalEntry
	shutdown     []shutdownEntry
}

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(CycleStarted); ok {
		r.cycleStarted = append(r.cycleStarted, cycleStartedEntry{name, h})
	}
	if h, ok := e.(UnitExecuted); ok {
		r.unitExecuted = append(r.unitExecuted, unitExecutedEntry{name, h})
	}
	if h, ok := e.(Interrupted); ok {
		r.interrupted = append(r.interrupted, interruptedEntry{name, h})
	}
	if h, ok := e.(HandedOff); ok {
		r.handedOff = append(r.handedOff, handedOffEntry{name, h})
	}
	if h, ok := e.(RunCompleted); ok {
		r.runCompleted = append(r.runCompleted, runCompletedEntry{name, h})
	}
	if h, ok := e.(RunFatal); ok {
		r.runFatal = append(r.runFatal, runFatalEntry{name, h})
	}
	if h, ok := e.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []Extension { return r.extensions }

// EmitCycleStarted notifies all extensions that implement CycleStarted.
func (r *Registry) EmitCycleStarted(ctx context.Context, run *Run) {
	for _, e := range r.cycleStarted {
		if err := e.hook.OnCycleStarted(ctx, run); err != nil {
			r.logHookError("OnCycleStarted", e.name, err)
		}
	}
}

// EmitUnitExecuted notifies all extensions that implement UnitExecuted.
func (r *Registry) EmitUnitExecuted(ctx context.Context, run *Run, elapsed time.Duration) {
	for _, e := range r.unitExecuted {
		if err := e.hook.OnUnitExecuted(ctx, run, elapsed); err != nil {
			r.logHookError("OnUnitExecuted", e.name, err)
		}
	}
}

// EmitInterrupted notifies all extensions that implement Interrupted.
func (r *Registry) EmitInterrupted(ctx context.Context, run *Run, reason string) {
	for _, e := range r.interrupted {
		if err := e.hook.OnInterrupted(ctx, run, reason); err != nil {
			r.logHookError("OnInterrupted", e.name, err)
		}
	}
}

// EmitHandedOff notifies all extensions that implement HandedOff.
func (r *Registry) EmitHandedOff(ctx context.Context, run *Run) {
	for _, e := range r.handedOff {
		if err := e.hook.OnHandedOff(ctx, run); err != nil {
			r.logHookError("OnHandedOff", e.name, err)
		}
	}
}

// EmitRunCompleted notifies all extensions that implement RunCompleted.
func (r *Registry) EmitRunCompleted(ctx context.Context, run *Run, elapsed time.Duration) {
	for _, e := range r.runCompleted {
		if err := e.hook.OnRunCompleted(ctx, run, elapsed); err != nil {
			r.logHookError("OnRunCompleted", e.name, err)
		}
	}
}

// EmitRunFatal notifies all extensions that implement RunFatal.
func (r *Registry) EmitRunFatal(ctx context.Context, run *Run, runErr error) {
	for _, e := range r.runFatal {
		if err := e.hook.OnRunFatal(ctx, run, runErr); err != nil {
			r.logHookError("OnRunFatal", e.name, err)
		}
	}
}

// EmitShutdown notifies all extensions that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated; they must not block the engine.
func (r *Registry) logHookError(hook, extName string, err error) {
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", extName),
		slog.String("error", err.Error()),
	)
}
