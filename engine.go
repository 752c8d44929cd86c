package atom

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/liumiaowilson/atom/ext"
	"github.com/liumiaowilson/atom/id"
	"github.com/liumiaowilson/atom/middleware"
	"github.com/liumiaowilson/atom/monitor"
	"github.com/liumiaowilson/atom/sched"
	"github.com/liumiaowilson/atom/state"
	"github.com/liumiaowilson/atom/step"
)

// Engine owns one root composite step and one state container and runs
// the execute-check-interrupt loop over them. One Engine drives one
// logical computation; build it, chain work onto it, then call Start.
//
// An Engine is not safe for concurrent use. The scheduler contract
// guarantees serialized re-entry, and chaining is only valid before the
// first Start or between execution cycles.
type Engine struct {
	config   Config
	logger   *slog.Logger
	engineID id.EngineID
	runID    id.RunID

	root      *step.Composite
	st        *state.State
	monitors  *monitor.Registry
	scheduler sched.Scheduler
	hooks     *ext.Registry
	chain     middleware.Middleware

	// Option staging, assembled at the end of New.
	mws        []middleware.Middleware
	extensions []ext.Extension

	// units counts executed units across all cycles.
	units int
}

// Compile-time check: the engine is a schedulable runner.
var _ sched.Runner = (*Engine)(nil)

// New creates an Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		config:    DefaultConfig(),
		logger:    slog.Default(),
		engineID:  id.NewEngineID(),
		runID:     id.NewRunID(),
		root:      step.NewComposite(),
		st:        state.New(),
		monitors:  monitor.NewRegistry(),
		scheduler: sched.NewInline(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.hooks == nil {
		e.hooks = ext.NewRegistry(e.logger)
	}
	for _, x := range e.extensions {
		e.hooks.Register(x)
	}
	e.extensions = nil

	if len(e.mws) > 0 {
		e.chain = middleware.Chain(e.mws...)
		e.mws = nil
	}

	return e, nil
}

// EngineID returns the engine's unique identifier.
func (e *Engine) EngineID() id.EngineID { return e.engineID }

// RunID implements sched.Runner.
func (e *Engine) RunID() id.RunID { return e.runID }

// State returns the engine's state container.
func (e *Engine) State() *state.State { return e.st }

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config { return e.config }

// Chain appends a step to the root composite and returns the engine for
// fluent chaining.
func (e *Engine) Chain(s step.Step) *Engine {
	e.root.Add(s)
	return e
}

// ChainCompute appends a compute wrapped as a one-shot step.
func (e *Engine) ChainCompute(c step.Compute) *Engine {
	return e.Chain(step.NewSimple(c))
}

// ChainFunc appends a plain function wrapped as a one-shot step. See
// step.Func for how the return value is interpreted.
func (e *Engine) ChainFunc(fn step.Func) *Engine {
	return e.ChainCompute(fn)
}

// SetMaxHandoffs sets the hand-off cap. No validation is performed;
// a nonsensical cap is the caller's responsibility.
func (e *Engine) SetMaxHandoffs(n int) *Engine {
	e.config.MaxHandoffs = n
	return e
}

// Start submits the engine to its scheduler. With the default inline
// scheduler this runs the whole computation before returning; with an
// asynchronous scheduler it returns immediately and the run proceeds in
// cycles, resubmitting itself on every hand-off.
func (e *Engine) Start(ctx context.Context) error {
	return e.scheduler.Submit(ctx, e)
}

// OnRun implements sched.Runner: it drives one execution cycle. The
// interruption flag is reset on entry; the bag values and the
// interruption counter carry over from previous cycles.
func (e *Engine) OnRun(ctx context.Context) error {
	e.st.SetInterrupted(false)

	e.hooks.EmitCycleStarted(ctx, e.runSnapshot())
	e.logger.Debug("cycle started",
		slog.String("run_id", e.runID.String()),
		slog.Int("handoffs", e.st.InterruptedCount()),
	)

	cycleStart := time.Now()
	for !e.root.IsFinished(e.st) && !e.st.IsInterrupted() {
		if err := e.executeUnit(ctx); err != nil {
			// Compute failures pass through to the scheduler unmodified.
			return err
		}

		if e.st.IsInterrupted() {
			// A compute forced the hand-off; monitors are not consulted.
			e.interrupted(ctx, "compute")
		} else if m := e.monitors.FirstUnsafe(e.st); m != nil {
			e.st.SetInterrupted(true)
			e.interrupted(ctx, m.Message())
		}
	}

	if !e.st.IsInterrupted() {
		e.hooks.EmitRunCompleted(ctx, e.runSnapshot(), time.Since(cycleStart))
		e.logger.Info("run completed",
			slog.String("run_id", e.runID.String()),
			slog.Int("units", e.units),
			slog.Int("handoffs", e.st.InterruptedCount()),
		)
		return nil
	}

	if e.st.InterruptedCount() > e.config.MaxHandoffs {
		err := fmt.Errorf("%w: %d interruptions over a cap of %d",
			ErrHandoffBudget, e.st.InterruptedCount(), e.config.MaxHandoffs)
		e.hooks.EmitRunFatal(ctx, e.runSnapshot(), err)
		e.logger.Error("hand-off budget exceeded",
			slog.String("run_id", e.runID.String()),
			slog.Int("handoffs", e.st.InterruptedCount()),
			slog.Int("max_handoffs", e.config.MaxHandoffs),
		)
		return err
	}

	e.hooks.EmitHandedOff(ctx, e.runSnapshot())
	e.logger.Info("handing off",
		slog.String("run_id", e.runID.String()),
		slog.Int("units", e.units),
		slog.Int("handoffs", e.st.InterruptedCount()),
	)
	return e.scheduler.Submit(ctx, e)
}

// executeUnit advances the step tree by one unit through the middleware
// chain.
func (e *Engine) executeUnit(ctx context.Context) error {
	e.units++
	u := &middleware.Unit{
		EngineID: e.engineID,
		RunID:    e.runID,
		Seq:      e.units,
		Handoffs: e.st.InterruptedCount(),
	}

	start := time.Now()

	var err error
	if e.chain != nil {
		err = e.chain(ctx, u, func(ctx context.Context) error {
			return e.root.Execute(ctx, e.st)
		})
	} else {
		err = e.root.Execute(ctx, e.st)
	}
	if err != nil {
		return err
	}

	e.hooks.EmitUnitExecuted(ctx, e.runSnapshot(), time.Since(start))
	return nil
}

// interrupted logs the advisory and notifies extensions. The reason is
// the tripped monitor's message, or "compute" for a manual interruption.
func (e *Engine) interrupted(ctx context.Context, reason string) {
	e.logger.Warn("cycle interrupted",
		slog.String("run_id", e.runID.String()),
		slog.String("reason", reason),
		slog.Int("handoffs", e.st.InterruptedCount()),
	)
	e.hooks.EmitInterrupted(ctx, e.runSnapshot(), reason)
}

func (e *Engine) runSnapshot() *ext.Run {
	return &ext.Run{
		EngineID: e.engineID,
		RunID:    e.runID,
		Units:    e.units,
		Handoffs: e.st.InterruptedCount(),
	}
}
