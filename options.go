package atom

import (
	"log/slog"

	"github.com/liumiaowilson/atom/ext"
	"github.com/liumiaowilson/atom/middleware"
	"github.com/liumiaowilson/atom/monitor"
	"github.com/liumiaowilson/atom/sched"
	"github.com/liumiaowilson/atom/state"
)

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets the structured logger for the engine.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) error {
		if l == nil {
			return ErrNilLogger
		}
		e.logger = l
		return nil
	}
}

// WithScheduler sets the host scheduler the engine submits itself to on
// Start and on every hand-off. The default is a synchronous inline
// scheduler, which drives the run to completion within Start.
func WithScheduler(s sched.Scheduler) Option {
	return func(e *Engine) error {
		if s == nil {
			return ErrNilScheduler
		}
		e.scheduler = s
		return nil
	}
}

// WithMonitors sets the monitor registry consulted after every executed
// unit. The default registry is empty, so nothing ever interrupts the
// run except a compute's own SetInterrupted.
func WithMonitors(reg *monitor.Registry) Option {
	return func(e *Engine) error {
		if reg == nil {
			return ErrNilMonitors
		}
		e.monitors = reg
		return nil
	}
}

// WithState sets the engine's state container, for callers that seed
// initial values before the run starts.
func WithState(s *state.State) Option {
	return func(e *Engine) error {
		if s == nil {
			return ErrNilState
		}
		e.st = s
		return nil
	}
}

// WithMaxHandoffs sets the cap on hand-off cycles.
func WithMaxHandoffs(n int) Option {
	return func(e *Engine) error {
		e.config.MaxHandoffs = n
		return nil
	}
}

// WithMiddleware appends middleware wrapped around every executed unit,
// outermost first.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(e *Engine) error {
		e.mws = append(e.mws, mws...)
		return nil
	}
}

// WithExtensions registers lifecycle extensions.
func WithExtensions(exts ...ext.Extension) Option {
	return func(e *Engine) error {
		e.extensions = append(e.extensions, exts...)
		return nil
	}
}

// WithExtensionRegistry sets a shared, pre-populated extension registry
// instead of the engine building its own. Extensions registered via
// WithExtensions are added to it.
func WithExtensionRegistry(reg *ext.Registry) Option {
	return func(e *Engine) error {
		e.hooks = reg
		return nil
	}
}
