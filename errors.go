package atom

import "errors"

var (
	// ErrHandoffBudget is the only error the engine raises on its own:
	// the interruption count exceeded the maximum hand-off cap. It is
	// terminal and never retried.
	ErrHandoffBudget = errors.New("atom: hand-off budget exceeded")

	// Option errors.
	ErrNilScheduler = errors.New("atom: nil scheduler")
	ErrNilMonitors  = errors.New("atom: nil monitor registry")
	ErrNilLogger    = errors.New("atom: nil logger")
	ErrNilState     = errors.New("atom: nil state")
)
