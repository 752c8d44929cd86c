// Package backoff provides pluggable delay strategies for pacing hand-off
// resubmissions. When an interrupted engine is resubmitted immediately it
// tends to trip the same monitor again before the host counters recover;
// a delay strategy gives the budget room to reset between cycles.
// All strategies are stateless and safe for concurrent use.
package backoff

import (
	"math"
	"math/rand/v2"
	"time"
)

// Strategy computes the delay before resubmitting an interrupted engine.
type Strategy interface {
	// Delay returns how long to wait before hand-off n (1-indexed).
	// Hand-off 1 is the first resubmission after the first interruption.
	Delay(handoff int) time.Duration
}

// None resubmits immediately. Use it when the host's own scheduling
// latency is pause enough.
type None struct{}

// NewNone creates a zero-delay strategy.
func NewNone() *None { return &None{} }

// Delay always returns zero.
func (*None) Delay(_ int) time.Duration { return 0 }

// Constant waits the same interval before every resubmission.
type Constant struct {
	Interval time.Duration
}

// NewConstant creates a constant delay strategy.
func NewConstant(interval time.Duration) *Constant {
	return &Constant{Interval: interval}
}

// Delay returns the fixed interval.
func (c *Constant) Delay(_ int) time.Duration {
	return c.Interval
}

// Linear grows the delay by a fixed increment with each hand-off.
// Delay = min(Initial * handoff, Max).
type Linear struct {
	Initial time.Duration
	Max     time.Duration
}

// NewLinear creates a linear delay strategy.
func NewLinear(initial, maxDelay time.Duration) *Linear {
	return &Linear{Initial: initial, Max: maxDelay}
}

// Delay returns Initial * handoff, capped at Max.
func (l *Linear) Delay(handoff int) time.Duration {
	d := l.Initial * time.Duration(handoff)
	if l.Max > 0 && d > l.Max {
		return l.Max
	}
	return d
}

// Exponential doubles the delay with each hand-off.
// Delay = min(Initial * 2^(handoff-1), Max).
type Exponential struct {
	Initial time.Duration
	Max     time.Duration
}

// NewExponential creates an exponential delay strategy.
func NewExponential(initial, maxDelay time.Duration) *Exponential {
	return &Exponential{Initial: initial, Max: maxDelay}
}

// Delay returns Initial * 2^(handoff-1), capped at Max.
func (e *Exponential) Delay(handoff int) time.Duration {
	d := time.Duration(float64(e.Initial) * math.Pow(2, float64(handoff-1)))
	if e.Max > 0 && d > e.Max {
		return e.Max
	}
	return d
}

// ExponentialWithJitter applies full jitter to an exponential base.
// Delay = random value in [0, min(Initial * 2^(handoff-1), Max)].
// Jitter spreads out resubmissions when many engines hit their budgets
// in the same window.
type ExponentialWithJitter struct {
	Initial time.Duration
	Max     time.Duration
}

// NewExponentialWithJitter creates an exponential delay with full jitter.
func NewExponentialWithJitter(initial, maxDelay time.Duration) *ExponentialWithJitter {
	return &ExponentialWithJitter{Initial: initial, Max: maxDelay}
}

// Delay returns a random duration in [0, min(Initial * 2^(handoff-1), Max)].
func (e *ExponentialWithJitter) Delay(handoff int) time.Duration {
	base := float64(e.Initial) * math.Pow(2, float64(handoff-1))
	if e.Max > 0 && base > float64(e.Max) {
		base = float64(e.Max)
	}
	return time.Duration(rand.Float64() * base) //nolint:gosec // jitter intentionally uses non-crypto rand
}

// DefaultStrategy returns the default pacing used by the pool scheduler:
// ExponentialWithJitter with 100ms initial and 10s max.
func DefaultStrategy() Strategy {
	return NewExponentialWithJitter(100*time.Millisecond, 10*time.Second)
}
