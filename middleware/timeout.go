package middleware

import (
	"context"
	"time"
)

// Timeout returns middleware that enforces a per-unit execution deadline.
// A unit is supposed to be a small bounded piece of work; a deadline here
// catches computes that block unexpectedly. When the deadline is exceeded
// the context is cancelled and a well-behaved compute returns
// context.DeadlineExceeded. A duration of zero disables the deadline.
func Timeout(d time.Duration) Middleware {
	return func(ctx context.Context, _ *Unit, next Handler) error {
		if d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return next(ctx)
	}
}
