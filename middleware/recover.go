package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Recover returns middleware that recovers from panics in a compute.
// Panics are converted to errors and logged with a stack trace, so a
// panicking compute surfaces through the scheduler's failure channel
// like any other compute error.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, u *Unit, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("compute panicked",
					slog.String("run_id", u.RunID.String()),
					slog.Int("unit", u.Seq),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in unit %d of run %s: %v", u.Seq, u.RunID, r)
			}
		}()
		return next(ctx)
	}
}
