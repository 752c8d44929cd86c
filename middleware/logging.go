package middleware

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that logs each executed unit at debug level
// and failed units at error level. Per-unit logging is intentionally
// debug-only: a long computation executes thousands of units.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, u *Unit, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("unit failed",
				slog.String("run_id", u.RunID.String()),
				slog.Int("unit", u.Seq),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Debug("unit executed",
				slog.String("run_id", u.RunID.String()),
				slog.Int("unit", u.Seq),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
