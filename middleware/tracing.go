package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for atom tracing.
const tracerName = "github.com/liumiaowilson/atom"

// Tracing returns middleware that wraps unit execution in an OpenTelemetry
// span. If no TracerProvider is configured globally, the default noop
// tracer is used and this middleware becomes a pass-through with zero
// overhead.
//
// Span attributes include: atom.engine.id, atom.run.id, atom.unit.seq,
// atom.run.handoffs. On error, the span status is set to codes.Error with
// the error message.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
// This variant allows injecting a specific TracerProvider for testing or
// when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, u *Unit, next Handler) error {
		ctx, span := tracer.Start(ctx, "atom.unit.execute",
			trace.WithAttributes(
				attribute.String("atom.engine.id", u.EngineID.String()),
				attribute.String("atom.run.id", u.RunID.String()),
				attribute.Int("atom.unit.seq", u.Seq),
				attribute.Int("atom.run.handoffs", u.Handoffs),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
