// Package observability provides a metrics extension recording engine
// lifecycle activity through OpenTelemetry instruments. Register it on
// the extension registry to track executed units, interruptions,
// hand-offs, completions, fatal budget errors, and cycle durations.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/liumiaowilson/atom/ext"
)

// meterName is the instrumentation scope name for atom lifecycle metrics.
const meterName = "github.com/liumiaowilson/atom/observability"

// Compile-time interface checks.
var (
	_ ext.Extension    = (*MetricsExtension)(nil)
	_ ext.CycleStarted = (*MetricsExtension)(nil)
	_ ext.UnitExecuted = (*MetricsExtension)(nil)
	_ ext.Interrupted  = (*MetricsExtension)(nil)
	_ ext.HandedOff    = (*MetricsExtension)(nil)
	_ ext.RunCompleted = (*MetricsExtension)(nil)
	_ ext.RunFatal     = (*MetricsExtension)(nil)
)

// MetricsExtension records engine lifecycle metrics. If no global
// MeterProvider is configured the instruments are noops and the extension
// costs nothing.
type MetricsExtension struct {
	cycles        metric.Int64Counter
	units         metric.Int64Counter
	interruptions metric.Int64Counter
	handoffs      metric.Int64Counter
	completions   metric.Int64Counter
	fatals        metric.Int64Counter
	unitDuration  metric.Float64Histogram
}

// NewMetricsExtension creates a MetricsExtension using the global OTel
// MeterProvider.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithMeter(otel.Meter(meterName))
}

// NewMetricsExtensionWithMeter creates a MetricsExtension with the
// provided meter. This variant allows injecting a specific MeterProvider
// for testing.
func NewMetricsExtensionWithMeter(meter metric.Meter) *MetricsExtension {
	m := &MetricsExtension{}

	// On error the OTel API returns noop instruments, so the extension
	// degrades gracefully.
	m.cycles, _ = meter.Int64Counter("atom.engine.cycles",
		metric.WithDescription("Total execution cycles started"),
		metric.WithUnit("{cycle}"))
	m.units, _ = meter.Int64Counter("atom.engine.units",
		metric.WithDescription("Total units of step-tree work executed"),
		metric.WithUnit("{unit}"))
	m.interruptions, _ = meter.Int64Counter("atom.engine.interruptions",
		metric.WithDescription("Total cycle interruptions"),
		metric.WithUnit("{interruption}"))
	m.handoffs, _ = meter.Int64Counter("atom.engine.handoffs",
		metric.WithDescription("Total hand-offs back to the host scheduler"),
		metric.WithUnit("{handoff}"))
	m.completions, _ = meter.Int64Counter("atom.engine.completions",
		metric.WithDescription("Total runs completed"),
		metric.WithUnit("{run}"))
	m.fatals, _ = meter.Int64Counter("atom.engine.fatals",
		metric.WithDescription("Total runs terminated by the hand-off budget"),
		metric.WithUnit("{run}"))
	m.unitDuration, _ = meter.Float64Histogram("atom.engine.unit.duration",
		metric.WithDescription("Duration of one executed unit in seconds"),
		metric.WithUnit("s"))

	return m
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

func engineAttrs(r *ext.Run) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("engine_id", r.EngineID.String()),
	)
}

// OnCycleStarted implements ext.CycleStarted.
func (m *MetricsExtension) OnCycleStarted(ctx context.Context, r *ext.Run) error {
	m.cycles.Add(ctx, 1, engineAttrs(r))
	return nil
}

// OnUnitExecuted implements ext.UnitExecuted.
func (m *MetricsExtension) OnUnitExecuted(ctx context.Context, r *ext.Run, elapsed time.Duration) error {
	m.units.Add(ctx, 1, engineAttrs(r))
	m.unitDuration.Record(ctx, elapsed.Seconds(), engineAttrs(r))
	return nil
}

// OnInterrupted implements ext.Interrupted.
func (m *MetricsExtension) OnInterrupted(ctx context.Context, r *ext.Run, reason string) error {
	m.interruptions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("engine_id", r.EngineID.String()),
		attribute.String("reason", reason),
	))
	return nil
}

// OnHandedOff implements ext.HandedOff.
func (m *MetricsExtension) OnHandedOff(ctx context.Context, r *ext.Run) error {
	m.handoffs.Add(ctx, 1, engineAttrs(r))
	return nil
}

// OnRunCompleted implements ext.RunCompleted.
func (m *MetricsExtension) OnRunCompleted(ctx context.Context, r *ext.Run, _ time.Duration) error {
	m.completions.Add(ctx, 1, engineAttrs(r))
	return nil
}

// OnRunFatal implements ext.RunFatal.
func (m *MetricsExtension) OnRunFatal(ctx context.Context, r *ext.Run, _ error) error {
	m.fatals.Add(ctx, 1, engineAttrs(r))
	return nil
}
