package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/liumiaowilson/atom/ext"
	"github.com/liumiaowilson/atom/id"
	"github.com/liumiaowilson/atom/observability"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}
	return rm
}

func counterValue(rm metricdata.ResourceMetrics, name string) int64 {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name != name {
				continue
			}
			sum, ok := sm.Metrics[i].Data.(metricdata.Sum[int64])
			if !ok {
				return 0
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestMetricsExtensionRecordsLifecycle(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m := observability.NewMetricsExtensionWithMeter(mp.Meter("test"))

	ctx := context.Background()
	run := &ext.Run{EngineID: id.NewEngineID(), RunID: id.NewRunID()}

	if err := m.OnCycleStarted(ctx, run); err != nil {
		t.Fatalf("OnCycleStarted: %v", err)
	}
	for range 3 {
		if err := m.OnUnitExecuted(ctx, run, time.Millisecond); err != nil {
			t.Fatalf("OnUnitExecuted: %v", err)
		}
	}
	if err := m.OnInterrupted(ctx, run, "heap budget nearly exhausted"); err != nil {
		t.Fatalf("OnInterrupted: %v", err)
	}
	if err := m.OnHandedOff(ctx, run); err != nil {
		t.Fatalf("OnHandedOff: %v", err)
	}
	if err := m.OnRunCompleted(ctx, run, 5*time.Millisecond); err != nil {
		t.Fatalf("OnRunCompleted: %v", err)
	}
	if err := m.OnRunFatal(ctx, run, errors.New("budget exceeded")); err != nil {
		t.Fatalf("OnRunFatal: %v", err)
	}

	rm := collect(t, reader)

	checks := []struct {
		name string
		want int64
	}{
		{"atom.engine.cycles", 1},
		{"atom.engine.units", 3},
		{"atom.engine.interruptions", 1},
		{"atom.engine.handoffs", 1},
		{"atom.engine.completions", 1},
		{"atom.engine.fatals", 1},
	}
	for _, c := range checks {
		if got := counterValue(rm, c.name); got != c.want {
			t.Errorf("%s = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestMetricsExtensionName(t *testing.T) {
	m := observability.NewMetricsExtension()
	if m.Name() != "observability-metrics" {
		t.Errorf("Name = %q", m.Name())
	}
}
