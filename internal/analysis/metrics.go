package analysis

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "trace-explorer/analysis"

type runMetrics struct {
	runs          metric.Int64Counter
	failedBatches metric.Int64Counter
	scored        metric.Int64Counter
	duration      metric.Float64Histogram
}

// newRunMetrics builds the run instruments. Instrument errors fall back to
// no-op instruments from the meter, so recording is always safe.
func newRunMetrics(meter metric.Meter) runMetrics {
	var m runMetrics
	m.runs, _ = meter.Int64Counter("trace_explorer.analysis.runs_total",
		metric.WithDescription("Completed analysis runs."))
	m.failedBatches, _ = meter.Int64Counter("trace_explorer.analysis.failed_batches_total",
		metric.WithDescription("Batches whose scoring produced no results."))
	m.scored, _ = meter.Int64Counter("trace_explorer.analysis.traces_scored_total",
		metric.WithDescription("Trace scores merged into the store."))
	m.duration, _ = meter.Float64Histogram("trace_explorer.analysis.duration_seconds",
		metric.WithDescription("Wall time of an analysis run."),
		metric.WithUnit("s"))
	return m
}

func defaultRunMetrics() runMetrics {
	return newRunMetrics(otel.Meter(instrumentationName))
}

func (m runMetrics) record(ctx context.Context, sum *RunSummary, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("category", sum.Category))
	if m.runs != nil {
		m.runs.Add(ctx, 1, attrs)
	}
	if m.failedBatches != nil && sum.Failed > 0 {
		m.failedBatches.Add(ctx, int64(sum.Failed), attrs)
	}
	if m.scored != nil {
		m.scored.Add(ctx, int64(sum.Updated), attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, d.Seconds(), attrs)
	}
}
