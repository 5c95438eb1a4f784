package smoketrace

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// runMetrics records aggregate run telemetry through the global meter
// provider. A nil *runMetrics is valid and records nothing, so a failed
// instrument registration degrades silently instead of touching test
// outcomes.
type runMetrics struct {
	caseOutcomes   metric.Int64Counter
	actionDuration metric.Float64Histogram
}

func newRunMetrics() (*runMetrics, error) {
	meter := otel.GetMeterProvider().Meter(scopeName)

	caseOutcomes, err := meter.Int64Counter("test.case.outcomes",
		metric.WithDescription("Test case outcomes by result"))
	if err != nil {
		return nil, err
	}
	actionDuration, err := meter.Float64Histogram("test.action.duration",
		metric.WithDescription("Instrumented action duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	return &runMetrics{caseOutcomes: caseOutcomes, actionDuration: actionDuration}, nil
}

func (m *runMetrics) recordCase(ctx context.Context, passed bool) {
	if m == nil {
		return
	}
	result := "failed"
	if passed {
		result = "passed"
	}
	m.caseOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (m *runMetrics) recordAction(ctx context.Context, actionType string, d time.Duration) {
	if m == nil {
		return
	}
	m.actionDuration.Record(ctx, float64(d)/float64(time.Millisecond),
		metric.WithAttributes(attribute.String("type", actionType)))
}
