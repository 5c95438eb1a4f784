package smoketrace

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Version is the instrumentation scope version reported on exported spans.
const Version = "0.2.0"

const scopeName = "github.com/smoketrace/smoketrace"

// OTLPExporter is the default Exporter: completed spans are snapshotted
// into OTel SDK form and shipped over OTLP/HTTP. It also owns the meter
// provider for run metrics so one Shutdown releases both signals.
type OTLPExporter struct {
	traces sdktrace.SpanExporter
	meters *sdkmetric.MeterProvider
	res    *resource.Resource
	scope  instrumentation.Scope
}

// NewOTLPExporter connects trace and metric OTLP/HTTP exporters to
// endpoint. An "http://" scheme on the endpoint forces an insecure
// connection; "https://" forces TLS; a bare host:port follows insecure.
func NewOTLPExporter(ctx context.Context, endpoint, serviceName, environment string, insecure bool) (*OTLPExporter, error) {
	host := endpoint
	if after, ok := strings.CutPrefix(host, "http://"); ok {
		host, insecure = after, true
	} else if after, ok := strings.CutPrefix(host, "https://"); ok {
		host, insecure = after, false
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(Version),
			attribute.String("deployment.environment", environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp: create resource: %w", err)
	}

	traceOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(host),
	}
	if insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
	}
	traceExp, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("otlp: create trace exporter: %w", err)
	}

	metricOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(host),
	}
	if insecure {
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}
	metricExp, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		return nil, fmt.Errorf("otlp: create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExp,
				sdkmetric.WithInterval(15*time.Second),
			),
		),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	return &OTLPExporter{
		traces: traceExp,
		meters: mp,
		res:    res,
		scope:  instrumentation.Scope{Name: scopeName, Version: Version},
	}, nil
}

// Push exports one completed span. Called by the Span Recorder on every
// close; a returned error is the recorder's to log and swallow. Spans are
// exported one at a time so each failure is attributable — batching is
// the collector's concern, not this adapter's.
func (e *OTLPExporter) Push(ctx context.Context, s *Span) error {
	stub := tracetest.SpanStub{
		Name: s.Name,
		SpanContext: trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    s.TraceID,
			SpanID:     s.SpanID,
			TraceFlags: trace.FlagsSampled,
		}),
		SpanKind:             trace.SpanKindInternal,
		StartTime:            s.StartTime,
		EndTime:              s.EndTime,
		Attributes:           toKeyValues(s.Attributes),
		Status:               sdktrace.Status{Code: statusCode(s.Status), Description: s.StatusMessage},
		Resource:             e.res,
		InstrumentationScope: e.scope,
	}
	if s.ParentID.IsValid() {
		stub.Parent = trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    s.TraceID,
			SpanID:     s.ParentID,
			TraceFlags: trace.FlagsSampled,
		})
	}
	if err := e.traces.ExportSpans(ctx, []sdktrace.ReadOnlySpan{stub.Snapshot()}); err != nil {
		return fmt.Errorf("otlp: export span %q: %w", s.Name, err)
	}
	return nil
}

// Shutdown flushes both signal pipelines. The first error wins but both
// shutdowns always run.
func (e *OTLPExporter) Shutdown(ctx context.Context) error {
	var firstErr error
	if err := e.traces.Shutdown(ctx); err != nil {
		firstErr = err
	}
	if err := e.meters.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func statusCode(s Status) codes.Code {
	switch s {
	case StatusOK:
		return codes.Ok
	case StatusError:
		return codes.Error
	default:
		return codes.Unset
	}
}

// toKeyValues converts the span attribute map to OTel key/values in
// deterministic key order.
func toKeyValues(attrs map[string]any) []attribute.KeyValue {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kvs := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		switch v := attrs[k].(type) {
		case string:
			kvs = append(kvs, attribute.String(k, v))
		case bool:
			kvs = append(kvs, attribute.Bool(k, v))
		case int:
			kvs = append(kvs, attribute.Int(k, v))
		case int64:
			kvs = append(kvs, attribute.Int64(k, v))
		case float64:
			kvs = append(kvs, attribute.Float64(k, v))
		default:
			kvs = append(kvs, attribute.String(k, fmt.Sprint(v)))
		}
	}
	return kvs
}
