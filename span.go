package smoketrace

import (
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Span is the immutable snapshot of a completed unit of recorded work.
// This is what reaches an Exporter: by the time Push sees a Span, no
// writer can touch it again.
//
// Identifiers reuse the OTel trace types so the default OTLP exporter
// maps them onto the wire without translation. ParentID is the zero
// value for the root span of a run.
type Span struct {
	TraceID  trace.TraceID
	SpanID   trace.SpanID
	ParentID trace.SpanID

	Name      string
	StartTime time.Time
	EndTime   time.Time

	// Attributes holds scalar values only (string, bool, int, int64,
	// float64). Keys are flat dot-separated strings, e.g.
	// "test.action.selector".
	Attributes map[string]any

	Status        Status
	StatusMessage string
}

// Duration is the wall-clock time between open and close.
func (s *Span) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Attr returns the attribute stored under key, or nil.
func (s *Span) Attr(key string) any {
	return s.Attributes[key]
}
