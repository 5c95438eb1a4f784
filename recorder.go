package smoketrace

import (
	"context"
	"crypto/rand"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Recorder owns every span of one suite run. It has no knowledge of
// suite/test/action semantics — controllers build the hierarchy by
// passing parent IDs explicitly.
//
// The contract it enforces:
//   - attributes and status are writable until Close, then frozen;
//   - Close is idempotent and emits the span to the exporter exactly once;
//   - a span never closes while a child is still open — Close sweeps
//     open descendants first, marking them interrupted;
//   - exporter failures are logged and swallowed, never returned.
type Recorder struct {
	logger   *slog.Logger
	exporter Exporter
	traceID  trace.TraceID

	mu    sync.Mutex
	spans map[trace.SpanID]*spanState
}

type spanState struct {
	span     Span
	closed   bool
	children []trace.SpanID
}

// NewRecorder creates a recorder with a fresh trace ID. One recorder per
// suite run.
func NewRecorder(exporter Exporter, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		logger:   logger,
		exporter: exporter,
		traceID:  newTraceID(),
		spans:    make(map[trace.SpanID]*spanState),
	}
}

// TraceID returns the run's trace ID, shared by all spans.
func (r *Recorder) TraceID() trace.TraceID { return r.traceID }

// Open starts a span under parent. A zero parent opens a root span; a
// non-zero parent must name a known open span or Open returns the zero
// SpanID. The public controllers always thread live parents, so a zero
// return indicates a programming error in calling code.
func (r *Recorder) Open(parent trace.SpanID, name string) trace.SpanID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if parent.IsValid() {
		ps, ok := r.spans[parent]
		if !ok || ps.closed {
			return trace.SpanID{}
		}
	}

	id := r.newSpanID()
	r.spans[id] = &spanState{
		span: Span{
			TraceID:    r.traceID,
			SpanID:     id,
			ParentID:   parent,
			Name:       name,
			StartTime:  time.Now().UTC(),
			Attributes: make(map[string]any),
			Status:     StatusUnset,
		},
	}
	if parent.IsValid() {
		p := r.spans[parent]
		p.children = append(p.children, id)
	}
	return id
}

// SetAttribute writes a key/value pair on an open span. Later writes to
// the same key overwrite. Returns ErrSpanClosed once the span is closed.
func (r *Recorder) SetAttribute(id trace.SpanID, key string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.spans[id]
	if !ok {
		return ErrSpanNotFound
	}
	if st.closed {
		return ErrSpanClosed
	}
	st.span.Attributes[key] = value
	return nil
}

// SetStatus records the terminal status. Same closed-span rule as
// SetAttribute.
func (r *Recorder) SetStatus(id trace.SpanID, status Status, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.spans[id]
	if !ok {
		return ErrSpanNotFound
	}
	if st.closed {
		return ErrSpanClosed
	}
	st.span.Status = status
	st.span.StatusMessage = message
	return nil
}

// Close finalizes a span and emits it to the exporter, returning the
// captured duration. Open descendants are closed first (deepest first)
// with an error status, so spans always close in strict reverse-of-open
// order along a hierarchy path. Closing an already-closed span is a
// no-op: zero duration, nil error, nothing re-emitted.
func (r *Recorder) Close(ctx context.Context, id trace.SpanID) (time.Duration, error) {
	r.mu.Lock()
	st, ok := r.spans[id]
	if !ok {
		r.mu.Unlock()
		return 0, ErrSpanNotFound
	}
	if st.closed {
		r.mu.Unlock()
		return 0, nil
	}

	completed := r.closeLocked(st, false)
	d := st.span.Duration()
	r.mu.Unlock()

	for _, span := range completed {
		if err := r.exporter.Push(ctx, span); err != nil {
			r.logger.Warn("span export failed",
				"span", span.Name,
				"span_id", span.SpanID.String(),
				"error", err)
		}
	}
	return d, nil
}

// closeLocked closes st and any still-open descendants, returning the
// completed snapshots in close order (children before parents). Callers
// hold r.mu; pushes happen after unlock.
func (r *Recorder) closeLocked(st *spanState, interrupted bool) []*Span {
	var completed []*Span
	for _, childID := range st.children {
		child := r.spans[childID]
		if child.closed {
			continue
		}
		r.logger.Warn("closing span with open child",
			"span", st.span.Name, "child", child.span.Name)
		completed = append(completed, r.closeLocked(child, true)...)
	}

	if interrupted && st.span.Status == StatusUnset {
		st.span.Status = StatusError
		st.span.StatusMessage = "interrupted"
	}
	st.span.EndTime = time.Now().UTC()
	if st.span.EndTime.Before(st.span.StartTime) {
		st.span.EndTime = st.span.StartTime
	}
	st.closed = true

	snapshot := st.span
	snapshot.Attributes = make(map[string]any, len(st.span.Attributes))
	for k, v := range st.span.Attributes {
		snapshot.Attributes[k] = v
	}
	return append(completed, &snapshot)
}

// OpenSpans reports the names of spans that are still open, for orphan
// accounting on the suite shutdown path.
func (r *Recorder) OpenSpans() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var open []string
	for _, st := range r.spans {
		if !st.closed {
			open = append(open, st.span.Name)
		}
	}
	return open
}

func newTraceID() trace.TraceID {
	var id trace.TraceID
	for !id.IsValid() {
		_, _ = rand.Read(id[:])
	}
	return id
}

func (r *Recorder) newSpanID() trace.SpanID {
	var id trace.SpanID
	for {
		_, _ = rand.Read(id[:])
		if !id.IsValid() {
			continue
		}
		if _, taken := r.spans[id]; !taken {
			return id
		}
	}
}
