package smoketrace_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"github.com/smoketrace/smoketrace"
)

func newRecorder(exporter *fakeExporter) (*smoketrace.Recorder, *strings.Builder) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return smoketrace.NewRecorder(exporter, logger), &buf
}

func TestRecorderSpanLifecycle(t *testing.T) {
	exp := &fakeExporter{}
	rec, _ := newRecorder(exp)
	ctx := context.Background()

	id := rec.Open(trace.SpanID{}, "root")
	if !id.IsValid() {
		t.Fatal("Open returned invalid span ID")
	}
	if err := rec.SetAttribute(id, "k", "v"); err != nil {
		t.Fatalf("SetAttribute: %v", err)
	}
	if err := rec.SetStatus(id, smoketrace.StatusOK, ""); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	d, err := rec.Close(ctx, id)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if d < 0 {
		t.Fatalf("negative duration %v", d)
	}

	if len(exp.pushed) != 1 {
		t.Fatalf("expected 1 exported span, got %d", len(exp.pushed))
	}
	s := exp.pushed[0]
	if s.Name != "root" || s.Attr("k") != "v" || s.Status != smoketrace.StatusOK {
		t.Fatalf("unexpected exported span: %+v", s)
	}
	if s.EndTime.Before(s.StartTime) {
		t.Fatal("EndTime before StartTime")
	}
	if s.TraceID != rec.TraceID() {
		t.Fatal("span does not carry the recorder trace ID")
	}
	if s.ParentID.IsValid() {
		t.Fatal("root span should have zero parent")
	}
}

func TestRecorderAttributeOverwrite(t *testing.T) {
	exp := &fakeExporter{}
	rec, _ := newRecorder(exp)

	id := rec.Open(trace.SpanID{}, "s")
	_ = rec.SetAttribute(id, "result", "success")
	_ = rec.SetAttribute(id, "result", "failed")
	_, _ = rec.Close(context.Background(), id)

	if got := exp.pushed[0].Attr("result"); got != "failed" {
		t.Fatalf("later write should overwrite, got %v", got)
	}
}

func TestRecorderClosedSpanIsImmutable(t *testing.T) {
	exp := &fakeExporter{}
	rec, _ := newRecorder(exp)
	ctx := context.Background()

	id := rec.Open(trace.SpanID{}, "s")
	_, _ = rec.Close(ctx, id)

	if err := rec.SetAttribute(id, "k", "v"); !errors.Is(err, smoketrace.ErrSpanClosed) {
		t.Fatalf("SetAttribute after close: got %v, want ErrSpanClosed", err)
	}
	if err := rec.SetStatus(id, smoketrace.StatusError, "late"); !errors.Is(err, smoketrace.ErrSpanClosed) {
		t.Fatalf("SetStatus after close: got %v, want ErrSpanClosed", err)
	}
	if exp.pushed[0].Attr("k") != nil {
		t.Fatal("late attribute write leaked into the exported span")
	}
}

func TestRecorderCloseIdempotent(t *testing.T) {
	exp := &fakeExporter{}
	rec, _ := newRecorder(exp)
	ctx := context.Background()

	id := rec.Open(trace.SpanID{}, "s")
	if _, err := rec.Close(ctx, id); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	d, err := rec.Close(ctx, id)
	if err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}
	if d != 0 {
		t.Fatalf("second Close duration = %v, want 0", d)
	}
	if len(exp.pushed) != 1 {
		t.Fatalf("span re-emitted on second close: %d pushes", len(exp.pushed))
	}
}

func TestRecorderUnknownSpan(t *testing.T) {
	rec, _ := newRecorder(&fakeExporter{})

	var bogus trace.SpanID
	bogus[0] = 0xff
	if err := rec.SetAttribute(bogus, "k", "v"); !errors.Is(err, smoketrace.ErrSpanNotFound) {
		t.Fatalf("got %v, want ErrSpanNotFound", err)
	}
	if _, err := rec.Close(context.Background(), bogus); !errors.Is(err, smoketrace.ErrSpanNotFound) {
		t.Fatalf("got %v, want ErrSpanNotFound", err)
	}
}

func TestRecorderOpenUnderClosedParent(t *testing.T) {
	rec, _ := newRecorder(&fakeExporter{})
	ctx := context.Background()

	parent := rec.Open(trace.SpanID{}, "parent")
	_, _ = rec.Close(ctx, parent)

	if child := rec.Open(parent, "child"); child.IsValid() {
		t.Fatal("Open under a closed parent should return the zero SpanID")
	}
}

func TestRecorderHierarchy(t *testing.T) {
	exp := &fakeExporter{}
	rec, _ := newRecorder(exp)
	ctx := context.Background()

	root := rec.Open(trace.SpanID{}, "root")
	child := rec.Open(root, "child")
	grandchild := rec.Open(child, "grandchild")

	_, _ = rec.Close(ctx, grandchild)
	_, _ = rec.Close(ctx, child)
	_, _ = rec.Close(ctx, root)

	gc := exp.mustByName(t, "grandchild")
	c := exp.mustByName(t, "child")
	r := exp.mustByName(t, "root")
	if gc.ParentID != c.SpanID || c.ParentID != r.SpanID {
		t.Fatal("parent links broken")
	}
	// Close order is strict reverse-of-open along the path.
	if exp.pushed[0].Name != "grandchild" || exp.pushed[2].Name != "root" {
		t.Fatalf("unexpected close order: %s, %s, %s",
			exp.pushed[0].Name, exp.pushed[1].Name, exp.pushed[2].Name)
	}
}

func TestRecorderCloseSweepsOpenChildren(t *testing.T) {
	exp := &fakeExporter{}
	rec, logBuf := newRecorder(exp)
	ctx := context.Background()

	root := rec.Open(trace.SpanID{}, "root")
	_ = rec.Open(root, "child")

	// Closing the parent with the child still open must close the child
	// first, with an error status, so no span closes before its children.
	_, err := rec.Close(ctx, root)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(exp.pushed) != 2 {
		t.Fatalf("expected 2 exported spans, got %d", len(exp.pushed))
	}
	if exp.pushed[0].Name != "child" {
		t.Fatalf("child must close before parent, first push was %q", exp.pushed[0].Name)
	}
	c := exp.mustByName(t, "child")
	if c.Status != smoketrace.StatusError || c.StatusMessage != "interrupted" {
		t.Fatalf("swept child status = %s %q", c.Status, c.StatusMessage)
	}
	if !strings.Contains(logBuf.String(), "open child") {
		t.Fatal("expected a warning about the open child")
	}
}

func TestRecorderExporterFailureSwallowed(t *testing.T) {
	exp := &fakeExporter{pushErr: errBoom}
	rec, logBuf := newRecorder(exp)

	id := rec.Open(trace.SpanID{}, "s")
	if _, err := rec.Close(context.Background(), id); err != nil {
		t.Fatalf("exporter failure must not propagate, got %v", err)
	}
	if !strings.Contains(logBuf.String(), "span export failed") {
		t.Fatal("expected a warning for the failed export")
	}
}
