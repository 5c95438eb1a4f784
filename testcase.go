package smoketrace

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
)

// TestCase is the scope handed to a Case block. Every instrumented action
// called on it becomes a child span of this case's span; the hierarchy is
// enforced by construction, not by ambient state.
type TestCase struct {
	suite  *Suite
	spanID trace.SpanID
}

// Case runs one test case as a scoped block. It opens the case span as a
// child of the suite span, invokes fn, and on every exit path — normal
// return, error, panic — closes the span and reports the outcome to the
// suite exactly once.
//
// A failure returned by fn (typically an action error that fn let
// propagate) is recorded on the case span with failure_reason and
// failure_url, then returned unchanged: the surrounding test framework
// decides what to do with it. Case never suppresses a failure.
func (s *Suite) Case(ctx context.Context, spec CaseSpec, fn func(ctx context.Context, tc *TestCase) error) (err error) {
	if s.closed {
		return ErrSuiteClosed
	}

	s.total++

	id := s.recorder.Open(s.rootSpan, fmt.Sprintf("test(%q)", spec.Name))
	_ = s.recorder.SetAttribute(id, "test.case.name", spec.Name)
	if spec.ID != "" {
		_ = s.recorder.SetAttribute(id, "test.case.id", spec.ID)
	}
	if spec.Tags != "" {
		_ = s.recorder.SetAttribute(id, "test.case.tags", spec.Tags)
	}
	if spec.Description != "" {
		_ = s.recorder.SetAttribute(id, "test.case.description", spec.Description)
	}

	tc := &TestCase{suite: s, spanID: id}

	defer func() {
		if p := recover(); p != nil {
			s.finishCase(ctx, tc, spec, fmt.Errorf("panic: %v", p))
			panic(p)
		}
		s.finishCase(ctx, tc, spec, err)
	}()

	err = fn(ctx, tc)
	return err
}

// finishCase freezes the case outcome and closes the span. Runs once per
// case, on whichever exit path fires first.
func (s *Suite) finishCase(ctx context.Context, tc *TestCase, spec CaseSpec, failure error) {
	if failure != nil {
		pageURL := s.driver.CurrentURL(ctx)
		_ = s.recorder.SetAttribute(tc.spanID, "test.case.result", "failed")
		_ = s.recorder.SetAttribute(tc.spanID, "test.case.failure_reason", failure.Error())
		if pageURL != "" {
			_ = s.recorder.SetAttribute(tc.spanID, "test.case.failure_url", pageURL)
		}
		_ = s.recorder.SetStatus(tc.spanID, StatusError, failure.Error())

		label := spec.ID
		if label == "" {
			label = spec.Name
		}
		s.logger.Error("test case failed",
			"case", label,
			"suite", s.cfg.SuiteName,
			"error", failure,
			"url", pageURL,
			"trace_id", s.recorder.TraceID().String(),
			"span_id", tc.spanID.String())
		s.reportResult(ctx, false)
	} else {
		_ = s.recorder.SetAttribute(tc.spanID, "test.case.result", "passed")
		_ = s.recorder.SetStatus(tc.spanID, StatusOK, "")
		s.reportResult(ctx, true)
	}
	_, _ = s.recorder.Close(ctx, tc.spanID)
}

// SetAttribute writes a custom attribute on the test-case span, for
// domain attributes outside the instrumented API.
func (tc *TestCase) SetAttribute(key string, value any) error {
	return tc.suite.recorder.SetAttribute(tc.spanID, key, value)
}

// Driver exposes the raw driver for operations not covered by the
// instrumented API.
func (tc *TestCase) Driver() Driver { return tc.suite.driver }
