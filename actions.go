package smoketrace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/smoketrace/smoketrace/internal/redact"
)

// Action controller: each method wraps one driver operation in an action
// span named "{type}({selector})", or bare "{type}" when no selector
// applies. Failures are recorded on the span and then returned to the
// caller — an action never swallows its own failure, only the recorder
// swallows exporter failures.

func (tc *TestCase) startAction(ctx context.Context, actionType, selector string) (trace.SpanID, time.Time) {
	name := actionType
	if selector != "" {
		name = fmt.Sprintf("%s(%s)", actionType, selector)
	}
	rec := tc.suite.recorder
	id := rec.Open(tc.spanID, name)
	_ = rec.SetAttribute(id, "test.action.type", actionType)
	if selector != "" {
		_ = rec.SetAttribute(id, "test.action.selector", selector)
	}
	if pageURL := tc.suite.driver.CurrentURL(ctx); pageURL != "" {
		_ = rec.SetAttribute(id, "test.action.page_url", pageURL)
	}
	return id, time.Now()
}

func (tc *TestCase) finishOK(ctx context.Context, id trace.SpanID, actionType string, start time.Time) {
	rec := tc.suite.recorder
	elapsed := time.Since(start)
	_ = rec.SetAttribute(id, "test.action.duration_ms", durationMS(elapsed))
	_ = rec.SetAttribute(id, "test.action.result", "success")
	_ = rec.SetStatus(id, StatusOK, "")
	_, _ = rec.Close(ctx, id)
	tc.suite.metrics.recordAction(ctx, actionType, elapsed)
}

func (tc *TestCase) finishErr(ctx context.Context, id trace.SpanID, actionType string, start time.Time, err error) error {
	rec := tc.suite.recorder
	elapsed := time.Since(start)
	result := "failed"
	if errors.Is(err, ErrTimeout) {
		result = "timeout"
	}
	_ = rec.SetAttribute(id, "test.action.duration_ms", durationMS(elapsed))
	_ = rec.SetAttribute(id, "test.action.result", result)
	_ = rec.SetAttribute(id, "test.action.error", err.Error())
	_ = rec.SetStatus(id, StatusError, err.Error())
	_, _ = rec.Close(ctx, id)
	tc.suite.metrics.recordAction(ctx, actionType, elapsed)
	return err
}

// Navigate loads a URL and captures navigation performance timing.
func (tc *TestCase) Navigate(ctx context.Context, url string) error {
	id, start := tc.startAction(ctx, "navigate", "")
	rec := tc.suite.recorder
	_ = rec.SetAttribute(id, "test.action.target_url", url)

	res, err := tc.suite.driver.Navigate(ctx, url)
	if err != nil {
		return tc.finishErr(ctx, id, "navigate", start, err)
	}

	_ = rec.SetAttribute(id, "test.navigation.response_status", res.Status)
	if t := res.Timing; t != nil {
		_ = rec.SetAttribute(id, "test.navigation.dom_content_loaded_ms", t.DOMContentLoadedMS)
		_ = rec.SetAttribute(id, "test.navigation.dom_interactive_ms", t.DOMInteractiveMS)
		_ = rec.SetAttribute(id, "test.navigation.load_event_ms", t.LoadEventMS)
		_ = rec.SetAttribute(id, "test.navigation.transfer_size_bytes", t.TransferSizeBytes)
	}
	tc.finishOK(ctx, id, "navigate", start)
	return nil
}

// Click clicks an element.
func (tc *TestCase) Click(ctx context.Context, selector string) error {
	id, start := tc.startAction(ctx, "click", selector)
	if err := tc.suite.driver.Click(ctx, selector); err != nil {
		return tc.finishErr(ctx, id, "click", start, err)
	}
	tc.finishOK(ctx, id, "click", start)
	return nil
}

// Fill types a value into a form field. The recorded input_value passes
// through the redaction engine: fields whose selector matches the
// denylist are recorded as the sentinel, never the real value, on every
// code path.
func (tc *TestCase) Fill(ctx context.Context, selector, value string) error {
	return tc.fill(ctx, selector, value, false)
}

// FillSensitive is Fill with unconditional redaction, for fields the
// denylist cannot know about.
func (tc *TestCase) FillSensitive(ctx context.Context, selector, value string) error {
	return tc.fill(ctx, selector, value, true)
}

func (tc *TestCase) fill(ctx context.Context, selector, value string, sensitive bool) error {
	// Redact before the first attribute write so no path can leak the
	// real value into the span.
	recorded := redact.Apply(value, selector, sensitive)

	id, start := tc.startAction(ctx, "fill", selector)
	_ = tc.suite.recorder.SetAttribute(id, "test.action.input_value", recorded)

	if err := tc.suite.driver.Fill(ctx, selector, value); err != nil {
		return tc.finishErr(ctx, id, "fill", start, err)
	}
	tc.finishOK(ctx, id, "fill", start)
	return nil
}

// AssertVisible waits for an element to become visible.
func (tc *TestCase) AssertVisible(ctx context.Context, selector string) error {
	id, start := tc.startAction(ctx, "assert_visible", selector)

	waitStart := time.Now()
	err := tc.suite.driver.WaitForState(ctx, selector, StateVisible, defaultWaitTimeout)
	_ = tc.suite.recorder.SetAttribute(id, "test.action.wait_ms", durationMS(time.Since(waitStart)))
	if err != nil {
		return tc.finishErr(ctx, id, "assert_visible", start, err)
	}
	tc.finishOK(ctx, id, "assert_visible", start)
	return nil
}

// AssertText waits for an element and asserts it contains the expected
// text, case-insensitively.
func (tc *TestCase) AssertText(ctx context.Context, selector, expected string) error {
	id, start := tc.startAction(ctx, "assert_text", selector)
	rec := tc.suite.recorder

	waitStart := time.Now()
	if err := tc.suite.driver.WaitForState(ctx, selector, StateVisible, defaultWaitTimeout); err != nil {
		_ = rec.SetAttribute(id, "test.action.wait_ms", durationMS(time.Since(waitStart)))
		return tc.finishErr(ctx, id, "assert_text", start, err)
	}
	_ = rec.SetAttribute(id, "test.action.wait_ms", durationMS(time.Since(waitStart)))

	text, err := tc.suite.driver.Text(ctx, selector)
	if err != nil {
		return tc.finishErr(ctx, id, "assert_text", start, err)
	}
	if !strings.Contains(strings.ToLower(text), strings.ToLower(expected)) {
		failure := &AssertionError{Msg: fmt.Sprintf("expected %q in %q", expected, text)}
		return tc.finishErr(ctx, id, "assert_text", start, failure)
	}
	tc.finishOK(ctx, id, "assert_text", start)
	return nil
}

// AssertCount asserts how many elements match a selector.
func (tc *TestCase) AssertCount(ctx context.Context, selector string, expected int) error {
	id, start := tc.startAction(ctx, "assert_count", selector)

	actual, err := tc.suite.driver.Count(ctx, selector)
	if err != nil {
		return tc.finishErr(ctx, id, "assert_count", start, err)
	}
	if actual != expected {
		failure := &AssertionError{Msg: fmt.Sprintf("expected %d elements matching %q, got %d", expected, selector, actual)}
		return tc.finishErr(ctx, id, "assert_count", start, failure)
	}
	tc.finishOK(ctx, id, "assert_count", start)
	return nil
}

// AssertURL asserts the current page URL contains a pattern.
func (tc *TestCase) AssertURL(ctx context.Context, pattern string) error {
	id, start := tc.startAction(ctx, "assert_url", "")

	current := tc.suite.driver.CurrentURL(ctx)
	if !strings.Contains(current, pattern) {
		failure := &AssertionError{Msg: fmt.Sprintf("expected %q in URL, got %q", pattern, current)}
		return tc.finishErr(ctx, id, "assert_url", start, failure)
	}
	tc.finishOK(ctx, id, "assert_url", start)
	return nil
}

// WithActionSpan wraps a custom block in an action span, for instrumented
// steps outside the built-in operation set. The block's error is recorded
// and returned, matching built-in action semantics.
func (tc *TestCase) WithActionSpan(ctx context.Context, actionType, selector string, attrs map[string]any, fn func(ctx context.Context) error) error {
	id, start := tc.startAction(ctx, actionType, selector)
	for k, v := range attrs {
		_ = tc.suite.recorder.SetAttribute(id, k, v)
	}
	if err := fn(ctx); err != nil {
		return tc.finishErr(ctx, id, actionType, start, err)
	}
	tc.finishOK(ctx, id, actionType, start)
	return nil
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
