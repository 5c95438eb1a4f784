// Package smoketrace models an end-to-end browser test run as a single
// distributed trace: one root span per suite run, one child span per test
// case, one grandchild span per user-facing action. This inverts the
// usual one-trace-per-request model so test execution gets the same
// trace-based observability as production services.
//
// Usage:
//
//	suite, err := smoketrace.NewSuite(ctx,
//	    smoketrace.WithSuiteName("checkout-smoke"),
//	    smoketrace.WithDriver(driver),
//	)
//	if err != nil { ... }
//	defer suite.Close(ctx)
//
//	err = suite.Case(ctx, smoketrace.CaseSpec{Name: "login", ID: "TC-001"},
//	    func(ctx context.Context, tc *smoketrace.TestCase) error {
//	        if err := tc.Navigate(ctx, "http://localhost:8080"); err != nil {
//	            return err
//	        }
//	        return tc.AssertVisible(ctx, "h1")
//	    })
//
// Instrumentation is strictly best-effort: a failing exporter can never
// turn a passing test into a failing one, and a real failure is always
// re-raised to the caller after being recorded.
package smoketrace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"

	"github.com/smoketrace/smoketrace/internal/config"
	"github.com/smoketrace/smoketrace/internal/vcs"
)

// Suite is the root owner of a trace. It opens the root span, owns the
// exporter connection for the run's lifetime, and aggregates test-case
// outcomes. Construct with NewSuite, finish with Close.
//
// A Suite and everything under it runs in one logical flow; test cases
// and actions execute sequentially, never concurrently with one another.
type Suite struct {
	cfg      config.Config
	logger   *slog.Logger
	driver   Driver
	exporter Exporter
	recorder *Recorder
	metrics  *runMetrics

	runID    string
	rootSpan trace.SpanID

	total  int
	passed int
	failed int
	closed bool
}

// NewSuite resolves configuration, connects the exporter and opens the
// root span. Explicit options strictly override environment values, which
// override documented defaults; resolution happens exactly once here.
func NewSuite(ctx context.Context, opts ...Option) (*Suite, error) {
	o := resolvedOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Load .env if present (non-fatal; CI won't have one).
	_ = godotenv.Load()

	cfg := config.Load()
	if o.serviceName != "" {
		cfg.ServiceName = o.serviceName
	}
	if o.suiteName != "" {
		cfg.SuiteName = o.suiteName
	}
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.endpoint != "" {
		cfg.OTLPEndpoint = o.endpoint
	}
	if o.insecure != nil {
		cfg.OTLPInsecure = *o.insecure
	}
	if o.environment != "" {
		cfg.Environment = o.environment
	}
	if o.trigger != "" {
		cfg.Trigger = o.trigger
	}
	if o.browser != "" {
		cfg.Browser = o.browser
	}
	if o.headless != nil {
		cfg.Headless = *o.headless
	}
	if o.viewportWidth > 0 {
		cfg.ViewportWidth = o.viewportWidth
	}
	if o.viewportHeight > 0 {
		cfg.ViewportHeight = o.viewportHeight
	}
	if o.screenshotPolicy != "" {
		cfg.ScreenshotPolicy = o.screenshotPolicy
	}

	if cfg.SuiteName == "" {
		cfg.SuiteName = "default"
	}

	if o.driver == nil {
		return nil, fmt.Errorf("smoketrace: a Driver is required (WithDriver)")
	}

	exporter := o.exporter
	if exporter == nil {
		var err error
		exporter, err = NewOTLPExporter(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Environment, cfg.OTLPInsecure)
		if err != nil {
			return nil, fmt.Errorf("smoketrace: exporter: %w", err)
		}
	}

	metrics, err := newRunMetrics()
	if err != nil {
		logger.Warn("run metrics disabled", "error", err)
		metrics = nil
	}

	s := &Suite{
		cfg:      cfg,
		logger:   logger,
		driver:   o.driver,
		exporter: exporter,
		recorder: NewRecorder(exporter, logger),
		metrics:  metrics,
		runID:    uuid.NewString(),
	}

	s.rootSpan = s.recorder.Open(trace.SpanID{}, fmt.Sprintf("suite(%q)", cfg.SuiteName))
	s.setSuiteAttrs()

	logger.Info("suite started",
		"suite", cfg.SuiteName,
		"run_id", s.runID,
		"trace_id", s.recorder.TraceID().String())

	return s, nil
}

func (s *Suite) setSuiteAttrs() {
	set := func(key string, value any) {
		_ = s.recorder.SetAttribute(s.rootSpan, key, value)
	}
	set("test.suite.name", s.cfg.SuiteName)
	set("test.suite.id", s.runID)
	set("test.run.trigger", s.cfg.Trigger)
	set("test.run.timestamp", time.Now().UTC().Format(time.RFC3339))
	set("test.target.base_url", s.cfg.BaseURL)
	set("test.target.environment", s.cfg.Environment)
	set("test.browser.name", s.cfg.Browser)
	set("test.browser.headless", s.cfg.Headless)
	set("test.viewport.width", s.cfg.ViewportWidth)
	set("test.viewport.height", s.cfg.ViewportHeight)
	set("test.browser.screenshot_policy", s.cfg.ScreenshotPolicy)

	if info := vcs.Discover(); info.CommitSHA != "" || info.Branch != "" {
		if info.CommitSHA != "" {
			set("vcs.commit.sha", info.CommitSHA)
		}
		if info.Branch != "" {
			set("vcs.branch", info.Branch)
		}
	}
}

// reportResult tallies one test-case outcome. Called exactly once per
// Case invocation, on its exit path.
func (s *Suite) reportResult(ctx context.Context, passed bool) {
	if passed {
		s.passed++
	} else {
		s.failed++
	}
	s.metrics.recordCase(ctx, passed)
}

// Summary returns the aggregated outcome so far.
func (s *Suite) Summary() Summary {
	return Summary{
		Total:  s.total,
		Passed: s.passed,
		Failed: s.failed,
		Result: s.result(),
	}
}

func (s *Suite) result() string {
	switch {
	case s.failed == 0 && s.total > 0:
		return "passed"
	case s.passed == 0 && s.total > 0:
		return "failed"
	default:
		return "partial"
	}
}

// RunID returns the run identifier, generated once per suite.
func (s *Suite) RunID() string { return s.runID }

// TraceID returns the trace identifier shared by every span of this run.
func (s *Suite) TraceID() trace.TraceID { return s.recorder.TraceID() }

// Close finalizes the run: writes the aggregate attributes, sweeps any
// spans left open by an interrupted run, closes the root span and shuts
// the exporter down. Exporter shutdown failure is logged, never
// returned — observability is not a correctness dependency. Close is
// idempotent.
func (s *Suite) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	set := func(key string, value any) {
		_ = s.recorder.SetAttribute(s.rootSpan, key, value)
	}
	set("test.suite.total_tests", s.total)
	set("test.suite.passed", s.passed)
	set("test.suite.failed", s.failed)
	set("test.suite.result", s.result())
	_ = s.recorder.SetStatus(s.rootSpan, StatusOK, "")

	// Anything still open besides the root was orphaned by an
	// interrupted run. Closing the root closes them with an error
	// status; name them first so the loss is visible, not silent.
	if open := s.recorder.OpenSpans(); len(open) > 1 {
		s.logger.Warn("orphaned spans at suite shutdown", "count", len(open)-1, "spans", open)
	}

	if _, err := s.recorder.Close(ctx, s.rootSpan); err != nil {
		s.logger.Warn("root span close failed", "error", err)
	}

	if err := s.exporter.Shutdown(ctx); err != nil {
		s.logger.Warn("exporter shutdown failed", "error", err)
	}

	s.logger.Info("suite finished",
		"suite", s.cfg.SuiteName,
		"total", s.total,
		"passed", s.passed,
		"failed", s.failed,
		"result", s.result())
	return nil
}
