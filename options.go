package smoketrace

import "log/slog"

// Option configures a Suite.
type Option func(*resolvedOptions)

// resolvedOptions holds constructor overrides before they are merged
// over environment-sourced configuration. Pointer fields distinguish
// "explicitly set" from "left to env/default". Unexported — callers use
// the With* functions.
type resolvedOptions struct {
	serviceName    string
	suiteName      string
	baseURL        string
	endpoint       string
	insecure       *bool
	environment    string
	trigger        string
	browser          string
	headless         *bool
	viewportWidth    int
	viewportHeight   int
	screenshotPolicy string

	driver   Driver
	exporter Exporter
	logger   *slog.Logger
}

// WithServiceName overrides the reported service name (OTEL_SERVICE_NAME).
func WithServiceName(name string) Option {
	return func(o *resolvedOptions) { o.serviceName = name }
}

// WithSuiteName sets the suite name used in the root span name and
// test.suite.name attribute.
func WithSuiteName(name string) Option {
	return func(o *resolvedOptions) { o.suiteName = name }
}

// WithBaseURL records the target system under test (test.target.base_url).
func WithBaseURL(url string) Option {
	return func(o *resolvedOptions) { o.baseURL = url }
}

// WithEndpoint overrides the OTLP endpoint (OTEL_EXPORTER_OTLP_ENDPOINT).
func WithEndpoint(endpoint string) Option {
	return func(o *resolvedOptions) { o.endpoint = endpoint }
}

// WithInsecure toggles TLS on the OTLP connection.
func WithInsecure(insecure bool) Option {
	return func(o *resolvedOptions) { o.insecure = &insecure }
}

// WithEnvironment overrides the environment tag (SMOKETRACE_ENVIRONMENT).
func WithEnvironment(env string) Option {
	return func(o *resolvedOptions) { o.environment = env }
}

// WithTrigger overrides the trigger source, e.g. "ci" (SMOKETRACE_TRIGGER).
func WithTrigger(trigger string) Option {
	return func(o *resolvedOptions) { o.trigger = trigger }
}

// WithBrowser overrides the recorded browser name (SMOKETRACE_BROWSER).
func WithBrowser(browser string) Option {
	return func(o *resolvedOptions) { o.browser = browser }
}

// WithHeadless overrides the recorded headless flag (SMOKETRACE_HEADLESS).
func WithHeadless(headless bool) Option {
	return func(o *resolvedOptions) { o.headless = &headless }
}

// WithViewport overrides the recorded viewport dimensions.
func WithViewport(width, height int) Option {
	return func(o *resolvedOptions) {
		o.viewportWidth = width
		o.viewportHeight = height
	}
}

// WithScreenshotPolicy overrides the recorded screenshot policy, one of
// "off", "on-failure" or "always" (SMOKETRACE_SCREENSHOT_POLICY). The
// policy is recorded on the root span for the driver to act on; the core
// never captures screenshots itself.
func WithScreenshotPolicy(policy string) Option {
	return func(o *resolvedOptions) { o.screenshotPolicy = policy }
}

// WithDriver sets the browser-automation driver. Required.
func WithDriver(d Driver) Option {
	return func(o *resolvedOptions) { o.driver = d }
}

// WithExporter replaces the default OTLP exporter. The Suite owns the
// exporter for the run's lifetime and shuts it down on Close.
func WithExporter(e Exporter) Option {
	return func(o *resolvedOptions) { o.exporter = e }
}

// WithLogger sets the structured logger. If not set, the default slog
// logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *resolvedOptions) { o.logger = logger }
}
