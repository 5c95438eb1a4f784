package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Make sure none of the recognized keys leak in from the outer env.
	for _, key := range []string{
		"OTEL_SERVICE_NAME",
		"OTEL_EXPORTER_OTLP_ENDPOINT",
		"SMOKETRACE_ENVIRONMENT",
		"SMOKETRACE_TRIGGER",
		"SMOKETRACE_BROWSER",
		"SMOKETRACE_HEADLESS",
		"SMOKETRACE_VIEWPORT_WIDTH",
		"SMOKETRACE_VIEWPORT_HEIGHT",
		"SMOKETRACE_SCREENSHOT_POLICY",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ServiceName != "playwright-otel" {
		t.Errorf("ServiceName = %q, want playwright-otel", cfg.ServiceName)
	}
	if cfg.OTLPEndpoint != "http://localhost:4317" {
		t.Errorf("OTLPEndpoint = %q, want http://localhost:4317", cfg.OTLPEndpoint)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Trigger != "manual" {
		t.Errorf("Trigger = %q, want manual", cfg.Trigger)
	}
	if cfg.Browser != "chromium" {
		t.Errorf("Browser = %q, want chromium", cfg.Browser)
	}
	if !cfg.Headless {
		t.Error("Headless = false, want true")
	}
	if cfg.ViewportWidth != 1280 || cfg.ViewportHeight != 720 {
		t.Errorf("viewport = %dx%d, want 1280x720", cfg.ViewportWidth, cfg.ViewportHeight)
	}
	if cfg.ScreenshotPolicy != "off" {
		t.Errorf("ScreenshotPolicy = %q, want off", cfg.ScreenshotPolicy)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "checkout-e2e")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4318")
	t.Setenv("SMOKETRACE_ENVIRONMENT", "staging")
	t.Setenv("SMOKETRACE_TRIGGER", "ci")
	t.Setenv("SMOKETRACE_BROWSER", "firefox")
	t.Setenv("SMOKETRACE_HEADLESS", "false")

	cfg := Load()
	if cfg.ServiceName != "checkout-e2e" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.OTLPEndpoint != "http://collector:4318" {
		t.Errorf("OTLPEndpoint = %q", cfg.OTLPEndpoint)
	}
	if cfg.Environment != "staging" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if cfg.Trigger != "ci" {
		t.Errorf("Trigger = %q", cfg.Trigger)
	}
	if cfg.Browser != "firefox" {
		t.Errorf("Browser = %q", cfg.Browser)
	}
	if cfg.Headless {
		t.Error("Headless = true, want false")
	}
}

func TestMalformedValuesFallBack(t *testing.T) {
	// A broken environment must never abort a run.
	t.Setenv("SMOKETRACE_HEADLESS", "maybe")
	t.Setenv("SMOKETRACE_VIEWPORT_WIDTH", "wide")

	cfg := Load()
	if !cfg.Headless {
		t.Error("malformed bool should fall back to default true")
	}
	if cfg.ViewportWidth != 1280 {
		t.Errorf("malformed int should fall back to 1280, got %d", cfg.ViewportWidth)
	}
}

func TestEnvIntValid(t *testing.T) {
	t.Setenv("SMOKETRACE_TEST_INT", "42")
	if v := envInt("SMOKETRACE_TEST_INT", 0); v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

func TestEnvIntFallback(t *testing.T) {
	// SMOKETRACE_TEST_INT_MISSING is not set.
	if v := envInt("SMOKETRACE_TEST_INT_MISSING", 99); v != 99 {
		t.Fatalf("expected fallback 99, got %d", v)
	}
}

func TestEnvBoolValid(t *testing.T) {
	t.Setenv("SMOKETRACE_TEST_BOOL", "true")
	if !envBool("SMOKETRACE_TEST_BOOL", false) {
		t.Fatal("expected true")
	}
}
