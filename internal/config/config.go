// Package config resolves run configuration from environment variables
// with documented defaults.
package config

import (
	"os"
	"strconv"
)

// Config holds the resolved options for one suite run. Values read from
// the environment here may still be overridden by explicit constructor
// options; resolution happens exactly once per suite.
type Config struct {
	ServiceName  string
	SuiteName    string
	BaseURL      string
	OTLPEndpoint string
	OTLPInsecure bool

	Environment string
	Trigger     string

	Browser        string
	Headless       bool
	ViewportWidth  int
	ViewportHeight int

	// ScreenshotPolicy is "off", "on-failure" or "always". The core only
	// records the policy; capture is the driver's concern.
	ScreenshotPolicy string

	LogLevel string
}

// Load reads configuration from environment variables. Unset keys fall
// back to defaults; malformed values also fall back rather than aborting
// the run — a broken environment must never turn into a test failure.
func Load() Config {
	return Config{
		ServiceName:    envStr("OTEL_SERVICE_NAME", "playwright-otel"),
		OTLPEndpoint:   envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4317"),
		OTLPInsecure:   envBool("SMOKETRACE_INSECURE", true),
		Environment:    envStr("SMOKETRACE_ENVIRONMENT", "development"),
		Trigger:        envStr("SMOKETRACE_TRIGGER", "manual"),
		Browser:        envStr("SMOKETRACE_BROWSER", "chromium"),
		Headless:       envBool("SMOKETRACE_HEADLESS", true),
		ViewportWidth:  envInt("SMOKETRACE_VIEWPORT_WIDTH", 1280),
		ViewportHeight: envInt("SMOKETRACE_VIEWPORT_HEIGHT", 720),

		ScreenshotPolicy: envStr("SMOKETRACE_SCREENSHOT_POLICY", "off"),

		LogLevel: envStr("SMOKETRACE_LOG_LEVEL", "info"),
	}
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
