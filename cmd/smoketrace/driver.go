package main

import (
	"context"
	"strings"
	"time"

	"github.com/smoketrace/smoketrace"
)

// synthDriver is a self-fulfilling stand-in for a real browser: every
// operation succeeds and assertions are primed by the runner from the
// suite file's expected values. The spans it produces have the same
// shape as a real run, which is all a pipeline smoke test needs.
type synthDriver struct {
	baseURL string
	url     string
	texts   map[string]string
	counts  map[string]int
}

func newSynthDriver(baseURL string) *synthDriver {
	return &synthDriver{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		texts:   make(map[string]string),
		counts:  make(map[string]int),
	}
}

func (d *synthDriver) resolve(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return d.baseURL + url
}

func (d *synthDriver) Navigate(_ context.Context, url string) (smoketrace.NavigationResult, error) {
	d.url = d.resolve(url)
	return smoketrace.NavigationResult{
		Status: 200,
		Timing: &smoketrace.NavigationTiming{
			DOMContentLoadedMS: 120,
			DOMInteractiveMS:   80,
			LoadEventMS:        240,
			TransferSizeBytes:  4096,
		},
	}, nil
}

func (d *synthDriver) Click(context.Context, string) error { return nil }

func (d *synthDriver) Fill(context.Context, string, string) error { return nil }

func (d *synthDriver) WaitForState(context.Context, string, smoketrace.ElementState, time.Duration) error {
	return nil
}

func (d *synthDriver) Text(_ context.Context, selector string) (string, error) {
	return d.texts[selector], nil
}

func (d *synthDriver) Count(_ context.Context, selector string) (int, error) {
	return d.counts[selector], nil
}

func (d *synthDriver) CurrentURL(context.Context) string { return d.url }

// Priming hooks used by the runner before each assertion.

func (d *synthDriver) primeText(selector, text string) { d.texts[selector] = text }

func (d *synthDriver) primeCount(selector string, n int) { d.counts[selector] = n }

func (d *synthDriver) primeURL(pattern string) {
	if !strings.Contains(d.url, pattern) {
		d.url = d.baseURL + pattern
	}
}
