package smoketrace_test

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/smoketrace/smoketrace"
)

// fakeExporter collects pushed spans in close order.
type fakeExporter struct {
	pushed      []*smoketrace.Span
	pushErr     error
	shutdownErr error
	shutdowns   int
}

func (f *fakeExporter) Push(_ context.Context, s *smoketrace.Span) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushed = append(f.pushed, s)
	return nil
}

func (f *fakeExporter) Shutdown(context.Context) error {
	f.shutdowns++
	return f.shutdownErr
}

func (f *fakeExporter) byName(name string) *smoketrace.Span {
	for _, s := range f.pushed {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (f *fakeExporter) mustByName(t *testing.T, name string) *smoketrace.Span {
	t.Helper()
	s := f.byName(name)
	if s == nil {
		var names []string
		for _, p := range f.pushed {
			names = append(names, p.Name)
		}
		t.Fatalf("no exported span named %q (have %v)", name, names)
	}
	return s
}

type fillCall struct {
	selector string
	value    string
}

// fakeDriver is a scripted stand-in for a real browser driver.
type fakeDriver struct {
	url       string
	navStatus int
	navTiming *smoketrace.NavigationTiming

	navErr   error
	clickErr error
	fillErr  error
	waitErr  error
	textErr  error
	countErr error

	texts  map[string]string
	counts map[string]int

	fills   []fillCall
	clicked []string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		navStatus: 200,
		texts:     make(map[string]string),
		counts:    make(map[string]int),
	}
}

func (d *fakeDriver) Navigate(_ context.Context, url string) (smoketrace.NavigationResult, error) {
	if d.navErr != nil {
		return smoketrace.NavigationResult{}, d.navErr
	}
	d.url = url
	return smoketrace.NavigationResult{Status: d.navStatus, Timing: d.navTiming}, nil
}

func (d *fakeDriver) Click(_ context.Context, selector string) error {
	if d.clickErr != nil {
		return d.clickErr
	}
	d.clicked = append(d.clicked, selector)
	return nil
}

func (d *fakeDriver) Fill(_ context.Context, selector, value string) error {
	if d.fillErr != nil {
		return d.fillErr
	}
	d.fills = append(d.fills, fillCall{selector: selector, value: value})
	return nil
}

func (d *fakeDriver) WaitForState(_ context.Context, _ string, _ smoketrace.ElementState, _ time.Duration) error {
	return d.waitErr
}

func (d *fakeDriver) Text(_ context.Context, selector string) (string, error) {
	if d.textErr != nil {
		return "", d.textErr
	}
	return d.texts[selector], nil
}

func (d *fakeDriver) Count(_ context.Context, selector string) (int, error) {
	if d.countErr != nil {
		return 0, d.countErr
	}
	return d.counts[selector], nil
}

func (d *fakeDriver) CurrentURL(context.Context) string { return d.url }

// newTestSuite builds a suite wired to fakes, with logs captured in the
// returned builder for warning assertions.
func newTestSuite(t *testing.T, driver *fakeDriver, exporter *fakeExporter, opts ...smoketrace.Option) (*smoketrace.Suite, *strings.Builder) {
	t.Helper()

	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	base := []smoketrace.Option{
		smoketrace.WithSuiteName("smoke"),
		smoketrace.WithDriver(driver),
		smoketrace.WithExporter(exporter),
		smoketrace.WithLogger(logger),
	}
	suite, err := smoketrace.NewSuite(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewSuite: %v", err)
	}
	return suite, &logBuf
}

var errBoom = fmt.Errorf("boom")
