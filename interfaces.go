package smoketrace

import (
	"context"
	"time"
)

// Driver is the external browser-automation collaborator. The core wraps
// these operations with span boundaries and timing capture; it never
// manages the browser process itself. Implementations report timeouts as
// errors matching errors.Is(err, ErrTimeout).
//
// Defining the driver as a capability interface keeps the core testable
// against a substitute implementation without a real browser.
type Driver interface {
	// Navigate loads a URL and reports HTTP status plus, when the
	// browser exposes it, navigation performance timing.
	Navigate(ctx context.Context, url string) (NavigationResult, error)
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	// WaitForState blocks until the first element matching selector
	// reaches the given state, or the timeout elapses.
	WaitForState(ctx context.Context, selector string, state ElementState, timeout time.Duration) error
	Text(ctx context.Context, selector string) (string, error)
	Count(ctx context.Context, selector string) (int, error)
	// CurrentURL reports the page URL, or "" when no page is loaded.
	CurrentURL(ctx context.Context) string
}

// Exporter is the external telemetry-transport collaborator. Push
// receives each completed span exactly once, in close order. A failing
// exporter must never affect test outcomes: the Span Recorder logs push
// failures at warning level and proceeds.
type Exporter interface {
	Push(ctx context.Context, span *Span) error
	// Shutdown flushes and releases the transport. Called once, by the
	// Suite that owns the connection.
	Shutdown(ctx context.Context) error
}
