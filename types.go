package smoketrace

import "time"

// Status is the terminal status of a span.
type Status string

const (
	StatusUnset Status = "unset"
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// ElementState names the DOM states a driver can await.
type ElementState string

const (
	StateAttached ElementState = "attached"
	StateVisible  ElementState = "visible"
	StateHidden   ElementState = "hidden"
)

// NavigationTiming carries browser performance-entry fields for a
// completed navigation. Values are relative to navigation start.
type NavigationTiming struct {
	DOMContentLoadedMS float64
	DOMInteractiveMS   float64
	LoadEventMS        float64
	TransferSizeBytes  int64
}

// NavigationResult is what a driver reports after a navigation.
// Timing is nil when the browser exposes no navigation entry.
type NavigationResult struct {
	Status int
	Timing *NavigationTiming
}

// CaseSpec identifies a test case. Name is required; the rest is
// recorded on the case span only when present.
type CaseSpec struct {
	Name        string
	ID          string
	Tags        string
	Description string
}

// Summary is the aggregated outcome of a suite run.
type Summary struct {
	Total  int
	Passed int
	Failed int
	Result string // "passed", "failed" or "partial"
}

// defaultWaitTimeout bounds precondition waits in assert actions.
const defaultWaitTimeout = 5 * time.Second
