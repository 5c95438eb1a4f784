package smoketrace

import "errors"

// ErrSpanClosed is returned when mutating a span that has already been
// closed. Closing is a hard boundary: late attribute or status writes are
// surfaced, not silently ignored.
var ErrSpanClosed = errors.New("smoketrace: span already closed")

// ErrSpanNotFound is returned for operations on an unknown span ID.
var ErrSpanNotFound = errors.New("smoketrace: unknown span")

// ErrSuiteClosed is returned when opening a test case on a finalized suite.
var ErrSuiteClosed = errors.New("smoketrace: suite already closed")

// ErrTimeout classifies driver failures caused by an awaited condition
// not being reached in time. Drivers wrap their own timeout errors so
// that errors.Is(err, ErrTimeout) holds; the action controller records
// such failures with result=timeout instead of result=failed.
var ErrTimeout = errors.New("smoketrace: timed out waiting for condition")

// AssertionError is the failure raised by assert_* actions. It propagates
// out of the test-case block unchanged so the surrounding test framework
// decides how to report it.
type AssertionError struct {
	Msg string
}

func (e *AssertionError) Error() string { return e.Msg }
