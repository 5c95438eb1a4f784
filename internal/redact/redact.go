// Package redact decides whether form-field values must be masked before
// they reach a span attribute or a log sink.
package redact

import "strings"

// Redacted is the sentinel recorded in place of a sensitive value.
const Redacted = "[REDACTED]"

// denylist is matched case-insensitively against the selector string.
// Matching is selector-only: the value itself is never inspected, so a
// sensitive value behind a selector that matches nothing here is recorded
// verbatim. Callers that know better pass explicit=true.
var denylist = []string{
	"password",
	"passwd",
	"card",
	"cvv",
	"ssn",
	"credit",
	"secret",
	"token",
}

// Sensitive reports whether a field addressed by selector must be redacted.
// An explicit flag wins unconditionally; otherwise the selector is scanned
// for denylist keywords.
func Sensitive(selector string, explicit bool) bool {
	if explicit {
		return true
	}
	lower := strings.ToLower(selector)
	for _, kw := range denylist {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Apply returns the sentinel when the field is sensitive, otherwise the
// original value.
func Apply(value, selector string, explicit bool) string {
	if Sensitive(selector, explicit) {
		return Redacted
	}
	return value
}
