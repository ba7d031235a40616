package hinge

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind categorizes failures surfaced by the Hinge client.
type ErrorKind string

const (
	// ErrorAuth is returned for HTTP 401 responses (bad or expired credentials).
	ErrorAuth ErrorKind = "auth"
	// ErrorRequest is returned for any other non-2xx response.
	ErrorRequest ErrorKind = "request"
	// ErrorTransport is returned when no response was received at all, or
	// when a required local asset is missing or unreadable.
	ErrorTransport ErrorKind = "transport"
)

// Error is the categorized error returned by every client operation.
// Request headers are sanitized before being attached: the Authorization
// value is redacted so errors can be logged safely.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Endpoint   string
	Message    string
	Headers    http.Header
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("hinge %s error (status %d) %s: %s", e.Kind, e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("hinge %s error %s: %s", e.Kind, e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsAuth reports whether err is a Hinge authentication error.
func IsAuth(err error) bool {
	return isKind(err, ErrorAuth)
}

// IsRequest reports whether err is a non-auth HTTP request error.
func IsRequest(err error) bool {
	return isKind(err, ErrorRequest)
}

// IsTransport reports whether err is a network-level or local-asset error.
func IsTransport(err error) bool {
	return isKind(err, ErrorTransport)
}

func isKind(err error, kind ErrorKind) bool {
	var he *Error
	if errors.As(err, &he) {
		return he.Kind == kind
	}
	return false
}

// sanitizeHeaders copies h with credential-bearing values redacted.
func sanitizeHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, vs := range h {
		if http.CanonicalHeaderKey(k) == "Authorization" {
			out[k] = []string{"REDACTED"}
			continue
		}
		out[k] = append([]string(nil), vs...)
	}
	return out
}
