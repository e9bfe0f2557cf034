package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

const maxErrorBodyBytes = 512

// StatusError is returned when the backend answers outside the 2xx range.
// Body holds the full response body.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: http response status %d: %s", e.Method, e.URL, e.StatusCode, BodySnippet(e.Body))
}

// BodySnippet trims body to a loggable size.
func BodySnippet(body []byte) string {
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "<empty>"
	}
	return s
}

// StatusCode extracts the HTTP status from err, or 0 if err carries none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsTimeout reports whether err came from an expired deadline or a network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
