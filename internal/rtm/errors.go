package rtm

import (
	"errors"
	"fmt"
)

// Sentinel errors for snapshot and stream operations.
var (
	// ErrNoURL indicates the snapshot response carried no stream URL.
	ErrNoURL = errors.New("rtm: no stream url in response")

	// ErrSourceClosed indicates Next was called on a closed source.
	ErrSourceClosed = errors.New("rtm: source closed")
)

// APIError is returned when the Web API answers with "ok": false.
type APIError struct {
	Method string
	Code   string

	// RetryAfter is the server-requested delay in seconds, set on HTTP 429.
	RetryAfter int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rtm: %s failed: %s (retry after %ds)", e.Method, e.Code, e.RetryAfter)
	}
	return fmt.Sprintf("rtm: %s failed: %s", e.Method, e.Code)
}
