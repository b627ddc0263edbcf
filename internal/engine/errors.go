package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// APIError is a non-2xx response from the engine.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("engine %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("engine %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// IsTransient reports whether an engine call failure is worth retrying:
// network-class errors, request timeouts, and engine-side 5xx/429 responses.
// Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
