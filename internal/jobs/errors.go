package jobs

import (
	"errors"
	"net/http"
)

// Domain errors for job record operations.
var (
	ErrNotFound  = errors.New("job not found")
	ErrDuplicate = errors.New("job already recorded")
)

// MapHTTPStatus maps job domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
