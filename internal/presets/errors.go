package presets

import (
	"errors"
	"net/http"
)

// Domain errors for preset operations.
var (
	ErrNotFound      = errors.New("preset not found")
	ErrDuplicate     = errors.New("preset name already exists")
	ErrInvalidConfig = errors.New("preset config is not valid")
	ErrNameRequired  = errors.New("preset name is required")
)

// MapHTTPStatus maps preset domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrNameRequired) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
