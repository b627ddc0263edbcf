package rules

import (
	"errors"
	"net/http"
)

// Domain errors for rule configuration and suggestion operations.
var (
	ErrColumnRequired     = errors.New("custom rule column is required")
	ErrPromptRequired     = errors.New("custom rule prompt is required")
	ErrSuggestionInFlight = errors.New("a suggestion request is already in flight")
	ErrNoSuggestion       = errors.New("no pending suggestion")
	ErrNotExecutable      = errors.New("suggested rule is not executable")
	ErrSuggestFailed      = errors.New("rule suggestion failed")
	ErrRuleNotFound       = errors.New("rule not found")
)

// MapHTTPStatus maps rule domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrColumnRequired),
		errors.Is(err, ErrPromptRequired),
		errors.Is(err, ErrNotExecutable):
		return http.StatusBadRequest
	case errors.Is(err, ErrSuggestionInFlight):
		return http.StatusConflict
	case errors.Is(err, ErrNoSuggestion), errors.Is(err, ErrRuleNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSuggestFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
