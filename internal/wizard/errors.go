package wizard

import (
	"errors"
	"net/http"

	"github.com/kestrelworks/winnow/internal/processing"
	"github.com/kestrelworks/winnow/internal/rules"
)

// Domain errors for wizard operations.
var (
	ErrSessionNotFound = errors.New("no wizard session open for this upload")
	ErrInvalidStep     = errors.New("unknown wizard step")
	ErrUnknownColumn   = errors.New("column is not part of this upload")
	ErrCannotProceed   = errors.New("current step requirements are not met")
	ErrNotProcessing   = errors.New("no processing run is active for this upload")
	ErrOpenFailed      = errors.New("column discovery failed")
)

// MapHTTPStatus maps wizard domain errors to appropriate HTTP status codes.
// Rule and processing errors surfaced through wizard operations map through
// their own domains.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrNotProcessing):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidStep), errors.Is(err, ErrUnknownColumn):
		return http.StatusBadRequest
	case errors.Is(err, ErrCannotProceed):
		return http.StatusConflict
	case errors.Is(err, ErrOpenFailed):
		return http.StatusBadGateway
	}

	if status := rules.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return processing.MapHTTPStatus(err)
}
