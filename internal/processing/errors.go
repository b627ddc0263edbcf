package processing

import (
	"errors"
	"net/http"
)

// Domain errors for processing operations.
var (
	ErrNoColumns         = errors.New("no columns selected for processing")
	ErrSubmitFailed      = errors.New("job submission failed")
	ErrAlreadyProcessing = errors.New("a processing job is already in flight for this upload")
	ErrJobFailed         = errors.New("processing job failed")
	ErrTimeout           = errors.New("processing did not complete within the polling window")
)

// MapHTTPStatus maps processing domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNoColumns) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrAlreadyProcessing) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrSubmitFailed) {
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrTimeout) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
