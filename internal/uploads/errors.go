package uploads

import (
	"errors"
	"net/http"
)

// Domain errors for upload operations.
var (
	ErrNotFound       = errors.New("upload not found")
	ErrDuplicate      = errors.New("upload already exists")
	ErrFileTooLarge   = errors.New("file exceeds maximum upload size")
	ErrInvalidFile    = errors.New("invalid file")
	ErrRegisterFailed = errors.New("engine registration failed")
)

// MapHTTPStatus maps upload domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidFile) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRegisterFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
