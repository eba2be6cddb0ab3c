package apperr

import (
	"errors"
	"net/http"
)

// Status maps an error to the HTTP status a handler should answer with.
func Status(err error) int {
	switch Kind(err) {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotAuthenticated:
		return http.StatusUnauthorized
	case ErrPermissionDenied:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	case ErrDuplicate, ErrInFlight, ErrState:
		return http.StatusConflict
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrDeviceCapture:
		return http.StatusUnprocessableEntity
	case ErrBackend:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Message returns text that is safe to show the user. Validation errors
// carry their own reason; other kinds use the sentinel text so driver
// details never leak.
func Message(err error) string {
	var fe *fieldError
	if errors.As(err, &fe) {
		return fe.msg
	}
	if k := Kind(err); k != nil {
		return k.Error()
	}
	return "internal error"
}
