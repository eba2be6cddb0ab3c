// Package apperr defines the error kinds shared by the stores, the capture
// pipeline, and the HTTP features.
//
// Every error that crosses a package boundary wraps exactly one of the
// sentinels below so callers can classify it with errors.Is:
//
//   - ErrPermissionDenied: the user refused camera access
//   - ErrDeviceCapture: the camera failed to bind or to capture
//   - ErrBackend: a remote call (document store, object storage, identity provider) failed
//   - ErrNotAuthenticated: no session user where one is required
//   - ErrValidation: a record or request field is missing or malformed
//   - ErrNotFound / ErrDuplicate: keyed lookups and inserts
//   - ErrInFlight: a guarded action was triggered while already running
//   - ErrState: an action is not allowed in the current pipeline state
//   - ErrRateLimited: too many attempts from one client or for one account
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrDeviceCapture    = errors.New("camera capture failed")
	ErrBackend          = errors.New("backend unavailable")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrDuplicate        = errors.New("already exists")
	ErrInFlight         = errors.New("operation already in progress")
	ErrState            = errors.New("not allowed in the current state")
	ErrRateLimited      = errors.New("too many attempts, try again later")
)

// fieldError is a validation failure with a human-readable reason.
type fieldError struct {
	msg string
}

func (e *fieldError) Error() string { return e.msg }

func (e *fieldError) Unwrap() error { return ErrValidation }

// Validation returns an error that matches ErrValidation and whose message is
// the formatted reason, suitable for showing to the user.
func Validation(format string, args ...any) error {
	return &fieldError{msg: fmt.Sprintf(format, args...)}
}

// Backend wraps a driver or SDK error so it matches ErrBackend while keeping
// the original error in the chain.
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
}

// Device wraps a camera error so it matches ErrDeviceCapture.
func Device(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDeviceCapture, err)
}

// Kind returns the sentinel err wraps, or nil when it wraps none of them.
func Kind(err error) error {
	for _, k := range []error{
		ErrValidation,
		ErrNotAuthenticated,
		ErrPermissionDenied,
		ErrDeviceCapture,
		ErrNotFound,
		ErrDuplicate,
		ErrInFlight,
		ErrState,
		ErrRateLimited,
		ErrBackend,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
