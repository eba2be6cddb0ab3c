// Package respond writes JSON responses and turns errors into them.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/photoshare/internal/app/system/limits"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// errorBody is the shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) { JSON(w, http.StatusOK, v) }

// Created writes v with 201.
func Created(w http.ResponseWriter, v any) { JSON(w, http.StatusCreated, v) }

// Error maps err to a status and a user-safe message. Server-side kinds
// are logged at error level with the request id; client mistakes at debug.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status := apperr.Status(err)
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if status >= 500 {
		log.Error("request failed", fields...)
	} else {
		log.Debug("request rejected", fields...)
	}

	body := errorBody{Error: apperr.Message(err)}
	if k := apperr.Kind(err); k != nil {
		body.Kind = kindName(k)
	}
	JSON(w, status, body)
}

func kindName(k error) string {
	switch k {
	case apperr.ErrValidation:
		return "validation"
	case apperr.ErrNotAuthenticated:
		return "not_authenticated"
	case apperr.ErrPermissionDenied:
		return "permission_denied"
	case apperr.ErrDeviceCapture:
		return "device_capture"
	case apperr.ErrBackend:
		return "backend"
	case apperr.ErrNotFound:
		return "not_found"
	case apperr.ErrDuplicate:
		return "duplicate"
	case apperr.ErrInFlight:
		return "in_flight"
	case apperr.ErrState:
		return "state"
	case apperr.ErrRateLimited:
		return "rate_limited"
	}
	return ""
}

// Decode reads a JSON body into v. Unknown fields, trailing data, and
// bodies over limits.MaxJSONBody are validation errors.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is empty")
		case errors.As(err, &tooBig):
			return apperr.Validation("request body is too large")
		default:
			return apperr.Validation("malformed JSON: %v", err)
		}
	}
	if dec.More() {
		return apperr.Validation("request body must hold a single JSON value")
	}
	return nil
}
