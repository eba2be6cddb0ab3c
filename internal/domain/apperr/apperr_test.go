package apperr_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/stretchr/testify/assert"
)

func TestValidation_MatchesSentinel(t *testing.T) {
	err := apperr.Validation("name is required")

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "name is required", err.Error())
	assert.Equal(t, apperr.ErrValidation, apperr.Kind(err))
}

func TestBackend_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Backend("list posts", cause)

	assert.ErrorIs(t, err, apperr.ErrBackend)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperr.ErrBackend, apperr.Kind(err))
}

func TestBackend_NilPassesThrough(t *testing.T) {
	assert.NoError(t, apperr.Backend("noop", nil))
	assert.NoError(t, apperr.Device("noop", nil))
}

func TestKind_Unclassified(t *testing.T) {
	assert.Nil(t, apperr.Kind(errors.New("plain")))
}

func TestStatusAndMessage(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.Validation("post content is limited to 280 characters"), 400, "post content is limited to 280 characters"},
		{apperr.ErrNotAuthenticated, 401, "not authenticated"},
		{apperr.ErrPermissionDenied, 403, "camera permission denied"},
		{apperr.Backend("posts.find", errors.New("dial tcp 10.0.0.1:27017")), 502, "backend unavailable"},
		{apperr.ErrInFlight, 409, "operation already in progress"},
		{apperr.ErrRateLimited, 429, "too many attempts, try again later"},
		{apperr.Device("capture", errors.New("sensor")), 422, "camera capture failed"},
		{errors.New("boom"), 500, "internal error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, apperr.Status(tt.err), tt.err.Error())
		assert.Equal(t, tt.message, apperr.Message(tt.err))
	}
}
