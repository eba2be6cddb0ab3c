package respond_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/photoshare/internal/app/features/shared/respond"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestError_MapsKind(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/posts/x", nil)
	respond.Error(rec, req, zap.NewNop(), errors.Join(errors.New("posts.get"), apperr.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"not found","kind":"not_found"}`, rec.Body.String())
}

func TestError_HidesBackendDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	respond.Error(rec, req, zap.NewNop(), apperr.Backend("posts.find", errors.New("dial tcp 10.1.2.3")))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.1.2.3")
}

func TestDecode(t *testing.T) {
	type body struct {
		Content string `json:"content"`
	}
	decode := func(s string) (body, error) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(s))
		err := respond.Decode(httptest.NewRecorder(), req, &b)
		return b, err
	}

	b, err := decode(`{"content":"hola"}`)
	require.NoError(t, err)
	assert.Equal(t, "hola", b.Content)

	for _, bad := range []string{``, `{"content":1}`, `{"other":"x"}`, `{} {}`} {
		_, err := decode(bad)
		assert.ErrorIs(t, err, apperr.ErrValidation, bad)
	}

	_, err = decode(`{"content":"` + strings.Repeat("x", 70<<10) + `"}`)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
