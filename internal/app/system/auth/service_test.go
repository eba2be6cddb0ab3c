package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/photoshare/internal/app/store/localstore"
	"github.com/dalemusser/photoshare/internal/app/store/seed"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) *auth.Service {
	t.Helper()
	return &auth.Service{
		Accounts: auth.NewMemoryAccounts(),
		Users:    localstore.New(seed.Default()),
		Log:      zap.NewNop(),
	}
}

func TestSignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	id, err := svc.SignUp(ctx, "Ana@Example.com", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, "Ana", id.User.Username)
	assert.Equal(t, models.ProviderPassword, id.Provider)
	assert.NotEmpty(t, id.User.ID)

	// Email lookup is case-insensitive.
	in, err := svc.SignIn(ctx, "ana@example.COM", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id.User.ID, in.User.ID)
	assert.Equal(t, id.User.ID, in.Session().ID)
}

func TestSignUp_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.SignUp(ctx, "not-an-email", "secret1", "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.SignUp(ctx, "a@b.co", "123", "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestSignUp_RejectsDisplayNameAddress(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for _, email := range []string{"Bob <bob@example.com>", "<bob@example.com>", "bob@example.com (Bob)"} {
		_, err := svc.SignUp(ctx, email, "secret1", "")
		assert.ErrorIs(t, err, apperr.ErrValidation, email)
	}

	id, err := svc.SignUp(ctx, "  bob@example.com ", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", id.User.Email)
	assert.Equal(t, "bob", id.User.Username)
	_, err = svc.SignIn(ctx, "bob@example.com", "secret1")
	require.NoError(t, err)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.SignUp(ctx, "a@b.co", "secret1", "a")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "A@B.CO", "secret2", "b")
	assert.True(t, errors.Is(err, apperr.ErrDuplicate))
}

func TestSignIn_WrongPasswordAndUnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.SignUp(ctx, "a@b.co", "secret1", "a")
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "a@b.co", "nope-nope")
	assert.True(t, errors.Is(err, apperr.ErrNotAuthenticated))

	_, err = svc.SignIn(ctx, "nobody@b.co", "secret1")
	assert.True(t, errors.Is(err, apperr.ErrNotAuthenticated))
}

func TestSignInAnonymous_DistinctUsers(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	a, err := svc.SignInAnonymous(ctx)
	require.NoError(t, err)
	b, err := svc.SignInAnonymous(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, a.User.ID, b.User.ID)
	assert.Equal(t, models.ProviderAnonymous, a.Provider)
	assert.Empty(t, a.User.Email)
	assert.Contains(t, a.User.Username, "guest-")
}

func googleServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSignInGoogle_CreatesThenReuses(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	srv := googleServer(t, `{"id":"g-1","email":"g@example.com","verified_email":true,"name":"Gee","picture":"https://img/p.jpg"}`, http.StatusOK)
	svc.GoogleUserInfoURL = srv.URL

	first, err := svc.SignInGoogle(ctx, "good-token")
	require.NoError(t, err)
	assert.Equal(t, "Gee", first.User.Username)
	require.NotNil(t, first.User.ProfilePicture)
	assert.Equal(t, "https://img/p.jpg", *first.User.ProfilePicture)

	second, err := svc.SignInGoogle(ctx, "good-token")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestSignInGoogle_LinksVerifiedEmail(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	pw, err := svc.SignUp(ctx, "g@example.com", "secret1", "gee")
	require.NoError(t, err)

	srv := googleServer(t, `{"id":"g-2","email":"g@example.com","verified_email":true}`, http.StatusOK)
	svc.GoogleUserInfoURL = srv.URL

	id, err := svc.SignInGoogle(ctx, "good-token")
	require.NoError(t, err)
	assert.Equal(t, pw.User.ID, id.User.ID)
	assert.Equal(t, models.ProviderGoogle, id.Provider)
}

func TestSignInGoogle_MalformedEmailIsDropped(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	srv := googleServer(t, `{"id":"g-3","email":"no-at-sign","verified_email":true}`, http.StatusOK)
	svc.GoogleUserInfoURL = srv.URL

	id, err := svc.SignInGoogle(ctx, "good-token")
	require.NoError(t, err)
	assert.Equal(t, "google-g-3", id.User.Username)
	assert.Empty(t, id.User.Email)
}

func TestSignInGoogle_Errors(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.SignInGoogle(ctx, "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	srv := googleServer(t, `{}`, http.StatusOK)
	svc.GoogleUserInfoURL = srv.URL
	_, err = svc.SignInGoogle(ctx, "bad-token")
	assert.True(t, errors.Is(err, apperr.ErrNotAuthenticated))

	broken := googleServer(t, `oops`, http.StatusInternalServerError)
	svc.GoogleUserInfoURL = broken.URL
	_, err = svc.SignInGoogle(ctx, "good-token")
	assert.True(t, errors.Is(err, apperr.ErrBackend))
}

func TestMemoryAccounts_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	m := auth.NewMemoryAccounts()
	_, err := m.Create(ctx, models.Account{ID: "1", Email: "X@y.z", Provider: models.ProviderPassword})
	require.NoError(t, err)
	_, err = m.Create(ctx, models.Account{ID: "2", Email: "x@Y.z", Provider: models.ProviderPassword})
	assert.True(t, errors.Is(err, apperr.ErrDuplicate))

	got, err := m.GetByEmail(ctx, "x@y.z")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1", got.ID)
}
