package loginstore_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	loginstore "github.com/dalemusser/photoshare/internal/app/store/logins"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/dalemusser/photoshare/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)

func record(uid string, at time.Time) models.LoginRecord {
	return models.LoginRecord{UserID: uid, Provider: models.ProviderPassword, IP: "192.0.2.1", CreatedAt: at}
}

func exercise(t *testing.T, h loginstore.History) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, h.Record(ctx, record("u1", t0)))
	require.NoError(t, h.Record(ctx, record("u1", t0.Add(2*time.Hour))))
	require.NoError(t, h.Record(ctx, record("u1", t0.Add(time.Hour))))
	require.NoError(t, h.Record(ctx, record("u2", t0)))

	recs, err := h.Recent(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].CreatedAt.Equal(t0.Add(2*time.Hour)))
	assert.True(t, recs[1].CreatedAt.Equal(t0.Add(time.Hour)))
	assert.NotEmpty(t, recs[0].ID)

	none, err := h.Recent(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemory_Recent(t *testing.T) {
	exercise(t, loginstore.NewMemory(10))
}

func TestMemory_CapsPerUser(t *testing.T) {
	m := loginstore.NewMemory(2)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, m.Record(ctx, record("u1", t0.Add(time.Duration(i)*time.Minute))))
	}
	recs, err := m.Recent(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].CreatedAt.Equal(t0.Add(4*time.Minute)))
}

func TestStore_Recent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	exercise(t, loginstore.New(db))
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("POST", "/auth/signin", nil)
	r.RemoteAddr = "198.51.100.7:5555"
	r.Header.Set("User-Agent", strings.Repeat("x", 400))

	rec := loginstore.FromRequest(r, "u1", models.ProviderGoogle, t0)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, models.ProviderGoogle, rec.Provider)
	assert.Equal(t, "198.51.100.7", rec.IP)
	assert.Len(t, rec.UserAgent, loginstore.MaxUserAgent)
	assert.Equal(t, t0, rec.CreatedAt)
}
