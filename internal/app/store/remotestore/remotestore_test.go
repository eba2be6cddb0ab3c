package remotestore_test

import (
	"context"
	"testing"

	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"github.com/dalemusser/photoshare/internal/app/store/dataservice/dataservicetest"
	"github.com/dalemusser/photoshare/internal/app/store/remotestore"
	"github.com/dalemusser/photoshare/internal/app/store/seed"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestStore_Contract(t *testing.T) {
	dataservicetest.Run(t, func(t *testing.T) dataservice.Service {
		return remotestore.New(testutil.SetupTestDB(t), zap.NewNop(), remotestore.Options{})
	})
}

func TestStore_MigrateEventsIntoEmptyStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := remotestore.New(db, zap.NewNop(), remotestore.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	n, err := s.MigrateKind(ctx, dataservice.KindEvents)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	events, err := s.ListEvents(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []string{"event001", "event002"}, ids)

	n, err = s.MigrateKind(ctx, dataservice.KindEvents)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_MigrateTwiceEqualsOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := remotestore.New(db, zap.NewNop(), remotestore.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := s.Migrate(ctx)
	require.NoError(t, err)
	d := seed.Default()
	assert.Equal(t, len(d.Users)+len(d.Posts)+len(d.Groups)+len(d.Events)+len(d.Relationships), first.Total())

	counts := func() map[string]int64 {
		out := map[string]int64{}
		for _, k := range dataservice.Kinds() {
			n, err := db.Collection(string(k)).CountDocuments(ctx, bson.M{})
			require.NoError(t, err)
			out[string(k)] = n
		}
		return out
	}
	before := counts()

	second, err := s.Migrate(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Total())
	assert.Equal(t, before, counts())
}

func TestStore_MigratedRecordsMatchSeed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := remotestore.New(db, zap.NewNop(), remotestore.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := s.Migrate(ctx)
	require.NoError(t, err)

	want := seed.Default().Events[0]
	got, err := s.GetEvent(ctx, want.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestStore_SynthesizedIDsAreObjectIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := remotestore.New(db, zap.NewNop(), remotestore.Options{Seed: &seed.Dataset{}})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := s.AddUser(ctx, seed.Default().Users[0])
	require.NoError(t, err)
	assert.Equal(t, "testUser", u.ID)

	noID := seed.Default().Users[1]
	noID.ID = ""
	u, err = s.AddUser(ctx, noID)
	require.NoError(t, err)
	assert.Len(t, u.ID, 24)
}

func TestStore_ReadsFailExplicitly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := remotestore.New(db, zap.NewNop(), remotestore.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListPosts(ctx)
	assert.ErrorIs(t, err, apperr.ErrBackend)
}
