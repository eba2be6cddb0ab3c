package localstore_test

import (
	"context"
	"testing"

	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"github.com/dalemusser/photoshare/internal/app/store/dataservice/dataservicetest"
	"github.com/dalemusser/photoshare/internal/app/store/localstore"
	"github.com/dalemusser/photoshare/internal/app/store/seed"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	dataservicetest.Run(t, func(t *testing.T) dataservice.Service {
		return localstore.New(seed.Default())
	})
}

func TestStore_ListsSeedInInsertionOrder(t *testing.T) {
	s := localstore.New(seed.Default())
	ctx := context.Background()

	events, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "event001", events[0].ID)
	assert.Equal(t, "event002", events[1].ID)

	u, err := s.AddUser(ctx, models.NewUser("zzz", "last", "", events[0].CreatedAt))
	require.NoError(t, err)
	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, users[len(users)-1].ID)
}

func TestStore_ReadsAreCopies(t *testing.T) {
	s := localstore.New(seed.Default())
	ctx := context.Background()

	g, err := s.GetGroup(ctx, "group001")
	require.NoError(t, err)
	g.Members[0] = "mutated"

	list, err := s.ListGroups(ctx)
	require.NoError(t, err)
	list[0].Name = "mutated"

	again, err := s.GetGroup(ctx, "group001")
	require.NoError(t, err)
	assert.Equal(t, "abc123", again.Members[0])
	assert.Equal(t, "Amigos de Viaje", again.Name)
}

func TestStore_SynthesizedIDsAreUUIDs(t *testing.T) {
	s := localstore.New(seed.Dataset{})
	p, err := s.CreatePost(context.Background(), models.NewPost("", "u1", "x", models.Target{}, seed.Default().Posts[0].CreatedAt, 0))
	require.NoError(t, err)
	assert.Len(t, p.ID, 36)
}

func TestStore_Reset(t *testing.T) {
	s := localstore.New(seed.Default())
	ctx := context.Background()

	_, err := s.AddUser(ctx, models.NewUser("extra", "extra", "", seed.Default().Users[0].CreatedAt))
	require.NoError(t, err)

	p, err := s.GetPost(ctx, "post001")
	require.NoError(t, err)
	p.ToggleLike("newfan")
	require.NoError(t, s.UpdatePost(ctx, *p))

	s.Reset()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	p, err = s.GetPost(ctx, "post001")
	require.NoError(t, err)
	assert.Equal(t, 3, p.LikeCount())
}

func TestStore_UserGroupsFromSeed(t *testing.T) {
	s := localstore.New(seed.Default())

	groups, err := s.UserGroups(context.Background(), "def456")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "group001", groups[0].ID)
}

func TestStore_MigrateIsNoop(t *testing.T) {
	s := localstore.New(seed.Default())
	ctx := context.Background()

	report, err := s.Migrate(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Total())
	assert.Len(t, report, len(dataservice.Kinds()))

	n, err := s.MigrateKind(ctx, dataservice.KindEvents)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.MigrateKind(ctx, "comments")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
