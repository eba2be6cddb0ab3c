// Package dataservicetest holds the behavior checks every
// dataservice.Service implementation must pass.
package dataservicetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh Service for one subtest.
type Factory func(t *testing.T) dataservice.Service

var t0 = time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

func uid(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// Run executes the shared checks against services built by newService.
func Run(t *testing.T, newService Factory) {
	t.Run("UserCreateThenGet", func(t *testing.T) { userCreateThenGet(t, newService(t)) })
	t.Run("PostCreateThenGet", func(t *testing.T) { postCreateThenGet(t, newService(t)) })
	t.Run("GroupCreateAddsCreator", func(t *testing.T) { groupCreateAddsCreator(t, newService(t)) })
	t.Run("EventCreateThenUpdate", func(t *testing.T) { eventCreateThenUpdate(t, newService(t)) })
	t.Run("RelationshipCreateThenGet", func(t *testing.T) { relationshipCreateThenGet(t, newService(t)) })
	t.Run("GetMissingIsNil", func(t *testing.T) { getMissingIsNil(t, newService(t)) })
	t.Run("DuplicateID", func(t *testing.T) { duplicateID(t, newService(t)) })
	t.Run("UpdateMissing", func(t *testing.T) { updateMissing(t, newService(t)) })
	t.Run("SynthesizesID", func(t *testing.T) { synthesizesID(t, newService(t)) })
	t.Run("RejectsInvalid", func(t *testing.T) { rejectsInvalid(t, newService(t)) })
	t.Run("UserGroups", func(t *testing.T) { userGroups(t, newService(t)) })
	t.Run("ConcurrentCreates", func(t *testing.T) { concurrentCreates(t, newService(t)) })
}

func userCreateThenGet(t *testing.T, s dataservice.Service) {
	ctx := context.Background()
	u := models.NewUser(uid("u"), "maria", "maria@example.com", t0)
	u.ProfilePicture = models.StringPtr("https://example.com/m.jpg")

	created, err := s.AddUser(ctx, u)
	require.NoError(t, err)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created, *got)

	all, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, created)
}

func postCreateThenGet(t *testing.T, s dataservice.Service) {
	ctx := context.Background()
	p := models.NewPost(uid("p"), "u1", "sunset", models.Target{EventID: "e1"}, t0, 0)
	p.ImageURL = models.StringPtr("https://cdn/x.jpg")
	p.Likes = []string{"u2"}

	created, err := s.CreatePost(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, p, created)

	got, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created, *got)

	got.ToggleLike("u3")
	require.NoError(t, s.UpdatePost(ctx, *got))

	again, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u3"}, again.Likes)
}

func groupCreateAddsCreator(t *testing.T, s dataservice.Service) {
	ctx := context.Background()
	g := models.Group{ID: uid("g"), Name: "Climbers", CreatorID: "u1", CreatedAt: t0, Members: []string{"u2"}, Visibility: models.VisibilityPrivate}

	created, err := s.AddGroup(ctx, g)
	require.NoError(t, err)
	assert.True(t, created.HasMember("u1"))

	got, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created, *got)
}

func eventCreateThenUpdate(t *testing.T, s dataservice.Service) {
	ctx := context.Background()
	e := models.NewEvent(uid("e"), "Gig", "", "u1", t0.Add(72*time.Hour), t0)
	e.Participants = []string{"u2"}

	created, err := s.CreateEvent(ctx, e)
	require.NoError(t, err)
	assert.True(t, created.HasParticipant("u1"))

	created.AddPhoto("https://cdn/1.jpg")
	require.NoError(t, s.UpdateEvent(ctx, created))

	got, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created, *got)
}

func relationshipCreateThenGet(t *testing.T, s dataservice.Service) {
	ctx := context.Background()
	r := models.NewRelationship(uid("r"), "u1", "u2", models.RelationshipAccepted, t0)

	created, err := s.AddRelationship(ctx, r)
	require.NoError(t, err)

	got, err := s.GetRelationship(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created, *got)

	all, err := s.ListRelationships(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, created)
}

func getMissingIsNil(t *testing.T, s dataservice.Service) {
	ctx := context.Background()

	u, err := s.GetUser(ctx, "no-such-user")
	assert.NoError(t, err)
	assert.Nil(t, u)

	p, err := s.GetPost(ctx, "no-such-post")
	assert.NoError(t, err)
	assert.Nil(t, p)

	g, err := s.GetGroup(ctx, "no-such-group")
	assert.NoError(t, err)
	assert.Nil(t, g)

	e, err := s.GetEvent(ctx, "no-such-event")
	assert.NoError(t, err)
	assert.Nil(t, e)

	r, err := s.GetRelationship(ctx, "no-such-rel")
	assert.NoError(t, err)
	assert.Nil(t, r)
}

func duplicateID(t *testing.T, s dataservice.Service) {
	ctx := context.Background()
	u := models.NewUser(uid("u"), "dup", "", t0)

	_, err := s.AddUser(ctx, u)
	require.NoError(t, err)

	_, err = s.AddUser(ctx, u)
	assert.ErrorIs(t, err, apperr.ErrDuplicate)
}

func updateMissing(t *testing.T, s dataservice.Service) {
	ctx := context.Background()

	p := models.NewPost(uid("p"), "u1", "", models.Target{}, t0, 0)
	assert.ErrorIs(t, s.UpdatePost(ctx, p), apperr.ErrNotFound)

	e := models.NewEvent(uid("e"), "Nope", "", "u1", t0, t0)
	assert.ErrorIs(t, s.UpdateEvent(ctx, e), apperr.ErrNotFound)
}

func synthesizesID(t *testing.T, s dataservice.Service) {
	ctx := context.Background()

	g, err := s.AddGroup(ctx, models.NewGroup("", "No id", "", "u1", "", t0))
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)

	got, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func rejectsInvalid(t *testing.T, s dataservice.Service) {
	ctx := context.Background()

	_, err := s.AddUser(ctx, models.User{ID: uid("u")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	bad := models.NewPost(uid("p"), "u1", "", models.Target{}, t0, 0)
	bad.GroupID = models.StringPtr("g1")
	_, err = s.CreatePost(ctx, bad)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.AddRelationship(ctx, models.NewRelationship(uid("r"), "u1", "u1", "", t0))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func userGroups(t *testing.T, s dataservice.Service) {
	ctx := context.Background()
	member := uid("u")

	_, err := s.AddGroup(ctx, models.NewGroup(uid("g"), "Without", "", "owner", "", t0))
	require.NoError(t, err)
	with := models.NewGroup(uid("g"), "With", "", "owner", "", t0)
	with.Members = append(with.Members, member)
	with, err = s.AddGroup(ctx, with)
	require.NoError(t, err)

	mine, err := s.UserGroups(ctx, member)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, with.ID, mine[0].ID)

	none, err := s.UserGroups(ctx, uid("nobody"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func concurrentCreates(t *testing.T, s dataservice.Service) {
	ctx := context.Background()
	const n = 20

	var wg sync.WaitGroup
	errs := make([]error, n)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = uid(fmt.Sprintf("c%d", i))
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.AddRelationship(ctx, models.NewRelationship(ids[i], "u1", fmt.Sprintf("t%d", i), "", t0))
		}(i)
	}
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i])
		got, err := s.GetRelationship(ctx, ids[i])
		require.NoError(t, err)
		assert.NotNil(t, got)
	}
}
