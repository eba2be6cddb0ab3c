// Package localstore is the in-memory dataservice.Service used for offline
// development and tests. It starts from a seed dataset and keeps every
// collection in insertion order.
package localstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"github.com/dalemusser/photoshare/internal/app/store/seed"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/google/uuid"
)

// Store is safe for concurrent use. Records are copied on the way in and
// out, so callers never share slices with the store.
type Store struct {
	mu   sync.RWMutex
	seed seed.Dataset

	users         *collection[models.User]
	posts         *collection[models.Post]
	groups        *collection[models.Group]
	events        *collection[models.Event]
	relationships *collection[models.Relationship]

	newID func() string
}

var _ dataservice.Service = (*Store)(nil)

// New returns a store holding a copy of d.
func New(d seed.Dataset) *Store {
	d = d.Clone()
	return &Store{
		seed:          d,
		users:         newCollection(func(u models.User) string { return u.ID }, models.User.Clone, d.Users),
		posts:         newCollection(func(p models.Post) string { return p.ID }, models.Post.Clone, d.Posts),
		groups:        newCollection(func(g models.Group) string { return g.ID }, models.Group.Clone, d.Groups),
		events:        newCollection(func(e models.Event) string { return e.ID }, models.Event.Clone, d.Events),
		relationships: newCollection(func(r models.Relationship) string { return r.ID }, models.Relationship.Clone, d.Relationships),
		newID:         uuid.NewString,
	}
}

// Reset discards every change made since New.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users.load(s.seed.Users)
	s.posts.load(s.seed.Posts)
	s.groups.load(s.seed.Groups)
	s.events.load(s.seed.Events)
	s.relationships.load(s.seed.Relationships)
}

func dupErr(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, apperr.ErrDuplicate)
}

func missingErr(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, apperr.ErrNotFound)
}

/* ---------------------------------- users --------------------------------- */

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.list(), nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.get(id), nil
}

func (s *Store) AddUser(ctx context.Context, u models.User) (models.User, error) {
	u, err := dataservice.PrepareUser(u, s.newID)
	if err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.users.insert(u); err != nil {
		return models.User{}, dupErr("user", u.ID)
	}
	return u.Clone(), nil
}

/* ---------------------------------- posts --------------------------------- */

func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posts.list(), nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posts.get(id), nil
}

func (s *Store) CreatePost(ctx context.Context, p models.Post) (models.Post, error) {
	p, err := dataservice.PreparePost(p, s.newID)
	if err != nil {
		return models.Post{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.posts.insert(p); err != nil {
		return models.Post{}, dupErr("post", p.ID)
	}
	return p.Clone(), nil
}

func (s *Store) UpdatePost(ctx context.Context, p models.Post) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.posts.replace(p); err != nil {
		return missingErr("post", p.ID)
	}
	return nil
}

/* --------------------------------- groups --------------------------------- */

func (s *Store) ListGroups(ctx context.Context) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups.list(), nil
}

func (s *Store) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups.get(id), nil
}

func (s *Store) AddGroup(ctx context.Context, g models.Group) (models.Group, error) {
	g, err := dataservice.PrepareGroup(g, s.newID)
	if err != nil {
		return models.Group{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.groups.insert(g); err != nil {
		return models.Group{}, dupErr("group", g.ID)
	}
	return g.Clone(), nil
}

func (s *Store) UserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.groups.filter(func(g models.Group) bool { return g.HasMember(userID) })
	if out == nil {
		out = []models.Group{}
	}
	return out, nil
}

/* --------------------------------- events --------------------------------- */

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.list(), nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.get(id), nil
}

func (s *Store) CreateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	e, err := dataservice.PrepareEvent(e, s.newID)
	if err != nil {
		return models.Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.events.insert(e); err != nil {
		return models.Event{}, dupErr("event", e.ID)
	}
	return e.Clone(), nil
}

func (s *Store) UpdateEvent(ctx context.Context, e models.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.events.replace(e); err != nil {
		return missingErr("event", e.ID)
	}
	return nil
}

/* ------------------------------ relationships ----------------------------- */

func (s *Store) ListRelationships(ctx context.Context) ([]models.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.relationships.list(), nil
}

func (s *Store) GetRelationship(ctx context.Context, id string) (*models.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.relationships.get(id), nil
}

func (s *Store) AddRelationship(ctx context.Context, r models.Relationship) (models.Relationship, error) {
	r, err := dataservice.PrepareRelationship(r, s.newID)
	if err != nil {
		return models.Relationship{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.relationships.insert(r); err != nil {
		return models.Relationship{}, dupErr("relationship", r.ID)
	}
	return r, nil
}

/* -------------------------------- migration ------------------------------- */

// Migrate is a no-op: the local store already holds the seed data.
func (s *Store) Migrate(ctx context.Context) (dataservice.MigrationReport, error) {
	report := dataservice.MigrationReport{}
	for _, k := range dataservice.Kinds() {
		report[k] = 0
	}
	return report, nil
}

// MigrateKind is a no-op that still rejects unknown kinds.
func (s *Store) MigrateKind(ctx context.Context, kind dataservice.Kind) (int, error) {
	if _, err := dataservice.ParseKind(string(kind)); err != nil {
		return 0, err
	}
	return 0, nil
}
