// Package remotestore is the MongoDB-backed dataservice.Service. It
// composes the per-collection stores, applies the configured timeouts to
// every call, and owns the seed migrator.
package remotestore

import (
	"context"
	"time"

	eventstore "github.com/dalemusser/photoshare/internal/app/store/events"
	groupstore "github.com/dalemusser/photoshare/internal/app/store/groups"
	poststore "github.com/dalemusser/photoshare/internal/app/store/posts"
	relationshipstore "github.com/dalemusser/photoshare/internal/app/store/relationships"
	userstore "github.com/dalemusser/photoshare/internal/app/store/users"

	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"github.com/dalemusser/photoshare/internal/app/store/seed"
	"github.com/dalemusser/photoshare/internal/app/system/migrate"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Store struct {
	Users         *userstore.Store
	Posts         *poststore.Store
	Groups        *groupstore.Store
	Events        *eventstore.Store
	Relationships *relationshipstore.Store

	migrator *migrate.Migrator
	log      *zap.Logger
}

var _ dataservice.Service = (*Store)(nil)

// Options tunes New. The zero value migrates the default seed dataset.
type Options struct {
	Seed               *seed.Dataset
	MigrateConcurrency int
}

// New builds the remote store over db.
func New(db *mongo.Database, log *zap.Logger, opts Options) *Store {
	s := &Store{
		Users:         userstore.New(db),
		Posts:         poststore.New(db),
		Groups:        groupstore.New(db),
		Events:        eventstore.New(db),
		Relationships: relationshipstore.New(db),
		log:           log,
	}

	d := seed.Default()
	if opts.Seed != nil {
		d = opts.Seed.Clone()
	}
	m := migrate.New(log.Named("migrate"), opts.MigrateConcurrency)
	migrate.Register(m, dataservice.KindEvents, d.Events, func(e models.Event) string { return e.ID }, s.Events)
	migrate.Register(m, dataservice.KindGroups, d.Groups, func(g models.Group) string { return g.ID }, s.Groups)
	migrate.Register(m, dataservice.KindRelationships, d.Relationships, func(r models.Relationship) string { return r.ID }, s.Relationships)
	migrate.Register(m, dataservice.KindUsers, d.Users, func(u models.User) string { return u.ID }, s.Users)
	migrate.Register(m, dataservice.KindPosts, d.Posts, func(p models.Post) string { return p.ID }, s.Posts)
	s.migrator = m
	return s
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func (s *Store) read(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeouts.Read())
}

func (s *Store) write(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeouts.Write())
}

/* ---------------------------------- users --------------------------------- */

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := s.read(ctx)
	defer cancel()
	return s.Users.List(ctx)
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := s.read(ctx)
	defer cancel()
	return s.Users.GetByID(ctx, id)
}

func (s *Store) AddUser(ctx context.Context, u models.User) (models.User, error) {
	u, err := dataservice.PrepareUser(u, newID)
	if err != nil {
		return models.User{}, err
	}
	ctx, cancel := s.write(ctx)
	defer cancel()
	return s.Users.Create(ctx, u)
}

/* ---------------------------------- posts --------------------------------- */

func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	ctx, cancel := s.read(ctx)
	defer cancel()
	return s.Posts.List(ctx)
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	ctx, cancel := s.read(ctx)
	defer cancel()
	return s.Posts.GetByID(ctx, id)
}

func (s *Store) CreatePost(ctx context.Context, p models.Post) (models.Post, error) {
	p, err := dataservice.PreparePost(p, newID)
	if err != nil {
		return models.Post{}, err
	}
	ctx, cancel := s.write(ctx)
	defer cancel()
	return s.Posts.Create(ctx, p)
}

func (s *Store) UpdatePost(ctx context.Context, p models.Post) error {
	if err := p.Validate(); err != nil {
		return err
	}
	ctx, cancel := s.write(ctx)
	defer cancel()
	return s.Posts.Replace(ctx, p)
}

/* --------------------------------- groups --------------------------------- */

func (s *Store) ListGroups(ctx context.Context) ([]models.Group, error) {
	ctx, cancel := s.read(ctx)
	defer cancel()
	return s.Groups.List(ctx)
}

func (s *Store) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	ctx, cancel := s.read(ctx)
	defer cancel()
	return s.Groups.GetByID(ctx, id)
}

func (s *Store) AddGroup(ctx context.Context, g models.Group) (models.Group, error) {
	g, err := dataservice.PrepareGroup(g, newID)
	if err != nil {
		return models.Group{}, err
	}
	ctx, cancel := s.write(ctx)
	defer cancel()
	return s.Groups.Create(ctx, g)
}

func (s *Store) UserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	ctx, cancel := s.read(ctx)
	defer cancel()
	return s.Groups.ListByMember(ctx, userID)
}

/* --------------------------------- events --------------------------------- */

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	ctx, cancel := s.read(ctx)
	defer cancel()
	return s.Events.List(ctx)
}

func (s *Store) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	ctx, cancel := s.read(ctx)
	defer cancel()
	return s.Events.GetByID(ctx, id)
}

func (s *Store) CreateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	e, err := dataservice.PrepareEvent(e, newID)
	if err != nil {
		return models.Event{}, err
	}
	ctx, cancel := s.write(ctx)
	defer cancel()
	return s.Events.Create(ctx, e)
}

func (s *Store) UpdateEvent(ctx context.Context, e models.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	ctx, cancel := s.write(ctx)
	defer cancel()
	return s.Events.Replace(ctx, e)
}

/* ------------------------------ relationships ----------------------------- */

func (s *Store) ListRelationships(ctx context.Context) ([]models.Relationship, error) {
	ctx, cancel := s.read(ctx)
	defer cancel()
	return s.Relationships.List(ctx)
}

func (s *Store) GetRelationship(ctx context.Context, id string) (*models.Relationship, error) {
	ctx, cancel := s.read(ctx)
	defer cancel()
	return s.Relationships.GetByID(ctx, id)
}

func (s *Store) AddRelationship(ctx context.Context, r models.Relationship) (models.Relationship, error) {
	r, err := dataservice.PrepareRelationship(r, newID)
	if err != nil {
		return models.Relationship{}, err
	}
	ctx, cancel := s.write(ctx)
	defer cancel()
	return s.Relationships.Create(ctx, r)
}

/* -------------------------------- migration ------------------------------- */

func (s *Store) Migrate(ctx context.Context) (dataservice.MigrationReport, error) {
	start := time.Now()
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Migrate(), s.log, "migrate all")
	defer cancel()
	report, err := s.migrator.Run(ctx)
	s.log.Debug("migrate all", zap.Duration("took", time.Since(start)))
	return report, err
}

func (s *Store) MigrateKind(ctx context.Context, kind dataservice.Kind) (int, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Migrate(), s.log, "migrate "+string(kind))
	defer cancel()
	return s.migrator.RunKind(ctx, kind)
}
