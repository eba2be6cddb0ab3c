// Package dataservice defines the storage contract shared by the local
// in-memory store and the remote document store.
//
// Conventions every implementation follows:
//   - Get* returns (nil, nil) when the id is unknown.
//   - Create/Add validate, synthesize an id when the record has none, and
//     return the stored record. A taken id is apperr.ErrDuplicate.
//   - Update* replaces the whole record; an unknown id is apperr.ErrNotFound.
//   - Remote failures wrap apperr.ErrBackend; they are never turned into
//     empty results.
package dataservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
)

// Service is the full data-access capability set.
type Service interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	AddUser(ctx context.Context, u models.User) (models.User, error)

	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, p models.Post) (models.Post, error)
	UpdatePost(ctx context.Context, p models.Post) error

	ListGroups(ctx context.Context) ([]models.Group, error)
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	AddGroup(ctx context.Context, g models.Group) (models.Group, error)
	UserGroups(ctx context.Context, userID string) ([]models.Group, error)

	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	CreateEvent(ctx context.Context, e models.Event) (models.Event, error)
	UpdateEvent(ctx context.Context, e models.Event) error

	ListRelationships(ctx context.Context) ([]models.Relationship, error)
	GetRelationship(ctx context.Context, id string) (*models.Relationship, error)
	AddRelationship(ctx context.Context, r models.Relationship) (models.Relationship, error)

	// Migrate copies every seed record the store lacks into it.
	Migrate(ctx context.Context) (MigrationReport, error)
	// MigrateKind does the same for one collection and returns the number
	// of records written.
	MigrateKind(ctx context.Context, kind Kind) (int, error)
}

// Kind names one collection.
type Kind string

const (
	KindEvents        Kind = "events"
	KindGroups        Kind = "groups"
	KindRelationships Kind = "relationships"
	KindUsers         Kind = "users"
	KindPosts         Kind = "posts"
)

// Kinds returns every collection in migration order.
func Kinds() []Kind {
	return []Kind{KindEvents, KindGroups, KindRelationships, KindUsers, KindPosts}
}

// ParseKind accepts a collection name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", apperr.Validation("unknown collection %q", s)
}

// MigrationReport counts the records written per collection.
type MigrationReport map[Kind]int

// Total is the number of records written across all collections.
func (r MigrationReport) Total() int {
	n := 0
	for _, v := range r {
		n += v
	}
	return n
}

// Mode selects the Service implementation at composition time.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// ParseMode maps a config value to a Mode; empty means remote.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeRemote:
		return ModeRemote, nil
	case ModeLocal:
		return ModeLocal, nil
	}
	return "", fmt.Errorf("data mode must be %q or %q, got %q", ModeRemote, ModeLocal, s)
}
