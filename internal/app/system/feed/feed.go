// Package feed decides which posts a user sees.
package feed

import (
	"context"
	"sort"
	"time"

	"github.com/dalemusser/photoshare/internal/domain/models"
)

// Source is the read side of the data service the feed needs.
type Source interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListRelationships(ctx context.Context) ([]models.Relationship, error)
}

// Audience is what one viewer belongs to.
type Audience struct {
	UserID  string
	groups  map[string]bool
	events  map[string]bool
	blocked map[string]bool // users either side has blocked
}

// NewAudience builds the audience for userID from the store.
func NewAudience(ctx context.Context, src Source, userID string) (Audience, error) {
	a := Audience{
		UserID:  userID,
		groups:  map[string]bool{},
		events:  map[string]bool{},
		blocked: map[string]bool{},
	}
	if userID == "" {
		return a, nil
	}

	groups, err := src.ListGroups(ctx)
	if err != nil {
		return Audience{}, err
	}
	for _, g := range groups {
		if g.HasMember(userID) {
			a.groups[g.ID] = true
		}
	}

	events, err := src.ListEvents(ctx)
	if err != nil {
		return Audience{}, err
	}
	for _, e := range events {
		if e.HasParticipant(userID) {
			a.events[e.ID] = true
		}
	}

	rels, err := src.ListRelationships(ctx)
	if err != nil {
		return Audience{}, err
	}
	for _, r := range rels {
		if r.Status != models.RelationshipBlocked {
			continue
		}
		switch userID {
		case r.UserID:
			a.blocked[r.TargetUserID] = true
		case r.TargetUserID:
			a.blocked[r.UserID] = true
		}
	}
	return a, nil
}

// InGroup reports whether the viewer is a member of groupID.
func (a Audience) InGroup(groupID string) bool { return a.groups[groupID] }

// InEvent reports whether the viewer participates in eventID.
func (a Audience) InEvent(eventID string) bool { return a.events[eventID] }

// CanSee reports whether the viewer may see p, ignoring expiry.
//
// Authors always see their own posts. A block in either direction hides
// everything else. Public posts are open, group posts need membership,
// event posts need participation.
func (a Audience) CanSee(p models.Post) bool {
	if a.UserID != "" && p.UserID == a.UserID {
		return true
	}
	if a.blocked[p.UserID] {
		return false
	}
	switch p.Visibility {
	case models.VisibilityPublic:
		return true
	case models.VisibilityPrivate:
		return a.groups[models.Deref(p.GroupID)]
	case models.VisibilityEvent:
		return a.events[models.Deref(p.EventID)]
	}
	return false
}

// Unexpired keeps the posts still live at now, preserving order.
func Unexpired(posts []models.Post, now time.Time) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if !p.IsExpired(now) {
			out = append(out, p)
		}
	}
	return out
}

// Filter keeps the posts a is allowed to see.
func (a Audience) Filter(posts []models.Post) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if a.CanSee(p) {
			out = append(out, p)
		}
	}
	return out
}

// Newest sorts posts newest first; ties break on id for stable output.
func Newest(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID < posts[j].ID
	})
}

// Options narrows a feed.
type Options struct {
	GroupID        string
	EventID        string
	AuthorID       string
	IncludeExpired bool
	Limit          int
}

// For returns the posts userID may see at now, newest first.
func For(ctx context.Context, src Source, userID string, now time.Time, opts Options) ([]models.Post, error) {
	aud, err := NewAudience(ctx, src, userID)
	if err != nil {
		return nil, err
	}
	posts, err := src.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	if !opts.IncludeExpired {
		posts = Unexpired(posts, now)
	}
	posts = aud.Filter(posts)

	out := posts[:0]
	for _, p := range posts {
		switch {
		case opts.GroupID != "" && models.Deref(p.GroupID) != opts.GroupID:
		case opts.EventID != "" && models.Deref(p.EventID) != opts.EventID:
		case opts.AuthorID != "" && p.UserID != opts.AuthorID:
		default:
			out = append(out, p)
		}
	}
	Newest(out)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}
