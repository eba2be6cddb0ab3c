// internal/domain/models/group.go
package models

import (
	"strings"
	"time"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
)

// Group is a named circle of users that posts can target.
//
// NOTE:
//   - Members always contains CreatorID. NewGroup seeds it and
//     EnsureCreatorMember repairs records built by hand.
//   - Visibility is public or private; "event" is reserved for posts.
type Group struct {
	ID           string     `bson:"_id" json:"id"`
	Name         string     `bson:"name" json:"name"`
	Description  string     `bson:"description" json:"description"`
	CreatorID    string     `bson:"creator_id" json:"creator_id"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	Members      []string   `bson:"members" json:"members"`
	Visibility   Visibility `bson:"visibility" json:"visibility"`
	GroupPicture *string    `bson:"group_picture,omitempty" json:"group_picture,omitempty"`
}

// NewGroup builds a group whose only member is its creator. An empty
// visibility defaults to public.
func NewGroup(id, name, description, creatorID string, visibility Visibility, now time.Time) Group {
	if visibility == "" {
		visibility = VisibilityPublic
	}
	return Group{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatorID:   creatorID,
		CreatedAt:   now.UTC(),
		Members:     []string{creatorID},
		Visibility:  visibility,
	}
}

// HasMember reports whether userID is in the member list.
func (g Group) HasMember(userID string) bool {
	return containsID(g.Members, userID)
}

// EnsureCreatorMember puts the creator at the front of Members when missing.
func (g *Group) EnsureCreatorMember() {
	if g.CreatorID == "" || g.HasMember(g.CreatorID) {
		return
	}
	g.Members = append([]string{g.CreatorID}, g.Members...)
}

// Validate checks the group invariants.
func (g Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return apperr.Validation("group name is required")
	}
	if g.CreatorID == "" {
		return apperr.Validation("group creator is required")
	}
	if !g.HasMember(g.CreatorID) {
		return apperr.Validation("group creator must be a member")
	}
	if g.Visibility != VisibilityPublic && g.Visibility != VisibilityPrivate {
		return apperr.Validation("group visibility must be public or private")
	}
	return nil
}

// Clone returns a deep copy.
func (g Group) Clone() Group {
	g.Members = cloneIDs(g.Members)
	g.GroupPicture = cloneString(g.GroupPicture)
	return g
}
