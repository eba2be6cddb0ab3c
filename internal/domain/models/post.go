// internal/domain/models/post.go
package models

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
)

const (
	// DefaultPostTTL is how long a post stays visible after publishing.
	DefaultPostTTL = 24 * time.Hour
	// MaxContentLength is the limit on post text, in characters.
	MaxContentLength = 280
)

// Post is a published photo with a caption.
//
// NOTE:
//   - Likes holds the ids of users who liked the post. The count is
//     derived (LikeCount) and emitted as like_count in JSON.
//   - Visibility is public exactly when neither GroupID nor EventID is set.
type Post struct {
	ID             string     `bson:"_id" json:"id"`
	UserID         string     `bson:"user_id" json:"user_id"`
	Content        string     `bson:"content" json:"content"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	ExpirationTime time.Time  `bson:"expiration_time" json:"expiration_time"`
	Visibility     Visibility `bson:"visibility" json:"visibility"`
	GroupID        *string    `bson:"group_id,omitempty" json:"group_id,omitempty"`
	EventID        *string    `bson:"event_id,omitempty" json:"event_id,omitempty"`
	Likes          []string   `bson:"likes" json:"likes"`
	ImageURL       *string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// Target is where a post is published: the author's profile (both ids
// empty), one group, or one event.
type Target struct {
	GroupID string `json:"group_id,omitempty"`
	EventID string `json:"event_id,omitempty"`
}

// Visibility derives the post visibility for the target.
func (t Target) Visibility() Visibility {
	switch {
	case t.EventID != "":
		return VisibilityEvent
	case t.GroupID != "":
		return VisibilityPrivate
	default:
		return VisibilityPublic
	}
}

// IsProfile reports whether the target is the author's public profile.
func (t Target) IsProfile() bool {
	return t.GroupID == "" && t.EventID == ""
}

// NewPost builds a post expiring ttl after now. A non-positive ttl uses
// DefaultPostTTL.
func NewPost(id, userID, content string, target Target, now time.Time, ttl time.Duration) Post {
	if ttl <= 0 {
		ttl = DefaultPostTTL
	}
	now = now.UTC()
	return Post{
		ID:             id,
		UserID:         userID,
		Content:        strings.TrimSpace(content),
		CreatedAt:      now,
		ExpirationTime: now.Add(ttl),
		Visibility:     target.Visibility(),
		GroupID:        StringPtr(target.GroupID),
		EventID:        StringPtr(target.EventID),
		Likes:          []string{},
	}
}

// Target returns where the post was published.
func (p Post) Target() Target {
	return Target{GroupID: Deref(p.GroupID), EventID: Deref(p.EventID)}
}

// LikeCount is the number of distinct users who liked the post.
func (p Post) LikeCount() int {
	return len(p.Likes)
}

// LikedBy reports whether userID has liked the post.
func (p Post) LikedBy(userID string) bool {
	return containsID(p.Likes, userID)
}

// ToggleLike adds userID to Likes, or removes it when already present.
// It returns true when the post is liked after the call.
func (p *Post) ToggleLike(userID string) bool {
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
			return false
		}
	}
	p.Likes = append(p.Likes, userID)
	return true
}

// IsExpired reports whether the post is past its expiration time at now.
func (p Post) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpirationTime)
}

// Validate checks the post invariants.
func (p Post) Validate() error {
	if p.UserID == "" {
		return apperr.Validation("post author is required")
	}
	if utf8.RuneCountInString(p.Content) > MaxContentLength {
		return apperr.Validation("post content is limited to %d characters", MaxContentLength)
	}
	if !p.Visibility.Valid() {
		return apperr.Validation("unknown visibility %q", p.Visibility)
	}
	hasGroup, hasEvent := p.GroupID != nil, p.EventID != nil
	if p.Visibility == VisibilityPublic {
		if hasGroup || hasEvent {
			return apperr.Validation("public posts cannot target a group or event")
		}
	} else if hasGroup == hasEvent {
		return apperr.Validation("%s posts must target exactly one group or event", p.Visibility)
	}
	if !p.ExpirationTime.After(p.CreatedAt) {
		return apperr.Validation("expiration must be later than creation")
	}
	return nil
}

// Clone returns a deep copy.
func (p Post) Clone() Post {
	p.GroupID = cloneString(p.GroupID)
	p.EventID = cloneString(p.EventID)
	p.ImageURL = cloneString(p.ImageURL)
	p.Likes = cloneIDs(p.Likes)
	return p
}

// MarshalJSON adds the derived like_count.
func (p Post) MarshalJSON() ([]byte, error) {
	type post Post
	return json.Marshal(struct {
		post
		LikeCount int `json:"like_count"`
	}{post(p), p.LikeCount()})
}
