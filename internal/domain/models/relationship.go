// internal/domain/models/relationship.go
package models

import (
	"time"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
)

// RelationshipStatus is the state of a follow/friend link.
type RelationshipStatus string

const (
	RelationshipPending  RelationshipStatus = "pending"
	RelationshipAccepted RelationshipStatus = "accepted"
	RelationshipBlocked  RelationshipStatus = "blocked"
)

// Relationship links a source user to a target user.
type Relationship struct {
	ID           string             `bson:"_id" json:"id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	TargetUserID string             `bson:"target_user_id" json:"target_user_id"`
	Status       RelationshipStatus `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// NewRelationship builds a relationship; an empty status means pending.
func NewRelationship(id, userID, targetUserID string, status RelationshipStatus, now time.Time) Relationship {
	if status == "" {
		status = RelationshipPending
	}
	return Relationship{
		ID:           id,
		UserID:       userID,
		TargetUserID: targetUserID,
		Status:       status,
		CreatedAt:    now.UTC(),
	}
}

func (r Relationship) Validate() error {
	if r.UserID == "" || r.TargetUserID == "" {
		return apperr.Validation("relationship needs both users")
	}
	if r.UserID == r.TargetUserID {
		return apperr.Validation("a user cannot have a relationship with themselves")
	}
	switch r.Status {
	case RelationshipPending, RelationshipAccepted, RelationshipBlocked:
	default:
		return apperr.Validation("unknown relationship status %q", r.Status)
	}
	return nil
}

// Clone returns a copy; Relationship has no reference fields.
func (r Relationship) Clone() Relationship {
	return r
}
