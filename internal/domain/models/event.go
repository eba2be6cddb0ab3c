// internal/domain/models/event.go
package models

import (
	"strings"
	"time"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
)

// Event is a scheduled gathering; posts published to it appear in Photos.
type Event struct {
	ID           string     `bson:"_id" json:"id"`
	Name         string     `bson:"name" json:"name"`
	Description  string     `bson:"description" json:"description"`
	CreatorID    string     `bson:"creator_id" json:"creator_id"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	StartTime    time.Time  `bson:"start_time" json:"start_time"`
	EndTime      *time.Time `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Location     string     `bson:"location" json:"location"`
	Participants []string   `bson:"participants" json:"participants"`
	Visibility   Visibility `bson:"visibility" json:"visibility"`
	GroupID      *string    `bson:"group_id,omitempty" json:"group_id,omitempty"`
	EventPicture *string    `bson:"event_picture,omitempty" json:"event_picture,omitempty"`
	Photos       []string   `bson:"photos" json:"photos"`
}

// NewEvent builds a public event whose only participant is its creator.
func NewEvent(id, name, description, creatorID string, start time.Time, now time.Time) Event {
	return Event{
		ID:           id,
		Name:         strings.TrimSpace(name),
		Description:  strings.TrimSpace(description),
		CreatorID:    creatorID,
		CreatedAt:    now.UTC(),
		StartTime:    start.UTC(),
		Participants: []string{creatorID},
		Visibility:   VisibilityPublic,
		Photos:       []string{},
	}
}

// HasParticipant reports whether userID takes part in the event.
func (e Event) HasParticipant(userID string) bool {
	return containsID(e.Participants, userID)
}

// EnsureCreatorParticipant puts the creator at the front of Participants
// when missing.
func (e *Event) EnsureCreatorParticipant() {
	if e.CreatorID == "" || e.HasParticipant(e.CreatorID) {
		return
	}
	e.Participants = append([]string{e.CreatorID}, e.Participants...)
}

// AddPhoto appends url to Photos unless it is already there.
func (e *Event) AddPhoto(url string) {
	if url == "" || containsID(e.Photos, url) {
		return
	}
	e.Photos = append(e.Photos, url)
}

// Validate checks the event invariants.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return apperr.Validation("event name is required")
	}
	if e.CreatorID == "" {
		return apperr.Validation("event creator is required")
	}
	if !e.HasParticipant(e.CreatorID) {
		return apperr.Validation("event creator must be a participant")
	}
	if e.Visibility != VisibilityPublic && e.Visibility != VisibilityPrivate {
		return apperr.Validation("event visibility must be public or private")
	}
	if e.EndTime != nil && e.EndTime.Before(e.StartTime) {
		return apperr.Validation("event cannot end before it starts")
	}
	return nil
}

// Clone returns a deep copy.
func (e Event) Clone() Event {
	if e.EndTime != nil {
		end := *e.EndTime
		e.EndTime = &end
	}
	e.Participants = cloneIDs(e.Participants)
	e.GroupID = cloneString(e.GroupID)
	e.EventPicture = cloneString(e.EventPicture)
	e.Photos = cloneIDs(e.Photos)
	return e
}
