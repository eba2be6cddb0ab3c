// internal/domain/models/user.go
package models

import (
	"strings"
	"time"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
)

// User is a member of the photo-sharing network.
//
// NOTE:
//   - Groups mirrors the group ids the user belongs to at seed time; the
//     authoritative membership list lives on Group.Members.
//   - Email is empty for anonymous sign-ins.
type User struct {
	ID             string    `bson:"_id" json:"id"`
	Username       string    `bson:"username" json:"username"`
	Email          string    `bson:"email" json:"email"`
	ProfilePicture *string   `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	Groups         []string  `bson:"groups" json:"groups"`
}

// NewUser builds a User with an empty group list.
func NewUser(id, username, email string, now time.Time) User {
	return User{
		ID:        id,
		Username:  strings.TrimSpace(username),
		Email:     strings.TrimSpace(email),
		CreatedAt: now.UTC(),
		Groups:    []string{},
	}
}

// Validate checks the fields every stored user must carry.
func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return apperr.Validation("username is required")
	}
	return nil
}

// Clone returns a deep copy.
func (u User) Clone() User {
	u.ProfilePicture = cloneString(u.ProfilePicture)
	u.Groups = cloneIDs(u.Groups)
	return u
}
