// internal/domain/models/account.go
package models

import "time"

// Auth providers an Account can be linked to.
const (
	ProviderPassword  = "password"
	ProviderGoogle    = "google"
	ProviderAnonymous = "anonymous"
)

// Account holds sign-in credentials for a User. ID equals the User's id.
type Account struct {
	ID              string    `bson:"_id" json:"id"`
	Email           string    `bson:"email,omitempty" json:"email,omitempty"`
	EmailCI         string    `bson:"email_ci,omitempty" json:"-"` // case-folded, unique when set
	PasswordHash    string    `bson:"password_hash,omitempty" json:"-"`
	Provider        string    `bson:"provider" json:"provider"`
	ProviderSubject string    `bson:"provider_subject,omitempty" json:"-"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}

// Clone returns a copy; Account has no reference fields.
func (a Account) Clone() Account {
	return a
}
