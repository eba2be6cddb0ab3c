// internal/domain/models/loginhistory.go
package models

import "time"

// LoginRecord captures one successful sign-in. Records are listed newest
// first per user.
type LoginRecord struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Provider  string    `bson:"provider" json:"provider"`
	IP        string    `bson:"ip" json:"ip"`
	UserAgent string    `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Clone returns a copy; LoginRecord has no reference fields.
func (l LoginRecord) Clone() LoginRecord {
	return l
}
