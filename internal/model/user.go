package model

import "github.com/google/uuid"

// User is a directory record for clients and veterinarians. It is read-only
// in this system and used only to enrich outward-facing payloads.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
}

// FullName returns the display name used in emails and day views.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
