// Package model defines the data structures used throughout the application.
package model

import "time"

// User is a collaborator profile derived from the external identity
// provider. The ID is the provider's stable subject string, so the row
// is upserted by ID on every login: created the first time, and the
// mutable profile fields refreshed on each subsequent login.
//
// Email may be empty; the provider only returns it when the user has
// made it public. We use the empty string as the zero value rather than
// a nullable pointer; simpler to work with and safe to display.
type User struct {
	ID              string    `json:"id"              db:"id"`
	Email           string    `json:"email"           db:"email"`
	FirstName       string    `json:"firstName"       db:"first_name"`
	LastName        string    `json:"lastName"        db:"last_name"`
	ProfileImageURL string    `json:"profileImageUrl" db:"profile_image_url"`
	CreatedAt       time.Time `json:"createdAt"       db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt"       db:"updated_at"`
}
