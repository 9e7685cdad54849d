package model

import "time"

// Session is a server-side login record. The session ID travels inside
// the signed auth token's "jti" claim; deleting the row revokes the
// login even though the token itself is still cryptographically valid.
type Session struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
}
