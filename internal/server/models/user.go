package models

import "time"

// User is a registered author. PasswordHash is a bcrypt hash and is never
// serialized.
type User struct {
	ID           string    `json:"id"`
	UserName     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
