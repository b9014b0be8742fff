package models

import "time"

type User struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the authenticated identity plus the bearer token sent with
// every API request.
type Session struct {
	User  User
	Token string
}
