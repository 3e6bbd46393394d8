// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash is tagged `json:"-"` so it can never leak through any JSON
// response, no matter which handler serializes the struct. Email is included
// only in responses the account owner sees (register/login/me); public
// surfaces use PublicUser instead.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the shape of a user embedded in posts, comments, and
// profile pages — identity fields only, no email.
type PublicUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the user's public projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

// Profile is the public profile payload served by GET /api/users/{id}.
type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	PostCount int       `json:"post_count"`
}
