// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash holds the bcrypt hash of the user's password and must never
// leave the server — the `json:"-"` tag makes encoding/json skip it entirely,
// so it cannot accidentally appear in an API response.
//
// Email is optional. The empty string means "not provided"; uniqueness is
// only enforced for non-blank emails.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the owner summary attached to items on public views.
// It deliberately carries only fields that are safe to show to other users.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public returns the user's public summary.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}
