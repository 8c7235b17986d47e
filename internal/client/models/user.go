// Package models defines the data shapes exchanged with the blog backend.
package models

// User is the client's cached snapshot of the authenticated user's profile.
// The authoritative copy lives on the backend; this is mutated only by
// successful backend responses.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	IsAdmin   bool   `json:"isAdmin,omitempty"`
}
