package models

import (
	"strings"
	"time"
)

// User is a verified caller identity.
type User struct {
	ID          string    `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	DisplayName string    `db:"display_name" json:"display_name"`
	IsAdmin     bool      `db:"is_admin" json:"is_admin"`
	CreatedAt   time.Time `db:"created_at" json:"created_at,omitempty"`
}

// AuthorName returns the display name, falling back to the local part of the email.
func (u User) AuthorName() string {
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		return name
	}

	local, _, _ := strings.Cut(u.Email, "@")

	return local
}
