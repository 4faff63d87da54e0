package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents an application user (a "profile" row). PasswordHash is
// only populated by the user repository's auth lookups and never serialized.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	FirstName    string
	LastName     string
	Title        *string
	AvatarURL    *string
	Role         UserRole
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UnknownUserName is the display name used when an actor or referenced user
// cannot be resolved against the user directory.
const UnknownUserName = "Unknown User"

// DisplayName returns the best human-facing name for the user:
// "First Last", else username, else email, else "Unknown User".
func (u User) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full != "" {
		return full
	}
	if u.Username != "" {
		return u.Username
	}
	if u.Email != "" {
		return u.Email
	}
	return UnknownUserName
}
