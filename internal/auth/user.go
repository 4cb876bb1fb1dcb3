// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Gender values recognized by the avatar derivation. Any value other than
// GenderMale selects the female avatar template; this mirrors the upstream
// behavior and is deliberately not tightened into an enum check.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Avatar URL templates, keyed on gender. The username is interpolated as a
// query parameter so the avatar service returns a stable image per user.
const (
	maleAvatarTemplate   = "https://avatar.iran.liara.run/public/boy?username="
	femaleAvatarTemplate = "https://avatar.iran.liara.run/public/girl?username="
)

// User represents a chat account. PasswordHash always holds a bcrypt hash,
// never the plaintext.
type User struct {
	ID           ulid.ULID
	Username     string
	FullName     string
	PasswordHash string
	Gender       string
	ProfilePic   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public projection of a User. It is what the HTTP layer
// returns; the password hash never leaves the service boundary.
type Profile struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID.String(),
		FullName:   u.FullName,
		Username:   u.Username,
		ProfilePic: u.ProfilePic,
	}
}

// DeriveAvatarURL returns the default profile picture URL for a username
// and gender. "male" selects the male template; every other value selects
// the female template.
func DeriveAvatarURL(username, gender string) string {
	if gender == GenderMale {
		return maleAvatarTemplate + username
	}
	return femaleAvatarTemplate + username
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. Returns ErrUsernameTaken (wrapped) when the
	// username unique constraint is violated.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByUsername retrieves a user by exact username match.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// List retrieves all users except the one identified by exclude,
	// ordered by username.
	List(ctx context.Context, exclude ulid.ULID) ([]*User, error)
}
