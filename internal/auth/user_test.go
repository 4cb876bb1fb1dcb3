// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package auth_test

import (
	"encoding/json"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banterchat/banter/internal/auth"
)

func TestDeriveAvatarURL(t *testing.T) {
	tests := []struct {
		name     string
		gender   string
		expected string
	}{
		{"male", auth.GenderMale, "https://avatar.iran.liara.run/public/boy?username=alice"},
		{"female", auth.GenderFemale, "https://avatar.iran.liara.run/public/girl?username=alice"},
		{"unrecognized falls through to female", "nonbinary", "https://avatar.iran.liara.run/public/girl?username=alice"},
		{"empty falls through to female", "", "https://avatar.iran.liara.run/public/girl?username=alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.DeriveAvatarURL("alice", tt.gender))
		})
	}
}

func TestUser_Profile(t *testing.T) {
	user := &auth.User{
		ID:           ulid.Make(),
		Username:     "alice",
		FullName:     "Alice A",
		PasswordHash: "$2a$10$secret",
		Gender:       auth.GenderFemale,
		ProfilePic:   "https://avatar.iran.liara.run/public/girl?username=alice",
	}

	profile := user.Profile()
	assert.Equal(t, user.ID.String(), profile.ID)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "Alice A", profile.FullName)
	assert.Equal(t, user.ProfilePic, profile.ProfilePic)

	// The JSON projection must never leak the password hash.
	data, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "password")
}
