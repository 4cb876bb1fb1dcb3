// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned by UserRepository.Create when the username
// unique constraint is violated. Uniqueness is enforced by the database,
// not by a check-then-insert sequence, so concurrent signups for the same
// username cannot both succeed.
var ErrUsernameTaken = errors.New("username already exists")
