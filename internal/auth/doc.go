// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

// Package auth provides authentication primitives for Banter.
//
// # Domain Types
//
// User records should be created through Service.Signup, which validates
// input, hashes the password, and derives the default avatar. Direct struct
// initialization bypasses validation and may create invalid state.
//
// # Services
//
// Service coordinates the signup and login flows over a UserRepository,
// a PasswordHasher, and a TokenIssuer. It is the sole writer of User
// records. Session tokens are stateless JWTs carried in an HTTP-only
// cookie; logout is a cookie-level operation handled at the HTTP boundary.
package auth
