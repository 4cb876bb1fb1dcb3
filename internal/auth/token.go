// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "jwt"

// DefaultTokenTTL bounds session validity when no TTL is configured.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the JWT payload for a session token.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer creates and verifies signed session tokens. It is a pure
// function of (user id, current time, secret); no state is kept server-side,
// so a token stays valid until its expiry regardless of later events.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("token secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime. The session cookie max-age
// must match it.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token binding the user id and an expiry.
func (i *TokenIssuer) Issue(userID ulid.ULID) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "banter",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Parse verifies a token's signature and expiry and returns the user id
// it was bound to.
func (i *TokenIssuer) Parse(tokenString string) (ulid.ULID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, oops.Code("AUTH_TOKEN_INVALID").Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return ulid.ULID{}, oops.Code("AUTH_TOKEN_INVALID").Wrap(err)
	}
	if !token.Valid {
		return ulid.ULID{}, oops.Code("AUTH_TOKEN_INVALID").Errorf("token is invalid")
	}
	userID, err := ulid.Parse(claims.Subject)
	if err != nil {
		return ulid.ULID{}, oops.Code("AUTH_TOKEN_INVALID").
			With("subject", claims.Subject).
			Wrap(err)
	}
	return userID, nil
}

// SessionCookie builds the HTTP-only cookie carrying a session token. The
// max-age matches the token TTL.
func (i *TokenIssuer) SessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(i.ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearedSessionCookie builds a cookie that immediately expires the session
// client-side. No server-side invalidation happens; the token itself stays
// valid until its expiry.
func ClearedSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
