// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package web

import (
	"context"
	"net/http"

	"github.com/banterchat/banter/internal/auth"
)

type contextKey string

const contextKeyUser contextKey = "banter-user"

// requireSession validates the session cookie and stashes the authenticated
// user in the request context. Requests without a valid cookie get 401.
func (rt *Router) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		cookie, err := req.Cookie(auth.SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		user, err := rt.auth.Authenticate(req.Context(), cookie.Value)
		if err != nil {
			rt.logger.Warn("session rejected", "path", req.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		ctx := context.WithValue(req.Context(), contextKeyUser, user)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// userFromContext extracts the authenticated user set by requireSession.
func userFromContext(ctx context.Context) (*auth.User, bool) {
	user, ok := ctx.Value(contextKeyUser).(*auth.User)
	return user, ok
}
