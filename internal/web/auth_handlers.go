// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package web

import (
	"encoding/json"
	"net/http"

	"github.com/banterchat/banter/internal/auth"
)

func (rt *Router) handleSignup(w http.ResponseWriter, req *http.Request) {
	var params auth.SignupParams
	if err := json.NewDecoder(req.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, token, err := rt.auth.Signup(req.Context(), params)
	if err != nil {
		writeServiceError(w, rt.logger, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.SignupsTotal.Inc()
	}
	http.SetCookie(w, rt.issuer.SessionCookie(token, rt.opts.SecureCookies))
	writeJSON(w, http.StatusCreated, user.Profile())
}

func (rt *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, token, err := rt.auth.Login(req.Context(), payload.Username, payload.Password)
	if err != nil {
		if rt.metrics != nil {
			rt.metrics.LoginsTotal.WithLabelValues("failed").Inc()
		}
		writeServiceError(w, rt.logger, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.LoginsTotal.WithLabelValues("ok").Inc()
	}
	http.SetCookie(w, rt.issuer.SessionCookie(token, rt.opts.SecureCookies))
	writeJSON(w, http.StatusOK, user.Profile())
}

func (rt *Router) handleLogout(w http.ResponseWriter, _ *http.Request) {
	// Stateless sessions: clearing the cookie is the whole logout. The token
	// itself stays valid until expiry.
	http.SetCookie(w, auth.ClearedSessionCookie(rt.opts.SecureCookies))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (rt *Router) handleMe(w http.ResponseWriter, req *http.Request) {
	user, ok := userFromContext(req.Context())
	if !ok {
		rt.logger.Error("auth context missing", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user.Profile())
}
